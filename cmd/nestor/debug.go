package main

import (
	"image"
	"image/png"
	"os"

	"github.com/spf13/cobra"

	"github.com/varick/nes/nes"
)

// The nametables and patterns subcommands run a rom headless for a number
// of frames and dump the ppu's view of memory to a PNG, which is usually
// all the debugging a scrolling or banking problem needs.

func nametablesCmd() *cobra.Command {
	var frames int
	var out string

	cmd := &cobra.Command{
		Use:   "nametables <rom>",
		Short: "Render the four nametables to a PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			console := nes.NewConsole(nes.NTSC, 0, nil)
			if err := console.LoadPath(args[0]); err != nil {
				return err
			}
			for i := 0; i < frames; i++ {
				console.StepFrame()
			}

			buf := make([]byte, 512*480)
			console.DrawNametables(buf)
			return writeIndexedPNG(out, buf, 512, 480)
		},
	}

	cmd.Flags().IntVar(&frames, "frames", 60, "frames to run before the dump")
	cmd.Flags().StringVarP(&out, "out", "o", "nametables.png", "output file")
	return cmd
}

func patternsCmd() *cobra.Command {
	var frames int
	var palette int
	var out string

	cmd := &cobra.Command{
		Use:   "patterns <rom>",
		Short: "Render both pattern tables to a PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			console := nes.NewConsole(nes.NTSC, 0, nil)
			if err := console.LoadPath(args[0]); err != nil {
				return err
			}
			for i := 0; i < frames; i++ {
				console.StepFrame()
			}

			buf := make([]byte, 256*128)
			console.DrawPatternTables(buf, byte(palette))
			return writeIndexedPNG(out, buf, 256, 128)
		},
	}

	cmd.Flags().IntVar(&frames, "frames", 60, "frames to run before the dump")
	cmd.Flags().IntVar(&palette, "palette", 0, "palette index to color with (0-7)")
	cmd.Flags().StringVarP(&out, "out", "o", "patterns.png", "output file")
	return cmd
}

func writeIndexedPNG(path string, indexed []byte, w, h int) error {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i, idx := range indexed {
		c := nes.Palette[idx&0x3F]
		img.Pix[i*4+0] = c.R
		img.Pix[i*4+1] = c.G
		img.Pix[i*4+2] = c.B
		img.Pix[i*4+3] = c.A
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return png.Encode(f, img)
}
