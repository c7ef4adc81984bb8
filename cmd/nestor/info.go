package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/varick/nes/nes"
)

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <rom>",
		Short: "Print a rom's header information",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			cart, err := nes.LoadINES(f)
			if err != nil {
				return err
			}

			fmt.Printf("mapper:     %d", cart.Mapper)
			if cart.SubMapper != 0 {
				fmt.Printf(".%d", cart.SubMapper)
			}
			fmt.Println()
			fmt.Printf("prg rom:    %d KiB\n", len(cart.PRG)/1024)
			if len(cart.CHR) > 0 {
				fmt.Printf("chr rom:    %d KiB\n", len(cart.CHR)/1024)
			} else {
				fmt.Printf("chr ram:    %d KiB\n", cart.CHRRAMSize/1024)
			}
			fmt.Printf("mirroring:  %s\n", mirrorName(cart.MirrorMode))
			fmt.Printf("battery:    %v\n", cart.Battery)
			fmt.Printf("trainer:    %v\n", cart.Trainer != nil)
			fmt.Printf("rom hash:   %x\n", cart.Hash)
			return nil
		},
	}
}

func mirrorName(m nes.MirrorMode) string {
	switch m {
	case nes.Horizontal:
		return "horizontal"
	case nes.Vertical:
		return "vertical"
	case nes.SingleLower:
		return "single-screen lower"
	case nes.SingleUpper:
		return "single-screen upper"
	case nes.FourScreen:
		return "four-screen"
	}
	return "unknown"
}
