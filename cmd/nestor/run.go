package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/varick/nes/nes"
)

const (
	audioRate    = 44100
	audioSamples = 1024
)

func runCmd() *cobra.Command {
	var (
		zoom   int
		trace  bool
		record bool
		pal    bool
	)

	cmd := &cobra.Command{
		Use:   "run <rom>",
		Short: "Run a rom in an SDL window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var traceOut io.Writer
			if trace {
				traceOut = os.Stderr
			}

			region := nes.NTSC
			if pal {
				region = nes.PAL
			}

			console := nes.NewConsole(region, audioRate, traceOut)
			if err := console.LoadPath(args[0]); err != nil {
				return err
			}

			if record {
				name := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
				err := console.StartRecording(func(channel string) (io.WriteSeeker, error) {
					return os.Create(fmt.Sprintf("%s_%s.wav", name, channel))
				})
				if err != nil {
					return err
				}
				defer console.StopRecording()
			}

			return runWindow(console, zoom, filepath.Base(args[0]))
		},
	}

	cmd.Flags().IntVar(&zoom, "zoom", 3, "window scale factor")
	cmd.Flags().BoolVar(&trace, "trace", false, "write an instruction trace to stderr")
	cmd.Flags().BoolVar(&record, "record", false, "capture each audio channel to a WAV file")
	cmd.Flags().BoolVar(&pal, "pal", false, "use PAL timing")

	return cmd
}

var keymap = map[sdl.Keycode]nes.Button{
	sdl.K_z:      nes.A,
	sdl.K_x:      nes.B,
	sdl.K_RSHIFT: nes.Select,
	sdl.K_RETURN: nes.Start,
	sdl.K_UP:     nes.Up,
	sdl.K_DOWN:   nes.Down,
	sdl.K_LEFT:   nes.Left,
	sdl.K_RIGHT:  nes.Right,
}

func runWindow(console *nes.Console, zoom int, title string) error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("unable to init sdl: %w", err)
	}
	defer sdl.Quit()

	window, err := sdl.CreateWindow(title,
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(nes.FrameWidth*zoom), int32(nes.FrameHeight*zoom),
		sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE)
	if err != nil {
		return fmt.Errorf("unable to create window: %w", err)
	}
	defer window.Destroy()

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		return fmt.Errorf("unable to create renderer: %w", err)
	}
	defer renderer.Destroy()

	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_ABGR8888,
		sdl.TEXTUREACCESS_STREAMING, nes.FrameWidth, nes.FrameHeight)
	if err != nil {
		return fmt.Errorf("unable to create texture: %w", err)
	}
	defer texture.Destroy()

	spec := sdl.AudioSpec{
		Freq:     audioRate,
		Format:   sdl.AUDIO_F32SYS,
		Channels: 1,
		Samples:  audioSamples,
	}
	audio, err := sdl.OpenAudioDevice("", false, &spec, nil, 0)
	if err != nil {
		return fmt.Errorf("unable to open audio device: %w", err)
	}
	defer sdl.CloseAudioDevice(audio)
	sdl.PauseAudioDevice(audio, false)

	pixels := make([]byte, nes.FrameWidth*nes.FrameHeight*4)
	samples := console.AudioChannel()

	for {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch evt := event.(type) {
			case *sdl.QuitEvent:
				return nil
			case *sdl.KeyboardEvent:
				if evt.Keysym.Sym == sdl.K_ESCAPE {
					return nil
				}
				button, ok := keymap[evt.Keysym.Sym]
				if !ok {
					continue
				}
				if evt.Type == sdl.KEYDOWN {
					console.Press(0, button)
				} else if evt.Type == sdl.KEYUP {
					console.Release(0, button)
				}
			}
		}

		console.StepFrame()

		blitFrame(console.Buffer(), pixels)
		if err := texture.Update(nil, pixels, nes.FrameWidth*4); err != nil {
			return err
		}
		renderer.Clear()
		renderer.Copy(texture, nil, nil)
		renderer.Present()

		queueAudio(audio, samples)
	}
}

// blitFrame expands the palette-indexed framebuffer into RGBA pixels.
func blitFrame(indexed, pixels []byte) {
	for i, idx := range indexed {
		c := nes.Palette[idx&0x3F]
		pixels[i*4+0] = c.R
		pixels[i*4+1] = c.G
		pixels[i*4+2] = c.B
		pixels[i*4+3] = c.A
	}
}

// queueAudio drains whatever the mixer produced this frame into the SDL
// audio queue.
func queueAudio(dev sdl.AudioDeviceID, samples <-chan float32) {
	var buf []byte
	for {
		select {
		case s := <-samples:
			bits := math.Float32bits(s)
			buf = append(buf, byte(bits), byte(bits>>8), byte(bits>>16), byte(bits>>24))
		default:
			if len(buf) > 0 {
				sdl.QueueAudio(dev, buf)
			}
			return
		}
	}
}
