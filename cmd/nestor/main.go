package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

func init() {
	// SDL wants the main thread.
	runtime.LockOSThread()
}

func main() {
	root := &cobra.Command{
		Use:           "nestor",
		Short:         "A cycle-accurate NES emulator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(runCmd())
	root.AddCommand(infoCmd())
	root.AddCommand(nametablesCmd())
	root.AddCommand(patternsCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
