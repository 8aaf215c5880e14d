// Command jvmlite loads a single .class file and runs one of its
// methods: load, run, exit with a code derived from the result.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"jvmlite/internal/runtime"
	"jvmlite/internal/vm"
)

var (
	verbose bool
	debug   bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "jvmlite <class-file> [method-name]",
		Short: "Run a single .class file against the jvm-lite core interpreter",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runClass,
	}
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable development-mode logging")
	root.Flags().BoolVarP(&debug, "debug", "d", false, "print a styled summary of the loaded class and the result")
	return root
}

func runClass(cmd *cobra.Command, args []string) error {
	path := args[0]
	method := "main"
	if len(args) == 2 {
		method = args[1]
	}

	log, err := vm.NewLogger(verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	machine := vm.New(os.Stdin, os.Stdout, log, debug)

	class, err := machine.LoadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "jvmlite:", err)
		os.Exit(1)
	}

	result, hasResult, err := machine.Run(class, method)
	if err != nil {
		fmt.Fprintln(os.Stderr, "jvmlite:", err)
		os.Exit(1)
	}

	if hasResult && result.Kind == runtime.KindInt {
		os.Exit(int(result.Int32()) & 0xFF)
	}
	return nil
}
