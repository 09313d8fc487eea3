package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/luacore/vm/library"
	"github.com/luacore/vm/value"
	vmpkg "github.com/luacore/vm/vm"
)

func main() {
	root := &cobra.Command{
		Use:   "luavm",
		Short: "Run compiled Lua bytecode chunks",
	}

	var verbose bool
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	run := &cobra.Command{
		Use:   "run <chunk.json> [args...]",
		Short: "Load a JSON bytecode chunk and run it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				logger, err := zap.NewDevelopment()
				if err != nil {
					return fmt.Errorf("build logger: %w", err)
				}
				vmpkg.SetLogger(logger)
			}
			return runChunk(args[0], args[1:])
		},
	}

	repl := &cobra.Command{
		Use:   "repl <chunk.json>",
		Short: "Launch the interactive debugger TUI for a chunk",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return fmt.Errorf("repl requires an interactive terminal on stdout")
			}
			return runInteractive(args[0])
		},
	}

	root.AddCommand(run, repl)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func runChunk(path string, rawArgs []string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	m := vmpkg.New()
	block, err := m.LoadChunk(data)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}

	args := make([]value.Value, len(rawArgs))
	for i, a := range rawArgs {
		args[i] = m.Interp.StringValue(a)
	}

	results, err := m.Run(block, args)
	if err != nil {
		return fmt.Errorf("run %s: %w", path, err)
	}

	for _, r := range results {
		fmt.Println(library.DisplayString(m.Interp, r))
	}
	return nil
}
