// Package cli provides the command-line interface for bounded.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// Execute builds the root command and runs it with the process
// arguments, exiting non-zero on failure.
func Execute() {
	err := NewRootCmd().Execute()
	if err != nil {
		os.Exit(1)
	}
}

// NewRootCmd returns the base command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:   "bounded",
		Short: "Run operations against fixed-capacity arrays and inspect their snapshots.",
		Long: `bounded runs YAML scripts of bounded array operations (append, resize, ` +
			`slice, ...) and reports what each step did. Final arrays can be saved ` +
			`as CBOR snapshots and examined later with "bounded inspect".`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn",
		"log level: debug, info, warn or error")

	newLogger := func(cmd *cobra.Command) (*slog.Logger, error) {
		var level slog.Level
		if err := level.UnmarshalText([]byte(logLevel)); err != nil {
			return nil, err
		}
		handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
			Level: level,
		})
		return slog.New(handler), nil
	}

	rootCmd.AddCommand(newRunCmd(newLogger), newInspectCmd())
	return rootCmd
}
