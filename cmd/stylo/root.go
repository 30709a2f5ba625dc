package main

import (
	"github.com/spf13/cobra"

	"github.com/npillmayer/schuko/tracing"
)

var verbose bool

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "stylo",
		Short: "stylo resolves CSS style for an HTML document",
		Long: `stylo is a standalone driver for the style engine: it loads an
HTML document and a sequence of stylesheets, runs the cascade, and prints
the resulting computed styles.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				configureTracing("Debug")
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug tracing")
	root.AddCommand(newResolveCmd())
	root.AddCommand(newMediaCmd())
	return root
}

func tracer() tracing.Trace { return tracing.Select("stylo.cmd") }
