package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stylo/mediaquery"
)

func newMediaCmd() *cobra.Command {
	var viewportSpec string
	cmd := &cobra.Command{
		Use:   "media <query>",
		Short: "evaluate a @media condition against a viewport",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vp := mediaquery.Viewport{
				WidthPx: 1024, HeightPx: 768, DevicePixelRatio: 1,
				Orientation: "landscape", ColorBits: 8, ResolutionDPI: 96,
				ColorScheme: "light", PointerCapability: "fine", HoverCapability: true,
			}
			if viewportSpec != "" {
				parsed, err := parseViewportSpec(viewportSpec)
				if err != nil {
					return err
				}
				vp = parsed
			}
			list, err := mediaquery.Parse(args[0])
			if err != nil {
				return fmt.Errorf("parsing media query: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%v\n", list.Matches(vp))
			return nil
		},
	}
	cmd.Flags().StringVar(&viewportSpec, "viewport", "", "viewport as WIDTHxHEIGHT, e.g. 1280x800")
	return cmd
}
