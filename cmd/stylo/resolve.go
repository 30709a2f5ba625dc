package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/net/html"

	"stylo/cascade"
	"stylo/domiface/htmladapter"
	"stylo/engine"
	"stylo/mediaquery"
	"stylo/styledtree"
)

func newResolveCmd() *cobra.Command {
	var cssFiles []string
	var viewportSpec string
	var parallel bool
	var dumpProps bool

	cmd := &cobra.Command{
		Use:   "resolve <document.html>",
		Short: "compute styles for every element in an HTML document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			htmlSrc, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading document: %w", err)
			}
			doc, err := html.Parse(strings.NewReader(string(htmlSrc)))
			if err != nil {
				return fmt.Errorf("parsing document: %w", err)
			}
			root := findDocumentElement(doc)
			if root == nil {
				return fmt.Errorf("document has no element nodes")
			}

			opts := []engine.Option{}
			if viewportSpec != "" {
				vp, err := parseViewportSpec(viewportSpec)
				if err != nil {
					return err
				}
				opts = append(opts, engine.WithViewport(vp))
			}
			if parallel {
				opts = append(opts, engine.WithParallelism(true))
			}
			eng, err := engine.New(opts...)
			if err != nil {
				return fmt.Errorf("creating engine: %w", err)
			}
			for _, path := range cssFiles {
				src, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("reading stylesheet %s: %w", path, err)
				}
				if _, err := eng.ParseStylesheet(string(src), cascade.Author, path); err != nil {
					return fmt.Errorf("parsing stylesheet %s: %w", path, err)
				}
			}

			tree, err := eng.ComputeStyles(htmladapter.Wrap(root, 0))
			if err != nil {
				return fmt.Errorf("computing styles: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), styledtree.Dump(tree))
			if dumpProps {
				printAllProperties(cmd, tree)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d stylesheet(s), %d cached bundle(s), hit rate %.2f\n",
				eng.StylesheetCount(), eng.CacheSize(), eng.HitRate())
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&cssFiles, "stylesheet", "s", nil, "stylesheet file to apply (repeatable)")
	cmd.Flags().StringVar(&viewportSpec, "viewport", "", "viewport as WIDTHxHEIGHT, e.g. 1280x800")
	cmd.Flags().BoolVar(&parallel, "parallel", false, "resolve sibling subtrees concurrently")
	cmd.Flags().BoolVar(&dumpProps, "props", false, "print every resolved property per element")
	return cmd
}

func findDocumentElement(n *html.Node) *html.Node {
	if n.Type == html.ElementNode {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findDocumentElement(c); found != nil {
			return found
		}
	}
	return nil
}

func parseViewportSpec(spec string) (mediaquery.Viewport, error) {
	parts := strings.SplitN(spec, "x", 2)
	if len(parts) != 2 {
		return mediaquery.Viewport{}, fmt.Errorf("invalid viewport %q, want WIDTHxHEIGHT", spec)
	}
	w, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return mediaquery.Viewport{}, fmt.Errorf("invalid viewport width: %w", err)
	}
	h, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return mediaquery.Viewport{}, fmt.Errorf("invalid viewport height: %w", err)
	}
	return mediaquery.Viewport{
		WidthPx: w, HeightPx: h, DevicePixelRatio: 1,
		Orientation: orientationOf(w, h), ColorBits: 8, ResolutionDPI: 96,
		ColorScheme: "light", PointerCapability: "fine", HoverCapability: true,
	}, nil
}

func orientationOf(w, h float64) string {
	if w >= h {
		return "landscape"
	}
	return "portrait"
}
