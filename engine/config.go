// Package engine is the public façade named in §6: parse_stylesheet,
// set_inline_style, compute_styles, get_computed_style, invalidate_styles,
// and the introspection trio. It wires together selector, matcher,
// cascade, mediaquery, customprop, stylist, cache, ruletree, invalidation,
// and styledtree, the way the teacher's dom/style/cssom.CSSOM.Style wires
// its own rules tree, property groups, and tree.Walker into one call.
package engine

import (
	"github.com/npillmayer/schuko/tracing"

	"stylo/mediaquery"
)

func tracer() tracing.Trace {
	return tracing.Select("stylo.engine")
}

// Config configures an Engine. Use the With* functional options with New.
type Config struct {
	Viewport         mediaquery.Viewport
	RootFontSizePx   float64
	Parallel         bool
	MaxCachedBundles int // 0 means unbounded
	UserAgentCSS     string
}

// Option configures an Engine at construction time.
type Option func(*Config)

// WithViewport sets the viewport descriptor used to gate @media rules and
// resolve vw/vh units.
func WithViewport(vp mediaquery.Viewport) Option {
	return func(c *Config) { c.Viewport = vp }
}

// WithParallelism enables the treewalk-backed parallel sibling-subtree
// resolution path described in §5.
func WithParallelism(enabled bool) Option {
	return func(c *Config) { c.Parallel = enabled }
}

// WithRootFontSize sets the root font-size used to resolve rem units.
// Defaults to 16px.
func WithRootFontSize(px float64) Option {
	return func(c *Config) { c.RootFontSizePx = px }
}

// WithUserAgentStylesheet registers a user-agent-origin stylesheet at
// construction time.
func WithUserAgentStylesheet(css string) Option {
	return func(c *Config) { c.UserAgentCSS = css }
}

// WithMaxCachedBundles bounds the computed-bundle cache; exceeding it
// surfaces ErrOutOfMemory from a subsequent compute_styles call, the
// memory-budget supplement noted in SPEC_FULL.md from the Rust prototype's
// performance targets.
func WithMaxCachedBundles(n int) Option {
	return func(c *Config) { c.MaxCachedBundles = n }
}

func defaultConfig() Config {
	return Config{
		RootFontSizePx: 16,
		Viewport: mediaquery.Viewport{
			WidthPx:           1024,
			HeightPx:          768,
			DevicePixelRatio:  1,
			Orientation:       "landscape",
			ColorBits:         8,
			ResolutionDPI:     96,
			ColorScheme:       "light",
			PointerCapability: "fine",
			HoverCapability:   true,
		},
	}
}
