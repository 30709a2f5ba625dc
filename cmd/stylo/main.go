// Command stylo drives the style engine from the shell: feed it an HTML
// document and one or more stylesheets, get back the computed style of
// every element, rendered as an indented tree.
package main

import (
	"fmt"
	"os"

	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
)

func configureTracing(level string) {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := &testconfig.Conf{}
	conf.Set("tracing", "go")
	conf.Set("trace.stylo", level)
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Fprintln(os.Stderr, "tracing setup:", err)
		return
	}
	tracing.SetTraceSelector(trace2go.Selector())
}

func main() {
	configureTracing("Error")
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
