// Package douceuradapter wraps github.com/aymerick/douceur/parser to turn
// CSS source text into cascade.Rule values. It follows the shape of the
// teacher's own dom/style/cssom/douceuradapter package (a thin wrapper
// around douceur's Stylesheet/Rule/Declaration types), but converts into
// this module's selector/cascade AST instead of exposing douceur's types
// directly through a cssom.Rule interface.
package douceuradapter

import (
	"fmt"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"github.com/npillmayer/schuko/tracing"

	"stylo/cascade"
	"stylo/customprop"
	"stylo/selector"
	"stylo/value"
)

func tracer() tracing.Trace {
	return tracing.Select("stylo.cssom.douceuradapter")
}

// ParseError mirrors the engine's ParseError{line, column, message} shape
// for a stylesheet that douceur cannot tokenize at all.
type ParseError struct {
	Line, Column int
	Message      string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("css parse error at %d:%d: %s", e.Line, e.Column, e.Message)
}

// ParseRules parses source into a flat list of cascade.Rule, assigning each
// a source-order index via nextOrder. @media blocks are flattened: each
// nested rule's MediaQuery field records the block's condition text so the
// stylist can gate it through package mediaquery at match time. A
// malformed individual rule is skipped with a logged warning rather than
// failing the whole stylesheet (§7).
//
// onSelectorText, if given, is called with every selector's raw prelude text
// right after it has been accepted by this module's own selector.Parse — the
// ingestion-boundary hook cssom.Store uses to run each selector through
// cssom.CompiledSelectorCache as a parity cross-check against a second,
// independently-implemented selector engine, without this package taking a
// direct dependency on cascadia itself.
func ParseRules(source string, origin cascade.Origin, nextOrder func() uint32, onSelectorText ...func(string)) ([]cascade.Rule, error) {
	sheet, err := parser.Parse(source)
	if err != nil {
		return nil, &ParseError{Line: 1, Column: 1, Message: err.Error()}
	}
	var out []cascade.Rule
	for _, r := range sheet.Rules {
		out = append(out, flattenRule(r, origin, "", nextOrder, onSelectorText)...)
	}
	return out, nil
}

func flattenRule(r *css.Rule, origin cascade.Origin, mediaCond string, nextOrder func() uint32, onSelectorText []func(string)) []cascade.Rule {
	if r.Kind == css.AtRule {
		switch r.Name {
		case "media":
			var out []cascade.Rule
			for _, nested := range r.Rules {
				out = append(out, flattenRule(nested, origin, r.Prelude, nextOrder, onSelectorText)...)
			}
			return out
		default:
			// @import, @font-face, @keyframes and similar at-rules are
			// external collaborators (§1) and are not materialized as
			// cascade rules here.
			return nil
		}
	}
	sel, err := selector.Parse(r.Prelude)
	if err != nil {
		tracer().Errorf("skipping rule with invalid selector %q: %v", r.Prelude, err)
		return nil
	}
	for _, cb := range onSelectorText {
		cb(r.Prelude)
	}
	decls := convertDeclarations(r.Declarations)
	return []cascade.Rule{{
		Selectors:    sel,
		Declarations: decls,
		Origin:       origin,
		SourceOrder:  nextOrder(),
		MediaQuery:   mediaCond,
	}}
}

func convertDeclarations(in []*css.Declaration) []value.Declaration {
	out := make([]value.Declaration, 0, len(in))
	for _, d := range in {
		if strings.HasPrefix(d.Property, "--") {
			out = append(out, value.Declaration{
				CustomName: d.Property,
				Value:      value.Raw{Kind: value.KindKeyword, Keyword: strings.TrimSpace(d.Value)},
				Important:  d.Important,
			})
			continue
		}
		out = append(out, value.Declaration{
			Property:  propertyIDOrKeyword(d.Property),
			Value:     customprop.ParseValue(d.Value),
			Important: d.Important,
		})
	}
	return out
}

func propertyIDOrKeyword(name string) value.PropertyID {
	if id, ok := value.LookupProperty(name); ok {
		return id
	}
	// Unsupported properties are carried through with the sentinel
	// PropertyID 0xFFFF, which names no modeled property, so
	// the engine can still report UnsupportedProperty upstream if desired;
	// the cascade itself is agnostic to which properties exist.
	return value.PropertyID(0xFFFF)
}

// ParseInlineDeclarations parses a `style="..."` attribute's declaration
// list, e.g. "color: red; margin-top: 2px".
func ParseInlineDeclarations(source string) ([]value.Declaration, error) {
	wrapped := "x{" + source + "}"
	sheet, err := parser.Parse(wrapped)
	if err != nil {
		return nil, &ParseError{Line: 1, Column: 1, Message: err.Error()}
	}
	if len(sheet.Rules) == 0 {
		return nil, nil
	}
	return convertDeclarations(sheet.Rules[0].Declarations), nil
}
