package mediaquery

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gorilla/css/scanner"
)

// Parse parses a full @media condition, e.g.
// "screen and (min-width: 768px), print".
func Parse(src string) (List, error) {
	toks := tokenize(src)
	p := &parser{toks: toks}
	return p.parseList()
}

type tok struct {
	typ scanner.TokenType
	val string
}

func tokenize(src string) []tok {
	s := scanner.New(src)
	var out []tok
	for {
		t := s.Next()
		if t.Type == scanner.TokenEOF || t.Type == scanner.TokenError {
			break
		}
		if t.Type == scanner.TokenS || t.Type == scanner.TokenComment {
			continue
		}
		out = append(out, tok{typ: t.Type, val: t.Value})
	}
	return out
}

type parser struct {
	toks []tok
	pos  int
}

func (p *parser) peek() (tok, bool) {
	if p.pos >= len(p.toks) {
		return tok{}, false
	}
	return p.toks[p.pos], true
}

func (p *parser) next() (tok, bool) {
	t, ok := p.peek()
	if ok {
		p.pos++
	}
	return t, ok
}

func (p *parser) parseList() (List, error) {
	var list List
	for {
		q, err := p.parseQuery()
		if err != nil {
			return List{}, err
		}
		list.Queries = append(list.Queries, q)
		t, ok := p.peek()
		if ok && t.val == "," {
			p.pos++
			continue
		}
		break
	}
	if p.pos != len(p.toks) {
		t, _ := p.peek()
		return List{}, fmt.Errorf("unexpected token %q in media query", t.val)
	}
	return list, nil
}

func (p *parser) parseQuery() (Query, error) {
	var q Query
	if t, ok := p.peek(); ok && strings.EqualFold(t.val, "not") {
		q.Negated = true
		p.pos++
	} else if ok && strings.EqualFold(t.val, "only") {
		p.pos++
	}
	if t, ok := p.peek(); ok && t.typ == scanner.TokenIdent && !strings.EqualFold(t.val, "and") {
		if mt, known := parseMediaType(strings.ToLower(t.val)); known {
			q.Type = mt
			q.HasType = true
			p.pos++
			if t2, ok2 := p.peek(); ok2 && strings.EqualFold(t2.val, "and") {
				p.pos++
			} else {
				return q, nil
			}
		}
	}
	cond, err := p.parseOr()
	if err != nil {
		return Query{}, err
	}
	q.Condition = cond
	return q, nil
}

func (p *parser) parseOr() (*Condition, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		t, ok := p.peek()
		if !ok || !strings.EqualFold(t.val, "or") {
			break
		}
		p.pos++
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &Condition{Kind: CondOr, Children: []Condition{*left, *right}}
	}
	return left, nil
}

func (p *parser) parseAnd() (*Condition, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		t, ok := p.peek()
		if !ok || !strings.EqualFold(t.val, "and") {
			break
		}
		p.pos++
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &Condition{Kind: CondAnd, Children: []Condition{*left, *right}}
	}
	return left, nil
}

func (p *parser) parseUnary() (*Condition, error) {
	if t, ok := p.peek(); ok && strings.EqualFold(t.val, "not") {
		p.pos++
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Condition{Kind: CondNot, Children: []Condition{*inner}}, nil
	}
	return p.parseParen()
}

func (p *parser) parseParen() (*Condition, error) {
	t, ok := p.next()
	if !ok || t.val != "(" {
		return nil, fmt.Errorf("expected '(' to start a feature condition")
	}
	name, ok := p.next()
	if !ok || name.typ != scanner.TokenIdent {
		return nil, fmt.Errorf("expected feature name")
	}
	feature, rng := splitFeatureName(strings.ToLower(name.val))
	cond := &Condition{Kind: CondFeature, Feature: feature, Range: rng}
	if t2, ok2 := p.peek(); ok2 && t2.val == ":" {
		p.pos++
		var sb strings.Builder
		for {
			vt, ok3 := p.peek()
			if !ok3 || vt.val == ")" {
				break
			}
			sb.WriteString(vt.val)
			p.pos++
		}
		cond.HasValue = true
		cond.Value = strings.TrimSpace(sb.String())
	}
	closeTok, ok := p.next()
	if !ok || closeTok.val != ")" {
		return nil, fmt.Errorf("expected ')' to close a feature condition")
	}
	return cond, nil
}

func splitFeatureName(name string) (string, RangeType) {
	switch {
	case strings.HasPrefix(name, "min-"):
		return strings.TrimPrefix(name, "min-"), Min
	case strings.HasPrefix(name, "max-"):
		return strings.TrimPrefix(name, "max-"), Max
	default:
		return name, Exact
	}
}

// parseNumberWithUnit is used by the evaluator to interpret feature values
// like "768px" or "2" or "300dpi".
func parseNumberWithUnit(s string) (float64, string, error) {
	s = strings.TrimSpace(s)
	i := 0
	for i < len(s) && (s[i] == '-' || s[i] == '+' || s[i] == '.' || (s[i] >= '0' && s[i] <= '9')) {
		i++
	}
	if i == 0 {
		return 0, "", fmt.Errorf("expected a number, got %q", s)
	}
	num, err := strconv.ParseFloat(s[:i], 64)
	if err != nil {
		return 0, "", err
	}
	return num, strings.TrimSpace(s[i:]), nil
}
