package selector

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseError reports a selector syntax failure at a byte offset, mirroring
// the ParseError{line, column, message} shape the engine surfaces at the
// boundary (line is always 1 for selector text, which the engine treats as
// a single-line value production).
type ParseError struct {
	Column  int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("selector parse error at column %d: %s", e.Column, e.Message)
}

// Parse parses a comma-separated selector list, e.g. "div.a.b, #id > span".
func Parse(src string) (SelectorList, error) {
	p := &parser{src: src}
	p.skipSpace()
	if p.pos >= len(p.src) {
		return SelectorList{}, nil
	}
	list, err := p.parseList()
	if err != nil {
		return SelectorList{}, err
	}
	p.skipSpace()
	if p.pos < len(p.src) {
		return SelectorList{}, p.errf("unexpected trailing input")
	}
	return list, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) errf(format string, args ...interface{}) error {
	return &ParseError{Column: p.pos + 1, Message: fmt.Sprintf(format, args...)}
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && isSpace(p.src[p.pos]) {
		p.pos++
	}
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' }

func isNameStart(b byte) bool {
	return b == '_' || b == '-' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b >= 0x80
}

func isNameChar(b byte) bool {
	return isNameStart(b) || (b >= '0' && b <= '9')
}

func (p *parser) parseList() (SelectorList, error) {
	var list SelectorList
	for {
		c, err := p.parseComplex()
		if err != nil {
			return SelectorList{}, err
		}
		list.Items = append(list.Items, c)
		p.skipSpace()
		if p.pos < len(p.src) && p.src[p.pos] == ',' {
			p.pos++
			p.skipSpace()
			continue
		}
		break
	}
	return list, nil
}

// parseComplex parses one comma-member: a chain of compounds joined by
// combinators, left-to-right in source order. We store it in the same
// left-to-right order inside Steps; the matcher walks it from the end.
func (p *parser) parseComplex() (Complex, error) {
	var c Complex
	first, err := p.parseCompound()
	if err != nil {
		return Complex{}, err
	}
	c.Steps = append(c.Steps, Step{Compound: first})
	for {
		savedPos := p.pos
		hadSpace := p.skipSpaceTracking()
		if p.pos >= len(p.src) {
			break
		}
		b := p.src[p.pos]
		if b == ',' {
			p.pos = savedPos
			break
		}
		var comb Combinator
		switch b {
		case '>':
			comb = Child
			p.pos++
			p.skipSpace()
		case '+':
			comb = AdjacentSibling
			p.pos++
			p.skipSpace()
		default:
			if !hadSpace {
				// no combinator and no space: end of this complex selector
				p.pos = savedPos
				goto done
			}
			comb = Descendant
		}
		next, err := p.parseCompound()
		if err != nil {
			return Complex{}, err
		}
		c.Steps = append(c.Steps, Step{Compound: next, Combinator: comb})
	}
done:
	// Re-home combinators: Step[i].Combinator should describe the link
	// between Step[i-1] and Step[i] for right-to-left evaluation; our
	// construction already stores it that way (the combinator found
	// between the previous compound and this one is attached to this
	// step), so nothing further is needed.
	if err := validateCompound(c); err != nil {
		return Complex{}, err
	}
	return c, nil
}

func validateCompound(c Complex) error {
	for i, st := range c.Steps {
		ids := 0
		for j, s := range st.Compound.Simples {
			if s.Kind == Id {
				ids++
			}
			isLast := i == len(c.Steps)-1 && j == len(st.Compound.Simples)-1
			if s.Kind == PseudoElement && !isLast {
				return &ParseError{Message: "pseudo-element must be the rightmost component"}
			}
		}
		if ids > 1 {
			return &ParseError{Message: "only one id selector allowed per compound"}
		}
	}
	return nil
}

// skipSpaceTracking advances over whitespace and reports whether any was
// consumed (needed to distinguish the descendant combinator from no
// combinator at all).
func (p *parser) skipSpaceTracking() bool {
	start := p.pos
	p.skipSpace()
	return p.pos != start
}

func (p *parser) parseCompound() (Compound, error) {
	var c Compound
	sawAny := false
	if p.pos < len(p.src) && p.src[p.pos] == '*' {
		c.Simples = append(c.Simples, Simple{Kind: Universal})
		p.pos++
		sawAny = true
	}
	for p.pos < len(p.src) {
		b := p.src[p.pos]
		switch {
		case isNameStart(b) && !sawAny:
			name := p.parseIdent()
			c.Simples = append(c.Simples, Simple{Kind: Type, Name: strings.ToLower(name)})
			sawAny = true
		case b == '.':
			p.pos++
			name := p.parseIdent()
			c.Simples = append(c.Simples, Simple{Kind: Class, Name: name})
			sawAny = true
		case b == '#':
			p.pos++
			name := p.parseIdent()
			c.Simples = append(c.Simples, Simple{Kind: Id, Name: name})
			sawAny = true
		case b == '[':
			s, err := p.parseAttribute()
			if err != nil {
				return Compound{}, err
			}
			c.Simples = append(c.Simples, s)
			sawAny = true
		case b == ':':
			s, err := p.parsePseudo()
			if err != nil {
				return Compound{}, err
			}
			c.Simples = append(c.Simples, s)
			sawAny = true
		default:
			if !sawAny {
				return Compound{}, p.errf("expected selector, found %q", string(b))
			}
			return c, nil
		}
	}
	if !sawAny {
		return Compound{}, p.errf("expected selector, found end of input")
	}
	return c, nil
}

func (p *parser) parseIdent() string {
	start := p.pos
	for p.pos < len(p.src) && isNameChar(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *parser) parseAttribute() (Simple, error) {
	p.pos++ // consume '['
	p.skipSpace()
	name := p.parseIdent()
	if name == "" {
		return Simple{}, p.errf("expected attribute name")
	}
	p.skipSpace()
	s := Simple{Kind: Attribute, Name: name, AttrOp: AttrExists}
	if p.pos < len(p.src) && p.src[p.pos] != ']' {
		op, err := p.parseAttrOp()
		if err != nil {
			return Simple{}, err
		}
		s.AttrOp = op
		p.skipSpace()
		val, err := p.parseAttrValue()
		if err != nil {
			return Simple{}, err
		}
		if val == "" {
			// The parser rejects empty attribute values per §4.1's tie-break rule.
			return Simple{}, p.errf("attribute value must not be empty")
		}
		s.AttrValue = val
		s.AttrHasValue = true
		p.skipSpace()
		if p.pos < len(p.src) && (p.src[p.pos] == 'i' || p.src[p.pos] == 'I') {
			s.AttrCaseInsens = true
			p.pos++
			p.skipSpace()
		}
	}
	if p.pos >= len(p.src) || p.src[p.pos] != ']' {
		return Simple{}, p.errf("expected ']'")
	}
	p.pos++
	return s, nil
}

func (p *parser) parseAttrOp() (AttrOp, error) {
	b := p.src[p.pos]
	switch b {
	case '=':
		p.pos++
		return AttrEquals, nil
	case '~':
		p.pos += 2
		return AttrIncludes, nil
	case '|':
		p.pos += 2
		return AttrDashMatch, nil
	case '^':
		p.pos += 2
		return AttrPrefix, nil
	case '$':
		p.pos += 2
		return AttrSuffix, nil
	case '*':
		p.pos += 2
		return AttrSubstring, nil
	default:
		return 0, p.errf("unexpected attribute operator %q", string(b))
	}
}

func (p *parser) parseAttrValue() (string, error) {
	if p.pos >= len(p.src) {
		return "", p.errf("expected attribute value")
	}
	if p.src[p.pos] == '"' || p.src[p.pos] == '\'' {
		quote := p.src[p.pos]
		p.pos++
		start := p.pos
		for p.pos < len(p.src) && p.src[p.pos] != quote {
			p.pos++
		}
		if p.pos >= len(p.src) {
			return "", p.errf("unterminated attribute value")
		}
		val := p.src[start:p.pos]
		p.pos++
		return val, nil
	}
	return p.parseIdent(), nil
}

var pseudoElements = map[string]bool{
	"before": true, "after": true, "first-line": true,
	"first-letter": true, "selection": true, "marker": true,
}

func (p *parser) parsePseudo() (Simple, error) {
	p.pos++ // consume ':'
	isElement := false
	if p.pos < len(p.src) && p.src[p.pos] == ':' {
		isElement = true
		p.pos++
	}
	name := p.parseIdent()
	if name == "" {
		return Simple{}, p.errf("expected pseudo-class/element name")
	}
	name = strings.ToLower(name)
	if !isElement && pseudoElements[name] {
		isElement = true // legacy single-colon form, e.g. :before
	}
	s := Simple{Name: name}
	if isElement {
		s.Kind = PseudoElement
		return s, nil
	}
	s.Kind = PseudoClass
	if p.pos < len(p.src) && p.src[p.pos] == '(' {
		p.pos++
		p.skipSpace()
		switch name {
		case "not", "has", "haschild":
			start := p.pos
			depth := 1
			for p.pos < len(p.src) && depth > 0 {
				switch p.src[p.pos] {
				case '(':
					depth++
				case ')':
					depth--
					if depth == 0 {
						continue
					}
				}
				p.pos++
			}
			inner := p.src[start:p.pos]
			list, err := Parse(inner)
			if err != nil {
				return Simple{}, err
			}
			s.Not = &list
		default:
			start := p.pos
			depth := 1
			for p.pos < len(p.src) && depth > 0 {
				switch p.src[p.pos] {
				case '(':
					depth++
				case ')':
					depth--
					if depth == 0 {
						continue
					}
				}
				p.pos++
			}
			s.Arg = strings.TrimSpace(p.src[start:p.pos])
		}
		if p.pos >= len(p.src) || p.src[p.pos] != ')' {
			return Simple{}, p.errf("expected ')'")
		}
		p.pos++
	}
	return s, nil
}

// Nth represents a parsed an+b expression (see §4.1).
type Nth struct {
	A, B int
}

// ParseNth parses the nth-child argument forms: "odd", "even", an integer,
// "n", or "an+b"/"an-b" with signed integers.
func ParseNth(s string) (Nth, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "odd":
		return Nth{A: 2, B: 1}, nil
	case "even":
		return Nth{A: 2, B: 0}, nil
	}
	s = strings.ReplaceAll(s, " ", "")
	if !strings.Contains(s, "n") {
		v, err := strconv.Atoi(s)
		if err != nil {
			return Nth{}, fmt.Errorf("invalid nth expression %q", s)
		}
		return Nth{A: 0, B: v}, nil
	}
	idx := strings.IndexByte(s, 'n')
	aPart := s[:idx]
	bPart := s[idx+1:]
	a := 1
	switch aPart {
	case "", "+":
		a = 1
	case "-":
		a = -1
	default:
		v, err := strconv.Atoi(aPart)
		if err != nil {
			return Nth{}, fmt.Errorf("invalid nth coefficient %q", aPart)
		}
		a = v
	}
	b := 0
	if bPart != "" {
		v, err := strconv.Atoi(bPart)
		if err != nil {
			return Nth{}, fmt.Errorf("invalid nth offset %q", bPart)
		}
		b = v
	}
	return Nth{A: a, B: b}, nil
}

// Matches reports whether 1-based index i satisfies n per §4.1: there is a
// non-negative k with a*k+b = i (when a=0, reduces to i==b).
func (n Nth) Matches(i int) bool {
	if n.A == 0 {
		return i == n.B
	}
	k := i - n.B
	if k%n.A != 0 {
		return false
	}
	k = k / n.A
	return k >= 0
}
