package customprop

import (
	"strconv"
	"strings"

	"stylo/value"
)

// ParseValue turns a declaration's raw CSS text into a value.Raw tagged
// union. It recognizes var()/calc() references, hex/named colors, numbers
// with one of the six units, and bare numbers; the literal "inherit" becomes
// the KindInherit sentinel, and everything else falls back to a keyword.
func ParseValue(s string) value.Raw {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	switch lower {
	case "inherit":
		return value.Raw{Kind: value.KindInherit}
	}
	if strings.HasPrefix(lower, "var(") && strings.HasSuffix(s, ")") {
		return parseVarRef(s[len("var("):len(s)-1])
	}
	if strings.HasPrefix(lower, "calc(") && strings.HasSuffix(s, ")") {
		expr, ok := parseCalcExpr(s[len("calc("):len(s)-1])
		if ok {
			return value.Raw{Kind: value.KindCalc, Calc: expr}
		}
	}
	if c, ok := value.Named[lower]; ok {
		return value.Raw{Kind: value.KindColor, Color: c}
	}
	if strings.HasPrefix(s, "#") {
		if c, ok := parseHexColor(s); ok {
			return value.Raw{Kind: value.KindColor, Color: c}
		}
	}
	if strings.HasPrefix(lower, "rgb(") || strings.HasPrefix(lower, "rgba(") {
		if c, ok := parseRGBColor(s); ok {
			return value.Raw{Kind: value.KindColor, Color: c}
		}
	}
	if l, ok := parseLength(s); ok {
		return value.Raw{Kind: value.KindLength, Length: l}
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return value.Raw{Kind: value.KindNumber, Number: n}
	}
	return value.Raw{Kind: value.KindKeyword, Keyword: s}
}

func parseVarRef(args string) value.Raw {
	idx := strings.IndexByte(args, ',')
	if idx < 0 {
		return value.Raw{Kind: value.KindVar, VarName: strings.TrimSpace(args)}
	}
	name := strings.TrimSpace(args[:idx])
	fallback := ParseValue(strings.TrimSpace(args[idx+1:]))
	return value.Raw{Kind: value.KindVar, VarName: name, VarFallback: &fallback}
}

func parseHexColor(s string) (value.Color, bool) {
	h := strings.TrimPrefix(s, "#")
	expand := func(c byte) byte {
		v, err := strconv.ParseUint(string(c)+string(c), 16, 8)
		if err != nil {
			return 0
		}
		return byte(v)
	}
	byteOf := func(hi, lo byte) byte {
		v, err := strconv.ParseUint(string(hi)+string(lo), 16, 8)
		if err != nil {
			return 0
		}
		return byte(v)
	}
	switch len(h) {
	case 3:
		return value.Opaque(expand(h[0]), expand(h[1]), expand(h[2])), true
	case 6:
		return value.Opaque(byteOf(h[0], h[1]), byteOf(h[2], h[3]), byteOf(h[4], h[5])), true
	case 8:
		a, err := strconv.ParseUint(h[6:8], 16, 8)
		if err != nil {
			return value.Color{}, false
		}
		return value.NewColor(byteOf(h[0], h[1]), byteOf(h[2], h[3]), byteOf(h[4], h[5]), float64(a)/255), true
	default:
		return value.Color{}, false
	}
}

func parseRGBColor(s string) (value.Color, bool) {
	open := strings.IndexByte(s, '(')
	close := strings.LastIndexByte(s, ')')
	if open < 0 || close < 0 || close < open {
		return value.Color{}, false
	}
	parts := strings.Split(s[open+1:close], ",")
	if len(parts) < 3 {
		return value.Color{}, false
	}
	comp := func(i int) uint8 {
		v, _ := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		return uint8(v)
	}
	a := 1.0
	if len(parts) >= 4 {
		a, _ = strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
	}
	return value.NewColor(comp(0), comp(1), comp(2), a), true
}

var lengthUnits = []struct {
	suffix string
	unit   value.Unit
}{
	{"px", value.Px}, {"rem", value.Rem}, {"em", value.Em},
	{"%", value.Percent}, {"vw", value.Vw}, {"vh", value.Vh},
}

func parseLength(s string) (value.Length, bool) {
	for _, u := range lengthUnits {
		if strings.HasSuffix(s, u.suffix) {
			numPart := strings.TrimSuffix(s, u.suffix)
			if n, err := strconv.ParseFloat(numPart, 64); err == nil {
				return value.Length{Value: n, Unit: u.unit}, true
			}
		}
	}
	// A bare "0" is a valid length in any context.
	if s == "0" {
		return value.Length{Value: 0, Unit: value.Px}, true
	}
	return value.Length{}, false
}

// parseCalcExpr parses the contents of a calc(...) expression using simple
// precedence climbing over +, -, *, /.
func parseCalcExpr(s string) (*value.CalcExpr, bool) {
	toks := tokenizeCalc(s)
	if len(toks) == 0 {
		return nil, false
	}
	p := &calcParser{toks: toks}
	e, ok := p.parseExpr()
	if !ok || p.pos != len(p.toks) {
		return nil, false
	}
	return e, true
}

func tokenizeCalc(s string) []string {
	var toks []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			toks = append(toks, cur.String())
			cur.Reset()
		}
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == ' ' || c == '\t':
			flush()
		case (c == '-' || c == '+') && cur.Len() == 0 && i+1 < len(s) && (s[i+1] == '.' || (s[i+1] >= '0' && s[i+1] <= '9')):
			// '-' or '+' starting a token and immediately followed by a
			// digit is the sign of a literal such as "-5px", not an
			// operator; calc() requires whitespace around binary + and -,
			// so we rely on that here.
			cur.WriteByte(c)
		case c == '+' || c == '-' || c == '*' || c == '/':
			flush()
			toks = append(toks, string(c))
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return toks
}

type calcParser struct {
	toks []string
	pos  int
}

func (p *calcParser) parseExpr() (*value.CalcExpr, bool) {
	left, ok := p.parseTerm()
	if !ok {
		return nil, false
	}
	for p.pos < len(p.toks) && (p.toks[p.pos] == "+" || p.toks[p.pos] == "-") {
		op := p.toks[p.pos]
		p.pos++
		right, ok := p.parseTerm()
		if !ok {
			return nil, false
		}
		calcOp := value.CalcAdd
		if op == "-" {
			calcOp = value.CalcSub
		}
		left = &value.CalcExpr{Op: calcOp, Left: left, Right: right}
	}
	return left, true
}

func (p *calcParser) parseTerm() (*value.CalcExpr, bool) {
	left, ok := p.parseLeaf()
	if !ok {
		return nil, false
	}
	for p.pos < len(p.toks) && (p.toks[p.pos] == "*" || p.toks[p.pos] == "/") {
		op := p.toks[p.pos]
		p.pos++
		right, ok := p.parseLeaf()
		if !ok {
			return nil, false
		}
		calcOp := value.CalcMul
		if op == "/" {
			calcOp = value.CalcDiv
		}
		node := &value.CalcExpr{Op: calcOp, Left: left, Right: right}
		if right.Op == value.CalcLeaf && right.Leaf != nil && right.Leaf.Kind == value.KindNumber {
			node.IsScalar = true
			node.Scalar = right.Leaf.Number
		}
		left = node
	}
	return left, true
}

func (p *calcParser) parseLeaf() (*value.CalcExpr, bool) {
	if p.pos >= len(p.toks) {
		return nil, false
	}
	tok := p.toks[p.pos]
	p.pos++
	raw := ParseValue(tok)
	if raw.Kind != value.KindLength && raw.Kind != value.KindNumber {
		return nil, false
	}
	return &value.CalcExpr{Op: value.CalcLeaf, Leaf: &raw}, true
}
