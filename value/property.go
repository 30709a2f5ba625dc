package value

// PropertyID identifies a CSS property in the computed bundle. The set is
// deliberately small: the properties a layout/paint boundary actually
// consumes, per the data model's "display, position, color, font-size,
// margin/padding/border, width/height, etc." enumeration.
type PropertyID uint16

const (
	PropColor PropertyID = iota
	PropBackgroundColor
	PropDisplay
	PropPosition
	PropFontFamily
	PropFontSize
	PropLineHeight
	PropTextAlign
	PropWidth
	PropHeight
	PropMarginTop
	PropMarginRight
	PropMarginBottom
	PropMarginLeft
	PropPaddingTop
	PropPaddingRight
	PropPaddingBottom
	PropPaddingLeft
	PropBorderTopWidth
	PropBorderRightWidth
	PropBorderBottomWidth
	PropBorderLeftWidth
	propertyCount
)

var propertyNames = map[PropertyID]string{
	PropColor:             "color",
	PropBackgroundColor:   "background-color",
	PropDisplay:           "display",
	PropPosition:          "position",
	PropFontFamily:        "font-family",
	PropFontSize:          "font-size",
	PropLineHeight:        "line-height",
	PropTextAlign:         "text-align",
	PropWidth:             "width",
	PropHeight:            "height",
	PropMarginTop:         "margin-top",
	PropMarginRight:       "margin-right",
	PropMarginBottom:      "margin-bottom",
	PropMarginLeft:        "margin-left",
	PropPaddingTop:        "padding-top",
	PropPaddingRight:      "padding-right",
	PropPaddingBottom:     "padding-bottom",
	PropPaddingLeft:       "padding-left",
	PropBorderTopWidth:    "border-top-width",
	PropBorderRightWidth:  "border-right-width",
	PropBorderBottomWidth: "border-bottom-width",
	PropBorderLeftWidth:   "border-left-width",
}

var propertyByName = func() map[string]PropertyID {
	m := make(map[string]PropertyID, len(propertyNames))
	for id, name := range propertyNames {
		m[name] = id
	}
	return m
}()

func (p PropertyID) String() string {
	if n, ok := propertyNames[p]; ok {
		return n
	}
	return "unknown-property"
}

// LookupProperty resolves a CSS property name to a PropertyID.
func LookupProperty(name string) (PropertyID, bool) {
	id, ok := propertyByName[name]
	return id, ok
}

// Inherited is the fixed set of properties that, absent an explicit
// declaration, are copied from a parent's computed bundle rather than reset
// to their initial value.
var Inherited = map[PropertyID]bool{
	PropColor:      true,
	PropFontFamily: true,
	PropFontSize:   true,
	PropLineHeight: true,
	PropTextAlign:  true,
}

// Initial holds the initial value used for a property absent any applicable
// declaration and absent inheritance.
var Initial = map[PropertyID]Raw{
	PropColor:             {Kind: KindColor, Color: Opaque(0, 0, 0)},
	PropBackgroundColor:   {Kind: KindColor, Color: NewColor(0, 0, 0, 0)},
	PropDisplay:           {Kind: KindKeyword, Keyword: "inline"},
	PropPosition:          {Kind: KindKeyword, Keyword: "static"},
	PropFontFamily:        {Kind: KindKeyword, Keyword: "sans-serif"},
	PropFontSize:          {Kind: KindLength, Length: Length{Value: 16, Unit: Px}},
	PropLineHeight:        {Kind: KindKeyword, Keyword: "normal"},
	PropTextAlign:         {Kind: KindKeyword, Keyword: "left"},
	PropWidth:             {Kind: KindKeyword, Keyword: "auto"},
	PropHeight:            {Kind: KindKeyword, Keyword: "auto"},
	PropMarginTop:         {Kind: KindLength, Length: Length{Unit: Px}},
	PropMarginRight:       {Kind: KindLength, Length: Length{Unit: Px}},
	PropMarginBottom:      {Kind: KindLength, Length: Length{Unit: Px}},
	PropMarginLeft:        {Kind: KindLength, Length: Length{Unit: Px}},
	PropPaddingTop:        {Kind: KindLength, Length: Length{Unit: Px}},
	PropPaddingRight:      {Kind: KindLength, Length: Length{Unit: Px}},
	PropPaddingBottom:     {Kind: KindLength, Length: Length{Unit: Px}},
	PropPaddingLeft:       {Kind: KindLength, Length: Length{Unit: Px}},
	PropBorderTopWidth:    {Kind: KindLength, Length: Length{Unit: Px}},
	PropBorderRightWidth:  {Kind: KindLength, Length: Length{Unit: Px}},
	PropBorderBottomWidth: {Kind: KindLength, Length: Length{Unit: Px}},
	PropBorderLeftWidth:   {Kind: KindLength, Length: Length{Unit: Px}},
}

// Kind discriminates the tagged union a Raw property value carries.
type Kind uint8

const (
	KindKeyword Kind = iota
	KindLength
	KindColor
	KindNumber
	KindList
	KindInherit
	KindVar
	KindCalc
)

// Raw is an unresolved declaration value: it may still carry inherit, a
// var() reference, or a calc() expression tree. The cascade resolver
// produces maps of Raw; the stylist resolves them into a ComputedBundle.
type Raw struct {
	Kind    Kind
	Keyword string
	Length  Length
	Color   Color
	Number  float64
	List    []Raw

	// KindVar
	VarName     string
	VarFallback *Raw

	// KindCalc
	Calc *CalcExpr
}

// CalcExpr is a node in a calc() expression tree.
type CalcExpr struct {
	Op       CalcOp
	Leaf     *Raw // set when Op == CalcLeaf
	Left     *CalcExpr
	Right    *CalcExpr
	Scalar   float64 // for multiply/divide by number
	IsScalar bool     // true if Right side of mul/div is the scalar literal
}

type CalcOp uint8

const (
	CalcLeaf CalcOp = iota
	CalcAdd
	CalcSub
	CalcMul
	CalcDiv
)

// Declaration pairs a property with its raw value and importance, per the
// data model. A custom property declaration (`--name: ...`) carries its
// name in CustomName instead of a PropertyID, since the fixed PropertyID
// enumeration has no slot for an open-ended `--name` namespace; Property
// is left at its zero value and ignored by the cascade for such entries.
type Declaration struct {
	Property   PropertyID
	CustomName string
	Value      Raw
	Important  bool
}

// IsCustomProperty reports whether d declares a `--name` custom property
// rather than one of the fixed PropertyIDs.
func (d Declaration) IsCustomProperty() bool { return d.CustomName != "" }
