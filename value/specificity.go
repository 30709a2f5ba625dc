package value

import (
	"fmt"
	"math"
)

// Specificity is the (id, class, type) triple CSS uses to rank competing
// declarations. Zero value is the universal selector's specificity.
type Specificity struct {
	ID    int
	Class int
	Type  int
}

// Add sums two specificities component-wise, the rule for combining the
// simple selectors of a compound, and the compounds of a complex selector.
func (s Specificity) Add(o Specificity) Specificity {
	return Specificity{ID: s.ID + o.ID, Class: s.Class + o.Class, Type: s.Type + o.Type}
}

// Less reports whether s sorts before o in the lexicographic order
// (id highest, type lowest).
func (s Specificity) Less(o Specificity) bool {
	if s.ID != o.ID {
		return s.ID < o.ID
	}
	if s.Class != o.Class {
		return s.Class < o.Class
	}
	return s.Type < o.Type
}

// Compare returns -1, 0, or 1 following the same ordering as Less.
func (s Specificity) Compare(o Specificity) int {
	switch {
	case s.Less(o):
		return -1
	case o.Less(s):
		return 1
	default:
		return 0
	}
}

func (s Specificity) String() string {
	return fmt.Sprintf("(%d,%d,%d)", s.ID, s.Class, s.Type)
}

// InlineSpecificity is the synthetic marker assigned to declarations
// installed via an inline style. Its id component exceeds any selector
// could reach, so a normal inline declaration beats every normal
// selector-based one; any !important declaration still beats it, since the
// cascade applies the important partition after the normal one.
var InlineSpecificity = Specificity{ID: math.MaxInt32}
