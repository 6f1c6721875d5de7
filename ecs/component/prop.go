package component

import (
	"fmt"
	"strings"
)

type PropKind int

const (
	PropTree PropKind = iota
	PropRock
	PropCrate
)

var propKindNames = [...]string{"tree", "rock", "crate"}

func (k PropKind) String() string {
	if k < 0 || int(k) >= len(propKindNames) {
		return fmt.Sprintf("PropKind(%d)", int(k))
	}
	return propKindNames[k]
}

func ParsePropKind(s string) (PropKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range propKindNames {
		if name == s {
			return PropKind(i), nil
		}
	}
	return 0, fmt.Errorf("component: unknown prop kind %q", s)
}

// Prop is environment decoration. Blocking props push movers out of Radius.
type Prop struct {
	Kind   PropKind
	Blocks bool
	Radius float64
}

var PropComponent = NewComponent[Prop]()
