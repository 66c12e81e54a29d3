package structure

import (
	"fmt"
	"slices"
	"strings"
)

// Selection picks mers out of a structure.
type Selection interface {
	Select(s *Structure) *Structure
	String() string
}

// Everything selects every mer.
type Everything struct{}

func (Everything) Select(s *Structure) *Structure { return s }
func (Everything) String() string                 { return "everything" }

// MerTypes selects mers of the given types.
type MerTypes []MerType

func (t MerTypes) Select(s *Structure) *Structure {
	return s.Subset(func(m *Mer) bool { return slices.Contains(t, m.Type) })
}

func (t MerTypes) String() string {
	names := make([]string, len(t))
	for i, mt := range t {
		names[i] = mt.String()
	}
	return "type " + strings.Join(names, ",")
}

// Chains selects mers from the named chains.
type Chains []string

func (c Chains) Select(s *Structure) *Structure {
	return s.Subset(func(m *Mer) bool { return slices.Contains(c, m.Pid.Chain) })
}

func (c Chains) String() string { return "chain " + strings.Join(c, ",") }

// Inds selects mers by ind.
type Inds []int

func (n Inds) Select(s *Structure) *Structure {
	return s.Subset(func(m *Mer) bool { return slices.Contains(n, m.Ind) })
}

func (n Inds) String() string { return fmt.Sprint("inds ", []int(n)) }

// intersection selects mers picked by all of its members.
type intersection []Selection

func (x intersection) Select(s *Structure) *Structure {
	for _, sel := range x {
		s = sel.Select(s)
	}
	return s
}

func (x intersection) String() string {
	parts := make([]string, len(x))
	for i, sel := range x {
		parts[i] = sel.String()
	}
	return "(" + strings.Join(parts, " and ") + ")"
}

// Intersect returns a selection of mers picked by every one of sels.
// Everything is the identity, so it is dropped.
func Intersect(sels ...Selection) Selection {
	var keep intersection
	for _, sel := range sels {
		switch v := sel.(type) {
		case nil, Everything:
			continue
		case intersection:
			keep = append(keep, v...)
		default:
			keep = append(keep, sel)
		}
	}
	switch len(keep) {
	case 0:
		return Everything{}
	case 1:
		return keep[0]
	}
	return keep
}
