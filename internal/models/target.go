package models

import "sort"

// TargetSet is the set of figure names a collector wants. It is a view filter,
// not ownership.
type TargetSet map[string]struct{}

// NewTargetSet builds a set from names, ignoring blanks and duplicates.
func NewTargetSet(names ...string) TargetSet {
	ts := make(TargetSet, len(names))
	for _, n := range names {
		if n != "" {
			ts[n] = struct{}{}
		}
	}
	return ts
}

// Contains reports whether name is a target.
func (ts TargetSet) Contains(name string) bool {
	_, ok := ts[name]
	return ok
}

// Names returns the targets in sorted order.
func (ts TargetSet) Names() []string {
	out := make([]string, 0, len(ts))
	for n := range ts {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
