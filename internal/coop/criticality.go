package coop

import "sort"

// CompareVectors compares two bags of neighbor criticalities.
//
// Both bags are sorted in decreasing order and compared
// lexicographically: the highest criticalities are compared first, then
// the next-highest, and so on. This drives the decision rule to reduce
// the worst criticality in the neighborhood before the second-worst
// (lex-min-max).
//
// If one sorted bag is a strict prefix of the other, the vectors compare
// equal. In practice the two vectors always describe the same
// neighborhood and have the same length; the lenient prefix rule keeps
// the comparator total instead of guessing a semantics for a case the
// decision loops never produce.
func CompareVectors[C Criticality[C]](u, v []C) int {
	us := sortedDescending(u)
	vs := sortedDescending(v)

	n := len(us)
	if len(vs) < n {
		n = len(vs)
	}
	for i := 0; i < n; i++ {
		if c := us[i].Compare(vs[i]); c != 0 {
			return c
		}
	}
	return 0
}

func sortedDescending[C Criticality[C]](v []C) []C {
	out := make([]C, len(v))
	copy(out, v)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Compare(out[j]) > 0
	})
	return out
}
