package coop

import "testing"

type level int

func (l level) Compare(o level) int {
	return int(l) - int(o)
}

func TestCompareVectorsLexMinMax(t *testing.T) {
	tests := []struct {
		name string
		u, v []level
		want int
	}{
		{"both empty", nil, nil, 0},
		{"equal singletons", []level{3}, []level{3}, 0},
		{"smaller max wins", []level{2, 5}, []level{3, 1}, 1},
		{"equal max then second", []level{5, 2}, []level{5, 3}, -1},
		{"equal max then second greater", []level{5, 4}, []level{5, 3}, 1},
		{"identical bags", []level{1, 4, 2}, []level{2, 1, 4}, 0},
		{"unsorted inputs", []level{1, 9}, []level{8, 2}, 1},
		{"prefix compares equal", []level{5}, []level{5, 1}, 0},
		{"empty against non-empty", nil, []level{7}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompareVectors(tt.u, tt.v)
			if !sameSign(got, tt.want) {
				t.Errorf("CompareVectors(%v, %v) = %d, want sign %d", tt.u, tt.v, got, tt.want)
			}
		})
	}
}

func TestCompareVectorsDoesNotMutateInput(t *testing.T) {
	u := []level{1, 5, 3}
	v := []level{2, 4, 6}
	CompareVectors(u, v)
	if u[0] != 1 || u[1] != 5 || u[2] != 3 {
		t.Errorf("u mutated: %v", u)
	}
	if v[0] != 2 || v[1] != 4 || v[2] != 6 {
		t.Errorf("v mutated: %v", v)
	}
}

func sameSign(a, b int) bool {
	switch {
	case a < 0:
		return b < 0
	case a > 0:
		return b > 0
	default:
		return b == 0
	}
}
