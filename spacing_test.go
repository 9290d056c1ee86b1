package katex

import "testing"

var atomTypes = []AtomType{AtomOrd, AtomOp, AtomBin, AtomRel, AtomOpen, AtomClose, AtomPunct, AtomInner}

func TestAtomSpacing(t *testing.T) {
	tt := []struct {
		left, right AtomType
		tight       bool
		output      int
	}{
		{left: AtomOrd, right: AtomOrd, output: 0},
		{left: AtomOrd, right: AtomOp, output: 3},
		{left: AtomOrd, right: AtomBin, output: 4},
		{left: AtomRel, right: AtomOrd, output: 5},
		{left: AtomBin, right: AtomBin, output: 0},
		{left: AtomOpen, right: AtomOrd, output: 0},
		{left: AtomPunct, right: AtomOrd, output: 3},
		{left: AtomOrd, right: AtomBin, tight: true, output: 0},
		{left: AtomOp, right: AtomOp, tight: true, output: 3},
		{left: AtomInner, right: AtomOp, tight: true, output: 3},
	}

	for _, tc := range tt {
		t.Run(tc.left.String()+"-"+tc.right.String(), func(t *testing.T) {
			if got := AtomSpacing(tc.left, tc.right, tc.tight); got != tc.output {
				t.Errorf("Spacing does not match: want %d, got %d", tc.output, got)
			}
		})
	}
}

func TestAtomSpacing_Total(t *testing.T) {
	for _, left := range atomTypes {
		for _, right := range atomTypes {
			for _, tight := range []bool{false, true} {
				got := AtomSpacing(left, right, tight)
				if got != 0 && got != thinSpace && got != mediumSpace && got != thickSpace {
					t.Errorf("Unexpected spacing %d between %s and %s", got, left, right)
				}

				// tight spacing never adds space the regular one doesn't have
				if tight && got > AtomSpacing(left, right, false) {
					t.Errorf("Tight spacing between %s and %s is wider than regular", left, right)
				}
			}
		}
	}
}
