package katex

// Spacing between adjacent atoms, after TeXbook chapter 18. The value is in
// mu, rows are the left atom and columns the right one.
const (
	thinSpace   = 3
	mediumSpace = 4
	thickSpace  = 5
)

var spacings = map[AtomType]map[AtomType]int{
	AtomOrd: {
		AtomOp:    thinSpace,
		AtomBin:   mediumSpace,
		AtomRel:   thickSpace,
		AtomInner: thinSpace,
	},
	AtomOp: {
		AtomOrd:   thinSpace,
		AtomOp:    thinSpace,
		AtomRel:   thickSpace,
		AtomInner: thinSpace,
	},
	AtomBin: {
		AtomOrd:   mediumSpace,
		AtomOp:    mediumSpace,
		AtomOpen:  mediumSpace,
		AtomInner: mediumSpace,
	},
	AtomRel: {
		AtomOrd:   thickSpace,
		AtomOp:    thickSpace,
		AtomOpen:  thickSpace,
		AtomInner: thickSpace,
	},
	AtomClose: {
		AtomOp:    thinSpace,
		AtomBin:   mediumSpace,
		AtomRel:   thickSpace,
		AtomInner: thinSpace,
	},
	AtomPunct: {
		AtomOrd:   thinSpace,
		AtomOp:    thinSpace,
		AtomRel:   thickSpace,
		AtomOpen:  thinSpace,
		AtomClose: thinSpace,
		AtomPunct: thinSpace,
		AtomInner: thinSpace,
	},
	AtomInner: {
		AtomOrd:   thinSpace,
		AtomOp:    thinSpace,
		AtomBin:   mediumSpace,
		AtomRel:   thickSpace,
		AtomOpen:  thinSpace,
		AtomPunct: thinSpace,
		AtomInner: thinSpace,
	},
}

// tightSpacings apply in script and scriptscript styles.
var tightSpacings = map[AtomType]map[AtomType]int{
	AtomOrd:   {AtomOp: thinSpace},
	AtomOp:    {AtomOrd: thinSpace, AtomOp: thinSpace},
	AtomClose: {AtomOp: thinSpace},
	AtomInner: {AtomOp: thinSpace},
}

// AtomSpacing is the space in mu between a left and a right atom. It is
// defined for every pair, zero when TeX puts no space between them.
func AtomSpacing(left, right AtomType, tight bool) int {
	table := spacings
	if tight {
		table = tightSpacings
	}

	return table[left][right]
}
