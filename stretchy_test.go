package katex

import "testing"

func TestPickVariant(t *testing.T) {
	tt := []struct {
		chars int
		hat   int
		tilde int
	}{
		{chars: 0, hat: 1, tilde: 1},
		{chars: 1, hat: 1, tilde: 1},
		{chars: 2, hat: 2, tilde: 2},
		{chars: 3, hat: 2, tilde: 2},
		{chars: 4, hat: 3, tilde: 3},
		{chars: 5, hat: 3, tilde: 3},
		{chars: 6, hat: 4, tilde: 4},
		{chars: 40, hat: 4, tilde: 4},
	}

	for _, tc := range tt {
		if got := pickVariant(hatVariants, tc.chars); got.index != tc.hat {
			t.Errorf("Hat over %d characters: want variant %d, got %d", tc.chars, tc.hat, got.index)
		}

		if got := pickVariant(tildeVariants, tc.chars); got.index != tc.tilde {
			t.Errorf("Tilde over %d characters: want variant %d, got %d", tc.chars, tc.tilde, got.index)
		}
	}
}

func TestPickVariant_Ordered(t *testing.T) {
	for name, variants := range map[string][]accentVariant{"hat": hatVariants, "tilde": tildeVariants} {
		for i := 1; i < len(variants); i++ {
			if variants[i].viewBoxHeight < variants[i-1].viewBoxHeight || variants[i].viewBoxWidth < variants[i-1].viewBoxWidth {
				t.Errorf("%s variant %d is smaller than the one before", name, variants[i].index)
			}
		}
	}
}
