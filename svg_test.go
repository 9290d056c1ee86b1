package katex

import (
	"strings"
	"testing"

	"github.com/tdewolff/canvas"
)

func TestSqrtPath(t *testing.T) {
	tt := []struct {
		name          string
		size          string
		extra         float64
		viewBoxHeight float64
		prefix        string
		contains      string
		suffix        string
	}{
		{
			name:          "main",
			size:          "sqrtMain",
			viewBoxHeight: 1080,
			prefix:        "M95,702\n",
			contains:      "H400000v40H845.2724",
			suffix:        "M834 80h400000v40h-400000z",
		},
		{
			name:          "main with thick vinculum",
			size:          "sqrtMain",
			extra:         0.5,
			viewBoxHeight: 1580,
			prefix:        "M95,1202\n",
			contains:      "H400000v540H845.2724",
			suffix:        "M1334 80h400000v540h-400000z",
		},
		{
			name:          "size 1",
			size:          "sqrtSize1",
			viewBoxHeight: 1296,
			prefix:        "M263,681c0.7,0,18,39.7,52,119",
			contains:      "H400000v40H1012.3",
			suffix:        "M1001 80h400000v40h-400000z",
		},
		{
			name:          "size 4",
			size:          "sqrtSize4",
			viewBoxHeight: 3240,
			prefix:        "M473,2793\n",
			contains:      "H400000v40H1017.7",
			suffix:        "M1001 80h400000v40H1017.7z",
		},
		{
			name:          "tall",
			size:          "sqrtTall",
			viewBoxHeight: 2080,
			prefix:        "M702 80 H400000v40\n",
			contains:      "H742v1946 l-4 4-4 4",
			suffix:        "M702 80 H400000v40H742z",
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			got := sqrtPath(tc.size, tc.extra, tc.viewBoxHeight)

			if !strings.HasPrefix(got, tc.prefix) {
				t.Errorf("Path must start with %q, got %q", tc.prefix, got)
			}

			if !strings.Contains(got, tc.contains) {
				t.Errorf("Path must contain %q, got %q", tc.contains, got)
			}

			if !strings.HasSuffix(got, tc.suffix) {
				t.Errorf("Path must end with %q, got %q", tc.suffix, got)
			}

			if _, err := canvas.ParseSVGPath(got); err != nil {
				t.Errorf("Path does not parse: %v", err)
			}
		})
	}
}

func TestSvgPaths(t *testing.T) {
	names := []string{"vec"}
	for _, img := range stretchyImages {
		names = append(names, img.paths...)
	}

	for _, v := range hatVariants {
		names = append(names, "widehat"+string(rune('0'+v.index)), "widecheck"+string(rune('0'+v.index)))
	}

	for _, v := range tildeVariants {
		names = append(names, "tilde"+string(rune('0'+v.index)))
	}

	for _, name := range names {
		data, ok := svgPaths[name]
		if !ok || data == "" {
			t.Errorf("No outline for %s", name)
			continue
		}

		if _, err := canvas.ParseSVGPath(data); err != nil {
			t.Errorf("Outline of %s does not parse: %v", name, err)
		}
	}
}

func TestSvgPaths_Mirrored(t *testing.T) {
	for name, source := range mirroredPaths {
		t.Run(name, func(t *testing.T) {
			got, ok := svgPaths[name]
			if !ok || got == "" {
				t.Fatalf("No outline for %s", name)
			}

			if got == svgPaths[source] {
				t.Errorf("Outline of %s must differ from %s", name, source)
			}

			if _, err := canvas.ParseSVGPath(got); err != nil {
				t.Errorf("Outline of %s does not parse: %v", name, err)
			}
		})
	}
}
