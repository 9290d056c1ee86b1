package katex

import "unicode"

// ColumnSpecs parses the column spec of the array environment: l, c and r
// are columns, | and : draw solid and dashed lines between them.
func ColumnSpecs(raw string) (spec []AlignSpec, err error) {
	for _, char := range raw {
		switch {
		case unicode.IsSpace(char):
			continue
		case char == 'c' || char == 'l' || char == 'r':
			spec = append(spec, AlignSpec{Align: string(char)})
		case char == '|' || char == ':':
			spec = append(spec, AlignSpec{Separator: string(char)})
		default:
			return nil, newParseError(ErrInvalidArgument, nil, "Unknown column alignment: %c", char)
		}
	}

	return spec, nil
}

// columnCount is the number of columns, separators excluded.
func columnCount(spec []AlignSpec) (n int) {
	for _, s := range spec {
		if s.Align != "" {
			n++
		}
	}

	return
}
