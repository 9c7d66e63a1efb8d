package util

import "strings"

// SplitCommand splits a console line into at most three fields on the
// first two spaces: command, first argument, and the untouched remainder.
// Empty fields are dropped.
func SplitCommand(line string) []string {
	out := make([]string, 0, 3)
	rest := line
	for i := 0; i < 2; i++ {
		field, tail, found := strings.Cut(rest, " ")
		if field != "" {
			out = append(out, field)
		}
		if !found {
			return out
		}
		rest = tail
	}
	if rest != "" {
		out = append(out, rest)
	}
	return out
}

// LowerFields lowercases the fields at the given positions in place.
func LowerFields(fields []string, idx ...int) {
	for _, i := range idx {
		if i >= 0 && i < len(fields) {
			fields[i] = strings.ToLower(fields[i])
		}
	}
}
