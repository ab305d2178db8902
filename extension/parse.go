package extension

import "strings"

// ParseIdentifiers splits a ';' or ',' separated list. Entries are trimmed,
// empty entries dropped and duplicates removed case-insensitively, keeping
// the first occurrence.
func ParseIdentifiers(value string) []string {
	fields := strings.FieldsFunc(value, func(r rune) bool { return r == ';' || r == ',' })

	seen := make(map[string]bool, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		id := strings.TrimSpace(f)
		if id == "" {
			continue
		}
		key := strings.ToLower(id)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, id)
	}
	return out
}

// FinalIdentifiers returns include without the identifiers in exclude.
func FinalIdentifiers(include, exclude []string) []string {
	drop := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		drop[strings.ToLower(strings.TrimSpace(e))] = true
	}
	out := make([]string, 0, len(include))
	for _, id := range include {
		if !drop[strings.ToLower(id)] {
			out = append(out, id)
		}
	}
	return out
}
