package template

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Paths enumerates every existing path matching the template with the given
// fields bound. Unbound fields act as wildcards, so a field set without the
// version field spans all versions. Results are re-validated against the
// template and sorted lexically ascending.
func (t *Template) Paths(partial Fields) ([]string, error) {
	pattern, err := t.globPattern(partial)
	if err != nil {
		return nil, err
	}

	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("template %s: glob %q: %w", t.name, pattern, err)
	}

	var paths []string
	for _, match := range matches {
		fields, ok := t.ValidateAndFields(match)
		if !ok {
			continue
		}
		if !bindsConsistently(fields, partial) {
			continue
		}
		paths = append(paths, match)
	}
	sort.Strings(paths)
	return paths, nil
}

func (t *Template) globPattern(partial Fields) (string, error) {
	var sb strings.Builder
	for _, seg := range t.segments {
		if seg.field == "" {
			sb.WriteString(escapeGlob(seg.literal))
			continue
		}
		if value, ok := partial[seg.field]; ok && value != "" {
			sb.WriteString(escapeGlob(value))
		} else {
			sb.WriteString("*")
		}
	}
	return sb.String(), nil
}

func bindsConsistently(fields, partial Fields) bool {
	for key, want := range partial {
		if want == "" {
			continue
		}
		if got, ok := fields[key]; ok && got != want {
			return false
		}
	}
	return true
}

func escapeGlob(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', '\\':
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
