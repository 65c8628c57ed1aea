package template

import (
	"fmt"
	"regexp"
	"strings"
)

// Template is a named path pattern with {field} tokens.
type Template struct {
	name    string
	pattern string

	segments []segment
	fields   []string
	matcher  *regexp.Regexp
}

type segment struct {
	literal string
	field   string
}

// New parses a pattern into a Template. Field tokens use {name} syntax; names
// must be non-empty and may repeat, in which case every occurrence must bind
// the same value.
func New(name, pattern string) (*Template, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("template name is required")
	}
	if strings.TrimSpace(pattern) == "" {
		return nil, fmt.Errorf("template %s: pattern is required", name)
	}

	segments, fields, err := parsePattern(pattern)
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", name, err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("template %s: pattern %q has no fields", name, pattern)
	}

	matcher, err := buildMatcher(segments)
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", name, err)
	}

	return &Template{
		name:     name,
		pattern:  pattern,
		segments: segments,
		fields:   fields,
		matcher:  matcher,
	}, nil
}

func parsePattern(pattern string) ([]segment, []string, error) {
	var segments []segment
	var fields []string
	seen := map[string]struct{}{}

	rest := pattern
	for len(rest) > 0 {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			if strings.ContainsRune(rest, '}') {
				return nil, nil, fmt.Errorf("unbalanced '}' in pattern %q", pattern)
			}
			segments = append(segments, segment{literal: rest})
			break
		}
		if open > 0 {
			literal := rest[:open]
			if strings.ContainsRune(literal, '}') {
				return nil, nil, fmt.Errorf("unbalanced '}' in pattern %q", pattern)
			}
			segments = append(segments, segment{literal: literal})
		}
		rest = rest[open+1:]
		close := strings.IndexByte(rest, '}')
		if close < 0 {
			return nil, nil, fmt.Errorf("unbalanced '{' in pattern %q", pattern)
		}
		field := rest[:close]
		if field == "" || strings.ContainsAny(field, "{}/\\ ") {
			return nil, nil, fmt.Errorf("invalid field name %q in pattern %q", field, pattern)
		}
		segments = append(segments, segment{field: field})
		if _, ok := seen[field]; !ok {
			seen[field] = struct{}{}
			fields = append(fields, field)
		}
		rest = rest[close+1:]
	}

	return segments, fields, nil
}

func buildMatcher(segments []segment) (*regexp.Regexp, error) {
	var sb strings.Builder
	sb.WriteString("^")
	for _, seg := range segments {
		if seg.field == "" {
			sb.WriteString(regexp.QuoteMeta(seg.literal))
			continue
		}
		if seg.field == VersionField {
			sb.WriteString(`(\d+)`)
		} else {
			sb.WriteString(`([^/\\]+)`)
		}
	}
	sb.WriteString("$")
	return regexp.Compile(sb.String())
}

// Name returns the registry name of the template.
func (t *Template) Name() string { return t.name }

// Pattern returns the raw pattern string.
func (t *Template) Pattern() string { return t.pattern }

// FieldNames returns the distinct field names in pattern order.
func (t *Template) FieldNames() []string {
	cp := make([]string, len(t.fields))
	copy(cp, t.fields)
	return cp
}

// Validate reports whether path matches the template.
func (t *Template) Validate(path string) bool {
	_, ok := t.ValidateAndFields(path)
	return ok
}

// ValidateAndFields extracts the field set from path, reporting false when the
// path does not match the template or repeated fields bind inconsistently.
func (t *Template) ValidateAndFields(path string) (Fields, bool) {
	match := t.matcher.FindStringSubmatch(path)
	if match == nil {
		return nil, false
	}

	fields := make(Fields, len(t.fields))
	groupIndex := 1
	for _, seg := range t.segments {
		if seg.field == "" {
			continue
		}
		value := match[groupIndex]
		groupIndex++
		if existing, ok := fields[seg.field]; ok && existing != value {
			return nil, false
		}
		fields[seg.field] = value
	}
	return fields, true
}

// Fields extracts the field set from path, erroring when the path does not
// match.
func (t *Template) Fields(path string) (Fields, error) {
	fields, ok := t.ValidateAndFields(path)
	if !ok {
		return nil, fmt.Errorf("path %q does not match template %s (%s)", path, t.name, t.pattern)
	}
	return fields, nil
}

// Apply substitutes fields into the pattern to produce a concrete path. Every
// field in the pattern must be bound.
func (t *Template) Apply(fields Fields) (string, error) {
	var sb strings.Builder
	for _, seg := range t.segments {
		if seg.field == "" {
			sb.WriteString(seg.literal)
			continue
		}
		value, ok := fields[seg.field]
		if !ok || value == "" {
			return "", fmt.Errorf("template %s: field %q is unbound", t.name, seg.field)
		}
		sb.WriteString(value)
	}
	return sb.String(), nil
}
