package template

import (
	"sort"
	"strings"
)

// VersionField is the reserved field name carrying version ordering.
const VersionField = "version"

// Fields holds the concrete values bound to a template's fields for one path.
type Fields map[string]string

// Clone returns an independent copy of the field set.
func (f Fields) Clone() Fields {
	cp := make(Fields, len(f))
	for k, v := range f {
		cp[k] = v
	}
	return cp
}

// Without returns a copy of the field set with the given keys removed.
func (f Fields) Without(keys ...string) Fields {
	cp := f.Clone()
	for _, key := range keys {
		delete(cp, key)
	}
	return cp
}

// Version returns the version field value.
func (f Fields) Version() (string, bool) {
	v, ok := f[VersionField]
	return v, ok
}

// String renders the field set as "k=v k=v" in key order, for logs.
func (f Fields) String() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+f[k])
	}
	return strings.Join(parts, " ")
}

// CompareVersions orders two version strings. Both all-digit values compare
// numerically (leading zeros ignored); anything else compares bytewise.
func CompareVersions(a, b string) int {
	if isDigits(a) && isDigits(b) {
		ta, tb := strings.TrimLeft(a, "0"), strings.TrimLeft(b, "0")
		if len(ta) != len(tb) {
			if len(ta) < len(tb) {
				return -1
			}
			return 1
		}
		return strings.Compare(ta, tb)
	}
	return strings.Compare(a, b)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
