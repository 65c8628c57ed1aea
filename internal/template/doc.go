// Package template implements the named path templates that locate work and
// publish files. A pattern is literal path text with {field} tokens; the
// version field matches zero-padded digits and orders candidate versions.
// Templates validate paths, extract field sets, apply field sets back into
// concrete paths, and enumerate existing paths for a partial field set.
package template
