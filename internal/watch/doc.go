// Package watch observes work-file directories and reports settled changes.
// Bake processes write look files incrementally, so raw filesystem events are
// debounced per path; a change is reported only after the configured quiet
// interval.
package watch
