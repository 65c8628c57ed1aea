// Package view builds the declarative version-selection model shown to the
// operator: one ordered list of version choices per node, decoupled from any
// rendering toolkit. The CLI renders it as a table or an interactive prompt
// and feeds the final choice back into the session settings.
package view
