// Package publish implements the publish lifecycle for scene items: the
// accept phase resolves which work-file versions are eligible for publishing,
// the validate phase re-checks the operator's selection against current disk
// state, and the publish phase copies and registers the selected version.
//
// Concrete publishers implement the Plugin capability interface; Base supplies
// the default copy/registration behavior a plugin delegates to explicitly.
package publish
