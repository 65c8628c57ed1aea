package publish

import (
	"lookpub/internal/session"
)

// Task is the per-task settings context handed through the accept, validate,
// and publish phases. It names the node the task operates on and carries the
// per-node settings map shared with the operator UI.
type Task struct {
	Node         string
	NodeSettings map[string]session.NodeSettings
}

// NewTask returns a task for one node with an empty settings map.
func NewTask(node string) *Task {
	return &Task{
		Node:         node,
		NodeSettings: map[string]session.NodeSettings{},
	}
}

// Settings returns the settings for the task's node.
func (t *Task) Settings() (session.NodeSettings, bool) {
	if t == nil || t.NodeSettings == nil {
		return session.NodeSettings{}, false
	}
	settings, ok := t.NodeSettings[t.Node]
	return settings, ok
}

// SetSettings stores settings for the task's node.
func (t *Task) SetSettings(settings session.NodeSettings) {
	if t.NodeSettings == nil {
		t.NodeSettings = map[string]session.NodeSettings{}
	}
	t.NodeSettings[t.Node] = settings
}
