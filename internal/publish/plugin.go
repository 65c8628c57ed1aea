package publish

import (
	"context"
	"path"

	"lookpub/internal/scan"
	"lookpub/internal/session"
	"lookpub/internal/view"
)

// Acceptance reports whether a plugin claims an item and how the item should
// initially present to the operator.
type Acceptance struct {
	Accepted bool
	Visible  bool
	Enabled  bool
	Checked  bool
	// Reason explains a rejection when the item was examined but produced no
	// candidates.
	Reason NotEligibleReason
}

// Plugin is the capability interface every publisher variant implements. The
// lifecycle is accept, then validate, then publish; each phase is
// independently callable against current disk state. SettingsView and
// ApplySettingsView round-trip the operator-facing version selection.
type Plugin interface {
	Name() string
	Description() string

	// ItemFilters returns the item-type globs this plugin is interested in.
	ItemFilters() []string

	Accept(ctx context.Context, task *Task, item scan.Item) (Acceptance, error)
	Validate(ctx context.Context, task *Task, item scan.Item) error

	// Publish performs the copy and describes what was published. The record
	// carries node, version, and paths; the caller owns session bookkeeping.
	Publish(ctx context.Context, task *Task, item scan.Item) (*session.PublishRecord, error)

	SettingsView(task *Task) view.Model
	ApplySettingsView(task *Task, model view.Model) error
}

// Matches reports whether the plugin's item filters cover the item type.
func Matches(p Plugin, itemType string) bool {
	for _, filter := range p.ItemFilters() {
		if ok, err := path.Match(filter, itemType); err == nil && ok {
			return true
		}
	}
	return false
}
