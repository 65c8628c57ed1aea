package publish

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"lookpub/internal/logging"
	"lookpub/internal/scan"
	"lookpub/internal/scenegraph"
	"lookpub/internal/session"
	"lookpub/internal/view"
)

// Runner drives scene items through the publish lifecycle against the session
// store. Each phase reads current state from the store, applies the matching
// plugin, and writes the outcome back; failures are isolated per item so one
// bad node never blocks the rest.
type Runner struct {
	store   *session.Store
	plugins []Plugin
	logger  *slog.Logger
}

// NewRunner builds a runner over the given plugins. Plugin order matters: the
// first plugin whose filters match an item type claims the item.
func NewRunner(store *session.Store, logger *slog.Logger, plugins ...Plugin) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{store: store, plugins: plugins, logger: logger}
}

// Accept scans the scene, runs every claimed item through its plugin's accept
// phase, and records the outcomes in a new session.
func (r *Runner) Accept(ctx context.Context, scene *scenegraph.Scene) (*session.Session, []*session.Item, error) {
	scanned, err := scan.Scene(scene)
	if err != nil {
		return nil, nil, err
	}

	sess, err := r.store.NewSession(ctx, scene.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("create session: %w", err)
	}

	var items []*session.Item
	for _, scanItem := range scanned {
		plugin := r.pluginFor(scanItem.Type)
		if plugin == nil {
			r.logger.Debug("no plugin claims item",
				logging.Args(
					logging.String("item", scanItem.Name),
					logging.String("type", scanItem.Type),
				)...)
			continue
		}

		item := &session.Item{
			SessionID: sess.ID,
			Node:      scanItem.Name,
			ItemType:  scanItem.Type,
		}

		task := NewTask(scanItem.Name)
		acceptance, err := plugin.Accept(ctx, task, scanItem)
		switch {
		case err != nil:
			item.Status = session.StatusFailed
			item.Reason = err.Error()
			r.logger.Error("accept failed",
				logging.Args(logging.String("node", scanItem.Name), logging.Error(err))...)
		case !acceptance.Accepted:
			item.Status = session.StatusIneligible
			item.Reason = string(acceptance.Reason)
		default:
			item.Status = session.StatusEligible
			item.Settings, _ = task.Settings()
		}

		if err := r.store.AddItem(ctx, item); err != nil {
			return nil, nil, fmt.Errorf("record item %q: %w", scanItem.Name, err)
		}
		items = append(items, item)
	}

	return sess, items, nil
}

// Select applies the operator's version choice for one node through the
// plugin's settings view.
func (r *Runner) Select(ctx context.Context, sessionID, node, choice string) (*session.Item, error) {
	item, err := r.store.ItemByNode(ctx, sessionID, node)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("session %s has no item for node %q", sessionID, node)
	}
	if !item.Publishable() {
		return nil, fmt.Errorf("node %q is not publishable: %s", node, item.Reason)
	}

	plugin := r.pluginFor(item.ItemType)
	if plugin == nil {
		return nil, fmt.Errorf("no plugin claims item type %q", item.ItemType)
	}

	task := NewTask(node)
	task.SetSettings(item.Settings)

	model := plugin.SettingsView(task)
	if err := model.Select(node, choice); err != nil {
		return nil, err
	}
	if err := plugin.ApplySettingsView(task, model); err != nil {
		return nil, err
	}

	item.Settings, _ = task.Settings()
	// A new choice invalidates an earlier validation pass.
	item.Status = session.StatusEligible
	if err := r.store.UpdateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("update item %q: %w", node, err)
	}
	return item, nil
}

// SelectionView builds the combined version-selection model for a session.
func (r *Runner) SelectionView(ctx context.Context, sessionID string) (view.Model, error) {
	items, err := r.store.ItemsBySession(ctx, sessionID)
	if err != nil {
		return view.Model{}, err
	}
	return view.FromItems(items), nil
}

// Validate runs the validate phase for every publishable item in the session.
func (r *Runner) Validate(ctx context.Context, sessionID string) ([]*session.Item, error) {
	return r.eachPublishable(ctx, sessionID, func(ctx context.Context, plugin Plugin, task *Task, item *session.Item) error {
		if err := plugin.Validate(ctx, task, r.scanItem(item)); err != nil {
			item.Status = session.StatusFailed
			item.Reason = err.Error()
			return err
		}
		item.Status = session.StatusValidated
		item.Reason = ""
		return nil
	})
}

// Publish validates and publishes every publishable item in the session.
// Items are revalidated immediately before the copy so stale selections fail
// instead of overwriting published files.
func (r *Runner) Publish(ctx context.Context, sessionID string) ([]*session.Item, error) {
	return r.eachPublishable(ctx, sessionID, func(ctx context.Context, plugin Plugin, task *Task, item *session.Item) error {
		scanItem := r.scanItem(item)
		if err := plugin.Validate(ctx, task, scanItem); err != nil {
			item.Status = session.StatusFailed
			item.Reason = err.Error()
			return err
		}

		record, err := plugin.Publish(ctx, task, scanItem)
		if err != nil {
			item.Status = session.StatusFailed
			item.Reason = err.Error()
			return err
		}

		record.SessionID = item.SessionID
		record.PublishedAt = time.Now().UTC()
		if err := r.store.RecordPublish(ctx, record); err != nil {
			return fmt.Errorf("record publish for %q: %w", item.Node, err)
		}

		item.Status = session.StatusPublished
		item.PublishPath = record.PublishPath
		item.Reason = ""
		return nil
	})
}

// eachPublishable applies phase to every publishable item and persists the
// resulting state. Phase errors are captured on the item; only store failures
// abort the walk.
func (r *Runner) eachPublishable(ctx context.Context, sessionID string, phase func(context.Context, Plugin, *Task, *session.Item) error) ([]*session.Item, error) {
	items, err := r.store.ItemsBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		if !item.Publishable() {
			continue
		}
		plugin := r.pluginFor(item.ItemType)
		if plugin == nil {
			continue
		}

		task := NewTask(item.Node)
		task.SetSettings(item.Settings)

		if err := phase(ctx, plugin, task, item); err != nil {
			r.logger.Error("phase failed",
				logging.Args(logging.String("node", item.Node), logging.Error(err))...)
		}
		if err := r.store.UpdateItem(ctx, item); err != nil {
			return nil, fmt.Errorf("update item %q: %w", item.Node, err)
		}
	}
	return items, nil
}

func (r *Runner) pluginFor(itemType string) Plugin {
	for _, plugin := range r.plugins {
		if Matches(plugin, itemType) {
			return plugin
		}
	}
	return nil
}

func (r *Runner) scanItem(item *session.Item) scan.Item {
	return scan.Item{Type: item.ItemType, Name: item.Node}
}
