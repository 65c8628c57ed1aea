package view

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"lookpub/internal/session"
)

var titleCaser = cases.Title(language.English)

// Choice is one selectable work-file version.
type Choice struct {
	// Label is the short display form, the file base name.
	Label string
	// Path is the full work path the label stands for.
	Path string
}

// NodeChoices is the per-node slice of the model: the ordered version choices
// (highest version first) and the currently selected path.
type NodeChoices struct {
	Node     string
	Title    string
	Choices  []Choice
	Selected string
}

// Model is the full version-selection view: one entry per publishable node,
// in session order.
type Model struct {
	Items []NodeChoices
}

// FromItems builds the model from session items. Only items still publishable
// contribute entries.
func FromItems(items []*session.Item) Model {
	var model Model
	for _, item := range items {
		if item == nil || !item.Publishable() {
			continue
		}
		entry := NodeChoices{
			Node:     item.Node,
			Title:    DisplayTitle(item.Node),
			Selected: item.Settings.ToPublish,
		}
		for _, path := range item.Settings.WorkPaths {
			entry.Choices = append(entry.Choices, Choice{
				Label: filepath.Base(path),
				Path:  path,
			})
		}
		model.Items = append(model.Items, entry)
	}
	return model
}

// Node returns the entry for a node name.
func (m Model) Node(name string) (NodeChoices, bool) {
	for _, item := range m.Items {
		if item.Node == name {
			return item, true
		}
	}
	return NodeChoices{}, false
}

// Select records the operator's choice for a node. The chosen value may be a
// full path or a choice label; it must name one of the node's choices.
func (m *Model) Select(node, choice string) error {
	for i := range m.Items {
		if m.Items[i].Node != node {
			continue
		}
		for _, c := range m.Items[i].Choices {
			if c.Path == choice || c.Label == choice {
				m.Items[i].Selected = c.Path
				return nil
			}
		}
		return fmt.Errorf("node %q has no version %q", node, choice)
	}
	return fmt.Errorf("no publishable item for node %q", node)
}

// SettingsFor projects a node's entry back into session settings.
func (m Model) SettingsFor(node string) (session.NodeSettings, bool) {
	entry, ok := m.Node(node)
	if !ok {
		return session.NodeSettings{}, false
	}
	settings := session.NodeSettings{ToPublish: entry.Selected}
	for _, c := range entry.Choices {
		settings.WorkPaths = append(settings.WorkPaths, c.Path)
	}
	return settings, true
}

// DisplayTitle renders a node name as an operator-facing title: separators
// become spaces and words are title-cased.
func DisplayTitle(node string) string {
	cleaned := strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(node)
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	if cleaned == "" {
		return node
	}
	return titleCaser.String(cleaned)
}
