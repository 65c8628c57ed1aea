package scan

import (
	"errors"
	"path/filepath"

	"lookpub/internal/scenegraph"
)

// Item types produced by the scene scan.
const (
	TypeWorkFile = "session.workfile"
	TypeLookFile = "session.lookfile"
)

// LookFileBakeType is the scene node type that produces look files.
const LookFileBakeType = "LookFileBake"

// ErrUnsavedScene is returned when the scene has never been saved; there is
// nothing on disk to publish from.
var ErrUnsavedScene = errors.New("save the scene before publishing")

// Item is one publishable unit found in the scene.
type Item struct {
	// Type drives plugin matching (see publish.Plugin.ItemFilters).
	Type string
	// Name labels the item in operator-facing output. For node-backed items
	// it is the node name.
	Name string
}

// Scene lists the publishable items in a scene document: the scene work file
// itself, then one item per look-file bake node in document order.
func Scene(scene *scenegraph.Scene) ([]Item, error) {
	if scene == nil || !scene.Saved() {
		return nil, ErrUnsavedScene
	}

	items := []Item{{
		Type: TypeWorkFile,
		Name: filepath.Base(scene.Path),
	}}

	for _, node := range scene.NodesOfType(LookFileBakeType) {
		items = append(items, Item{
			Type: TypeLookFile,
			Name: node.Name,
		})
	}

	return items, nil
}
