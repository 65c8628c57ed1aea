package scenegraph

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const sampleScene = `
scene: /shows/ab/lighting/work/shot010_v003.katana
nodes:
  - name: LookFileBake_hero
    type: LookFileBake
    parameters:
      saveTo: /shows/ab/look/work/hero_v003.klf
      work_template: lookfile_work
      publish_template: lookfile_publish
  - name: Merge_bg
    type: Merge
`

func TestLoadScene(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	if err := os.WriteFile(path, []byte(sampleScene), 0o644); err != nil {
		t.Fatal(err)
	}

	scene, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !scene.Saved() {
		t.Fatal("scene with path must report saved")
	}
	if len(scene.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(scene.Nodes))
	}
}

func TestNodeLookupAndParameters(t *testing.T) {
	scene, err := Parse([]byte(sampleScene))
	if err != nil {
		t.Fatal(err)
	}

	node, err := scene.Node("LookFileBake_hero")
	if err != nil {
		t.Fatal(err)
	}

	saveTo, err := node.Parameter("saveTo")
	if err != nil {
		t.Fatal(err)
	}
	if saveTo != "/shows/ab/look/work/hero_v003.klf" {
		t.Fatalf("unexpected saveTo: %q", saveTo)
	}

	if _, err := node.Parameter("missing"); !errors.Is(err, ErrParameterNotSet) {
		t.Fatalf("expected ErrParameterNotSet, got %v", err)
	}

	if _, err := scene.Node("Nope"); !errors.Is(err, ErrNodeNotFound) {
		t.Fatalf("expected ErrNodeNotFound, got %v", err)
	}
}

func TestNodesOfType(t *testing.T) {
	scene, err := Parse([]byte(sampleScene))
	if err != nil {
		t.Fatal(err)
	}
	bakes := scene.NodesOfType("LookFileBake")
	if len(bakes) != 1 || bakes[0].Name != "LookFileBake_hero" {
		t.Fatalf("unexpected bake nodes: %v", bakes)
	}
}

func TestParseRejectsDuplicateNodes(t *testing.T) {
	doc := `
nodes:
  - name: A
  - name: A
`
	if _, err := Parse([]byte(doc)); err == nil {
		t.Fatal("expected duplicate node error")
	}
}

func TestParseRejectsUnnamedNode(t *testing.T) {
	doc := `
nodes:
  - type: Merge
`
	if _, err := Parse([]byte(doc)); err == nil {
		t.Fatal("expected unnamed node error")
	}
}

func TestUnsavedScene(t *testing.T) {
	scene, err := Parse([]byte("nodes: []"))
	if err != nil {
		t.Fatal(err)
	}
	if scene.Saved() {
		t.Fatal("scene without path must report unsaved")
	}
}
