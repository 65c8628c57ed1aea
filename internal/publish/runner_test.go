package publish

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"lookpub/internal/config"
	"lookpub/internal/scenegraph"
	"lookpub/internal/session"
)

func newRunnerFixture(t *testing.T, workVersions, publishVersions []string) (*Runner, *session.Store, *scenegraph.Scene, string) {
	t.Helper()
	registry, dir := lookTree(t, workVersions, publishVersions)

	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(dir, "data")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")

	store, err := session.Open(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })

	scene := &scenegraph.Scene{
		Path:  filepath.Join(dir, "scene.yaml"),
		Nodes: []scenegraph.Node{bakeNode(dir, workVersions[0])},
	}
	plugin := NewLookFilePlugin(scene, registry, NewBase(&cfg, nil), nil)
	return NewRunner(store, nil, plugin), store, scene, dir
}

func TestRunnerAcceptRecordsSession(t *testing.T) {
	runner, store, scene, dir := newRunnerFixture(t, []string{"001", "002"}, []string{"001"})
	ctx := context.Background()

	sess, items, err := runner.Accept(ctx, scene)
	if err != nil {
		t.Fatal(err)
	}
	if sess.ScenePath != scene.Path {
		t.Fatalf("unexpected scene path: %s", sess.ScenePath)
	}
	// The work-file item has no plugin; only the bake node is recorded.
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	item := items[0]
	if item.Status != session.StatusEligible {
		t.Fatalf("unexpected status: %s (%s)", item.Status, item.Reason)
	}
	if item.Settings.ToPublish != filepath.Join(dir, "work", "hero_v002.klf") {
		t.Fatalf("unexpected default selection: %+v", item.Settings)
	}

	stored, err := store.ItemsBySession(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 1 || stored[0].Node != "LookFileBake_hero" {
		t.Fatalf("item not persisted: %+v", stored)
	}
}

func TestRunnerAcceptIneligible(t *testing.T) {
	runner, _, scene, _ := newRunnerFixture(t, []string{"001"}, []string{"001"})

	_, items, err := runner.Accept(context.Background(), scene)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].Status != session.StatusIneligible {
		t.Fatalf("expected ineligible item, got %+v", items)
	}
	if items[0].Reason != string(ReasonAllPublished) {
		t.Fatalf("unexpected reason: %s", items[0].Reason)
	}
}

func TestRunnerAcceptRejectsUnsavedScene(t *testing.T) {
	runner, _, scene, _ := newRunnerFixture(t, []string{"001"}, nil)
	scene.Path = ""

	if _, _, err := runner.Accept(context.Background(), scene); err == nil {
		t.Fatal("expected error for unsaved scene")
	}
}

func TestRunnerSelectOverridesDefault(t *testing.T) {
	runner, _, scene, dir := newRunnerFixture(t, []string{"001", "002"}, nil)
	ctx := context.Background()

	sess, _, err := runner.Accept(ctx, scene)
	if err != nil {
		t.Fatal(err)
	}

	item, err := runner.Select(ctx, sess.ID, "LookFileBake_hero", "hero_v001.klf")
	if err != nil {
		t.Fatal(err)
	}
	if item.Settings.ToPublish != filepath.Join(dir, "work", "hero_v001.klf") {
		t.Fatalf("selection not applied: %+v", item.Settings)
	}

	if _, err := runner.Select(ctx, sess.ID, "LookFileBake_hero", "hero_v099.klf"); err == nil {
		t.Fatal("expected error for unknown version")
	}
	if _, err := runner.Select(ctx, sess.ID, "Nope", "hero_v001.klf"); err == nil {
		t.Fatal("expected error for unknown node")
	}
}

func TestRunnerValidateMarksItems(t *testing.T) {
	runner, _, scene, _ := newRunnerFixture(t, []string{"001"}, nil)
	ctx := context.Background()

	sess, items, err := runner.Accept(ctx, scene)
	if err != nil {
		t.Fatal(err)
	}

	validated, err := runner.Validate(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if validated[0].Status != session.StatusValidated {
		t.Fatalf("unexpected status: %s (%s)", validated[0].Status, validated[0].Reason)
	}

	// Remove the work file and validate again: the item fails with a reason.
	if err := os.Remove(items[0].Settings.ToPublish); err != nil {
		t.Fatal(err)
	}
	failed, err := runner.Validate(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if failed[0].Status != session.StatusFailed || failed[0].Reason == "" {
		t.Fatalf("expected failed item with reason, got %+v", failed[0])
	}
}

func TestRunnerPublishEndToEnd(t *testing.T) {
	runner, store, scene, dir := newRunnerFixture(t, []string{"001", "002"}, nil)
	ctx := context.Background()

	sess, _, err := runner.Accept(ctx, scene)
	if err != nil {
		t.Fatal(err)
	}

	published, err := runner.Publish(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	item := published[0]
	want := filepath.Join(dir, "publish", "hero_v002.klf")
	if item.Status != session.StatusPublished || item.PublishPath != want {
		t.Fatalf("unexpected publish outcome: %+v", item)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("published file missing: %v", err)
	}

	records, err := store.Publishes(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Version != "002" || records[0].PublishPath != want {
		t.Fatalf("unexpected publish records: %+v", records)
	}

	// A second publish pass is a no-op: the item is already published.
	again, err := runner.Publish(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if again[0].Status != session.StatusPublished {
		t.Fatalf("status changed on re-publish: %s", again[0].Status)
	}
	records, err = store.Publishes(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("re-publish added records: %d", len(records))
	}

	// A fresh accept after publishing sees only the remaining version.
	_, items2, err := runner.Accept(ctx, scene)
	if err != nil {
		t.Fatal(err)
	}
	if items2[0].Settings.ToPublish != filepath.Join(dir, "work", "hero_v001.klf") {
		t.Fatalf("published version should be excluded: %+v", items2[0].Settings)
	}
}

func TestRunnerPublishFailureIsolated(t *testing.T) {
	runner, _, scene, _ := newRunnerFixture(t, []string{"001"}, nil)
	ctx := context.Background()

	sess, items, err := runner.Accept(ctx, scene)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(items[0].Settings.ToPublish); err != nil {
		t.Fatal(err)
	}

	published, err := runner.Publish(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if published[0].Status != session.StatusFailed || published[0].Reason == "" {
		t.Fatalf("expected failed item, got %+v", published[0])
	}
}

func TestRunnerSelectionView(t *testing.T) {
	runner, _, scene, _ := newRunnerFixture(t, []string{"001", "002"}, nil)
	ctx := context.Background()

	sess, _, err := runner.Accept(ctx, scene)
	if err != nil {
		t.Fatal(err)
	}

	model, err := runner.SelectionView(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(model.Items) != 1 || len(model.Items[0].Choices) != 2 {
		t.Fatalf("unexpected view model: %+v", model)
	}
}
