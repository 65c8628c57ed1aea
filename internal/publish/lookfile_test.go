package publish

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"lookpub/internal/config"
	"lookpub/internal/scan"
	"lookpub/internal/scenegraph"
)

func newLookFileFixture(t *testing.T, workVersions, publishVersions []string) (*LookFilePlugin, string) {
	t.Helper()
	registry, dir := lookTree(t, workVersions, publishVersions)

	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(dir, "data")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")

	scene := &scenegraph.Scene{
		Path:  filepath.Join(dir, "scene.yaml"),
		Nodes: []scenegraph.Node{bakeNode(dir, workVersions[0])},
	}
	plugin := NewLookFilePlugin(scene, registry, NewBase(&cfg, nil), nil)
	return plugin, dir
}

func lookItem() scan.Item {
	return scan.Item{Type: scan.TypeLookFile, Name: "LookFileBake_hero"}
}

func acceptedTask(t *testing.T, plugin *LookFilePlugin) *Task {
	t.Helper()
	task := NewTask("LookFileBake_hero")
	acceptance, err := plugin.Accept(context.Background(), task, lookItem())
	if err != nil {
		t.Fatal(err)
	}
	if !acceptance.Accepted {
		t.Fatalf("expected acceptance, got %+v", acceptance)
	}
	return task
}

func TestLookFileAcceptRecordsCandidates(t *testing.T) {
	plugin, dir := newLookFileFixture(t, []string{"001", "002"}, []string{"001"})

	task := acceptedTask(t, plugin)
	settings, ok := task.Settings()
	if !ok {
		t.Fatal("settings not recorded")
	}
	want := filepath.Join(dir, "work", "hero_v002.klf")
	if settings.ToPublish != want || len(settings.WorkPaths) != 1 {
		t.Fatalf("unexpected settings: %+v", settings)
	}
}

func TestLookFileAcceptIneligibleStaysVisible(t *testing.T) {
	plugin, _ := newLookFileFixture(t, []string{"001"}, []string{"001"})

	task := NewTask("LookFileBake_hero")
	acceptance, err := plugin.Accept(context.Background(), task, lookItem())
	if err != nil {
		t.Fatal(err)
	}
	if acceptance.Accepted || !acceptance.Visible {
		t.Fatalf("rejection should stay visible: %+v", acceptance)
	}
	if acceptance.Reason != ReasonAllPublished {
		t.Fatalf("unexpected reason: %s", acceptance.Reason)
	}
}

func TestLookFileValidatePasses(t *testing.T) {
	plugin, _ := newLookFileFixture(t, []string{"001", "002"}, nil)
	task := acceptedTask(t, plugin)

	if err := plugin.Validate(context.Background(), task, lookItem()); err != nil {
		t.Fatal(err)
	}
}

func TestLookFileValidateWorkFileRemoved(t *testing.T) {
	plugin, _ := newLookFileFixture(t, []string{"001"}, nil)
	task := acceptedTask(t, plugin)

	settings, _ := task.Settings()
	if err := os.Remove(settings.ToPublish); err != nil {
		t.Fatal(err)
	}

	err := plugin.Validate(context.Background(), task, lookItem())
	if !errors.Is(err, ErrValidation) || !errors.Is(err, ErrWorkFileMissing) {
		t.Fatalf("expected missing-work-file validation error, got %v", err)
	}
}

func TestLookFileValidateAlreadyCopied(t *testing.T) {
	plugin, dir := newLookFileFixture(t, []string{"001"}, nil)
	task := acceptedTask(t, plugin)

	// The destination appears between accept and validate.
	writeFile(t, filepath.Join(dir, "publish", "hero_v001.klf"))

	err := plugin.Validate(context.Background(), task, lookItem())
	if !errors.Is(err, ErrAlreadyPublished) {
		t.Fatalf("expected already-copied validation error, got %v", err)
	}
}

func TestLookFileValidatePathMismatch(t *testing.T) {
	plugin, dir := newLookFileFixture(t, []string{"001"}, nil)
	task := acceptedTask(t, plugin)

	rogue := filepath.Join(dir, "rogue.klf")
	writeFile(t, rogue)
	settings, _ := task.Settings()
	settings.ToPublish = rogue
	task.SetSettings(settings)

	err := plugin.Validate(context.Background(), task, lookItem())
	if !errors.Is(err, ErrPathMismatch) {
		t.Fatalf("expected path-mismatch validation error, got %v", err)
	}
}

func TestLookFileValidateTemplateMissing(t *testing.T) {
	plugin, _ := newLookFileFixture(t, []string{"001"}, nil)
	task := acceptedTask(t, plugin)

	plugin.scene.Nodes[0].Parameters[ParamPublishTemplate] = "nope"

	err := plugin.Validate(context.Background(), task, lookItem())
	if !errors.Is(err, ErrTemplateMissing) {
		t.Fatalf("expected template-missing validation error, got %v", err)
	}
}

func TestLookFileValidateNoSelection(t *testing.T) {
	plugin, _ := newLookFileFixture(t, []string{"001"}, nil)

	err := plugin.Validate(context.Background(), NewTask("LookFileBake_hero"), lookItem())
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLookFilePublishCopiesAndReports(t *testing.T) {
	plugin, dir := newLookFileFixture(t, []string{"001", "002"}, nil)
	task := acceptedTask(t, plugin)

	record, err := plugin.Publish(context.Background(), task, lookItem())
	if err != nil {
		t.Fatal(err)
	}

	want := filepath.Join(dir, "publish", "hero_v002.klf")
	if record.PublishPath != want || record.Version != "002" {
		t.Fatalf("unexpected record: %+v", record)
	}
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "klf" {
		t.Fatalf("unexpected published content: %q", data)
	}

	// A second publish of the same selection must refuse to overwrite.
	if err := plugin.Validate(context.Background(), task, lookItem()); !errors.Is(err, ErrAlreadyPublished) {
		t.Fatalf("expected already-copied after publish, got %v", err)
	}
}

func TestLookFileSettingsViewRoundTrip(t *testing.T) {
	plugin, dir := newLookFileFixture(t, []string{"001", "002", "003"}, nil)
	task := acceptedTask(t, plugin)

	model := plugin.SettingsView(task)
	if err := model.Select("LookFileBake_hero", "hero_v002.klf"); err != nil {
		t.Fatal(err)
	}
	if err := plugin.ApplySettingsView(task, model); err != nil {
		t.Fatal(err)
	}

	settings, _ := task.Settings()
	if settings.ToPublish != filepath.Join(dir, "work", "hero_v002.klf") {
		t.Fatalf("selection not applied: %+v", settings)
	}
}

func TestMatchesFilters(t *testing.T) {
	plugin, _ := newLookFileFixture(t, []string{"001"}, nil)

	if !Matches(plugin, scan.TypeLookFile) {
		t.Fatal("plugin should claim look-file items")
	}
	if Matches(plugin, scan.TypeWorkFile) {
		t.Fatal("plugin should not claim work-file items")
	}
}

func TestWrapClassification(t *testing.T) {
	err := Wrap(ErrValidation, "node", "validate", "detail", ErrWorkFileMissing)
	if !errors.Is(err, ErrValidation) || !errors.Is(err, ErrWorkFileMissing) {
		t.Fatalf("both markers should match: %v", err)
	}

	if _, ok := AsNotEligible(err); ok {
		t.Fatal("wrapped validation error is not a not-eligible error")
	}
}
