package template

import (
	"errors"
	"testing"

	"lookpub/internal/config"
)

func TestRegistryGet(t *testing.T) {
	registry := NewRegistry()
	tpl, err := New("work", "/look/work/{name}_v{version}.klf")
	if err != nil {
		t.Fatal(err)
	}
	registry.Add(tpl)

	got, err := registry.Get("work")
	if err != nil {
		t.Fatal(err)
	}
	if got.Name() != "work" {
		t.Fatalf("unexpected template: %s", got.Name())
	}

	if _, err := registry.Get("missing"); !errors.Is(err, ErrUnknownTemplate) {
		t.Fatalf("expected ErrUnknownTemplate, got %v", err)
	}
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.ProjectRoot = "/shows/demo"
	cfg.Templates = map[string]config.Template{
		"lookfile_work":    {Pattern: "look/work/{name}_v{version}.klf"},
		"lookfile_publish": {Pattern: "look/publish/{name}_v{version}.klf"},
	}

	registry, err := FromConfig(&cfg)
	if err != nil {
		t.Fatal(err)
	}

	tpl, err := registry.Get("lookfile_work")
	if err != nil {
		t.Fatal(err)
	}
	if tpl.Pattern() != "/shows/demo/look/work/{name}_v{version}.klf" {
		t.Fatalf("pattern not resolved against project root: %q", tpl.Pattern())
	}

	names := registry.Names()
	if len(names) != 2 || names[0] != "lookfile_publish" {
		t.Fatalf("unexpected names: %v", names)
	}
}

func TestFromConfigRejectsBadPattern(t *testing.T) {
	cfg := config.Default()
	cfg.Templates = map[string]config.Template{
		"broken": {Pattern: "/look/{name"},
	}
	if _, err := FromConfig(&cfg); err == nil {
		t.Fatal("expected parse error")
	}
}
