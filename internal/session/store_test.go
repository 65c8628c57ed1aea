package session

import (
	"context"
	"testing"

	"lookpub/internal/config"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.DataDir = t.TempDir()
	cfg.Paths.LogDir = t.TempDir()

	store, err := Open(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSessionRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sess, err := store.NewSession(ctx, "/shows/ab/scene_v003.katana")
	if err != nil {
		t.Fatal(err)
	}
	if sess.ID == "" {
		t.Fatal("session id missing")
	}

	got, err := store.GetSession(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.ScenePath != sess.ScenePath {
		t.Fatalf("unexpected session: %+v", got)
	}

	latest, err := store.LatestSession(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if latest == nil || latest.ID != sess.ID {
		t.Fatalf("latest session mismatch: %+v", latest)
	}
}

func TestGetSessionMissing(t *testing.T) {
	store := newTestStore(t)

	sess, err := store.GetSession(context.Background(), "nope")
	if err != nil {
		t.Fatal(err)
	}
	if sess != nil {
		t.Fatalf("expected nil for unknown session, got %+v", sess)
	}
}

func TestItemLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sess, err := store.NewSession(ctx, "/shows/ab/scene_v003.katana")
	if err != nil {
		t.Fatal(err)
	}

	item := &Item{
		SessionID: sess.ID,
		Node:      "LookFileBake_hero",
		ItemType:  "session.lookfile",
		Status:    StatusEligible,
		Settings: NodeSettings{
			WorkPaths: []string{"/w/hero_v003.klf", "/w/hero_v002.klf"},
			ToPublish: "/w/hero_v003.klf",
		},
	}
	if err := store.AddItem(ctx, item); err != nil {
		t.Fatal(err)
	}
	if item.ID == 0 {
		t.Fatal("item id not assigned")
	}

	item.Status = StatusPublished
	item.PublishPath = "/p/hero_v003.klf"
	if err := store.UpdateItem(ctx, item); err != nil {
		t.Fatal(err)
	}

	got, err := store.ItemByNode(ctx, sess.ID, "LookFileBake_hero")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil {
		t.Fatal("item not found")
	}
	if got.Status != StatusPublished {
		t.Fatalf("status = %s, want %s", got.Status, StatusPublished)
	}
	if len(got.Settings.WorkPaths) != 2 || got.Settings.ToPublish != "/w/hero_v003.klf" {
		t.Fatalf("settings lost in round trip: %+v", got.Settings)
	}
	if got.PublishPath != "/p/hero_v003.klf" {
		t.Fatalf("publish path lost: %q", got.PublishPath)
	}

	items, err := store.ItemsBySession(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
}

func TestItemByNodeMissing(t *testing.T) {
	store := newTestStore(t)
	item, err := store.ItemByNode(context.Background(), "none", "node")
	if err != nil {
		t.Fatal(err)
	}
	if item != nil {
		t.Fatalf("expected nil, got %+v", item)
	}
}

func TestPublishRecords(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sess, err := store.NewSession(ctx, "/shows/ab/scene.katana")
	if err != nil {
		t.Fatal(err)
	}

	record := &PublishRecord{
		SessionID:   sess.ID,
		Node:        "LookFileBake_hero",
		Version:     "003",
		WorkPath:    "/w/hero_v003.klf",
		PublishPath: "/p/hero_v003.klf",
	}
	if err := store.RecordPublish(ctx, record); err != nil {
		t.Fatal(err)
	}
	if record.ID == 0 || record.PublishedAt.IsZero() {
		t.Fatalf("record not filled in: %+v", record)
	}

	records, err := store.Publishes(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Version != "003" {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestParseStatus(t *testing.T) {
	if status, ok := ParseStatus(" Published "); !ok || status != StatusPublished {
		t.Fatalf("ParseStatus failed: %v %v", status, ok)
	}
	if _, ok := ParseStatus("bogus"); ok {
		t.Fatal("bogus status must not parse")
	}
}

func TestPublishable(t *testing.T) {
	if !(Item{Status: StatusEligible}).Publishable() {
		t.Fatal("eligible item must be publishable")
	}
	if (Item{Status: StatusIneligible}).Publishable() {
		t.Fatal("ineligible item must not be publishable")
	}
	if (Item{Status: StatusPublished}).Publishable() {
		t.Fatal("published item must not be publishable")
	}
}
