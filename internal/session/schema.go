package session

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS sessions (
        id TEXT PRIMARY KEY,
        scene_path TEXT NOT NULL,
        created_at TEXT NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS session_items (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
        node TEXT NOT NULL,
        item_type TEXT NOT NULL,
        status TEXT NOT NULL,
        work_paths_json TEXT,
        to_publish TEXT,
        publish_path TEXT,
        reason TEXT,
        created_at TEXT NOT NULL,
        updated_at TEXT NOT NULL,
        UNIQUE(session_id, node)
    )`,
	`CREATE TABLE IF NOT EXISTS publishes (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        session_id TEXT NOT NULL,
        node TEXT NOT NULL,
        version TEXT NOT NULL,
        work_path TEXT NOT NULL,
        publish_path TEXT NOT NULL,
        published_at TEXT NOT NULL
    )`,
	`CREATE INDEX IF NOT EXISTS idx_session_items_session ON session_items(session_id)`,
	`CREATE INDEX IF NOT EXISTS idx_publishes_node ON publishes(node, version)`,
}

func (s *Store) applySchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
