package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"lookpub/internal/config"
)

// Store manages session persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the session database and applies the schema.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.DataDir, "sessions.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applySchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// NewSession inserts a session for one scanned scene.
func (s *Store) NewSession(ctx context.Context, scenePath string) (*Session, error) {
	now := time.Now().UTC()
	sess := &Session{
		ID:        uuid.NewString(),
		ScenePath: scenePath,
		CreatedAt: now,
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO sessions (id, scene_path, created_at) VALUES (?, ?, ?)`,
		sess.ID,
		sess.ScenePath,
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	return sess, nil
}

// GetSession fetches a session by identifier. Returns nil when absent.
func (s *Store) GetSession(ctx context.Context, id string) (*Session, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, scene_path, created_at FROM sessions WHERE id = ?`, id)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

// LatestSession returns the most recently created session, or nil when the
// store is empty.
func (s *Store) LatestSession(ctx context.Context) (*Session, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, scene_path, created_at FROM sessions ORDER BY created_at DESC, id LIMIT 1`)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest session: %w", err)
	}
	return sess, nil
}

// AddItem inserts a session item and fills in its identifier and timestamps.
func (s *Store) AddItem(ctx context.Context, item *Item) error {
	if item == nil {
		return errors.New("item is nil")
	}
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	workPaths, err := json.Marshal(item.Settings.WorkPaths)
	if err != nil {
		return fmt.Errorf("marshal work paths: %w", err)
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO session_items (
            session_id, node, item_type, status, work_paths_json, to_publish,
            publish_path, reason, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.SessionID,
		item.Node,
		item.ItemType,
		item.Status,
		string(workPaths),
		nullableString(item.Settings.ToPublish),
		nullableString(item.PublishPath),
		nullableString(item.Reason),
		now.Format(time.RFC3339Nano),
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	item.ID = id
	return nil
}

// UpdateItem persists changes to an existing session item.
func (s *Store) UpdateItem(ctx context.Context, item *Item) error {
	if item == nil {
		return errors.New("item is nil")
	}
	item.UpdatedAt = time.Now().UTC()

	workPaths, err := json.Marshal(item.Settings.WorkPaths)
	if err != nil {
		return fmt.Errorf("marshal work paths: %w", err)
	}

	_, err = s.db.ExecContext(
		ctx,
		`UPDATE session_items
         SET status = ?, work_paths_json = ?, to_publish = ?, publish_path = ?,
             reason = ?, updated_at = ?
         WHERE id = ?`,
		item.Status,
		string(workPaths),
		nullableString(item.Settings.ToPublish),
		nullableString(item.PublishPath),
		nullableString(item.Reason),
		item.UpdatedAt.Format(time.RFC3339Nano),
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// ItemsBySession returns a session's items ordered by insertion.
func (s *Store) ItemsBySession(ctx context.Context, sessionID string) ([]*Item, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+itemColumns+` FROM session_items WHERE session_id = ? ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query session items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ItemByNode returns the item tracking one node in a session. Returns nil when
// absent.
func (s *Store) ItemByNode(ctx context.Context, sessionID, node string) (*Item, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+itemColumns+` FROM session_items WHERE session_id = ? AND node = ?`,
		sessionID,
		node,
	)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item by node: %w", err)
	}
	return item, nil
}

// RecordPublish registers a completed publish.
func (s *Store) RecordPublish(ctx context.Context, record *PublishRecord) error {
	if record == nil {
		return errors.New("record is nil")
	}
	now := time.Now().UTC()
	record.PublishedAt = now

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO publishes (session_id, node, version, work_path, publish_path, published_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		record.SessionID,
		record.Node,
		record.Version,
		record.WorkPath,
		record.PublishPath,
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert publish record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	record.ID = id
	return nil
}

// Publishes returns the publish records for a session, newest first.
func (s *Store) Publishes(ctx context.Context, sessionID string) ([]*PublishRecord, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, session_id, node, version, work_path, publish_path, published_at
         FROM publishes WHERE session_id = ? ORDER BY id DESC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query publishes: %w", err)
	}
	defer rows.Close()

	var records []*PublishRecord
	for rows.Next() {
		var (
			record      PublishRecord
			publishedAt string
		)
		if err := rows.Scan(
			&record.ID,
			&record.SessionID,
			&record.Node,
			&record.Version,
			&record.WorkPath,
			&record.PublishPath,
			&publishedAt,
		); err != nil {
			return nil, err
		}
		if ts, err := parseTimeString(publishedAt); err == nil {
			record.PublishedAt = ts
		}
		records = append(records, &record)
	}
	return records, rows.Err()
}

const itemColumns = "id, session_id, node, item_type, status, work_paths_json, to_publish, publish_path, reason, created_at, updated_at"

func scanSession(row *sql.Row) (*Session, error) {
	var (
		sess       Session
		createdRaw string
	)
	if err := row.Scan(&sess.ID, &sess.ScenePath, &createdRaw); err != nil {
		return nil, err
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		sess.CreatedAt = created
	}
	return &sess, nil
}

func scanItem(scanner interface{ Scan(dest ...any) error }) (*Item, error) {
	var (
		id         int64
		sessionID  string
		node       string
		itemType   string
		statusStr  string
		workPaths  sql.NullString
		toPublish  sql.NullString
		publishTo  sql.NullString
		reason     sql.NullString
		createdRaw string
		updatedRaw string
	)

	if err := scanner.Scan(
		&id,
		&sessionID,
		&node,
		&itemType,
		&statusStr,
		&workPaths,
		&toPublish,
		&publishTo,
		&reason,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	item := &Item{
		ID:          id,
		SessionID:   sessionID,
		Node:        node,
		ItemType:    itemType,
		Status:      Status(statusStr),
		PublishPath: publishTo.String,
		Reason:      reason.String,
	}
	item.Settings.ToPublish = toPublish.String
	if workPaths.Valid && workPaths.String != "" {
		if err := json.Unmarshal([]byte(workPaths.String), &item.Settings.WorkPaths); err != nil {
			return nil, fmt.Errorf("unmarshal work paths: %w", err)
		}
	}

	if created, err := parseTimeString(createdRaw); err == nil {
		item.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		item.UpdatedAt = updated
	}
	return item, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	return time.Parse(time.RFC3339Nano, value)
}
