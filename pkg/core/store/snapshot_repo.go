package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"erp_analytics/pkg/core/dashboard"
	"erp_analytics/pkg/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned when no snapshot has the requested ID.
	ErrNotFound = errors.New("snapshot not found")
	// ErrNoBackend is returned when the repo has neither a pool nor a directory.
	ErrNoBackend = errors.New("snapshot store has no backend")
	// ErrInvalidID rejects IDs that cannot name a file.
	ErrInvalidID = errors.New("invalid snapshot id")
)

// Schema creates the snapshot table.
const Schema = `
CREATE TABLE IF NOT EXISTS dashboard_snapshots (
	id            TEXT PRIMARY KEY,
	filter_json   JSONB NOT NULL,
	snapshot_json JSONB NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS dashboard_snapshots_created_at_idx ON dashboard_snapshots (created_at DESC);
`

var validID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Summary is the list view of a stored snapshot.
type Summary struct {
	ID        string        `json:"id"`
	Filter    models.Filter `json:"filter"`
	CreatedAt time.Time     `json:"created_at"`
}

// SnapshotRepo saves and loads dashboard snapshots. With a pool it uses the
// database only; without one it reads and writes JSON files under dir.
type SnapshotRepo struct {
	pool    *pgxpool.Pool
	fileDir string
	log     *zap.Logger
}

// NewSnapshotRepo creates a repo. A nil pool and empty dir fall back to
// .cache/snapshots.
func NewSnapshotRepo(pool *pgxpool.Pool, dir string, log *zap.Logger) *SnapshotRepo {
	if log == nil {
		log = zap.NewNop()
	}
	if pool == nil && dir == "" {
		dir = filepath.Join(".cache", "snapshots")
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Warn("snapshot dir unavailable", zap.String("dir", dir), zap.Error(err))
		}
	}
	return &SnapshotRepo{pool: pool, fileDir: dir, log: log}
}

// EnsureSchema creates the table when a pool is configured.
func (r *SnapshotRepo) EnsureSchema(ctx context.Context) error {
	if r.pool == nil {
		return nil
	}
	if _, err := r.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create snapshot schema: %w", err)
	}
	return nil
}

// Save upserts a snapshot by ID.
func (r *SnapshotRepo) Save(ctx context.Context, s *dashboard.Snapshot) error {
	if !validID.MatchString(s.ID) {
		return fmt.Errorf("%w: %q", ErrInvalidID, s.ID)
	}
	if r.pool != nil {
		return r.saveDB(ctx, s)
	}
	if r.fileDir != "" {
		return r.saveFile(s)
	}
	return ErrNoBackend
}

// Load returns the snapshot with the given ID.
func (r *SnapshotRepo) Load(ctx context.Context, id string) (*dashboard.Snapshot, error) {
	if !validID.MatchString(id) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	if r.pool != nil {
		return r.loadDB(ctx, id)
	}
	if r.fileDir != "" {
		return r.loadFile(id)
	}
	return nil, ErrNoBackend
}

// List returns up to limit snapshots, newest first. limit <= 0 means 50.
func (r *SnapshotRepo) List(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = 50
	}
	if r.pool != nil {
		return r.listDB(ctx, limit)
	}
	if r.fileDir != "" {
		return r.listFiles(limit)
	}
	return nil, ErrNoBackend
}

// =============================================================================
// DATABASE
// =============================================================================

func (r *SnapshotRepo) saveDB(ctx context.Context, s *dashboard.Snapshot) error {
	filterJSON, err := json.Marshal(s.Filter)
	if err != nil {
		return fmt.Errorf("failed to marshal filter: %w", err)
	}
	snapJSON, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	query := `
		INSERT INTO dashboard_snapshots (id, filter_json, snapshot_json, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (id)
		DO UPDATE SET
			filter_json = EXCLUDED.filter_json,
			snapshot_json = EXCLUDED.snapshot_json,
			updated_at = NOW();
	`
	if _, err := r.pool.Exec(ctx, query, s.ID, filterJSON, snapJSON, s.CreatedAt); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	r.log.Debug("snapshot saved", zap.String("id", s.ID), zap.Int("bytes", len(snapJSON)))
	return nil
}

func (r *SnapshotRepo) loadDB(ctx context.Context, id string) (*dashboard.Snapshot, error) {
	var data []byte
	err := r.pool.QueryRow(ctx, `SELECT snapshot_json FROM dashboard_snapshots WHERE id = $1`, id).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return decodeSnapshot(data)
}

func (r *SnapshotRepo) listDB(ctx context.Context, limit int) ([]Summary, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, filter_json, created_at FROM dashboard_snapshots ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var s Summary
		var filterJSON []byte
		if err := rows.Scan(&s.ID, &filterJSON, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		if err := json.Unmarshal(filterJSON, &s.Filter); err != nil {
			r.log.Warn("bad stored filter", zap.String("id", s.ID), zap.Error(err))
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// =============================================================================
// FILES
// =============================================================================

func (r *SnapshotRepo) path(id string) string {
	return filepath.Join(r.fileDir, id+".json")
}

func (r *SnapshotRepo) saveFile(s *dashboard.Snapshot) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	tmp := r.path(s.ID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot file: %w", err)
	}
	if err := os.Rename(tmp, r.path(s.ID)); err != nil {
		return fmt.Errorf("failed to write snapshot file: %w", err)
	}
	r.log.Debug("snapshot saved", zap.String("id", s.ID), zap.String("dir", r.fileDir))
	return nil
}

func (r *SnapshotRepo) loadFile(id string) (*dashboard.Snapshot, error) {
	data, err := os.ReadFile(r.path(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}
	return decodeSnapshot(data)
}

func (r *SnapshotRepo) listFiles(limit int) ([]Summary, error) {
	entries, err := os.ReadDir(r.fileDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list snapshot dir: %w", err)
	}
	var out []Summary
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		s, err := r.loadFile(e.Name()[:len(e.Name())-len(".json")])
		if err != nil {
			r.log.Warn("skipping unreadable snapshot", zap.String("file", e.Name()), zap.Error(err))
			continue
		}
		out = append(out, Summary{ID: s.ID, Filter: s.Filter, CreatedAt: s.CreatedAt})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func decodeSnapshot(data []byte) (*dashboard.Snapshot, error) {
	var s dashboard.Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &s, nil
}
