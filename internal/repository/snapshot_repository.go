package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stwalsh4118/estatehub/internal/database"
	"github.com/stwalsh4118/estatehub/internal/store"
)

// SnapshotRepository defines persistence for whole-store snapshots.
type SnapshotRepository interface {
	// Save stores snap and returns its row id.
	Save(ctx context.Context, snap store.Snapshot) (int64, error)

	// Latest returns the most recently saved snapshot.
	// Returns nil, nil if no snapshot has been saved (not an error).
	Latest(ctx context.Context) (*store.Snapshot, error)

	// Prune deletes all but the newest keep snapshots and returns how many
	// rows were removed.
	Prune(ctx context.Context, keep int) (int64, error)
}

type snapshotRepository struct {
	db *database.Database
}

// NewSnapshotRepository creates a new instance of SnapshotRepository.
func NewSnapshotRepository(db *database.Database) SnapshotRepository {
	return &snapshotRepository{db: db}
}

func (r *snapshotRepository) Save(ctx context.Context, snap store.Snapshot) (int64, error) {
	if snap.TakenAt.IsZero() {
		snap.TakenAt = time.Now().UTC()
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return 0, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	var id int64
	err = r.db.Pool.QueryRow(ctx,
		`INSERT INTO marketplace_snapshots (payload, created_at) VALUES ($1, $2) RETURNING id`,
		payload, snap.TakenAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert snapshot: %w", err)
	}
	return id, nil
}

func (r *snapshotRepository) Latest(ctx context.Context) (*store.Snapshot, error) {
	var payload []byte
	err := r.db.Pool.QueryRow(ctx,
		`SELECT payload FROM marketplace_snapshots ORDER BY created_at DESC, id DESC LIMIT 1`,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query latest snapshot: %w", err)
	}

	var snap store.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snap, nil
}

func (r *snapshotRepository) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 1 {
		return 0, fmt.Errorf("prune must keep at least one snapshot, got %d", keep)
	}

	tag, err := r.db.Pool.Exec(ctx, `
		DELETE FROM marketplace_snapshots
		WHERE id NOT IN (
			SELECT id FROM marketplace_snapshots ORDER BY created_at DESC, id DESC LIMIT $1
		)`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune snapshots: %w", err)
	}
	return tag.RowsAffected(), nil
}
