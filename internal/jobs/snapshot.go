// Package jobs holds background work scheduled alongside the HTTP server.
package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stwalsh4118/estatehub/internal/logger"
	"github.com/stwalsh4118/estatehub/internal/store"
)

// DefaultRetention is how many snapshots are kept after each save.
const DefaultRetention = 10

const runTimeout = 30 * time.Second

// Source produces the state to persist.
type Source interface {
	Snapshot() store.Snapshot
}

// Saver persists snapshots. repository.SnapshotRepository satisfies it.
type Saver interface {
	Save(ctx context.Context, snap store.Snapshot) (int64, error)
	Prune(ctx context.Context, keep int) (int64, error)
}

// SnapshotJob periodically writes the store to a Saver.
type SnapshotJob struct {
	cron   *cron.Cron
	source Source
	saver  Saver
	keep   int
	log    *logger.Logger

	// runs are serialized so a scheduled save never overlaps the shutdown save
	mu sync.Mutex
}

// NewSnapshotJob schedules snapshots of source on schedule, which accepts
// standard five-field cron expressions and descriptors such as "@every 5m".
// keep <= 0 disables pruning.
func NewSnapshotJob(source Source, saver Saver, schedule string, keep int, log *logger.Logger) (*SnapshotJob, error) {
	j := &SnapshotJob{
		cron:   cron.New(),
		source: source,
		saver:  saver,
		keep:   keep,
		log:    log.With(map[string]interface{}{"job": "snapshot"}),
	}

	_, err := j.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()
		_ = j.RunOnce(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("invalid snapshot schedule %q: %w", schedule, err)
	}
	return j, nil
}

// Start begins running the schedule in the background.
func (j *SnapshotJob) Start() {
	j.cron.Start()
	j.log.Info("Snapshot job started", map[string]interface{}{"entries": len(j.cron.Entries())})
}

// Stop halts the schedule, waits for a running save to finish, then writes
// one final snapshot.
func (j *SnapshotJob) Stop(ctx context.Context) error {
	select {
	case <-j.cron.Stop().Done():
	case <-ctx.Done():
		return fmt.Errorf("waiting for snapshot job: %w", ctx.Err())
	}
	return j.RunOnce(ctx)
}

// RunOnce saves the current state and prunes old snapshots.
func (j *SnapshotJob) RunOnce(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	start := time.Now()
	snap := j.source.Snapshot()
	id, err := j.saver.Save(ctx, snap)
	if err != nil {
		j.log.Error("Failed to save snapshot", err, nil)
		return err
	}

	fields := map[string]interface{}{
		"snapshot_id": id,
		"properties":  len(snap.Properties),
		"reports":     len(snap.Reports),
		"duration_ms": time.Since(start).Milliseconds(),
	}

	if j.keep > 0 {
		removed, err := j.saver.Prune(ctx, j.keep)
		if err != nil {
			// the save itself succeeded
			j.log.Warn("Failed to prune snapshots", map[string]interface{}{"error": err.Error()})
		} else {
			fields["pruned"] = removed
		}
	}

	j.log.Info("Snapshot saved", fields)
	return nil
}
