// Package storage persists workflow *definitions* — one authored schema
// document per workflow; no published snapshots — to Postgres via pgx/v5.
// Runtime execution state is never persisted here: per spec.md's
// Non-goals, a run's Graph and Context live only in memory for the
// duration of Scheduler.Run. Adapted from the teacher's
// services/storage package (models.go/storage.go/storagemock).
package storage

import (
	"time"

	"github.com/google/uuid"

	"github.com/flowforge/engine/internal/schema"
)

// WorkflowRecord is one stored workflow definition: its identity, a
// human label, and the current schema document. Grounded on the
// teacher's workflow row shape (id, name, status, snapshot reference).
type WorkflowRecord struct {
	ID        uuid.UUID
	Name      string
	Schema    schema.WorkflowSchema
	CreatedAt time.Time
	UpdatedAt time.Time
}
