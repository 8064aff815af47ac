package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/flowforge/engine/internal/schema"
)

// ErrNotFound is returned when a lookup finds no matching row,
// mirroring the teacher's use of pgx.ErrNoRows as a sentinel its
// callers check with errors.Is.
var ErrNotFound = errors.New("storage: workflow not found")

// Storage is the persistence contract the HTTP layer depends on,
// matching the teacher's Storage interface so the HTTP handlers' tests
// can swap the in-memory storagemock.StorageMock in without touching
// callers.
type Storage interface {
	CreateWorkflow(ctx context.Context, name string, ws schema.WorkflowSchema) (*WorkflowRecord, error)
	GetWorkflow(ctx context.Context, id uuid.UUID) (*WorkflowRecord, error)
	UpdateWorkflow(ctx context.Context, id uuid.UUID, ws schema.WorkflowSchema) error
	ListWorkflows(ctx context.Context) ([]*WorkflowRecord, error)
}

// pgxIface is the narrow subset of *pgxpool.Pool that PGStorage needs.
// Depending on this instead of the concrete pool type lets tests inject
// a pgxmock.PgxPoolIface directly, the same narrowing the teacher's
// storage package uses for its storagemock swap-in.
type pgxIface interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PGStorage is the Postgres-backed Storage implementation, adapted
// from the teacher's pgStorage wrapping a *pgxpool.Pool.
type PGStorage struct {
	pool pgxIface
}

// New wraps an already-connected pool (or, in tests, a pgxmock fake).
func New(pool pgxIface) *PGStorage {
	return &PGStorage{pool: pool}
}

// CreateWorkflow inserts a new workflow definition and returns its
// stored record.
func (s *PGStorage) CreateWorkflow(ctx context.Context, name string, ws schema.WorkflowSchema) (*WorkflowRecord, error) {
	raw, err := json.Marshal(ws)
	if err != nil {
		return nil, fmt.Errorf("storage: marshal schema: %w", err)
	}

	rec := &WorkflowRecord{ID: uuid.New(), Name: name, Schema: ws}
	const q = `
		INSERT INTO workflows (id, name, schema_doc, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		RETURNING created_at, updated_at`
	if err := s.pool.QueryRow(ctx, q, rec.ID, name, raw).Scan(&rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, fmt.Errorf("storage: insert workflow: %w", err)
	}
	return rec, nil
}

// GetWorkflow loads one workflow definition by ID.
func (s *PGStorage) GetWorkflow(ctx context.Context, id uuid.UUID) (*WorkflowRecord, error) {
	const q = `SELECT id, name, schema_doc, created_at, updated_at FROM workflows WHERE id = $1`
	row := s.pool.QueryRow(ctx, q, id)

	var rec WorkflowRecord
	var raw []byte
	if err := row.Scan(&rec.ID, &rec.Name, &raw, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("storage: get workflow: %w", err)
	}
	if err := json.Unmarshal(raw, &rec.Schema); err != nil {
		return nil, fmt.Errorf("storage: unmarshal schema: %w", err)
	}
	return &rec, nil
}

// UpdateWorkflow replaces the stored schema document for id.
func (s *PGStorage) UpdateWorkflow(ctx context.Context, id uuid.UUID, ws schema.WorkflowSchema) error {
	raw, err := json.Marshal(ws)
	if err != nil {
		return fmt.Errorf("storage: marshal schema: %w", err)
	}

	const q = `UPDATE workflows SET schema_doc = $2, updated_at = now() WHERE id = $1`
	tag, err := s.pool.Exec(ctx, q, id, raw)
	if err != nil {
		return fmt.Errorf("storage: update workflow: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListWorkflows returns every stored workflow definition, newest first.
func (s *PGStorage) ListWorkflows(ctx context.Context) ([]*WorkflowRecord, error) {
	const q = `SELECT id, name, schema_doc, created_at, updated_at FROM workflows ORDER BY created_at DESC`
	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("storage: list workflows: %w", err)
	}
	defer rows.Close()

	var out []*WorkflowRecord
	for rows.Next() {
		var rec WorkflowRecord
		var raw []byte
		if err := rows.Scan(&rec.ID, &rec.Name, &raw, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("storage: scan workflow row: %w", err)
		}
		if err := json.Unmarshal(raw, &rec.Schema); err != nil {
			return nil, fmt.Errorf("storage: unmarshal schema: %w", err)
		}
		out = append(out, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: iterate workflow rows: %w", err)
	}
	return out, nil
}
