package storage

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"

	"github.com/flowforge/engine/internal/schema"
)

func testSchema() schema.WorkflowSchema {
	return schema.WorkflowSchema{
		Nodes: []schema.NodeSchema{
			{NodeID: "s1", ActionType: "Start", Metadata: schema.MetaData{Name: "S"}},
		},
	}
}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func TestPGStorage_CreateWorkflow(t *testing.T) {
	t.Parallel()
	mock := newMockPool(t)

	ws := testSchema()
	now := time.Now()
	mock.ExpectQuery("INSERT INTO workflows").
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	s := New(mock)
	rec, err := s.CreateWorkflow(context.Background(), "demo", ws)
	if err != nil {
		t.Fatalf("CreateWorkflow: %v", err)
	}
	if rec.Name != "demo" {
		t.Errorf("Name = %q, want demo", rec.Name)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPGStorage_GetWorkflow_NotFound(t *testing.T) {
	t.Parallel()
	mock := newMockPool(t)

	id := uuid.New()
	mock.ExpectQuery("SELECT (.+) FROM workflows WHERE id").
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	s := New(mock)
	_, err := s.GetWorkflow(context.Background(), id)
	if err != ErrNotFound {
		t.Fatalf("GetWorkflow error = %v, want ErrNotFound", err)
	}
}

func TestPGStorage_GetWorkflow_Found(t *testing.T) {
	t.Parallel()
	mock := newMockPool(t)

	id := uuid.New()
	ws := testSchema()
	raw, _ := json.Marshal(ws)
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM workflows WHERE id").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "schema_doc", "created_at", "updated_at"}).
			AddRow(id, "demo", raw, now, now))

	s := New(mock)
	rec, err := s.GetWorkflow(context.Background(), id)
	if err != nil {
		t.Fatalf("GetWorkflow: %v", err)
	}
	if len(rec.Schema.Nodes) != 1 {
		t.Errorf("got %d nodes, want 1", len(rec.Schema.Nodes))
	}
}
