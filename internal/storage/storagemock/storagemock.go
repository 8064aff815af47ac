// Package storagemock provides an in-memory storage.Storage fake for
// HTTP-layer tests, adapted from the teacher's
// services/storage/storagemock package.
package storagemock

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/flowforge/engine/internal/schema"
	"github.com/flowforge/engine/internal/storage"
)

// StorageMock is a thread-safe, in-memory storage.Storage.
type StorageMock struct {
	mu        sync.Mutex
	records   map[uuid.UUID]*storage.WorkflowRecord
	CreateErr error
	GetErr    error
}

// New creates an empty StorageMock.
func New() *StorageMock {
	return &StorageMock{records: make(map[uuid.UUID]*storage.WorkflowRecord)}
}

func (m *StorageMock) CreateWorkflow(_ context.Context, name string, ws schema.WorkflowSchema) (*storage.WorkflowRecord, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	rec := &storage.WorkflowRecord{ID: uuid.New(), Name: name, Schema: ws, CreatedAt: now, UpdatedAt: now}
	m.records[rec.ID] = rec
	return rec, nil
}

func (m *StorageMock) GetWorkflow(_ context.Context, id uuid.UUID) (*storage.WorkflowRecord, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return rec, nil
}

func (m *StorageMock) UpdateWorkflow(_ context.Context, id uuid.UUID, ws schema.WorkflowSchema) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok {
		return storage.ErrNotFound
	}
	rec.Schema = ws
	rec.UpdatedAt = time.Now()
	return nil
}

func (m *StorageMock) ListWorkflows(context.Context) ([]*storage.WorkflowRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*storage.WorkflowRecord, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, rec)
	}
	return out, nil
}
