// Package httpapi is the HTTP surface over the engine: create/list/run
// workflow definitions. Adapted from the teacher's api/main.go handler
// layer (gorilla/mux routes backed by a storage.Storage and, here, a
// scheduler.Scheduler).
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/flowforge/engine/internal/emitter"
	"github.com/flowforge/engine/internal/engctx"
	"github.com/flowforge/engine/internal/graph"
	"github.com/flowforge/engine/internal/registry"
	"github.com/flowforge/engine/internal/schema"
	"github.com/flowforge/engine/internal/scheduler"
	"github.com/flowforge/engine/internal/storage"
)

// Server wires storage, the node registry, and the scheduler behind a
// small JSON API.
type Server struct {
	Store    storage.Storage
	Registry *registry.Registry
	Emitter  *emitter.Emitter
	Config   scheduler.Config
}

// Routes registers every handler against r.
func (s *Server) Routes(r *mux.Router) {
	r.HandleFunc("/workflows", s.handleCreate).Methods(http.MethodPost)
	r.HandleFunc("/workflows", s.handleList).Methods(http.MethodGet)
	r.HandleFunc("/workflows/{id}", s.handleGet).Methods(http.MethodGet)
	r.HandleFunc("/workflows/{id}/run", s.handleRun).Methods(http.MethodPost)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name   string          `json:"name"`
		Schema json.RawMessage `json:"schema"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	ws, err := decodeSchema(body.Schema)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	rec, err := s.Store.CreateWorkflow(r.Context(), body.Name, *ws)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	recs, err := s.Store.ListWorkflows(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	rec, err := s.Store.GetWorkflow(r.Context(), id)
	if err != nil {
		if err == storage.ErrNotFound {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// handleRun builds and executes the stored workflow synchronously,
// returning the final context snapshot. A production deployment would
// stream node/workflow events over a websocket or SSE channel instead;
// that transport is out of scope (spec.md §1 excludes event transport).
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	rec, err := s.Store.GetWorkflow(r.Context(), id)
	if err != nil {
		if err == storage.ErrNotFound {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	g, err := graph.Build(&rec.Schema)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	runID := uuid.New()
	ectx := engctx.New("")

	sched := scheduler.New(s.Registry, nil, s.Emitter, s.Config)

	runCtx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	slog.Info("workflow run starting", "runId", runID, "workflowId", id)
	runErr := sched.Run(runCtx, g, ectx)

	resp := struct {
		RunID   uuid.UUID                  `json:"run_id"`
		Error   string                     `json:"error,omitempty"`
		Context map[string]json.RawMessage `json:"context"`
	}{RunID: runID, Context: ectx.Snapshot()}
	if runErr != nil {
		resp.Error = runErr.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func decodeSchema(raw json.RawMessage) (*schema.WorkflowSchema, error) {
	var ws schema.WorkflowSchema
	if err := json.Unmarshal(raw, &ws); err != nil {
		return nil, err
	}
	return &ws, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	slog.Warn("request failed", "status", status, "error", err)
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
