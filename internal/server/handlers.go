package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/scoutline/scoutline/internal/engine"
	"github.com/scoutline/scoutline/internal/storage"
	"github.com/scoutline/scoutline/pkg/types"
)

// maxRequestBody bounds API request bodies at 1 MiB.
const maxRequestBody = 1 << 20

type apiHandlers struct {
	engine *engine.Engine
}

func newAPIHandlers(eng *engine.Engine) *apiHandlers {
	return &apiHandlers{engine: eng}
}

// Score handles POST /api/score. The request body is one tagged entity
// envelope; the response is the scoring result with reasons and warnings.
func (h *apiHandlers) Score(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	entity, err := types.DecodeEntity(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	res, err := h.engine.Score(r.Context(), entity)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Rank handles POST /api/rank. The request body is a JSON array of entity
// envelopes; the response is the ranked list, best first.
func (h *apiHandlers) Rank(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(body, &raws); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "request body must be a JSON array of entities")
		return
	}

	entities := make([]types.Entity, 0, len(raws))
	for i, raw := range raws {
		entity, err := types.DecodeEntity(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "BAD_REQUEST", fmt.Sprintf("entity %d: %v", i, err))
			return
		}
		entities = append(entities, entity)
	}

	ranked, err := h.engine.Rank(r.Context(), entities)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ranked)
}

type feedbackRequest struct {
	Action    types.Action    `json:"action"`
	Rationale string          `json:"rationale"`
	Entity    json.RawMessage `json:"entity"`
}

// Feedback handles POST /api/feedback. The body carries the action, the
// rationale, and the entity envelope the feedback is about.
func (h *apiHandlers) Feedback(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	var req feedbackRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	if len(req.Entity) == 0 {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "entity is required")
		return
	}

	entity, err := types.DecodeEntity(req.Entity)
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	ev, err := h.engine.Feedback(r.Context(), entity, req.Action, req.Rationale)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// Stats handles GET /api/stats.
func (h *apiHandlers) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.engine.Stats(r.Context())
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Preferences handles GET /api/preferences.
func (h *apiHandlers) Preferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.engine.Preferences(r.Context())
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

// Export handles GET /api/export.
func (h *apiHandlers) Export(w http.ResponseWriter, r *http.Request) {
	doc, err := h.engine.Export(r.Context())
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("request body is required")
	}
	return body, nil
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Error: msg, Code: code})
}

// writeEngineError maps engine errors onto HTTP statuses: validation
// failures are the client's fault, everything else is ours.
func writeEngineError(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("server: failed to encode response: %v", err)
	}
}
