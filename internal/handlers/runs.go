package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"city-group-router/internal/models"
)

// RunListResponse represents the list response
type RunListResponse struct {
	Runs   []RunWithSummary `json:"runs"`
	Total  int              `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

// RunWithSummary combines a run and its summary for the list view
type RunWithSummary struct {
	models.Run
	Summary *models.RunSummary `json:"summary,omitempty"`
}

// RunDetailResponse represents the detailed run response
type RunDetailResponse struct {
	ID            int64              `json:"id"`
	InstanceName  string             `json:"instance_name"`
	Command       string             `json:"command"`
	GroundTruth   bool               `json:"ground_truth"`
	Score         int64              `json:"score"`
	Cost          float64            `json:"cost"`
	Queries       int                `json:"queries"`
	FailureReason string             `json:"failure_reason,omitempty"`
	ElapsedMillis int64              `json:"elapsed_millis"`
	CreatedAt     time.Time          `json:"created_at"`
	Groups        []models.RunGroup  `json:"groups"`
	Summary       *models.RunSummary `json:"summary"`
}

// HandleListRuns handles GET /v1/runs
func (h *Handler) HandleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	offset := 0

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = min(l, 500)
		}
	}

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	log.Printf("[HTTP] GET /v1/runs: limit=%d offset=%d", limit, offset)
	runs, total, err := h.DB.Runs().List(r.Context(), limit, offset)
	if err != nil {
		log.Printf("[ERROR] Failed to list runs: limit=%d offset=%d err=%v", limit, offset, err)
		h.handleInternalError(w, err)
		return
	}

	withSummary := make([]RunWithSummary, len(runs))
	for i, run := range runs {
		_, _, summary, err := h.DB.Runs().GetByID(r.Context(), run.ID)
		if err != nil {
			h.handleInternalError(w, err)
			return
		}
		withSummary[i] = RunWithSummary{Run: run, Summary: summary}
	}

	h.writeJSON(w, http.StatusOK, RunListResponse{
		Runs:   withSummary,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

func (h *Handler) parseRunID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		log.Printf("[HTTP] %s %s: invalid_id=%s err=%v", r.Method, r.URL.Path, idStr, err)
		h.handleValidationError(w, "Invalid run ID")
		return 0, false
	}
	return id, true
}

// HandleGetRun handles GET /v1/runs/{id}
func (h *Handler) HandleGetRun(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseRunID(w, r)
	if !ok {
		return
	}

	run, groups, summary, err := h.DB.Runs().GetByID(r.Context(), id)
	if err != nil {
		if h.checkNotFound(err) {
			h.handleNotFound(w, "Run not found")
			return
		}
		log.Printf("[ERROR] Failed to get run: id=%d err=%v", id, err)
		h.handleInternalError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, RunDetailResponse{
		ID:            run.ID,
		InstanceName:  run.InstanceName,
		Command:       run.Command,
		GroundTruth:   run.GroundTruth,
		Score:         run.Score,
		Cost:          run.Cost,
		Queries:       run.Queries,
		FailureReason: run.FailureReason,
		ElapsedMillis: run.ElapsedMillis,
		CreatedAt:     run.CreatedAt,
		Groups:        groups,
		Summary:       summary,
	})
}

// HandleDeleteRun handles DELETE /v1/runs/{id}
func (h *Handler) HandleDeleteRun(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseRunID(w, r)
	if !ok {
		return
	}

	if err := h.DB.Runs().Delete(r.Context(), id); err != nil {
		if h.checkNotFound(err) {
			h.handleNotFound(w, "Run not found")
			return
		}
		log.Printf("[ERROR] Failed to delete run: id=%d err=%v", id, err)
		h.handleInternalError(w, err)
		return
	}

	log.Printf("[HTTP] DELETE /v1/runs/%d", id)
	w.WriteHeader(http.StatusNoContent)
}
