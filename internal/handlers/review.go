package handlers

import (
	"net/http"
	"strconv"
	"time"

	"docdigest/internal/contextutil"
	"docdigest/internal/service"
	"docdigest/internal/storage"
)

const defaultRunsLimit = 20

// ReviewHandler triggers a review run.
type ReviewHandler struct {
	reviewService service.ReviewService
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviewService service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// ReviewResponse is the payload of a finished run.
type ReviewResponse struct {
	*service.Report
	// DeliveryError is set when the digest could not be delivered everywhere.
	DeliveryError string `json:"delivery_error,omitempty"`
}

// ServeHTTP handles POST /api/review/run.
// Returns 200 with the report, 409 when a run is already in progress.
func (h *ReviewHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	report, err := h.reviewService.Run(ctx)
	if report == nil {
		handleServiceError(ctx, w, err, "Failed to run review")
		return
	}

	resp := ReviewResponse{Report: report}
	if err != nil {
		logger.WarnContext(ctx, "review finished with delivery errors", "error", err)
		resp.DeliveryError = err.Error()
	}
	writeJSON(ctx, w, http.StatusOK, resp)
}

// RunsHandler lists past review runs.
type RunsHandler struct {
	reviewService service.ReviewService
}

// NewRunsHandler creates a new RunsHandler.
func NewRunsHandler(reviewService service.ReviewService) *RunsHandler {
	return &RunsHandler{reviewService: reviewService}
}

// RunResponse is one past run.
type RunResponse struct {
	ID         string `json:"id"`
	StartedAt  string `json:"started_at"`
	FinishedAt string `json:"finished_at"`
	Documents  int    `json:"documents"`
	Summaries  int    `json:"summaries"`
	Errors     string `json:"errors,omitempty"`
}

// RunsResponse is the payload of GET /api/review/runs.
type RunsResponse struct {
	Runs []RunResponse `json:"runs"`
}

// ServeHTTP handles GET /api/review/runs?limit=N.
func (h *RunsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	limit := defaultRunsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	runs, err := h.reviewService.RecentRuns(ctx, limit)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to list review runs")
		return
	}

	resp := RunsResponse{Runs: make([]RunResponse, 0, len(runs))}
	for _, run := range runs {
		resp.Runs = append(resp.Runs, toRunResponse(run))
	}
	writeJSON(ctx, w, http.StatusOK, resp)
}

func toRunResponse(run storage.RunRecord) RunResponse {
	return RunResponse{
		ID:         run.ID,
		StartedAt:  run.StartedAt.UTC().Format(time.RFC3339),
		FinishedAt: run.FinishedAt.UTC().Format(time.RFC3339),
		Documents:  run.Documents,
		Summaries:  run.Summaries,
		Errors:     run.Errors,
	}
}
