package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type stubChecker struct {
	exists bool
	err    error
}

func (s stubChecker) CollectionExists(context.Context) (bool, error) {
	return s.exists, s.err
}

func TestHealthHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		checker    HealthChecker
		wantStatus int
		wantState  string
	}{
		{name: "healthy", method: http.MethodGet, checker: stubChecker{exists: true}, wantStatus: http.StatusOK, wantState: "healthy"},
		{name: "missing collection", method: http.MethodGet, checker: stubChecker{}, wantStatus: http.StatusServiceUnavailable, wantState: "unhealthy"},
		{name: "store error", method: http.MethodGet, checker: stubChecker{err: errors.New("down")}, wantStatus: http.StatusServiceUnavailable, wantState: "unhealthy"},
		{name: "no store", method: http.MethodGet, checker: nil, wantStatus: http.StatusServiceUnavailable, wantState: "unhealthy"},
		{name: "method not allowed", method: http.MethodPost, checker: stubChecker{exists: true}, wantStatus: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandler(tt.checker)
			req := httptest.NewRequest(tt.method, "/api/health", nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("ServeHTTP() status = %v, want %v", w.Code, tt.wantStatus)
			}
			if tt.wantState == "" {
				return
			}
			var resp HealthResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Status != tt.wantState {
				t.Errorf("Status = %q, want %q", resp.Status, tt.wantState)
			}
		})
	}
}
