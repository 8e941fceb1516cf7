// Package bridge exposes the report and query operations over a small HTTP
// command API, so assistants and automation can drive the tool without
// shelling out to the CLI.
package bridge

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xkilldash9x/suture-cli/internal/report"
	"github.com/xkilldash9x/suture-cli/internal/store"
)

// Handlers manages the HTTP request handling for the bridge server.
type Handlers struct {
	log     *zap.Logger
	reports *report.Service
	// findings may be nil when no database is configured; the query command
	// degrades to 503 in that case.
	findings *store.Store
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(logger *zap.Logger, reports *report.Service, findings *store.Store) *Handlers {
	return &Handlers{
		log:      logger.Named("bridge_handlers"),
		reports:  reports,
		findings: findings,
	}
}

// RegisterRoutes sets up the routing for the bridge server.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	// Health check endpoint (unversioned)
	r.Get("/healthz", h.HandleHealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		// Primary endpoint for receiving commands
		r.Post("/command", h.HandleCommand)
	})
}

// HandleHealthCheck is a simple handler to confirm the server is responsive.
func (h *Handlers) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// HandleCommand is the main entry point for commands from clients.
func (h *Handlers) HandleCommand(w http.ResponseWriter, r *http.Request) {
	var req CommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	h.log.Info("Received command", zap.String("command", req.Command))

	switch strings.ToLower(req.Command) {
	case "fix_issues", "report":
		h.handleFixIssues(w, req.Params)
	case "issues_by_file", "file_report":
		h.handleIssuesByFile(w, req.Params)
	case "query_findings", "query":
		h.handleQueryFindings(w, r, req.Params)
	case "ping":
		h.respondWithSuccess(w, http.StatusOK, map[string]string{"message": "pong"})
	default:
		h.respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

// handleFixIssues renders the full analysis report. The report text is always
// produced; load and extraction failures are folded into the text itself.
func (h *Handlers) handleFixIssues(w http.ResponseWriter, paramsMap map[string]interface{}) {
	params, err := mapToStruct[FixIssuesParams](paramsMap)
	if err != nil {
		h.respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid parameters for fix_issues: %v", err))
		return
	}

	text := h.reports.AnalyzeIssues(params.IssuesPath)
	h.respondWithSuccess(w, http.StatusOK, map[string]string{"report": text})
}

// handleIssuesByFile renders the per-file report variant.
func (h *Handlers) handleIssuesByFile(w http.ResponseWriter, paramsMap map[string]interface{}) {
	params, err := mapToStruct[IssuesByFileParams](paramsMap)
	if err != nil {
		h.respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid parameters for issues_by_file: %v", err))
		return
	}
	if params.File == "" {
		h.respondWithError(w, http.StatusBadRequest, "File parameter is required.")
		return
	}

	text := h.reports.IssuesByFile(params.File, params.IssuesPath)
	h.respondWithSuccess(w, http.StatusOK, map[string]string{"report": text})
}

// handleQueryFindings processes the "query_findings" command against the
// persisted findings store.
func (h *Handlers) handleQueryFindings(w http.ResponseWriter, r *http.Request, paramsMap map[string]interface{}) {
	if h.findings == nil {
		h.respondWithError(w, http.StatusServiceUnavailable, "Query service is unavailable (database not configured or connected).")
		return
	}

	params, err := mapToStruct[QueryParams](paramsMap)
	if err != nil {
		h.respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid parameters for query_findings: %v", err))
		return
	}
	if params.File == "" {
		h.respondWithError(w, http.StatusBadRequest, "File parameter is required.")
		return
	}

	findings, err := h.findings.QueryByFile(r.Context(), params.File, params.Limit)
	if err != nil {
		h.log.Error("Failed to query findings", zap.Error(err))
		h.respondWithError(w, http.StatusInternalServerError, "Internal error retrieving findings.")
		return
	}

	h.respondWithSuccess(w, http.StatusOK, map[string]interface{}{
		"count":    len(findings),
		"findings": findings,
	})
}

// Generic utility function to convert map[string]interface{} to a specific struct using JSON marshaling.
func mapToStruct[T any](m map[string]interface{}) (T, error) {
	var result T
	// Handle nil map gracefully
	if m == nil {
		return result, nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return result, err
	}
	err = json.Unmarshal(data, &result)
	return result, err
}

// respondWithError sends a standardized JSON error response.
func (h *Handlers) respondWithError(w http.ResponseWriter, statusCode int, message string) {
	h.respondWithStatus(w, statusCode, "error", map[string]string{"error": message})
}

// respondWithSuccess sends a standardized JSON success response.
func (h *Handlers) respondWithSuccess(w http.ResponseWriter, statusCode int, data interface{}) {
	h.respondWithStatus(w, statusCode, "success", data)
}

// respondWithStatus sends a standardized JSON response with a specific status string.
func (h *Handlers) respondWithStatus(w http.ResponseWriter, statusCode int, status string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	resp := CommandResponse{
		Status: status,
	}

	if errMap, ok := data.(map[string]string); ok && errMap["error"] != "" {
		resp.Error = errMap["error"]
	} else {
		resp.Data = data
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.log.Error("Failed to encode response", zap.Error(err))
	}
}
