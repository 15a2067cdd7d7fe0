package telemetry

import (
	"encoding/json"
	"net/http"
)

// ProblemTypeNotFound identifies RFC 7807 responses for unknown paths.
const ProblemTypeNotFound = "https://hostwatch.dev/problems/not-found"

// Problem represents an RFC 7807 Problem Details response.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

// WriteProblem writes an RFC 7807 Problem Details JSON response.
func WriteProblem(w http.ResponseWriter, p Problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

// handleNotFound answers every path the server does not serve.
func handleNotFound(w http.ResponseWriter, r *http.Request) {
	WriteProblem(w, Problem{
		Type:     ProblemTypeNotFound,
		Title:    "Not Found",
		Status:   http.StatusNotFound,
		Detail:   "only /metrics and /healthz are served",
		Instance: r.URL.Path,
	})
}
