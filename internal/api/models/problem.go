package models

import (
	"encoding/json"
	"net/http"
)

// Problem represents an RFC7807 error response.
// This is used for all API error responses with Content-Type: application/problem+json.
type Problem struct {
	// Type is a URI reference that identifies the problem type.
	Type string `json:"type"`

	// Title is a short, human-readable summary of the problem type.
	Title string `json:"title"`

	// Status is the HTTP status code for this occurrence of the problem.
	Status int `json:"status"`

	// Detail is a human-readable explanation specific to this occurrence.
	Detail string `json:"detail,omitempty"`

	// Instance is a URI reference that identifies the specific occurrence.
	Instance string `json:"instance,omitempty"`

	// TraceID is the request trace identifier for debugging.
	TraceID string `json:"traceId"`

	// Links advertises follow-up actions, such as retrying a fetch.
	Links []Link `json:"links,omitempty"`
}

// Link is a hypermedia control attached to a problem.
type Link struct {
	Rel    string `json:"rel"`
	Href   string `json:"href"`
	Method string `json:"method"`
}

// ProblemType constants for standard error types.
const (
	ProblemTypeNotFound        = "https://psimap.sg/problems/not-found"
	ProblemTypeTooManyRequests = "https://psimap.sg/problems/too-many-requests"
	ProblemTypeInternal        = "https://psimap.sg/problems/internal-error"
	ProblemTypeNoData          = "https://psimap.sg/problems/no-data"
)

// NoDataMessage is shown when PSI readings could not be fetched.
const NoDataMessage = "Currently there is no data available. \n Please try after some time."

// NewProblem creates a new Problem with the given parameters.
func NewProblem(problemType, title string, status int, traceID string) *Problem {
	return &Problem{
		Type:    problemType,
		Title:   title,
		Status:  status,
		TraceID: traceID,
	}
}

// WithDetail adds a detail message to the Problem.
func (p *Problem) WithDetail(detail string) *Problem {
	p.Detail = detail
	return p
}

// WithInstance adds the request instance URI to the Problem.
func (p *Problem) WithInstance(instance string) *Problem {
	p.Instance = instance
	return p
}

// WithLink appends a link to the Problem.
func (p *Problem) WithLink(rel, method, href string) *Problem {
	p.Links = append(p.Links, Link{Rel: rel, Href: href, Method: method})
	return p
}

// Write writes the Problem as JSON to the ResponseWriter.
func (p *Problem) Write(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.Header().Set("X-Request-Id", p.TraceID)
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

// NewNotFound creates a 404 Not Found problem.
func NewNotFound(traceID, detail string) *Problem {
	p := NewProblem(ProblemTypeNotFound, "Not found", http.StatusNotFound, traceID)
	p.Detail = detail
	return p
}

// NewTooManyRequests creates a 429 Too Many Requests problem.
func NewTooManyRequests(traceID, detail string) *Problem {
	p := NewProblem(ProblemTypeTooManyRequests, "Too many requests", http.StatusTooManyRequests, traceID)
	p.Detail = detail
	return p
}

// NewInternalError creates a 500 Internal Server Error problem.
func NewInternalError(traceID, detail string) *Problem {
	p := NewProblem(ProblemTypeInternal, "Internal server error", http.StatusInternalServerError, traceID)
	p.Detail = detail
	return p
}

// NewNoData creates the 503 problem returned when readings could not be
// fetched. retryHref is the endpoint that performs a fresh fetch.
func NewNoData(traceID, retryHref string) *Problem {
	p := NewProblem(ProblemTypeNoData, "No data", http.StatusServiceUnavailable, traceID)
	p.Detail = NoDataMessage
	return p.WithLink("retry", http.MethodGet, retryHref)
}
