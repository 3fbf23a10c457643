// Package httpapi exposes the fault tree over a JSON HTTP API built on gin.
package httpapi

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	// Error is the human-readable message.
	Error string `json:"error"`

	// Code is a stable machine-readable error code.
	Code string `json:"code"`

	// Rule names the violated rule for validation failures.
	Rule string `json:"rule,omitempty"`
}

// SetCauseRoleBody is the body of PUT /v1/nodes/:id/role. Clients send
// either role or the two cause flags of the tree contract.
type SetCauseRoleBody struct {
	Role                string `json:"role"`
	IsBasicCause        *bool  `json:"is_basic_cause"`
	IsContributingCause *bool  `json:"is_contributing_cause"`
}

// HealthResponse is returned by GET /healthz.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Error codes.
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeNotFound         = "NOT_FOUND"
	CodeNoRoot           = "NO_ROOT"
	CodeIntegrityHold    = "INTEGRITY_HOLD"
	CodeStoreUnavailable = "STORE_UNAVAILABLE"
	CodeInternal         = "INTERNAL"
)

// Request headers.
const (
	HeaderRequestID = "X-Request-ID"
	HeaderActor     = "X-Actor"
)
