package analysis

import "errors"

// ErrNoAnalysis indicates the session has no stored analysis (or the stored
// payload could not be decoded). The results page redirects home on it.
var ErrNoAnalysis = errors.New("no active analysis")

// ErrAnalysisInProgress indicates the session already has an upload in
// flight. Only one analysis may run per session at a time.
var ErrAnalysisInProgress = errors.New("analysis already in progress")

// ValidationError rejects a file before any network call is made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// TimeoutError is returned when the client-side cap on the analysis call
// expires and the in-flight request is aborted.
type TimeoutError struct {
	Message string
}

func (e *TimeoutError) Error() string { return e.Message }

// ServiceError is a non-2xx response or an unparsable body from the
// analysis API. Message is the server-provided detail when available.
type ServiceError struct {
	Message string
	Status  int
}

func (e *ServiceError) Error() string { return e.Message }
