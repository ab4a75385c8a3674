package crates

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrSchemaMismatch is wrapped by [TransportError] when a response body is
// valid JSON but matches neither or both of the envelope shapes.
var ErrSchemaMismatch = errors.New("response matches no known envelope shape")

// absenceDetail is the exact upstream wording crates.io uses for a missing crate.
const absenceDetail = "Not Found"

// ErrorDetail is one entry of the registry's error envelope.
type ErrorDetail struct {
	Detail string `json:"detail"`
}

// String returns the detail message.
func (d ErrorDetail) String() string { return d.Detail }

// TransportError reports that a crate query failed before the registry's
// answer could be identified: connection failures, timeouts, unreadable or
// non-JSON bodies, and bodies that match neither envelope shape.
//
// The cause is preserved; use errors.Is(err, integrations.ErrNetwork) to tell
// network failures from decode failures.
type TransportError struct {
	Crate string
	Err   error
}

// Error returns a message that includes the underlying cause.
func (e *TransportError) Error() string {
	return fmt.Sprintf("error retrieving crate information for %q: %v", e.Crate, e.Err)
}

// Unwrap returns the underlying cause.
func (e *TransportError) Unwrap() error { return e.Err }

// APIError reports that the registry answered with its error envelope for
// anything other than a plain "Not Found". Details holds every entry the
// registry sent, in order and unmodified.
type APIError struct {
	Crate   string
	Details []ErrorDetail
}

// Error returns a message that embeds every detail verbatim.
func (e *APIError) Error() string {
	quoted := make([]string, len(e.Details))
	for i, d := range e.Details {
		quoted[i] = strconv.Quote(d.Detail)
	}
	return fmt.Sprintf("error retrieving crate information for %q: registry reported: %s",
		e.Crate, strings.Join(quoted, "; "))
}

// isAbsenceSignal reports whether an error envelope means "this crate does
// not exist". It is the only place that knows the upstream wording.
func isAbsenceSignal(details []ErrorDetail) bool {
	return len(details) == 1 && details[0].Detail == absenceDetail
}
