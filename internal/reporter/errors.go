// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reporter

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// ErrTransport matches TransportError and PartialDataError via errors.Is.
// A query that fails with it must never be reported as "zero results".
var ErrTransport = errors.New("transport error")

// TransportError reports a network failure or a non-success HTTP status
// from the search API.
type TransportError struct {
	Endpoint   string
	StatusCode int
	Detail     string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		if e.Detail != "" {
			return fmt.Sprintf("search API %s returned HTTP %d: %s", e.Endpoint, e.StatusCode, e.Detail)
		}
		return fmt.Sprintf("search API %s returned HTTP %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("search API %s request failed: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrTransport) true.
func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// PartialDataError reports a response missing structural keys such as
// meta.total. It is a transport failure, not an empty page.
type PartialDataError struct {
	Missing string
}

func (e *PartialDataError) Error() string {
	return fmt.Sprintf("search API response missing %s", e.Missing)
}

// Is makes errors.Is(err, ErrTransport) true.
func (e *PartialDataError) Is(target error) bool { return target == ErrTransport }
