package domain

import (
	"errors"
	"fmt"
)

// ErrAuthentication is returned when the portal did not grant a session
var ErrAuthentication = errors.New("portal did not grant a session")

// NetworkError wraps a transport failure against the portal
type NetworkError struct {
	Step string
	Err  error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("portal %s request failed: %v", e.Step, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ParseError is returned when a portal page could not be read as HTML
type ParseError struct {
	Page string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse portal %s page: %v", e.Page, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// FetchOutcome classifies a fetch for the audit log
func FetchOutcome(report GradeReport, err error) string {
	var netErr *NetworkError
	var parseErr *ParseError

	switch {
	case err == nil:
		return report.Status.String()
	case errors.Is(err, ErrAuthentication):
		return "auth_failed"
	case errors.As(err, &netErr):
		return "network_error"
	case errors.As(err, &parseErr):
		return "parse_error"
	default:
		return "error"
	}
}
