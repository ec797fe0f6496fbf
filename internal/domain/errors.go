package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoSelection indicates that no task or item was selected.
	ErrNoSelection = errors.New("select at least one task")

	// ErrNoItems indicates that a multiplier selection has no usable items.
	ErrNoItems = errors.New("enter at least one item")

	// ErrMissingWBSCode indicates that the WBS name/code field is empty.
	ErrMissingWBSCode = errors.New("wbs code is required")

	// ErrMissingProject indicates that the project field is empty.
	ErrMissingProject = errors.New("project is required")

	// ErrEndpointNotConfigured indicates the webhook endpoint is still the placeholder.
	ErrEndpointNotConfigured = errors.New("webhook endpoint is not configured")
)

// TemplateParseError reports a template file that could not be parsed or
// failed validation.
type TemplateParseError struct {
	Path string
	Err  error
}

func (e *TemplateParseError) Error() string {
	return fmt.Sprintf("parsing template %s: %v", e.Path, e.Err)
}

func (e *TemplateParseError) Unwrap() error { return e.Err }

// DuplicateTemplateTypeError reports two or more files declaring the same wbs_type.
type DuplicateTemplateTypeError struct {
	WBSType string
	Paths   []string
}

func (e *DuplicateTemplateTypeError) Error() string {
	return fmt.Sprintf("duplicate wbs_type %q declared in %s", e.WBSType, strings.Join(e.Paths, ", "))
}

// TemplateNotFoundError reports a lookup for an unknown wbs_type.
type TemplateNotFoundError struct {
	WBSType string
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("template %q not found", e.WBSType)
}

// InvalidDaysError reports a day count outside the accepted range.
type InvalidDaysError struct {
	Task string
	Days int
	Max  int
}

func (e *InvalidDaysError) Error() string {
	if e.Days < 1 {
		if e.Task == "" {
			return fmt.Sprintf("invalid days %d: must be at least 1", e.Days)
		}
		return fmt.Sprintf("task %q needs at least 1 day, got %d", e.Task, e.Days)
	}
	if e.Task == "" {
		return fmt.Sprintf("invalid days %d: must be at most %d", e.Days, e.Max)
	}
	return fmt.Sprintf("task %q allows at most %d days, got %d", e.Task, e.Max, e.Days)
}

// SubmissionErrorKind classifies why a webhook call failed.
type SubmissionErrorKind string

const (
	SubmissionTimeout            SubmissionErrorKind = "TIMEOUT"
	SubmissionConnectionError    SubmissionErrorKind = "CONNECTION_ERROR"
	SubmissionHTTPError          SubmissionErrorKind = "HTTP_ERROR"
	SubmissionUnexpectedResponse SubmissionErrorKind = "UNEXPECTED_RESPONSE"
)

// SubmissionError is returned by the webhook client for a failed call.
// Status is set for HTTP errors and unexpected responses.
type SubmissionError struct {
	Kind   SubmissionErrorKind
	Status int
	Err    error
}

func (e *SubmissionError) Error() string {
	switch e.Kind {
	case SubmissionHTTPError:
		return fmt.Sprintf("HTTP %d", e.Status)
	case SubmissionUnexpectedResponse:
		if e.Err != nil {
			return fmt.Sprintf("unexpected response (status %d): %v", e.Status, e.Err)
		}
		return fmt.Sprintf("unexpected response (status %d)", e.Status)
	case SubmissionTimeout:
		return "request timed out"
	default:
		if e.Err != nil {
			return fmt.Sprintf("connection error: %v", e.Err)
		}
		return "connection error"
	}
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// SubmissionKind extracts the SubmissionErrorKind from err, or "" if err is
// not a SubmissionError.
func SubmissionKind(err error) SubmissionErrorKind {
	var se *SubmissionError
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}
