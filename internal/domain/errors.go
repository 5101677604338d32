package domain

import (
	"fmt"
	"strings"
)

// UnknownSourceError reports a source name that is not registered.
type UnknownSourceError struct {
	Name      string
	Supported []string
}

func (e *UnknownSourceError) Error() string {
	if len(e.Supported) == 0 {
		return fmt.Sprintf("newspaper %q is not supported", e.Name)
	}
	return fmt.Sprintf("newspaper %q is not supported (supported: %s)", e.Name, strings.Join(e.Supported, ", "))
}

// InvalidRangeError reports a malformed date, page or date range.
type InvalidRangeError struct {
	Reason string
}

func (e *InvalidRangeError) Error() string {
	return "invalid date range: " + e.Reason
}

// FetchError reports a page that could not be retrieved.
type FetchError struct {
	URL        string
	StatusCode int
	Snippet    string
	Err        error
}

func (e *FetchError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	case e.Snippet != "":
		return fmt.Sprintf("fetch %s: status %d body: %s", e.URL, e.StatusCode, e.Snippet)
	default:
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// ExtractionError reports a page whose structure did not yield a mandatory field.
type ExtractionError struct {
	URL   string
	Field string
	Err   error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extract %s from %s: %v", e.Field, e.URL, e.Err)
	}
	return fmt.Sprintf("extract %s from %s: field not found", e.Field, e.URL)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// WriteError reports an output file that could not be created or written.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
