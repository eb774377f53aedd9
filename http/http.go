// Package http provides HTTP download operations
package http

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error is download error connected to HTTP code
type Error struct {
	Code int
	URL  string
}

// Error
func (e *Error) Error() string {
	return fmt.Sprintf("HTTP code %d while fetching %s", e.Code, e.URL)
}

// IsMissing checks whether error means remote file doesn't exist (404 or 403)
func IsMissing(err error) bool {
	if httpErr, ok := errors.Cause(err).(*Error); ok {
		return httpErr.Code == 404 || httpErr.Code == 403
	}
	return false
}
