package api

import "errors"

var (
	errBaseURLRequired   = errors.New("api base URL is required")
	errMalformedResponse = errors.New("malformed API response")
	errRequestRejected   = errors.New("API request rejected")
)

// IsRejected reports whether the API answered but refused the request, as
// opposed to a transport failure.
func IsRejected(err error) bool {
	return errors.Is(err, errRequestRejected)
}
