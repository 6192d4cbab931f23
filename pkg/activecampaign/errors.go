package activecampaign

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrMissingID is returned when a successful envelope carries no usable id.
var ErrMissingID = errors.New("response envelope has no id")

// RemoteRejection is returned when ActiveCampaign answers with a falsy result_code.
// Message holds the server's result_message verbatim.
type RemoteRejection struct {
	Message string
}

func (e *RemoteRejection) Error() string {
	return fmt.Sprintf("activecampaign rejected request: %s", e.Message)
}

// IsRemoteRejection checks if the error is a rejection reported in the response envelope.
func IsRemoteRejection(err error) bool {
	var rejection *RemoteRejection
	return errors.As(err, &rejection)
}

// Error represents an HTTP-level failure returned by the ActiveCampaign endpoint.
type Error struct {
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api request failed with status %d: %s", e.StatusCode, e.Body)
}

func isErrorStatus(err error, status int) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == status
	}
	return false
}

// IsBadRequest checks if the error represents a 400 Bad Request response.
func IsBadRequest(err error) bool {
	return isErrorStatus(err, http.StatusBadRequest)
}

// IsUnauthorized checks if the error represents a 401 Unauthorized response.
func IsUnauthorized(err error) bool {
	return isErrorStatus(err, http.StatusUnauthorized)
}

// IsNotFound checks if the error represents a 404 Not Found response.
func IsNotFound(err error) bool {
	return isErrorStatus(err, http.StatusNotFound)
}
