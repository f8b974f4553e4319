package errors

import "errors"

var (
	// ErrInvalidCredentials is returned for an unknown email or a wrong
	// password. The single sentinel keeps the two cases indistinguishable
	// to callers.
	ErrInvalidCredentials = errors.New("Invalid credentials.")
	// ErrDuplicateEmail is returned when signup hits the store's email
	// uniqueness constraint.
	ErrDuplicateEmail = errors.New("Email already registered.")
	// ErrDuplicateAdmin is returned when an admin with the given email
	// already exists.
	ErrDuplicateAdmin = errors.New("Admin user with this email already exists.")
	// ErrAdminSubmission is returned when an admin token is used to submit
	// survey data.
	ErrAdminSubmission = errors.New("Admin accounts cannot submit user survey data through this endpoint.")
)

// ErrorResponse is the JSON body returned for every failed request. Detail
// carries the underlying failure on 500 responses, matching the behavior of
// the earlier iterations of this service.
type ErrorResponse struct {
	Message string `json:"message"`
	Detail  string `json:"error,omitempty"`
}

// Internal builds the 500 body for an unanticipated failure.
func Internal(message string, err error) ErrorResponse {
	resp := ErrorResponse{Message: message}
	if err != nil {
		resp.Detail = err.Error()
	}
	return resp
}
