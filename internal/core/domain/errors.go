package domain

import "fmt"

// ValidationError indicates a required tool argument was missing or empty.
// It is raised before any network activity and is never retried.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError with the given message.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// AuthenticationError indicates the client-credentials exchange failed or
// returned no usable token. It signals a credential or configuration problem,
// not a Dataverse resource problem.
type AuthenticationError struct {
	Message string
	Err     error
}

func (e *AuthenticationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// NewAuthenticationError wraps a token acquisition failure.
func NewAuthenticationError(message string, err error) *AuthenticationError {
	return &AuthenticationError{Message: message, Err: err}
}

// APIRequestError indicates the Dataverse Web API returned a non-success
// status, or the request or response decoding itself failed. When the failure
// came from an HTTP response, StatusCode and Body carry the status and the raw
// response body text.
type APIRequestError struct {
	Message    string
	StatusCode int
	Body       string
	Err        error
}

func (e *APIRequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %s", e.Message, e.StatusCode, e.Body)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *APIRequestError) Unwrap() error {
	return e.Err
}

// NewAPIStatusError creates an APIRequestError from a non-success HTTP response.
func NewAPIStatusError(message string, statusCode int, body string) *APIRequestError {
	return &APIRequestError{Message: message, StatusCode: statusCode, Body: body}
}

// NewAPIRequestError wraps a transport or decode failure.
func NewAPIRequestError(message string, err error) *APIRequestError {
	return &APIRequestError{Message: message, Err: err}
}
