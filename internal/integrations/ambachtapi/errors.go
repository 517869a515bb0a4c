package ambachtapi

import (
	"errors"
	"fmt"
)

var (
	// ErrInternal is returned when the request could not be built or sent
	ErrInternal = errors.New("ambachtapi client: internal error")

	// ErrInvalidResponse is returned when the backend answered with something unexpected.
	// Its INTERNAL_ERROR code classifies it as a system error.
	ErrInvalidResponse error = &codedError{code: "INTERNAL_ERROR", msg: "ambachtapi client: invalid response"}

	// ErrNotFound is returned for 404 answers
	ErrNotFound = errors.New("ambachtapi client: not found")
)

type codedError struct {
	code string
	msg  string
}

func (e *codedError) Error() string {
	return e.msg
}

func (e *codedError) ErrorCode() string {
	return e.code
}

// APIError is a non-2xx answer that carried an error body.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("ambachtapi: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("ambachtapi: %d: %s", e.Status, e.Message)
}

func (e *APIError) ErrorCode() string {
	return e.Code
}
