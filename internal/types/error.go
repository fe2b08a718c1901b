package types

import (
	"errors"
	"fmt"
)

// Domain error taxonomy. NotFound deliberately covers both "does not
// exist" and "exists but belongs to someone else" so ownership can not
// leak through distinguishable errors.
var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrNotFound        = errors.New("not found")
	ErrDuplicateOwner  = errors.New("record already exists for this user")
	ErrValidation      = errors.New("invalid input")
)

// CustomError carries an HTTP status and a machine-readable type for
// the global error handler.
type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}
