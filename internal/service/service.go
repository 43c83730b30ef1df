// Package service contains the application use cases. Services validate
// input, enforce the catalog's business rules, and orchestrate repositories
// and object storage; they never build SQL or touch HTTP types.
package service

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Errors shared across services. Handlers translate these to HTTP codes.
var (
	ErrIDRequired = errors.New("id is required")
	ErrNotFound   = errors.New("record not found")
	ErrReaderNil  = errors.New("reader is nil")
)

// ValidationError carries a field-level validation failure to the transport
// layer without exposing validator internals.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// fieldErrors converts validator output into the first field-level error.
func fieldErrors(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &ValidationError{Field: verrs[0].Field(), Message: "failed " + verrs[0].Tag() + " validation"}
	}
	return err
}
