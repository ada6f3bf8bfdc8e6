package apierror

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse is a JSON-serializable failure envelope carrying its
// own HTTP status code.
type ErrorResponse interface {
	Code() int
}

type Simple struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	status  int
}

func (e *Simple) Code() int {
	return e.status
}

func NewSimple(code int, message string) *Simple {
	return &Simple{Success: false, Message: message, status: code}
}

var (
	// Storage failures surface only this generic message; the real
	// error goes to the log.
	InternalServerError = NewSimple(http.StatusInternalServerError, "internal server error")

	NotFoundError        = NewSimple(http.StatusNotFound, "appointment not found")
	SlotUnavailableError = NewSimple(http.StatusBadRequest, "the selected time slot is not available")
	MissingIDError       = NewSimple(http.StatusBadRequest, "appointment id is required")
	InvalidIDError       = NewSimple(http.StatusBadRequest, "appointment id must be a positive integer")
)

// NewMissingFieldsError lists every missing required field, not just
// the first one found.
func NewMissingFieldsError(fields []string) *Simple {
	return NewSimple(http.StatusBadRequest, "missing required fields: "+strings.Join(fields, ", "))
}

func FromValidationError(err error) *Simple {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, len(verrs))
		for i, fe := range verrs {
			fields[i] = strings.ToLower(fe.Field())
		}
		return NewSimple(http.StatusBadRequest, "invalid fields: "+strings.Join(fields, ", "))
	}
	return NewSimple(http.StatusBadRequest, "invalid request")
}
