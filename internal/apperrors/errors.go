package apperrors

import "github.com/gofiber/fiber/v2"

// Error is the domain failure type carried from services and validators up to
// the central HTTP error handler. Fields is only set for validation failures
// and maps a field name to the messages for every rule it violated.
type Error struct {
	Status  int
	Message string
	Fields  map[string][]string
}

func (e *Error) Error() string {
	return e.Message
}

// New creates an Error with an arbitrary HTTP status.
func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

// NotFound signals that the requested resource does not exist.
func NotFound(message string) *Error {
	return &Error{Status: fiber.StatusNotFound, Message: message}
}

// Conflict signals a uniqueness violation.
func Conflict(message string) *Error {
	return &Error{Status: fiber.StatusConflict, Message: message}
}

// Validation signals malformed input with per-field messages.
func Validation(fields map[string][]string) *Error {
	return &Error{
		Status:  fiber.StatusUnprocessableEntity,
		Message: "Validation failed",
		Fields:  fields,
	}
}
