// Package response renders the uniform JSON envelope every endpoint replies
// with: {success, message, data, meta?} on success and
// {success, message, errors?} on failure.
package response

import "github.com/gofiber/fiber/v2"

// Meta carries pagination metadata for list responses.
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// Envelope is the wire shape shared by all responses.
type Envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    any                 `json:"data,omitempty"`
	Meta    *Meta               `json:"meta,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// Success writes a success envelope with the given status code.
func Success(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// SuccessWithMeta writes a 200 success envelope including pagination metadata.
func SuccessWithMeta(c *fiber.Ctx, message string, data any, meta Meta) error {
	return c.Status(fiber.StatusOK).JSON(Envelope{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    &meta,
	})
}

// Created writes a 201 success envelope.
func Created(c *fiber.Ctx, message string, data any) error {
	return Success(c, fiber.StatusCreated, message, data)
}

// NoContent writes a 204 response with an empty body.
func NoContent(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNoContent).Send(nil)
}

// Error writes an error envelope. errs may be nil; when present it carries
// per-field validation messages.
func Error(c *fiber.Ctx, status int, message string, errs map[string][]string) error {
	return c.Status(status).JSON(Envelope{
		Success: false,
		Message: message,
		Errors:  errs,
	})
}
