// Package response writes the JSON envelope every CareerHub endpoint answers with.
package response

import "github.com/gofiber/fiber/v2"

// GenericFailure is the only text clients see for unexpected failures
const GenericFailure = "Something went wrong on our side, please try again later"

// Response is the envelope: data on success, error text otherwise
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func write(c *fiber.Ctx, status int, body Response) error {
	return c.Status(status).JSON(body)
}

// Success answers 200 with data
func Success(c *fiber.Ctx, message string, data interface{}) error {
	return write(c, fiber.StatusOK, Response{Success: true, Message: message, Data: data})
}

// Created answers 201 with the new resource
func Created(c *fiber.Ctx, message string, data interface{}) error {
	return write(c, fiber.StatusCreated, Response{Success: true, Message: message, Data: data})
}

// Error answers statusCode with a failure envelope
func Error(c *fiber.Ctx, statusCode int, message string) error {
	return write(c, statusCode, Response{Error: message})
}

// BadRequest covers validation and business-rule violations
func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

// Unauthorized covers missing, invalid or expired credentials
func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusUnauthorized, message)
}

// Forbidden covers callers lacking the role or ownership
func Forbidden(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusForbidden, message)
}

func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusNotFound, message)
}

func TooManyRequests(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusTooManyRequests, message)
}

// InternalServerError never carries error details
func InternalServerError(c *fiber.Ctx) error {
	return Error(c, fiber.StatusInternalServerError, GenericFailure)
}
