package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/hrmsuite/hrms/internal/apperr"
	fiberlog "github.com/hrmsuite/hrms/internal/logger/adapter/fiber"
	"github.com/hrmsuite/hrms/internal/rbac"
)

// Response is the JSON envelope of every API response.
type Response struct {
	Success bool                `json:"success"`
	Data    any                 `json:"data,omitempty"`
	Meta    *rbac.PageMeta      `json:"meta,omitempty"`
	Message string              `json:"message,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// OK sends data with status 200.
func OK(c *fiber.Ctx, data any) error {
	return c.JSON(Response{Success: true, Data: data})
}

// Created sends data with status 201.
func Created(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(Response{Success: true, Data: data})
}

// Page sends one page of a list.
func Page(c *fiber.Ctx, data any, meta rbac.PageMeta) error {
	return c.JSON(Response{Success: true, Data: data, Meta: &meta})
}

// Message sends a bare success message.
func Message(c *fiber.Ctx, msg string) error {
	return c.JSON(Response{Success: true, Message: msg})
}

// ErrorHandler renders errors returned by handlers and middleware into the envelope.
// Internal errors are logged and their details are not exposed.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(Response{Message: fe.Message})
	}

	kind := apperr.KindOf(err)
	status := apperr.HTTPStatus(kind)

	if status >= fiber.StatusInternalServerError {
		requestID, _ := c.Locals(fiberlog.LocalsRequestID).(string)

		log.Error().Err(err).
			Str("requestID", requestID).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("request failed")

		return c.Status(status).JSON(Response{Message: "internal server error"})
	}

	resp := Response{Message: err.Error()}

	var ae *apperr.Error
	if errors.As(err, &ae) {
		resp.Message = ae.Message
		resp.Errors = ae.Fields
	}

	return c.Status(status).JSON(resp)
}

// ParseID reads the numeric route parameter name.
func ParseID(c *fiber.Ctx, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validation("invalid id").WithField(name, "must be a positive integer")
	}

	return id, nil
}

// PageQuery reads the page and per_page query parameters.
func PageQuery(c *fiber.Ctx) (page, perPage int) {
	return c.QueryInt("page", 1), c.QueryInt("per_page", rbac.DefaultPerPage)
}
