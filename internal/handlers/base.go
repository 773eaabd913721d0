// Package handlers exposes the VAL builder over HTTP.
package handlers

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/labstack/echo/v4"

	"github.com/rickylandino/val-builder-api/pkg/tracing"
)

// SuccessResponse returns a 200 OK with data
func SuccessResponse(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, data)
}

// CreatedResponse returns a 201 Created with data
func CreatedResponse(c echo.Context, data any) error {
	return c.JSON(http.StatusCreated, data)
}

// NoContentResponse returns a 204 No Content
func NoContentResponse(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

// BadRequest returns a 400 Bad Request error
func BadRequest(message string) error {
	return httperror.NewHTTPError(http.StatusBadRequest, message)
}

// span starts a handler span and binds it to the request.
func span(c echo.Context, name string) (endSpan func()) {
	ctx, s := tracing.StartSpan(c.Request().Context(), name)
	c.SetRequest(c.Request().WithContext(ctx))
	return func() { s.End() }
}
