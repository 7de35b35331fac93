package http

import (
	"errors"
	"net/http"

	"loan-registry/internal/domain/escrow"
	"loan-registry/internal/domain/journal"
	"loan-registry/internal/domain/loan"

	"github.com/labstack/echo/v4"
)

// Error codes returned alongside the message.
const (
	CodeNotFound            = "NOT_FOUND"
	CodeInvalidParameter    = "INVALID_PARAMETER"
	CodeInsufficientBalance = "INSUFFICIENT_BALANCE"
	CodeInvalidRelease      = "INVALID_RELEASE"
	CodeInvalidState        = "INVALID_STATE"
	CodeNotYetDue           = "NOT_YET_DUE"
	CodeInternal            = "INTERNAL"
)

// statusFor maps domain errors → HTTP status and error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, loan.ErrNotFound), errors.Is(err, journal.ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, loan.ErrInvalidParameter), errors.Is(err, escrow.ErrInvalidAmount):
		return http.StatusUnprocessableEntity, CodeInvalidParameter
	case errors.Is(err, escrow.ErrInsufficientBalance):
		return http.StatusConflict, CodeInsufficientBalance
	case errors.Is(err, escrow.ErrInvalidRelease):
		return http.StatusConflict, CodeInvalidRelease
	case errors.Is(err, loan.ErrNotYetDue):
		return http.StatusConflict, CodeNotYetDue
	case errors.Is(err, loan.ErrInvalidState):
		return http.StatusConflict, CodeInvalidState
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

func writeError(c echo.Context, err error) error {
	status, code := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		c.Logger().Error(err)
		msg = "internal error"
	}
	return c.JSON(status, ErrorResponse{Error: msg, Code: code})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func validationFailed(c echo.Context, err error) error {
	return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation failed",
		Code:    CodeInvalidParameter,
		Details: ToFieldErrors(err),
	})
}
