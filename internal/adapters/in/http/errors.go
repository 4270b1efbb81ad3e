package http

import (
	"errors"
	"net/http"

	"workload/internal/core/application/usecases/commands"
	"workload/internal/core/domain/model/order"
	"workload/internal/core/domain/model/skillgroup"
	"workload/internal/core/domain/model/staff"
	"workload/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// statusOf maps a use case error to an HTTP status code.
func statusOf(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, order.ErrDuplicateOrder), errors.Is(err, staff.ErrDuplicateStaff):
		return http.StatusConflict
	case errors.Is(err, errs.ErrInvalidStateTransition), errors.Is(err, staff.ErrMemberIsLoggedOut):
		return http.StatusConflict
	case errors.Is(err, skillgroup.ErrUnmappedProductType):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// accepted drops a durable copy failure: the engine applied the operation and a retry
// would be rejected as a duplicate. The failure is logged instead.
func (s *Server) accepted(ctx echo.Context, err error) error {
	if err != nil && errors.Is(err, commands.ErrNotPersisted) {
		s.logger.ErrorContext(ctx.Request().Context(), "operation applied but not persisted",
			"path", ctx.Path(), "error", err)
		return nil
	}
	return err
}

// fail writes the error response for err. Internal errors are logged and their
// details are not exposed.
func (s *Server) fail(ctx echo.Context, message string, err error) error {
	code := statusOf(err)
	if code == http.StatusInternalServerError {
		s.logger.ErrorContext(ctx.Request().Context(), message, "path", ctx.Path(), "error", err)
		return ctx.JSON(code, Error{Code: code, Message: message})
	}

	return ctx.JSON(code, Error{Code: code, Message: message + ": " + err.Error()})
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: message})
}

// errorHandler renders errors returned by handlers and middleware as Error documents.
func errorHandler(err error, ctx echo.Context) {
	if ctx.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := http.StatusText(code)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(code)
		}
	}

	if ctx.Request().Method == http.MethodHead {
		_ = ctx.NoContent(code)
		return
	}
	_ = ctx.JSON(code, Error{Code: code, Message: message})
}
