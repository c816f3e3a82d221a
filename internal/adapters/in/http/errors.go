package http

import (
	"errors"
	"log/slog"
	"net/http"

	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/idempotency"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// badRequestError marks input that could not be decoded or parsed at all, as
// opposed to well-formed input that breaks a business rule.
type badRequestError struct {
	message string
	cause   error
}

func newBadRequestError(message string, cause error) *badRequestError {
	return &badRequestError{message: message, cause: cause}
}

func (e *badRequestError) Error() string {
	if e.cause == nil {
		return e.message
	}
	return e.message + ": " + e.cause.Error()
}

func (e *badRequestError) Unwrap() error {
	return e.cause
}

var errAdminTokenRequired = echo.NewHTTPError(http.StatusForbidden, "hard delete requires a valid admin token")

// toErrorResponse classifies err. Unknown errors become a generic 500.
func toErrorResponse(err error) ErrorResponse {
	var (
		badRequest *badRequestError
		httpErr    *echo.HTTPError
		transition *errs.StatusTransitionIsInvalidError
		stock      *errs.InsufficientStockError
	)

	switch {
	case errors.As(err, &badRequest):
		return ErrorResponse{Code: http.StatusBadRequest, Message: badRequest.Error()}
	case errors.As(err, &httpErr):
		message := http.StatusText(httpErr.Code)
		if m, ok := httpErr.Message.(string); ok {
			message = m
		}
		return ErrorResponse{Code: httpErr.Code, Message: message}
	case errors.As(err, &transition):
		return ErrorResponse{
			Code:    http.StatusUnprocessableEntity,
			Message: err.Error(),
			Details: map[string]any{
				"machine":         transition.Machine,
				"currentStatus":   transition.From,
				"requestedStatus": transition.To,
			},
		}
	case errors.As(err, &stock):
		details := map[string]any{
			"productId": stock.ProductID,
			"requested": stock.Requested,
		}
		if stock.Available >= 0 {
			details["available"] = stock.Available
			details["shortfall"] = stock.Shortfall()
		}
		return ErrorResponse{Code: http.StatusUnprocessableEntity, Message: err.Error(), Details: details}
	case errs.IsValidation(err):
		return ErrorResponse{Code: http.StatusUnprocessableEntity, Message: err.Error()}
	case errors.Is(err, errs.ErrObjectNotFound):
		return ErrorResponse{Code: http.StatusNotFound, Message: err.Error()}
	case errors.Is(err, errs.ErrConflict), errors.Is(err, idempotency.ErrInProgress):
		return ErrorResponse{Code: http.StatusConflict, Message: err.Error()}
	default:
		return ErrorResponse{Code: http.StatusInternalServerError, Message: "internal server error"}
	}
}

// ErrorHandler renders handler errors as ErrorResponse and logs server faults.
func ErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		resp := toErrorResponse(err)
		if resp.Code >= http.StatusInternalServerError {
			req := c.Request()
			logger.ErrorContext(req.Context(), "request failed",
				"method", req.Method,
				"path", c.Path(),
				"error", err,
			)
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(resp.Code)
		} else {
			writeErr = c.JSON(resp.Code, resp)
		}
		if writeErr != nil {
			logger.ErrorContext(c.Request().Context(), "failed to write error response", "error", writeErr)
		}
	}
}
