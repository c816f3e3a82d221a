package http

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/idempotency"
	"storefront/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// HeaderIdempotentReplayed is set on responses served from the idempotency store.
const HeaderIdempotentReplayed = "Idempotent-Replayed"

// Setup installs the error handler and the middleware shared by every route:
// panic recovery, request ids, access logging and metrics.
//
// Example:
//
//	e := echo.New()
//	http.Setup(e, logger, metrics.NewServerMetrics(prometheus.NewRegistry()))
func Setup(e *echo.Echo, logger *slog.Logger, m *metrics.ServerMetrics) {
	e.HideBanner = true
	e.HTTPErrorHandler = ErrorHandler(logger)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(RequestLogger(logger))
	e.Use(Metrics(m))
}

// RequestLogger writes one "request" line per request at info level.
func RequestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.LogAttrs(c.Request().Context(), slog.LevelInfo, "request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Int64("latency_ms", v.Latency.Milliseconds()),
				slog.String("request_id", v.RequestID),
				slog.String("remote_ip", v.RemoteIP),
			)
			return nil
		},
	})
}

// Metrics counts requests per route template and records their latency.
func Metrics(m *metrics.ServerMetrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				status = toErrorResponse(err).Code
			}
			route := c.Path()
			method := c.Request().Method
			m.Requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
			m.LatencyMS.WithLabelValues(route, method).Observe(float64(time.Since(start).Milliseconds()))
			return err
		}
	}
}

type capturingWriter struct {
	http.ResponseWriter
	body bytes.Buffer
}

func (w *capturingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response when a request repeats an
// Idempotency-Key. Only successful responses are stored; a failed request
// releases its key so the client can retry. Requests without the header pass
// through.
func Idempotency(store idempotency.Store, m *metrics.ServerMetrics, logger *slog.Logger) echo.MiddlewareFunc {
	logger = logger.With("component", "idempotency")

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			key := idempotency.Key(req)
			if key == "" {
				return next(c)
			}
			if len(key) > idempotency.MaxKeyLength {
				return newBadRequestError("idempotency key is too long", nil)
			}

			body, err := io.ReadAll(req.Body)
			if err != nil {
				return newBadRequestError("failed to read request body", err)
			}
			req.Body = io.NopCloser(bytes.NewReader(body))

			fingerprint := idempotency.Fingerprint(req.Method, req.URL.Path, body)
			existing, acquired, err := store.Reserve(req.Context(), key, fingerprint)
			if err != nil {
				return err
			}
			if !acquired {
				return replay(c, existing, fingerprint, m)
			}

			writer := &capturingWriter{ResponseWriter: c.Response().Writer}
			c.Response().Writer = writer

			// the outcome is stored even if the client went away
			storeCtx := context.WithoutCancel(req.Context())

			handlerErr := next(c)
			status := c.Response().Status
			if handlerErr != nil || status >= http.StatusInternalServerError {
				if releaseErr := store.Release(storeCtx, key); releaseErr != nil {
					logger.ErrorContext(storeCtx, "failed to release idempotency key", "error", releaseErr)
				}
				return handlerErr
			}

			record := idempotency.Record{
				Fingerprint: fingerprint,
				Status:      status,
				ContentType: c.Response().Header().Get(echo.HeaderContentType),
				Body:        writer.body.Bytes(),
			}
			if completeErr := store.Complete(storeCtx, key, record); completeErr != nil {
				logger.ErrorContext(storeCtx, "failed to store idempotent response", "error", completeErr)
			}
			return nil
		}
	}
}

func replay(c echo.Context, existing *idempotency.Record, fingerprint string, m *metrics.ServerMetrics) error {
	if existing.Fingerprint != fingerprint {
		return errs.NewValueIsInvalidErrorWithCause(idempotency.Header,
			errors.New("the key was already used with a different request"))
	}
	if !existing.Completed {
		return idempotency.ErrInProgress
	}

	m.IdempotentReplays.Inc()
	c.Response().Header().Set(HeaderIdempotentReplayed, "true")
	return c.Blob(existing.Status, existing.ContentType, existing.Body)
}
