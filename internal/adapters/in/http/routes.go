package http

import (
	"context"
	"log/slog"
	"net/http"

	"storefront/internal/pkg/idempotency"
	"storefront/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// RouterConfig carries the dependencies of NewRouter. Idempotency may be nil,
// in which case Idempotency-Key headers are ignored.
type RouterConfig struct {
	Server      *Server
	Idempotency idempotency.Store
	Metrics     *metrics.ServerMetrics
	Gatherer    prometheus.Gatherer
	Logger      *slog.Logger
}

// NewRouter wires middleware and routes. Requests under /api are validated
// against the embedded OpenAPI document.
func NewRouter(ctx context.Context, cfg RouterConfig) (*echo.Echo, error) {
	doc, err := LoadOpenAPI(ctx)
	if err != nil {
		return nil, err
	}
	validator, err := OpenAPIValidator(doc)
	if err != nil {
		return nil, err
	}
	if err = RegisterSwaggerDoc(doc); err != nil {
		return nil, err
	}

	e := echo.New()
	Setup(e, cfg.Logger, cfg.Metrics)

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler(cfg.Gatherer)))
	e.GET("/openapi.json", openAPIJSON(doc))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	s := cfg.Server
	var idempotent []echo.MiddlewareFunc
	if cfg.Idempotency != nil {
		idempotent = append(idempotent, Idempotency(cfg.Idempotency, cfg.Metrics, cfg.Logger))
	}

	api := e.Group("/api", validator)
	orders := api.Group("/orders")
	{
		orders.POST("", s.CreateOrder, idempotent...)
		orders.GET("", s.ListOrders)
		orders.GET("/stats", s.GetOrderStats)
		orders.GET("/export", s.ExportOrders)
		orders.GET("/number/:number", s.GetOrderByNumber)
		orders.GET("/:id", s.GetOrder)
		orders.PATCH("/:id", s.UpdateOrder)
		orders.DELETE("/:id", s.DeleteOrder)
		orders.PATCH("/:id/payment-status", s.UpdatePaymentStatus)
		orders.PATCH("/:id/fulfillment-status", s.UpdateFulfillmentStatus)
		orders.POST("/:id/duplicate", s.DuplicateOrder, idempotent...)
	}

	return e, nil
}
