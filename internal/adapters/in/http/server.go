package http

import (
	"bytes"
	"context"
	"crypto/subtle"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/application/usecases/queries"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
)

const (
	// HeaderAdminToken authorises hard deletes.
	HeaderAdminToken = "X-Admin-Token"
	// HeaderActor names the caller recorded as the creator of new orders.
	HeaderActor = "X-Actor"
)

type (
	OrderCreator interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error)
	}
	OrderUpdater interface {
		Handle(ctx context.Context, cmd commands.UpdateOrderCommand) (commands.UpdateOrderResult, error)
	}
	PaymentStatusUpdater interface {
		Handle(ctx context.Context, cmd commands.UpdatePaymentStatusCommand) (*order.Order, error)
	}
	FulfillmentStatusUpdater interface {
		Handle(ctx context.Context, cmd commands.UpdateFulfillmentStatusCommand) (*order.Order, error)
	}
	OrderDeleter interface {
		Handle(ctx context.Context, cmd commands.DeleteOrderCommand) error
	}
	OrderDuplicator interface {
		Handle(ctx context.Context, cmd commands.DuplicateOrderCommand) (*order.Order, error)
	}
	OrderGetter interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (queries.OrderView, error)
	}
	OrderLister interface {
		Handle(ctx context.Context, query queries.ListOrdersQuery) (queries.ListOrdersQueryResponse, error)
	}
	OrderStatsReader interface {
		Handle(ctx context.Context, query queries.OrderStatsQuery) (queries.OrderStatsQueryResponse, error)
	}
	OrderExporter interface {
		Handle(ctx context.Context, query queries.ExportOrdersQuery, w io.Writer) (int, error)
	}
)

// Handlers are the use cases served over HTTP.
type Handlers struct {
	Create            OrderCreator
	Update            OrderUpdater
	PaymentStatus     PaymentStatusUpdater
	FulfillmentStatus FulfillmentStatusUpdater
	Delete            OrderDeleter
	Duplicate         OrderDuplicator
	Get               OrderGetter
	List              OrderLister
	Stats             OrderStatsReader
	Export            OrderExporter
}

// Server translates HTTP requests into commands and queries.
type Server struct {
	handlers   Handlers
	adminToken string
	metrics    *metrics.ServerMetrics
	logger     *slog.Logger
}

// NewServer builds a server. An empty adminToken disables hard deletes.
func NewServer(handlers Handlers, adminToken string, m *metrics.ServerMetrics, logger *slog.Logger) *Server {
	return &Server{
		handlers:   handlers,
		adminToken: adminToken,
		metrics:    m,
		logger:     logger.With("component", "http_server"),
	}
}

// CreateOrder handles POST /api/orders.
func (s *Server) CreateOrder(c echo.Context) error {
	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return newBadRequestError("invalid request body", err)
	}

	in, err := req.toInput(c.Request().Header.Get(HeaderActor))
	if err != nil {
		return err
	}
	cmd, err := commands.NewCreateOrderCommand(in)
	if err != nil {
		return err
	}

	created, err := s.handlers.Create.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	s.metrics.OrdersCreated.WithLabelValues(created.Section().String()).Inc()
	return c.JSON(http.StatusCreated, queries.NewOrderView(created))
}

// GetOrder handles GET /api/orders/:id.
func (s *Server) GetOrder(c echo.Context) error {
	id, err := orderIDParam(c)
	if err != nil {
		return err
	}
	query, err := queries.NewGetOrderQuery(id)
	if err != nil {
		return err
	}

	view, err := s.handlers.Get.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// GetOrderByNumber handles GET /api/orders/number/:number. Both "1001" and
// "#1001" (URL encoded) are accepted.
func (s *Server) GetOrderByNumber(c echo.Context) error {
	raw, err := url.PathUnescape(c.Param("number"))
	if err != nil {
		return newBadRequestError("invalid order number", err)
	}
	number, err := order.ParseNumber(raw)
	if err != nil {
		return newBadRequestError("invalid order number", err)
	}
	query, err := queries.NewGetOrderByNumberQuery(number)
	if err != nil {
		return err
	}

	view, err := s.handlers.Get.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// ListOrders handles GET /api/orders.
func (s *Server) ListOrders(c echo.Context) error {
	bound, err := bindListParams(c.QueryParams())
	if err != nil {
		return err
	}
	params, err := bound.toParams()
	if err != nil {
		return err
	}
	query, err := queries.NewListOrdersQuery(params)
	if err != nil {
		return err
	}

	page, err := s.handlers.List.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// UpdateOrder handles PATCH /api/orders/:id.
func (s *Server) UpdateOrder(c echo.Context) error {
	id, err := orderIDParam(c)
	if err != nil {
		return err
	}
	var req updateOrderRequest
	if err = c.Bind(&req); err != nil {
		return newBadRequestError("invalid request body", err)
	}
	in, err := req.toInput()
	if err != nil {
		return err
	}
	cmd, err := commands.NewUpdateOrderCommand(id, in)
	if err != nil {
		return err
	}

	result, err := s.handlers.Update.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	updated := result.Order
	if result.PaymentChanged {
		s.metrics.StatusTransitions.WithLabelValues("payment", updated.PaymentStatus().String()).Inc()
	}
	if result.FulfillmentChanged {
		s.metrics.StatusTransitions.WithLabelValues("fulfillment", updated.FulfillmentStatus().String()).Inc()
	}
	return c.JSON(http.StatusOK, queries.NewOrderView(updated))
}

// UpdatePaymentStatus handles PATCH /api/orders/:id/payment-status.
func (s *Server) UpdatePaymentStatus(c echo.Context) error {
	id, err := orderIDParam(c)
	if err != nil {
		return err
	}
	var req statusRequest
	if err = c.Bind(&req); err != nil {
		return newBadRequestError("invalid request body", err)
	}
	status, err := order.ParsePaymentStatus(req.Status)
	if err != nil {
		return err
	}
	cmd, err := commands.NewUpdatePaymentStatusCommand(id, status)
	if err != nil {
		return err
	}

	updated, err := s.handlers.PaymentStatus.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	s.metrics.StatusTransitions.WithLabelValues("payment", status.String()).Inc()
	return c.JSON(http.StatusOK, queries.NewOrderView(updated))
}

// UpdateFulfillmentStatus handles PATCH /api/orders/:id/fulfillment-status.
func (s *Server) UpdateFulfillmentStatus(c echo.Context) error {
	id, err := orderIDParam(c)
	if err != nil {
		return err
	}
	var req statusRequest
	if err = c.Bind(&req); err != nil {
		return newBadRequestError("invalid request body", err)
	}
	status, err := order.ParseFulfillmentStatus(req.Status)
	if err != nil {
		return err
	}
	cmd, err := commands.NewUpdateFulfillmentStatusCommand(id, status)
	if err != nil {
		return err
	}

	updated, err := s.handlers.FulfillmentStatus.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	s.metrics.StatusTransitions.WithLabelValues("fulfillment", status.String()).Inc()
	return c.JSON(http.StatusOK, queries.NewOrderView(updated))
}

// DeleteOrder handles DELETE /api/orders/:id. A hard delete (?hard=true)
// requires the admin token.
func (s *Server) DeleteOrder(c echo.Context) error {
	id, err := orderIDParam(c)
	if err != nil {
		return err
	}

	hard := false
	if raw := c.QueryParam("hard"); raw != "" {
		if hard, err = strconv.ParseBool(raw); err != nil {
			return newBadRequestError("invalid query parameter hard", err)
		}
	}
	if hard && !s.isAdmin(c.Request()) {
		return errAdminTokenRequired
	}

	cmd, err := commands.NewDeleteOrderCommand(id, hard)
	if err != nil {
		return err
	}
	if err = s.handlers.Delete.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DuplicateOrder handles POST /api/orders/:id/duplicate.
func (s *Server) DuplicateOrder(c echo.Context) error {
	id, err := orderIDParam(c)
	if err != nil {
		return err
	}
	cmd, err := commands.NewDuplicateOrderCommand(id, c.Request().Header.Get(HeaderActor))
	if err != nil {
		return err
	}

	created, err := s.handlers.Duplicate.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	s.metrics.OrdersCreated.WithLabelValues(created.Section().String()).Inc()
	return c.JSON(http.StatusCreated, queries.NewOrderView(created))
}

// GetOrderStats handles GET /api/orders/stats.
func (s *Server) GetOrderStats(c echo.Context) error {
	filter, err := s.filterFromQuery(c)
	if err != nil {
		return err
	}
	query, err := queries.NewOrderStatsQuery(filter)
	if err != nil {
		return err
	}

	stats, err := s.handlers.Stats.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// ExportOrders handles GET /api/orders/export. The CSV is buffered so that a
// failing query still produces a JSON error instead of a truncated file.
func (s *Server) ExportOrders(c echo.Context) error {
	filter, err := s.filterFromQuery(c)
	if err != nil {
		return err
	}
	query, err := queries.NewExportOrdersQuery(filter)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if _, err = s.handlers.Export.Handle(c.Request().Context(), query, &buf); err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="orders.csv"`)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (s *Server) filterFromQuery(c echo.Context) (queries.OrderFilter, error) {
	bound, err := bindFilterParams(c.QueryParams())
	if err != nil {
		return queries.OrderFilter{}, err
	}
	return bound.toFilter()
}

func (s *Server) isAdmin(r *http.Request) bool {
	if s.adminToken == "" {
		return false
	}
	token := r.Header.Get(HeaderAdminToken)
	return subtle.ConstantTimeCompare([]byte(token), []byte(s.adminToken)) == 1
}

func orderIDParam(c echo.Context) (kernel.UUID, error) {
	id, err := kernel.ParseUUID(c.Param("id"))
	if err != nil {
		return kernel.UUID{}, newBadRequestError("invalid order id", err)
	}
	return id, nil
}
