// Package http exposes the fulfillment operations over a REST API.
// Handlers translate between wire DTOs and application commands/queries;
// monetary amounts cross the boundary as floats and are converted to
// fixed-point before they reach the domain.
package http

import (
	"errors"
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	tenantID string

	createOrderHandler     commands.CreateOrderCommandHandler
	createCustomerHandler  commands.CreateCustomerCommandHandler
	transitionStageHandler commands.TransitionStageCommandHandler

	getCustomerHandler         queries.GetCustomerQueryHandler
	getOrdersByCustomerHandler queries.GetOrdersByCustomerQueryHandler
	getOrderHistoryHandler     queries.GetOrderHistoryQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	tenantID string,
	createOrderHandler commands.CreateOrderCommandHandler,
	createCustomerHandler commands.CreateCustomerCommandHandler,
	transitionStageHandler commands.TransitionStageCommandHandler,
	getCustomerHandler queries.GetCustomerQueryHandler,
	getOrdersByCustomerHandler queries.GetOrdersByCustomerQueryHandler,
	getOrderHistoryHandler queries.GetOrderHistoryQueryHandler,
) *Server {
	return &Server{
		tenantID:                   tenantID,
		createOrderHandler:         createOrderHandler,
		createCustomerHandler:      createCustomerHandler,
		transitionStageHandler:     transitionStageHandler,
		getCustomerHandler:         getCustomerHandler,
		getOrdersByCustomerHandler: getOrdersByCustomerHandler,
		getOrderHistoryHandler:     getOrderHistoryHandler,
	}
}

// RegisterRoutes mounts all API routes on the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)

	api := e.Group("/api/v1")
	api.POST("/orders", s.CreateOrder)
	api.POST("/orders/:orderId/transition", s.TransitionStage)
	api.GET("/orders/:orderId/history", s.GetOrderHistory)
	api.POST("/customers", s.CreateCustomer)
	api.GET("/customers/:customerId", s.GetCustomer)
	api.GET("/customers/:customerId/orders", s.GetOrdersByCustomer)
}

// Health handles GET /health - liveness probe.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// CreateOrder handles POST /api/v1/orders - creates a new order.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var request CreateOrderRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	customerID, err := kernel.UUIDFromString(request.CustomerID)
	if err != nil {
		return badRequest(ctx, "invalid customer id: "+request.CustomerID)
	}

	items := make([]order.Item, 0, len(request.Items))
	for _, line := range request.Items {
		price, priceErr := kernel.MoneyFromFloat64(line.UnitPrice)
		if priceErr != nil {
			return badRequest(ctx, "invalid unit price for product "+line.ProductID)
		}

		item, itemErr := order.NewItem(line.ProductID, line.Quantity, price)
		if itemErr != nil {
			return badRequest(ctx, "invalid order line: "+itemErr.Error())
		}
		items = append(items, item)
	}

	cmd, err := commands.NewCreateOrderCommand(customerID, s.tenantID, items)
	if err != nil {
		return badRequest(ctx, "invalid order data: "+err.Error())
	}

	orderID, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreateOrderResponse{OrderID: orderID.String()})
}

// TransitionStage handles POST /api/v1/orders/:orderId/transition - advances
// an order to the next fulfillment stage. The endpoint also accepts the event
// envelope shape, where the payload nests under "detail", so workflow rules
// can call it directly.
func (s *Server) TransitionStage(ctx echo.Context) error {
	var request TransitionStageRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return badRequest(ctx, "invalid order id: "+ctx.Param("orderId"))
	}

	targetName := request.TargetStage
	if request.Detail != nil {
		if request.Detail.OrderID != "" && request.Detail.OrderID != orderID.String() {
			return badRequest(ctx, "order id in detail does not match the path")
		}
		if targetName == "" {
			targetName = request.Detail.TargetStage
		}
	}

	target, err := order.StageFromString(targetName)
	if err != nil {
		return badRequest(ctx, "invalid target stage: "+targetName)
	}

	cmd, err := commands.NewTransitionStageCommand(orderID, target)
	if err != nil {
		return badRequest(ctx, "invalid transition: "+err.Error())
	}

	result, err := s.transitionStageHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, TransitionStageResponse{
		OrderID:          result.OrderID.String(),
		Stage:            result.Stage.String(),
		AlreadyCompleted: result.AlreadyCompleted,
	})
}

// CreateCustomer handles POST /api/v1/customers - registers a new customer.
func (s *Server) CreateCustomer(ctx echo.Context) error {
	var request CreateCustomerRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	cmd, err := commands.NewCreateCustomerCommand(
		s.tenantID, request.Name, request.Email, request.Phone, request.Address)
	if err != nil {
		return badRequest(ctx, "invalid customer data: "+err.Error())
	}

	customerID, err := s.createCustomerHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreateCustomerResponse{CustomerID: customerID.String()})
}

// GetCustomer handles GET /api/v1/customers/:customerId.
func (s *Server) GetCustomer(ctx echo.Context) error {
	customerID, err := kernel.UUIDFromString(ctx.Param("customerId"))
	if err != nil {
		return badRequest(ctx, "invalid customer id: "+ctx.Param("customerId"))
	}

	query, err := queries.NewGetCustomerQuery(customerID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	result, err := s.getCustomerHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, CustomerResponse{
		ID:        result.ID.String(),
		Name:      result.Name,
		Email:     result.Email,
		Phone:     result.Phone,
		Address:   result.Address,
		CreatedAt: result.CreatedAt,
	})
}

// GetOrdersByCustomer handles GET /api/v1/customers/:customerId/orders.
func (s *Server) GetOrdersByCustomer(ctx echo.Context) error {
	customerID, err := kernel.UUIDFromString(ctx.Param("customerId"))
	if err != nil {
		return badRequest(ctx, "invalid customer id: "+ctx.Param("customerId"))
	}

	query, err := queries.NewGetOrdersByCustomerQuery(customerID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	results, err := s.getOrdersByCustomerHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]OrderResponse, 0, len(results))
	for _, result := range results {
		items := make([]OrderItemResponse, 0, len(result.Items))
		for _, line := range result.Items {
			items = append(items, OrderItemResponse{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice.InexactFloat64(),
			})
		}

		response = append(response, OrderResponse{
			ID:           result.ID.String(),
			CurrentStage: result.CurrentStage,
			Status:       result.Status,
			Total:        result.Total.InexactFloat64(),
			CreatedAt:    result.CreatedAt,
			Items:        items,
		})
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetOrderHistory handles GET /api/v1/orders/:orderId/history - returns the
// step ledger of an order.
func (s *Server) GetOrderHistory(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return badRequest(ctx, "invalid order id: "+ctx.Param("orderId"))
	}

	query, err := queries.NewGetOrderHistoryQuery(orderID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	result, err := s.getOrderHistoryHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	records := make([]StepRecordResponse, 0, len(result.Records))
	for _, record := range result.Records {
		records = append(records, StepRecordResponse{
			Stage:      record.Stage,
			State:      record.State,
			StartedAt:  record.StartedAt,
			FinishedAt: record.FinishedAt,
		})
	}

	return ctx.JSON(http.StatusOK, OrderHistoryResponse{
		OrderID:      result.OrderID.String(),
		CurrentStage: result.CurrentStage,
		Records:      records,
	})
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// writeError maps application errors onto HTTP status codes. The retryable
// flag mirrors the error taxonomy so clients know whether re-sending the
// same request can help.
func writeError(ctx echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errs.ErrStageOutOfOrder),
		errors.Is(err, errs.ErrConcurrentModification):
		status = http.StatusConflict
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid):
		status = http.StatusBadRequest
	case errors.Is(err, errs.ErrStorageUnavailable),
		errors.Is(err, errs.ErrEventSinkUnavailable):
		status = http.StatusServiceUnavailable
	}

	return ctx.JSON(status, ErrorResponse{
		Code:      status,
		Message:   err.Error(),
		Retryable: errs.IsRetryable(err),
	})
}
