package http

import (
	"log/slog"
	"net/http"

	"workload/internal/core/application/dispatch"
	"workload/internal/core/application/usecases/commands"
	"workload/internal/core/application/usecases/queries"
	"workload/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Server implements ServerInterface on top of the command and query handlers.
type Server struct {
	// Command handlers
	submitOrderHandler      commands.SubmitOrderCommandHandler
	registerStaffHandler    commands.RegisterStaffCommandHandler
	staffLoginHandler       commands.StaffLoginCommandHandler
	staffLogoutHandler      commands.StaffLogoutCommandHandler
	completeWorkUnitHandler commands.CompleteWorkUnitCommandHandler

	// Query handlers
	getOrderStatusHandler       queries.GetOrderStatusQueryHandler
	getOrdersByStatusHandler    queries.GetOrdersByStatusQueryHandler
	getAvailableProductsHandler queries.GetAvailableProductsQueryHandler
	getQueueDepthsHandler       queries.GetQueueDepthsQueryHandler
	getAllStaffHandler          queries.GetAllStaffQueryHandler

	logger *slog.Logger
}

// Handlers groups the use cases the Server exposes.
type Handlers struct {
	SubmitOrder      commands.SubmitOrderCommandHandler
	RegisterStaff    commands.RegisterStaffCommandHandler
	StaffLogin       commands.StaffLoginCommandHandler
	StaffLogout      commands.StaffLogoutCommandHandler
	CompleteWorkUnit commands.CompleteWorkUnitCommandHandler

	GetOrderStatus       queries.GetOrderStatusQueryHandler
	GetOrdersByStatus    queries.GetOrdersByStatusQueryHandler
	GetAvailableProducts queries.GetAvailableProductsQueryHandler
	GetQueueDepths       queries.GetQueueDepthsQueryHandler
	GetAllStaff          queries.GetAllStaffQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(h Handlers, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		submitOrderHandler:          h.SubmitOrder,
		registerStaffHandler:        h.RegisterStaff,
		staffLoginHandler:           h.StaffLogin,
		staffLogoutHandler:          h.StaffLogout,
		completeWorkUnitHandler:     h.CompleteWorkUnit,
		getOrderStatusHandler:       h.GetOrderStatus,
		getOrdersByStatusHandler:    h.GetOrdersByStatus,
		getAvailableProductsHandler: h.GetAvailableProducts,
		getQueueDepthsHandler:       h.GetQueueDepths,
		getAllStaffHandler:          h.GetAllStaff,
		logger:                      logger.With("component", "HTTPServer"),
	}
}

// SubmitOrder handles POST /api/v1/orders.
func (s *Server) SubmitOrder(ctx echo.Context) error {
	var body NewOrder
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	items := make([]dispatch.ItemRequest, 0, len(body.Items))
	for _, item := range body.Items {
		items = append(items, dispatch.ItemRequest{ProductType: item.ProductType, Quantity: item.Quantity})
	}

	cmd, err := commands.NewSubmitOrderCommand(body.OrderNumber, items)
	if err != nil {
		return s.fail(ctx, "Invalid order", err)
	}

	out, err := s.submitOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err = s.accepted(ctx, err); err != nil {
		return s.fail(ctx, "Order rejected", err)
	}

	return ctx.JSON(http.StatusCreated, toOrder(queries.NewSnapshotResponse(out.Orders[0])))
}

// GetOrder handles GET /api/v1/orders/{orderNumber}.
func (s *Server) GetOrder(ctx echo.Context, orderNumber string) error {
	query, err := queries.NewGetOrderStatusQuery(orderNumber)
	if err != nil {
		return s.fail(ctx, "Invalid order number", err)
	}

	resp, err := s.getOrderStatusHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, "Failed to retrieve order", err)
	}

	return ctx.JSON(http.StatusOK, toOrder(resp))
}

// GetOrdersByStatus handles GET /api/v1/orders?status=.
func (s *Server) GetOrdersByStatus(ctx echo.Context, params GetOrdersByStatusParams) error {
	query, err := queries.NewGetOrdersByStatusQuery(params.Status)
	if err != nil {
		return s.fail(ctx, "Invalid status", err)
	}

	orders, err := s.getOrdersByStatusHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, "Failed to retrieve orders", err)
	}

	response := make([]Order, len(orders))
	for i, o := range orders {
		response[i] = toOrder(o)
	}

	return ctx.JSON(http.StatusOK, response)
}

// RegisterStaff handles POST /api/v1/staff.
func (s *Server) RegisterStaff(ctx echo.Context) error {
	var body NewStaff
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewRegisterStaffCommand(body.Id, body.Name, body.Groups)
	if err != nil {
		return s.fail(ctx, "Invalid staff member", err)
	}

	snap, err := s.registerStaffHandler.Handle(ctx.Request().Context(), cmd)
	if err = s.accepted(ctx, err); err != nil {
		return s.fail(ctx, "Staff registration rejected", err)
	}

	return ctx.JSON(http.StatusCreated, toStaffFromSnapshot(snap))
}

// GetStaff handles GET /api/v1/staff.
func (s *Server) GetStaff(ctx echo.Context) error {
	members, err := s.getAllStaffHandler.Handle(ctx.Request().Context(), queries.NewGetAllStaffQuery())
	if err != nil {
		return s.fail(ctx, "Failed to retrieve staff", err)
	}

	response := make([]Staff, len(members))
	for i, m := range members {
		response[i] = Staff{
			Id:            m.ID,
			Name:          m.Name,
			Groups:        m.Groups,
			LoggedIn:      m.LoggedIn,
			LoggedInAt:    m.LoggedInAt,
			AssignedUnits: m.AssignedUnits,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// StaffLogin handles POST /api/v1/staff/{staffId}/login.
func (s *Server) StaffLogin(ctx echo.Context, staffID string) error {
	cmd, err := commands.NewStaffLoginCommand(staffID)
	if err != nil {
		return s.fail(ctx, "Invalid staff id", err)
	}

	out, err := s.staffLoginHandler.Handle(ctx.Request().Context(), cmd)
	if err = s.accepted(ctx, err); err != nil {
		return s.fail(ctx, "Login rejected", err)
	}

	return ctx.JSON(http.StatusOK, toDispatchResult(out))
}

// StaffLogout handles POST /api/v1/staff/{staffId}/logout.
func (s *Server) StaffLogout(ctx echo.Context, staffID string) error {
	cmd, err := commands.NewStaffLogoutCommand(staffID)
	if err != nil {
		return s.fail(ctx, "Invalid staff id", err)
	}

	out, err := s.staffLogoutHandler.Handle(ctx.Request().Context(), cmd)
	if err = s.accepted(ctx, err); err != nil {
		return s.fail(ctx, "Logout rejected", err)
	}

	return ctx.JSON(http.StatusOK, toDispatchResult(out))
}

// CompleteWorkUnit handles POST /api/v1/work-units/{workUnitId}/complete.
func (s *Server) CompleteWorkUnit(ctx echo.Context, workUnitID openapi_types.UUID) error {
	id, err := kernel.UUIDFromString(workUnitID.String())
	if err != nil {
		return s.fail(ctx, "Invalid work unit id", err)
	}

	cmd, err := commands.NewCompleteWorkUnitCommand(id)
	if err != nil {
		return s.fail(ctx, "Invalid work unit id", err)
	}

	out, err := s.completeWorkUnitHandler.Handle(ctx.Request().Context(), cmd)
	if err = s.accepted(ctx, err); err != nil {
		return s.fail(ctx, "Completion rejected", err)
	}

	return ctx.JSON(http.StatusOK, toDispatchResult(out))
}

// GetAvailableProducts handles GET /api/v1/products/available.
func (s *Server) GetAvailableProducts(ctx echo.Context) error {
	products, err := s.getAvailableProductsHandler.Handle(ctx.Request().Context(), queries.NewGetAvailableProductsQuery())
	if err != nil {
		return s.fail(ctx, "Failed to retrieve products", err)
	}

	return ctx.JSON(http.StatusOK, AvailableProducts{ProductTypes: products})
}

// GetQueues handles GET /api/v1/queues.
func (s *Server) GetQueues(ctx echo.Context) error {
	depths, err := s.getQueueDepthsHandler.Handle(ctx.Request().Context(), queries.NewGetQueueDepthsQuery())
	if err != nil {
		return s.fail(ctx, "Failed to retrieve queues", err)
	}

	response := make([]QueueDepth, len(depths))
	for i, d := range depths {
		response[i] = QueueDepth{
			Group:            d.Group,
			Depth:            d.Depth,
			Staffed:          d.Staffed,
			OldestEnqueuedAt: d.OldestEnqueuedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}
