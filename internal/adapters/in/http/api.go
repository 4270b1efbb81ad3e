package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Wire types of openapi.yml.

// Error defines model for Error.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewOrder defines model for NewOrder.
type NewOrder struct {
	OrderNumber string         `json:"orderNumber,omitempty"`
	Items       []NewOrderItem `json:"items"`
}

// NewOrderItem defines model for NewOrderItem.
type NewOrderItem struct {
	ProductType string `json:"productType"`
	Quantity    int    `json:"quantity"`
}

// Order defines model for Order.
type Order struct {
	OrderNumber string      `json:"orderNumber"`
	Status      string      `json:"status"`
	CreatedAt   time.Time   `json:"createdAt"`
	CompletedAt *time.Time  `json:"completedAt,omitempty"`
	Version     int64       `json:"version"`
	Items       []OrderItem `json:"items"`
	WorkUnits   []WorkUnit  `json:"workUnits"`
	Counts      UnitCounts  `json:"counts"`
}

// OrderItem defines model for OrderItem.
type OrderItem struct {
	ProductType string `json:"productType"`
	Quantity    int    `json:"quantity"`
	Completed   bool   `json:"completed"`
}

// WorkUnit defines model for WorkUnit.
type WorkUnit struct {
	Id          openapi_types.UUID `json:"id"`
	Group       string             `json:"group"`
	Status      string             `json:"status"`
	AssignedTo  string             `json:"assignedTo,omitempty"`
	ItemIndexes []int              `json:"itemIndexes"`
	EnqueuedAt  time.Time          `json:"enqueuedAt"`
	CompletedAt *time.Time         `json:"completedAt,omitempty"`
}

// UnitCounts defines model for UnitCounts.
type UnitCounts struct {
	Queued    int `json:"queued"`
	Assigned  int `json:"assigned"`
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// NewStaff defines model for NewStaff.
type NewStaff struct {
	Id     string   `json:"id"`
	Name   string   `json:"name"`
	Groups []string `json:"groups"`
}

// Staff defines model for Staff.
type Staff struct {
	Id            string     `json:"id"`
	Name          string     `json:"name"`
	Groups        []string   `json:"groups"`
	LoggedIn      bool       `json:"loggedIn"`
	LoggedInAt    *time.Time `json:"loggedInAt,omitempty"`
	AssignedUnits []string   `json:"assignedUnits"`
}

// Assignment defines model for Assignment.
type Assignment struct {
	WorkUnitId  openapi_types.UUID `json:"workUnitId"`
	OrderNumber string             `json:"orderNumber"`
	Group       string             `json:"group"`
	StaffId     string             `json:"staffId"`
	AssignedAt  time.Time          `json:"assignedAt"`
}

// OrderChange defines model for OrderChange.
type OrderChange struct {
	OrderNumber string `json:"orderNumber"`
	Status      string `json:"status"`
	Version     int64  `json:"version"`
}

// DispatchResult defines model for DispatchResult.
type DispatchResult struct {
	Orders      []OrderChange        `json:"orders"`
	Assignments []Assignment         `json:"assignments"`
	Requeued    []openapi_types.UUID `json:"requeued"`
}

// AvailableProducts defines model for AvailableProducts.
type AvailableProducts struct {
	ProductTypes []string `json:"productTypes"`
}

// QueueDepth defines model for QueueDepth.
type QueueDepth struct {
	Group            string     `json:"group"`
	Depth            int        `json:"depth"`
	Staffed          bool       `json:"staffed"`
	OldestEnqueuedAt *time.Time `json:"oldestEnqueuedAt,omitempty"`
}

// GetOrdersByStatusParams defines parameters for GetOrdersByStatus.
type GetOrdersByStatusParams struct {
	Status string `form:"status" json:"status"`
}

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// List orders in a status, oldest first
	// (GET /api/v1/orders)
	GetOrdersByStatus(ctx echo.Context, params GetOrdersByStatusParams) error
	// Submit an order
	// (POST /api/v1/orders)
	SubmitOrder(ctx echo.Context) error
	// Get the status of an order
	// (GET /api/v1/orders/{orderNumber})
	GetOrder(ctx echo.Context, orderNumber string) error
	// Product types that currently have logged-in staff
	// (GET /api/v1/products/available)
	GetAvailableProducts(ctx echo.Context) error
	// Depth of every skill group queue
	// (GET /api/v1/queues)
	GetQueues(ctx echo.Context) error
	// List the staff directory
	// (GET /api/v1/staff)
	GetStaff(ctx echo.Context) error
	// Register a staff member
	// (POST /api/v1/staff)
	RegisterStaff(ctx echo.Context) error
	// Log a staff member in
	// (POST /api/v1/staff/{staffId}/login)
	StaffLogin(ctx echo.Context, staffId string) error
	// Log a staff member out and hand back its work units
	// (POST /api/v1/staff/{staffId}/logout)
	StaffLogout(ctx echo.Context, staffId string) error
	// Mark an assigned work unit as completed
	// (POST /api/v1/work-units/{workUnitId}/complete)
	CompleteWorkUnit(ctx echo.Context, workUnitId openapi_types.UUID) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

// GetOrdersByStatus converts echo context to params.
func (w *ServerInterfaceWrapper) GetOrdersByStatus(ctx echo.Context) error {
	var err error

	var params GetOrdersByStatusParams
	// ------------- Required query parameter "status" -------------

	err = runtime.BindQueryParameter("form", true, true, "status", ctx.QueryParams(), &params.Status)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter status: %s", err))
	}

	return w.Handler.GetOrdersByStatus(ctx, params)
}

// SubmitOrder converts echo context to params.
func (w *ServerInterfaceWrapper) SubmitOrder(ctx echo.Context) error {
	return w.Handler.SubmitOrder(ctx)
}

// GetOrder converts echo context to params.
func (w *ServerInterfaceWrapper) GetOrder(ctx echo.Context) error {
	var err error
	// ------------- Path parameter "orderNumber" -------------
	var orderNumber string

	err = runtime.BindStyledParameterWithOptions("simple", "orderNumber", ctx.Param("orderNumber"), &orderNumber,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter orderNumber: %s", err))
	}

	return w.Handler.GetOrder(ctx, orderNumber)
}

// GetAvailableProducts converts echo context to params.
func (w *ServerInterfaceWrapper) GetAvailableProducts(ctx echo.Context) error {
	return w.Handler.GetAvailableProducts(ctx)
}

// GetQueues converts echo context to params.
func (w *ServerInterfaceWrapper) GetQueues(ctx echo.Context) error {
	return w.Handler.GetQueues(ctx)
}

// GetStaff converts echo context to params.
func (w *ServerInterfaceWrapper) GetStaff(ctx echo.Context) error {
	return w.Handler.GetStaff(ctx)
}

// RegisterStaff converts echo context to params.
func (w *ServerInterfaceWrapper) RegisterStaff(ctx echo.Context) error {
	return w.Handler.RegisterStaff(ctx)
}

// StaffLogin converts echo context to params.
func (w *ServerInterfaceWrapper) StaffLogin(ctx echo.Context) error {
	staffID, err := bindStaffID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.StaffLogin(ctx, staffID)
}

// StaffLogout converts echo context to params.
func (w *ServerInterfaceWrapper) StaffLogout(ctx echo.Context) error {
	staffID, err := bindStaffID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.StaffLogout(ctx, staffID)
}

// CompleteWorkUnit converts echo context to params.
func (w *ServerInterfaceWrapper) CompleteWorkUnit(ctx echo.Context) error {
	var err error
	// ------------- Path parameter "workUnitId" -------------
	var workUnitID openapi_types.UUID

	err = runtime.BindStyledParameterWithOptions("simple", "workUnitId", ctx.Param("workUnitId"), &workUnitID,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter workUnitId: %s", err))
	}

	return w.Handler.CompleteWorkUnit(ctx, workUnitID)
}

func bindStaffID(ctx echo.Context) (string, error) {
	var staffID string

	err := runtime.BindStyledParameterWithOptions("simple", "staffId", ctx.Param("staffId"), &staffID,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter staffId: %s", err))
	}

	return staffID, nil
}

// EchoRouter is the subset of echo.Echo and echo.Group RegisterHandlers uses.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the EchoRouter.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

// RegisterHandlersWithBaseURL registers the routes under baseURL.
func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	wrapper := ServerInterfaceWrapper{
		Handler: si,
	}

	router.GET(baseURL+"/api/v1/orders", wrapper.GetOrdersByStatus)
	router.POST(baseURL+"/api/v1/orders", wrapper.SubmitOrder)
	router.GET(baseURL+"/api/v1/orders/:orderNumber", wrapper.GetOrder)
	router.GET(baseURL+"/api/v1/products/available", wrapper.GetAvailableProducts)
	router.GET(baseURL+"/api/v1/queues", wrapper.GetQueues)
	router.GET(baseURL+"/api/v1/staff", wrapper.GetStaff)
	router.POST(baseURL+"/api/v1/staff", wrapper.RegisterStaff)
	router.POST(baseURL+"/api/v1/staff/:staffId/login", wrapper.StaffLogin)
	router.POST(baseURL+"/api/v1/staff/:staffId/logout", wrapper.StaffLogout)
	router.POST(baseURL+"/api/v1/work-units/:workUnitId/complete", wrapper.CompleteWorkUnit)
}
