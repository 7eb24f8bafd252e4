package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/jobshop-api/models"
	"github.com/kendall-kelly/jobshop-api/services"
	"github.com/kendall-kelly/jobshop-api/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// OrderController serves the order pipeline
type OrderController struct {
	book *services.OrderBook
	log  logrus.FieldLogger
}

// NewOrderController creates an OrderController
func NewOrderController(book *services.OrderBook, log logrus.FieldLogger) *OrderController {
	return &OrderController{book: book, log: log}
}

// OrderRequest is the body of order create and edit requests. Omitted fields
// are left unchanged on edit; a material_id or service_id of 0 clears it.
type OrderRequest struct {
	ClientName        *string          `json:"client_name"`
	PhoneNumber       *string          `json:"phone_number"`
	Location          *string          `json:"location"`
	MaterialID        *uint            `json:"material_id"`
	MaterialQuantity  *float64         `json:"material_quantity"`
	ServiceID         *uint            `json:"service_id"`
	BasePrice         *decimal.Decimal `json:"base_price"`
	AdditionalCharges *decimal.Decimal `json:"additional_charges"`
	Status            *string          `json:"status"`
}

func (r OrderRequest) input() services.OrderInput {
	in := services.OrderInput{
		ClientName:        r.ClientName,
		PhoneNumber:       r.PhoneNumber,
		Location:          r.Location,
		MaterialID:        r.MaterialID,
		MaterialQuantity:  r.MaterialQuantity,
		ServiceID:         r.ServiceID,
		BasePrice:         r.BasePrice,
		AdditionalCharges: r.AdditionalCharges,
	}
	if r.Status != nil {
		status := models.OrderStatus(*r.Status)
		in.Status = &status
	}
	return in
}

// StatusRequest is the body of PUT /orders/:id/status
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// MoveRequest is the body of POST /orders/:id/move
type MoveRequest struct {
	ToStatus string `json:"to_status" binding:"required"`
}

// StaffRequest is the body of PUT /orders/:id/staff
type StaffRequest struct {
	StaffIDs []uint `json:"staff_ids" binding:"required"`
}

// AssignMachineRequest is the body of PUT /orders/:id/machine; null clears
type AssignMachineRequest struct {
	MachineID *uint `json:"machine_id"`
}

// ListOrders handles GET /api/v1/orders - snapshot orders, optionally one status
func (h *OrderController) ListOrders(c *gin.Context) {
	query := c.Query("q")

	if raw := c.Query("status"); raw != "" {
		status, err := models.ParseOrderStatus(raw)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid status filter", err.Error())
			return
		}
		utils.RespondData(c, http.StatusOK, h.book.OrdersInStatus(status, query))
		return
	}

	utils.RespondData(c, http.StatusOK, services.FilterOrders(h.book.Snapshot(), query))
}

// Board handles GET /api/v1/orders/board - one column per status
func (h *OrderController) Board(c *gin.Context) {
	utils.RespondData(c, http.StatusOK, h.book.Board(c.Query("q")))
}

// Refresh handles POST /api/v1/orders/refresh - rebuilds the snapshot
func (h *OrderController) Refresh(c *gin.Context) {
	if err := h.book.Refresh(c.Request.Context()); err != nil {
		respondServiceError(c, h.log, err, nil, "refresh orders")
		return
	}
	utils.RespondData(c, http.StatusOK, gin.H{
		"orders":       len(h.book.Snapshot()),
		"refreshed_at": h.book.RefreshedAt(),
	})
}

// CreateOrder handles POST /api/v1/orders
func (h *OrderController) CreateOrder(c *gin.Context) {
	var req OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, warnings, err := h.book.CreateOrder(c.Request.Context(), req.input())
	if err != nil {
		respondServiceError(c, h.log, err, nil, "create order")
		return
	}
	utils.RespondDataWithWarnings(c, http.StatusCreated, order, warnings)
}

// GetOrder handles GET /api/v1/orders/:id
func (h *OrderController) GetOrder(c *gin.Context) {
	id, ok := utils.ParseID(c, "id")
	if !ok {
		return
	}

	order, err := h.book.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.log, err, services.ErrOrderNotFound, "load order")
		return
	}
	utils.RespondData(c, http.StatusOK, order)
}

// UpdateOrder handles PATCH /api/v1/orders/:id
func (h *OrderController) UpdateOrder(c *gin.Context) {
	id, ok := utils.ParseID(c, "id")
	if !ok {
		return
	}

	var req OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, warnings, err := h.book.UpdateOrder(c.Request.Context(), id, req.input())
	if err != nil {
		respondServiceError(c, h.log, err, services.ErrOrderNotFound, "update order")
		return
	}
	utils.RespondDataWithWarnings(c, http.StatusOK, order, warnings)
}

// DeleteOrder handles DELETE /api/v1/orders/:id
func (h *OrderController) DeleteOrder(c *gin.Context) {
	id, ok := utils.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.book.DeleteOrder(c.Request.Context(), id); err != nil {
		respondServiceError(c, h.log, err, services.ErrOrderNotFound, "delete order")
		return
	}
	utils.RespondData(c, http.StatusOK, gin.H{"id": id, "deleted": true})
}

// UpdateStatus handles PUT /api/v1/orders/:id/status
func (h *OrderController) UpdateStatus(c *gin.Context) {
	id, ok := utils.ParseID(c, "id")
	if !ok {
		return
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := h.book.TransitionStatus(c.Request.Context(), id, models.OrderStatus(req.Status))
	if err != nil {
		respondServiceError(c, h.log, err, services.ErrOrderNotFound, "update order status")
		return
	}
	utils.RespondData(c, http.StatusOK, order)
}

// MoveOrder handles POST /api/v1/orders/:id/move - a board drag-and-drop
func (h *OrderController) MoveOrder(c *gin.Context) {
	id, ok := utils.ParseID(c, "id")
	if !ok {
		return
	}

	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := h.book.MoveOrder(c.Request.Context(), id, models.OrderStatus(req.ToStatus))
	if err != nil {
		respondServiceError(c, h.log, err, services.ErrOrderNotFound, "move order")
		return
	}
	utils.RespondData(c, http.StatusOK, order)
}

// SetStaff handles PUT /api/v1/orders/:id/staff
func (h *OrderController) SetStaff(c *gin.Context) {
	id, ok := utils.ParseID(c, "id")
	if !ok {
		return
	}

	var req StaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := h.book.SetAssignedStaff(c.Request.Context(), id, req.StaffIDs)
	if err != nil {
		respondServiceError(c, h.log, err, services.ErrOrderNotFound, "assign staff")
		return
	}
	utils.RespondData(c, http.StatusOK, order)
}

// SetMachine handles PUT /api/v1/orders/:id/machine
func (h *OrderController) SetMachine(c *gin.Context) {
	id, ok := utils.ParseID(c, "id")
	if !ok {
		return
	}

	var req AssignMachineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := h.book.SetAssignedMachine(c.Request.Context(), id, req.MachineID)
	if err != nil {
		respondServiceError(c, h.log, err, services.ErrOrderNotFound, "assign machine")
		return
	}
	utils.RespondData(c, http.StatusOK, order)
}
