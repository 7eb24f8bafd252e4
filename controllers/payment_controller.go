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

// PaymentController records and lists payments against orders
type PaymentController struct {
	book *services.OrderBook
	log  logrus.FieldLogger
}

// NewPaymentController creates a PaymentController
func NewPaymentController(book *services.OrderBook, log logrus.FieldLogger) *PaymentController {
	return &PaymentController{book: book, log: log}
}

// PaymentRequest is the body of POST /orders/:id/payments
type PaymentRequest struct {
	Method string           `json:"method" binding:"required"`
	Amount *decimal.Decimal `json:"amount" binding:"required"`
	Date   *string          `json:"date"` // YYYY-MM-DD, defaults to today
}

// ListPayments handles GET /api/v1/orders/:id/payments
func (h *PaymentController) ListPayments(c *gin.Context) {
	id, ok := utils.ParseID(c, "id")
	if !ok {
		return
	}

	payments, err := h.book.Payments(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.log, err, services.ErrOrderNotFound, "load payments")
		return
	}
	utils.RespondData(c, http.StatusOK, payments)
}

// AddPayment handles POST /api/v1/orders/:id/payments
func (h *PaymentController) AddPayment(c *gin.Context) {
	id, ok := utils.ParseID(c, "id")
	if !ok {
		return
	}

	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		respondServiceError(c, h.log, err, nil, "record payment")
		return
	}

	ctx := c.Request.Context()
	payment, err := h.book.AddPayment(ctx, id, services.NewPayment{
		Method: models.PaymentMethod(req.Method),
		Amount: *req.Amount,
		Date:   date,
	})
	if err != nil {
		respondServiceError(c, h.log, err, services.ErrOrderNotFound, "record payment")
		return
	}

	order, err := h.book.Get(ctx, id)
	if err != nil {
		respondServiceError(c, h.log, err, services.ErrOrderNotFound, "load order")
		return
	}
	utils.RespondData(c, http.StatusCreated, gin.H{
		"payment":        payment,
		"total_paid":     order.TotalPaid,
		"outstanding":    order.Outstanding,
		"payment_status": order.PaymentStatus,
	})
}
