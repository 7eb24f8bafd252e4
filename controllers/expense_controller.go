package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/jobshop-api/models"
	"github.com/kendall-kelly/jobshop-api/services"
	"github.com/kendall-kelly/jobshop-api/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ExpenseRequest is the body of POST /expenses
type ExpenseRequest struct {
	Type        string           `json:"type" binding:"required"`
	Description string           `json:"description"`
	Amount      *decimal.Decimal `json:"amount" binding:"required"`
	Date        *string          `json:"date"` // YYYY-MM-DD, defaults to today
	SupplierID  *uint            `json:"supplier_id"`
}

// SupplierRequest is the body of supplier create and edit requests
type SupplierRequest struct {
	Name               *string          `json:"name"`
	ContactInfo        *string          `json:"contact_info"`
	OutstandingPayment *decimal.Decimal `json:"outstanding_payment"`
}

func (r SupplierRequest) apply(s *models.Supplier) map[string]interface{} {
	fields := map[string]interface{}{}
	if r.Name != nil {
		s.Name = strings.TrimSpace(*r.Name)
		fields["name"] = s.Name
	}
	if r.ContactInfo != nil {
		s.ContactInfo = *r.ContactInfo
		fields["contact_info"] = s.ContactInfo
	}
	if r.OutstandingPayment != nil {
		s.OutstandingPayment = *r.OutstandingPayment
		fields["outstanding_payment"] = s.OutstandingPayment
	}
	return fields
}

// ExpenseController serves expenses and suppliers
type ExpenseController struct {
	ledger      *services.ExpenseLedger
	log         logrus.FieldLogger
	supplierRes resource[models.Supplier, SupplierRequest]
}

// NewExpenseController creates an ExpenseController
func NewExpenseController(ledger *services.ExpenseLedger, log logrus.FieldLogger) *ExpenseController {
	return &ExpenseController{
		ledger: ledger,
		log:    log,
		supplierRes: resource[models.Supplier, SupplierRequest]{
			store:    ledger.Suppliers(),
			notFound: services.ErrSupplierNotFound,
			validate: services.ValidateSupplier,
			noun:     "supplier",
			log:      log,
		},
	}
}

// ListExpenses handles GET /api/v1/expenses (?type=)
func (h *ExpenseController) ListExpenses(c *gin.Context) {
	var filter *models.ExpenseType
	if raw := c.Query("type"); raw != "" {
		expenseType, err := models.ParseExpenseType(raw)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid type filter", err.Error())
			return
		}
		filter = &expenseType
	}

	expenses, err := h.ledger.ListExpenses(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, h.log, err, nil, "load expenses")
		return
	}
	utils.RespondData(c, http.StatusOK, expenses)
}

// CreateExpense handles POST /api/v1/expenses. A supplier_payment also
// reduces the supplier's outstanding balance.
func (h *ExpenseController) CreateExpense(c *gin.Context) {
	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		respondServiceError(c, h.log, err, nil, "record expense")
		return
	}

	expense, err := h.ledger.RecordExpense(c.Request.Context(), services.NewExpense{
		Type:        models.ExpenseType(req.Type),
		Description: req.Description,
		Amount:      *req.Amount,
		Date:        date,
		SupplierID:  req.SupplierID,
	})
	if err != nil {
		respondServiceError(c, h.log, err, nil, "record expense")
		return
	}
	utils.RespondData(c, http.StatusCreated, expense)
}

// ListSuppliers handles GET /api/v1/suppliers
func (h *ExpenseController) ListSuppliers(c *gin.Context) {
	suppliers, err := h.ledger.Suppliers().Select(c.Request.Context(), func(db *gorm.DB) *gorm.DB {
		return db.Order("name ASC, id ASC")
	})
	if err != nil {
		respondServiceError(c, h.log, err, nil, "load suppliers")
		return
	}
	utils.RespondData(c, http.StatusOK, suppliers)
}

// GetSupplier handles GET /api/v1/suppliers/:id
func (h *ExpenseController) GetSupplier(c *gin.Context) { h.supplierRes.get(c) }

// CreateSupplier handles POST /api/v1/suppliers
func (h *ExpenseController) CreateSupplier(c *gin.Context) { h.supplierRes.create(c) }

// UpdateSupplier handles PATCH /api/v1/suppliers/:id
func (h *ExpenseController) UpdateSupplier(c *gin.Context) { h.supplierRes.update(c) }

// DeleteSupplier handles DELETE /api/v1/suppliers/:id
func (h *ExpenseController) DeleteSupplier(c *gin.Context) { h.supplierRes.delete(c) }
