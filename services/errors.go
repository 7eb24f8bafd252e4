package services

import (
	"errors"
	"fmt"
)

// Base errors. Controllers match these with errors.Is to pick a status code.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
)

// Errors returned by the domain services.
var (
	ErrOrderNotFound    = fmt.Errorf("order %w", ErrNotFound)
	ErrMaterialNotFound = fmt.Errorf("material %w", ErrNotFound)
	ErrServiceNotFound  = fmt.Errorf("service %w", ErrNotFound)
	ErrMachineNotFound  = fmt.Errorf("machine %w", ErrNotFound)
	ErrStaffNotFound    = fmt.Errorf("staff member %w", ErrNotFound)
	ErrSupplierNotFound = fmt.Errorf("supplier %w", ErrNotFound)

	ErrClientNameRequired   = fmt.Errorf("%w: client_name is required", ErrValidation)
	ErrInvalidStatus        = fmt.Errorf("%w: unknown order status", ErrValidation)
	ErrInvalidQuantity      = fmt.Errorf("%w: material_quantity must be > 0", ErrValidation)
	ErrNegativeBasePrice    = fmt.Errorf("%w: base_price must be >= 0", ErrValidation)
	ErrInvalidPaymentAmount = fmt.Errorf("%w: amount must be > 0", ErrValidation)
	ErrInvalidPaymentMethod = fmt.Errorf("%w: unknown payment method", ErrValidation)
	ErrInvalidMachineStatus = fmt.Errorf("%w: unknown machine status", ErrValidation)
	ErrInvalidExpenseType   = fmt.Errorf("%w: unknown expense type", ErrValidation)
	ErrInvalidExpenseAmount = fmt.Errorf("%w: expense amount must be > 0", ErrValidation)
	ErrSupplierRequired     = fmt.Errorf("%w: supplier_id is required for supplier payments", ErrValidation)
	ErrInvalidDateRange     = fmt.Errorf("%w: from must not be after to", ErrValidation)
	ErrInvalidDate          = fmt.Errorf("%w: dates must be formatted YYYY-MM-DD", ErrValidation)
	ErrNameRequired         = fmt.Errorf("%w: name is required", ErrValidation)
	ErrNegativeAmount       = fmt.Errorf("%w: prices and quantities must be >= 0", ErrValidation)
	ErrArchiveUnavailable   = errors.New("report archive is not configured")
)
