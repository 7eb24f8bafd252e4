package services

import (
	"context"
	"strings"

	"github.com/kendall-kelly/jobshop-api/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Catalog holds the reference tables consulted when composing an order
type Catalog struct {
	Materials *Store[models.Material]
	Services  *Store[models.Service]
	Machines  *Store[models.Machine]
	Staff     *Store[models.Staff]
	log       logrus.FieldLogger

	onChange func(context.Context) error
}

// NewCatalog creates a Catalog over db
func NewCatalog(db *gorm.DB, log logrus.FieldLogger) *Catalog {
	return &Catalog{
		Materials: NewStore[models.Material](db),
		Services:  NewStore[models.Service](db),
		Machines:  NewStore[models.Machine](db),
		Staff:     NewStore[models.Staff](db),
		log:       log,
	}
}

// OnChange registers fn to run after every successful catalog write. Orders
// embed catalog rows, so the order book's Refresh is the usual fn.
func (c *Catalog) OnChange(fn func(context.Context) error) {
	c.onChange = fn
}

// Changed runs the OnChange hook. A failure is logged; the write stands.
func (c *Catalog) Changed(ctx context.Context) {
	if c.onChange == nil {
		return
	}
	if err := c.onChange(ctx); err != nil {
		c.log.WithError(err).Error("Failed to refresh orders after catalog write")
	}
}

func byName(db *gorm.DB) *gorm.DB {
	return db.Order("name ASC, id ASC")
}

// ListMaterials returns materials by name; lowStockOnly keeps those under
// their minimum quantity.
func (c *Catalog) ListMaterials(ctx context.Context, lowStockOnly bool) ([]models.Material, error) {
	scopes := []Scope{byName}
	if lowStockOnly {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("current_stock < min_quantity")
		})
	}
	return c.Materials.Select(ctx, scopes...)
}

// ListServices returns services by name
func (c *Catalog) ListServices(ctx context.Context) ([]models.Service, error) {
	return c.Services.Select(ctx, byName)
}

// ListMachines returns machines by name
func (c *Catalog) ListMachines(ctx context.Context) ([]models.Machine, error) {
	return c.Machines.Select(ctx, byName)
}

// ListStaff returns staff by name
func (c *Catalog) ListStaff(ctx context.Context) ([]models.Staff, error) {
	return c.Staff.Select(ctx, byName)
}

// SetMachineStatus changes a machine's operating state
func (c *Catalog) SetMachineStatus(ctx context.Context, id uint, status models.MachineStatus) (*models.Machine, error) {
	if !status.Valid() {
		return nil, ErrInvalidMachineStatus
	}
	if err := c.Machines.Update(ctx, id, map[string]interface{}{"status": status}); err != nil {
		return nil, notFoundAs(err, ErrMachineNotFound)
	}
	c.log.WithFields(logrus.Fields{"machine_id": id, "status": status}).Info("Machine status changed")
	c.Changed(ctx)
	return c.Machines.Get(ctx, id)
}

// ToggleStaffAvailability flips is_available in a single statement
func (c *Catalog) ToggleStaffAvailability(ctx context.Context, id uint) (*models.Staff, error) {
	err := c.Staff.Update(ctx, id, map[string]interface{}{
		"is_available": gorm.Expr("NOT is_available"),
	})
	if err != nil {
		return nil, notFoundAs(err, ErrStaffNotFound)
	}
	c.Changed(ctx)
	staff, err := c.Staff.Get(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrStaffNotFound)
	}
	c.log.WithFields(logrus.Fields{"staff_id": id, "is_available": staff.IsAvailable}).Info("Staff availability toggled")
	return staff, nil
}

// ValidateMaterial checks a material before it is written
func ValidateMaterial(m models.Material) error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrNameRequired
	}
	if m.PurchasePrice.IsNegative() || m.SellingPrice.IsNegative() ||
		m.CurrentStock < 0 || m.MinQuantity < 0 || m.Thickness < 0 {
		return ErrNegativeAmount
	}
	return nil
}

// ValidateService checks a service before it is written
func ValidateService(s models.Service) error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrNameRequired
	}
	if s.Price.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}

// ValidateMachine checks a machine before it is written
func ValidateMachine(m models.Machine) error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrNameRequired
	}
	if !m.Status.Valid() {
		return ErrInvalidMachineStatus
	}
	return nil
}

// ValidateStaff checks a staff member before it is written
func ValidateStaff(s models.Staff) error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrNameRequired
	}
	return nil
}

// ValidateSupplier checks a supplier before it is written
func ValidateSupplier(s models.Supplier) error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrNameRequired
	}
	return nil
}
