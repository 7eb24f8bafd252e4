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
)

// MaterialRequest is the body of material create and edit requests
type MaterialRequest struct {
	Name          *string          `json:"name"`
	Thickness     *float64         `json:"thickness"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	SellingPrice  *decimal.Decimal `json:"selling_price"`
	CurrentStock  *float64         `json:"current_stock"`
	MinQuantity   *float64         `json:"min_quantity"`
}

func (r MaterialRequest) apply(m *models.Material) map[string]interface{} {
	fields := map[string]interface{}{}
	if r.Name != nil {
		m.Name = strings.TrimSpace(*r.Name)
		fields["name"] = m.Name
	}
	if r.Thickness != nil {
		m.Thickness = *r.Thickness
		fields["thickness"] = m.Thickness
	}
	if r.PurchasePrice != nil {
		m.PurchasePrice = *r.PurchasePrice
		fields["purchase_price"] = m.PurchasePrice
	}
	if r.SellingPrice != nil {
		m.SellingPrice = *r.SellingPrice
		fields["selling_price"] = m.SellingPrice
	}
	if r.CurrentStock != nil {
		m.CurrentStock = *r.CurrentStock
		fields["current_stock"] = m.CurrentStock
	}
	if r.MinQuantity != nil {
		m.MinQuantity = *r.MinQuantity
		fields["min_quantity"] = m.MinQuantity
	}
	return fields
}

// ServiceRequest is the body of service create and edit requests
type ServiceRequest struct {
	Name        *string          `json:"name"`
	Price       *decimal.Decimal `json:"price"`
	Description *string          `json:"description"`
}

func (r ServiceRequest) apply(s *models.Service) map[string]interface{} {
	fields := map[string]interface{}{}
	if r.Name != nil {
		s.Name = strings.TrimSpace(*r.Name)
		fields["name"] = s.Name
	}
	if r.Price != nil {
		s.Price = *r.Price
		fields["price"] = s.Price
	}
	if r.Description != nil {
		s.Description = *r.Description
		fields["description"] = s.Description
	}
	return fields
}

// MachineRequest is the body of machine create and edit requests
type MachineRequest struct {
	Name   *string `json:"name"`
	Model  *string `json:"model"`
	Status *string `json:"status"`
}

func (r MachineRequest) apply(m *models.Machine) map[string]interface{} {
	fields := map[string]interface{}{}
	if r.Name != nil {
		m.Name = strings.TrimSpace(*r.Name)
		fields["name"] = m.Name
	}
	if r.Model != nil {
		m.Model = *r.Model
		fields["model"] = m.Model
	}
	if r.Status != nil {
		m.Status = models.MachineStatus(*r.Status)
		fields["status"] = m.Status
	}
	return fields
}

// StaffMemberRequest is the body of staff create and edit requests
type StaffMemberRequest struct {
	Name        *string `json:"name"`
	Role        *string `json:"role"`
	ContactInfo *string `json:"contact_info"`
	IsAvailable *bool   `json:"is_available"`
}

func (r StaffMemberRequest) apply(s *models.Staff) map[string]interface{} {
	fields := map[string]interface{}{}
	if r.Name != nil {
		s.Name = strings.TrimSpace(*r.Name)
		fields["name"] = s.Name
	}
	if r.Role != nil {
		s.Role = *r.Role
		fields["role"] = s.Role
	}
	if r.ContactInfo != nil {
		s.ContactInfo = *r.ContactInfo
		fields["contact_info"] = s.ContactInfo
	}
	if r.IsAvailable != nil {
		s.IsAvailable = *r.IsAvailable
		fields["is_available"] = s.IsAvailable
	}
	return fields
}

// MachineStatusRequest is the body of PUT /machines/:id/status
type MachineStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CatalogController serves materials, services, machines and staff
type CatalogController struct {
	catalog     *services.Catalog
	log         logrus.FieldLogger
	materialRes resource[models.Material, MaterialRequest]
	serviceRes  resource[models.Service, ServiceRequest]
	machineRes  resource[models.Machine, MachineRequest]
	staffRes    resource[models.Staff, StaffMemberRequest]
}

// NewCatalogController creates a CatalogController
func NewCatalogController(catalog *services.Catalog, log logrus.FieldLogger) *CatalogController {
	return &CatalogController{
		catalog: catalog,
		log:     log,
		materialRes: resource[models.Material, MaterialRequest]{
			store:    catalog.Materials,
			notFound: services.ErrMaterialNotFound,
			validate: services.ValidateMaterial,
			changed:  catalog.Changed,
			noun:     "material",
			log:      log,
		},
		serviceRes: resource[models.Service, ServiceRequest]{
			store:    catalog.Services,
			notFound: services.ErrServiceNotFound,
			validate: services.ValidateService,
			changed:  catalog.Changed,
			noun:     "service",
			log:      log,
		},
		machineRes: resource[models.Machine, MachineRequest]{
			store:    catalog.Machines,
			notFound: services.ErrMachineNotFound,
			validate: services.ValidateMachine,
			defaults: func(m *models.Machine) { m.Status = models.MachineAvailable },
			changed:  catalog.Changed,
			noun:     "machine",
			log:      log,
		},
		staffRes: resource[models.Staff, StaffMemberRequest]{
			store:    catalog.Staff,
			notFound: services.ErrStaffNotFound,
			validate: services.ValidateStaff,
			defaults: func(s *models.Staff) { s.IsAvailable = true },
			changed:  catalog.Changed,
			noun:     "staff member",
			log:      log,
		},
	}
}

// ListMaterials handles GET /api/v1/materials (?low_stock=true)
func (h *CatalogController) ListMaterials(c *gin.Context) {
	materials, err := h.catalog.ListMaterials(c.Request.Context(), c.Query("low_stock") == "true")
	if err != nil {
		respondServiceError(c, h.log, err, nil, "load materials")
		return
	}
	utils.RespondData(c, http.StatusOK, materials)
}

// GetMaterial handles GET /api/v1/materials/:id
func (h *CatalogController) GetMaterial(c *gin.Context) { h.materialRes.get(c) }

// CreateMaterial handles POST /api/v1/materials
func (h *CatalogController) CreateMaterial(c *gin.Context) { h.materialRes.create(c) }

// UpdateMaterial handles PATCH /api/v1/materials/:id
func (h *CatalogController) UpdateMaterial(c *gin.Context) { h.materialRes.update(c) }

// DeleteMaterial handles DELETE /api/v1/materials/:id
func (h *CatalogController) DeleteMaterial(c *gin.Context) { h.materialRes.delete(c) }

// ListServices handles GET /api/v1/services
func (h *CatalogController) ListServices(c *gin.Context) {
	list, err := h.catalog.ListServices(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.log, err, nil, "load services")
		return
	}
	utils.RespondData(c, http.StatusOK, list)
}

// GetService handles GET /api/v1/services/:id
func (h *CatalogController) GetService(c *gin.Context) { h.serviceRes.get(c) }

// CreateService handles POST /api/v1/services
func (h *CatalogController) CreateService(c *gin.Context) { h.serviceRes.create(c) }

// UpdateService handles PATCH /api/v1/services/:id. Existing orders keep
// the base price they were created with.
func (h *CatalogController) UpdateService(c *gin.Context) { h.serviceRes.update(c) }

// DeleteService handles DELETE /api/v1/services/:id
func (h *CatalogController) DeleteService(c *gin.Context) { h.serviceRes.delete(c) }

// ListMachines handles GET /api/v1/machines
func (h *CatalogController) ListMachines(c *gin.Context) {
	machines, err := h.catalog.ListMachines(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.log, err, nil, "load machines")
		return
	}
	utils.RespondData(c, http.StatusOK, machines)
}

// GetMachine handles GET /api/v1/machines/:id
func (h *CatalogController) GetMachine(c *gin.Context) { h.machineRes.get(c) }

// CreateMachine handles POST /api/v1/machines
func (h *CatalogController) CreateMachine(c *gin.Context) { h.machineRes.create(c) }

// UpdateMachine handles PATCH /api/v1/machines/:id
func (h *CatalogController) UpdateMachine(c *gin.Context) { h.machineRes.update(c) }

// DeleteMachine handles DELETE /api/v1/machines/:id
func (h *CatalogController) DeleteMachine(c *gin.Context) { h.machineRes.delete(c) }

// SetMachineStatus handles PUT /api/v1/machines/:id/status
func (h *CatalogController) SetMachineStatus(c *gin.Context) {
	id, ok := utils.ParseID(c, "id")
	if !ok {
		return
	}

	var req MachineStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	machine, err := h.catalog.SetMachineStatus(c.Request.Context(), id, models.MachineStatus(req.Status))
	if err != nil {
		respondServiceError(c, h.log, err, services.ErrMachineNotFound, "update machine status")
		return
	}
	utils.RespondData(c, http.StatusOK, machine)
}

// ListStaff handles GET /api/v1/staff
func (h *CatalogController) ListStaff(c *gin.Context) {
	staff, err := h.catalog.ListStaff(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.log, err, nil, "load staff")
		return
	}
	utils.RespondData(c, http.StatusOK, staff)
}

// GetStaff handles GET /api/v1/staff/:id
func (h *CatalogController) GetStaff(c *gin.Context) { h.staffRes.get(c) }

// CreateStaff handles POST /api/v1/staff
func (h *CatalogController) CreateStaff(c *gin.Context) { h.staffRes.create(c) }

// UpdateStaff handles PATCH /api/v1/staff/:id
func (h *CatalogController) UpdateStaff(c *gin.Context) { h.staffRes.update(c) }

// DeleteStaff handles DELETE /api/v1/staff/:id
func (h *CatalogController) DeleteStaff(c *gin.Context) { h.staffRes.delete(c) }

// ToggleStaffAvailability handles POST /api/v1/staff/:id/toggle-availability
func (h *CatalogController) ToggleStaffAvailability(c *gin.Context) {
	id, ok := utils.ParseID(c, "id")
	if !ok {
		return
	}

	staff, err := h.catalog.ToggleStaffAvailability(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.log, err, services.ErrStaffNotFound, "toggle staff availability")
		return
	}
	utils.RespondData(c, http.StatusOK, staff)
}
