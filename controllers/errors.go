package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/jobshop-api/services"
	"github.com/kendall-kelly/jobshop-api/utils"
	"github.com/sirupsen/logrus"
)

const dateLayout = "2006-01-02"

var notFoundCodes = []struct {
	err     error
	code    string
	message string
}{
	{services.ErrOrderNotFound, "ORDER_NOT_FOUND", "Order not found"},
	{services.ErrMaterialNotFound, "MATERIAL_NOT_FOUND", "Material not found"},
	{services.ErrServiceNotFound, "SERVICE_NOT_FOUND", "Service not found"},
	{services.ErrMachineNotFound, "MACHINE_NOT_FOUND", "Machine not found"},
	{services.ErrStaffNotFound, "STAFF_NOT_FOUND", "Staff member not found"},
	{services.ErrSupplierNotFound, "SUPPLIER_NOT_FOUND", "Supplier not found"},
}

// respondServiceError maps a service error onto the response envelope.
// subject is the error for the resource named in the path: it becomes a 404.
// Any other missing row is a bad reference in the request body and becomes
// a 400.
func respondServiceError(c *gin.Context, log logrus.FieldLogger, err error, subject error, action string) {
	switch {
	case subject != nil && errors.Is(err, subject):
		for _, nf := range notFoundCodes {
			if errors.Is(err, nf.err) {
				utils.RespondError(c, http.StatusNotFound, nf.code, nf.message)
				return
			}
		}
		utils.RespondError(c, http.StatusNotFound, "NOT_FOUND", "Resource not found")
	case errors.Is(err, services.ErrNotFound):
		code := "INVALID_REFERENCE"
		for _, nf := range notFoundCodes {
			if errors.Is(err, nf.err) {
				code = nf.code
				break
			}
		}
		utils.RespondError(c, http.StatusBadRequest, code, "Referenced "+err.Error())
	case errors.Is(err, services.ErrValidation):
		utils.RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data", err.Error())
	case errors.Is(err, services.ErrArchiveUnavailable):
		utils.RespondError(c, http.StatusServiceUnavailable, "ARCHIVE_UNAVAILABLE", "Report archiving is not configured")
	default:
		log.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).Error("Failed to " + action)
		utils.RespondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to "+action)
	}
}

func respondBindError(c *gin.Context, err error) {
	utils.RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data", err.Error())
}

// parseDate reads an optional YYYY-MM-DD value
func parseDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *raw)
	if err != nil {
		return nil, services.ErrInvalidDate
	}
	return &t, nil
}
