package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/jobshop-api/services"
	"github.com/kendall-kelly/jobshop-api/utils"
	"github.com/sirupsen/logrus"
)

// AnalyticsController serves dashboard rollups and report exports
type AnalyticsController struct {
	reports *services.Reports
	log     logrus.FieldLogger
}

// NewAnalyticsController creates an AnalyticsController
func NewAnalyticsController(reports *services.Reports, log logrus.FieldLogger) *AnalyticsController {
	return &AnalyticsController{reports: reports, log: log}
}

func (h *AnalyticsController) dateRange(c *gin.Context) (services.DateRange, bool) {
	rng, err := services.ParseDateRange(c.Query("from"), c.Query("to"))
	if err != nil {
		respondServiceError(c, h.log, err, nil, "parse date range")
		return services.DateRange{}, false
	}
	return rng, true
}

// Summary handles GET /api/v1/analytics/summary?from=&to=
func (h *AnalyticsController) Summary(c *gin.Context) {
	rng, ok := h.dateRange(c)
	if !ok {
		return
	}
	utils.RespondData(c, http.StatusOK, h.reports.Summary(rng))
}

// Export handles GET /api/v1/analytics/export?from=&to= - streams an xlsx workbook
func (h *AnalyticsController) Export(c *gin.Context) {
	rng, ok := h.dateRange(c)
	if !ok {
		return
	}

	buf, err := h.reports.Export(rng)
	if err != nil {
		respondServiceError(c, h.log, err, nil, "export report")
		return
	}

	filename := fmt.Sprintf("analytics_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, services.XLSXContentType, buf.Bytes())
}

// Archive handles POST /api/v1/analytics/export/archive?from=&to=
func (h *AnalyticsController) Archive(c *gin.Context) {
	rng, ok := h.dateRange(c)
	if !ok {
		return
	}

	report, err := h.reports.Archive(c.Request.Context(), rng)
	if errors.Is(err, services.ErrArchiveUnavailable) {
		respondServiceError(c, h.log, err, nil, "archive report")
		return
	}
	if err != nil {
		h.log.WithError(err).Error("Failed to archive report")
		utils.RespondError(c, http.StatusBadGateway, "ARCHIVE_ERROR", "Failed to upload report to the archive")
		return
	}
	utils.RespondData(c, http.StatusCreated, report)
}
