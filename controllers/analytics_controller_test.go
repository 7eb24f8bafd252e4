package controllers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/jobshop-api/middleware"
	"github.com/kendall-kelly/jobshop-api/services"
	"github.com/kendall-kelly/jobshop-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type failingArchive struct{}

func (failingArchive) Upload(ctx context.Context, key string, body []byte, contentType string) error {
	return errors.New("bucket unreachable")
}

func (failingArchive) PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return "", errors.New("bucket unreachable")
}

func analyticsRouter(env *testEnv, archive services.ReportArchive, auth ...gin.HandlerFunc) *gin.Engine {
	h := NewAnalyticsController(services.NewReports(env.book, archive, env.log), env.log)

	router := orderRouter(env)
	group := router.Group("/analytics", auth...)
	group.GET("/summary", h.Summary)
	group.GET("/export", h.Export)
	group.POST("/export/archive", middleware.RequireScope(middleware.ScopeExportReports), h.Archive)
	return router
}

func TestAnalyticsSummary(t *testing.T) {
	env := setupTestEnv(t)
	router := analyticsRouter(env, nil)

	createTestOrder(t, router, map[string]interface{}{"client_name": "Asha", "base_price": 1000, "status": "completed"})
	createTestOrder(t, router, map[string]interface{}{"client_name": "Bina", "base_price": 500, "status": "confirmed"})
	createTestOrder(t, router, map[string]interface{}{"client_name": "asha", "base_price": 200, "status": "cancelled"})

	tests := []struct {
		name           string
		query          string
		expectedStatus int
		expectedError  string
		checkResponse  func(t *testing.T, data map[string]interface{})
	}{
		{
			name:           "All time",
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, data map[string]interface{}) {
				assert.Equal(t, float64(3), data["order_count"])
				assert.Equal(t, float64(1700), data["total_revenue"])
				assert.Equal(t, float64(2), data["total_customers"])
				assert.Equal(t, float64(1), data["pending_work"])
				assert.Equal(t, float64(1), data["cancelled_orders"])
				assert.Len(t, data["status_counts"], 6)
			},
		},
		{
			name:           "Range before any order",
			query:          "?from=2000-01-01&to=2000-12-31",
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, data map[string]interface{}) {
				assert.Equal(t, float64(0), data["order_count"])
				assert.Equal(t, float64(0), data["total_revenue"])
			},
		},
		{
			name:           "Inverted range",
			query:          "?from=2026-02-01&to=2026-01-01",
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name:           "Malformed date",
			query:          "?from=yesterday",
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(router, http.MethodGet, "/analytics/summary"+tt.query, nil)
			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())

			response := parseResponse(t, w)
			if tt.expectedError != "" {
				assertErrorCode(t, response, tt.expectedError)
			}
			if tt.checkResponse != nil {
				tt.checkResponse(t, response["data"].(map[string]interface{}))
			}
		})
	}
}

func TestAnalyticsExport(t *testing.T) {
	env := setupTestEnv(t)
	router := analyticsRouter(env, nil)
	createTestOrder(t, router, map[string]interface{}{"client_name": "Asha", "base_price": 1000})

	w := performRequest(router, http.MethodGet, "/analytics/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, services.XLSXContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment; filename=\"analytics_")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "Orders")

	rows, err := f.GetRows("Orders")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Contains(t, rows[1], "Asha")
}

func TestAnalyticsArchive(t *testing.T) {
	t.Run("Not configured", func(t *testing.T) {
		env := setupTestEnv(t)
		router := analyticsRouter(env, nil, testutil.MockAuth("auth0|owner", middleware.ScopeExportReports))

		w := performRequest(router, http.MethodPost, "/analytics/export/archive", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assertErrorCode(t, parseResponse(t, w), "ARCHIVE_UNAVAILABLE")
	})

	t.Run("Upload fails", func(t *testing.T) {
		env := setupTestEnv(t)
		router := analyticsRouter(env, failingArchive{}, testutil.MockAuth("auth0|owner", middleware.ScopeExportReports))

		w := performRequest(router, http.MethodPost, "/analytics/export/archive", nil)
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assertErrorCode(t, parseResponse(t, w), "ARCHIVE_ERROR")
	})

	t.Run("Missing scope", func(t *testing.T) {
		env := setupTestEnv(t)
		router := analyticsRouter(env, services.NewMockArchive(), testutil.MockAuth("auth0|clerk", "read:orders"))

		w := performRequest(router, http.MethodPost, "/analytics/export/archive", nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assertErrorCode(t, parseResponse(t, w), "INSUFFICIENT_SCOPE")
	})

	t.Run("Uploaded", func(t *testing.T) {
		env := setupTestEnv(t)
		archive := services.NewMockArchive()
		router := analyticsRouter(env, archive, testutil.MockAuth("auth0|owner", middleware.ScopeExportReports))

		w := performRequest(router, http.MethodPost, "/analytics/export/archive", nil)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		data := parseResponse(t, w)["data"].(map[string]interface{})
		assert.NotEmpty(t, data["url"])

		key := data["key"].(string)
		assert.Equal(t, []string{key}, archive.Keys())
		body, ok := archive.File(key)
		require.True(t, ok)
		assert.NotEmpty(t, body)
	})
}
