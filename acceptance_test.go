package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pathf(format string, args ...interface{}) string {
	return fmt.Sprintf(format, args...)
}

// TestServerStartup is an acceptance test that verifies the server can start
func TestServerStartup(t *testing.T) {
	router := setupTestRouter(t)
	assert.NotNil(t, router, "Router should be initialized")
}

// TestAPIHealthEndpointAcceptance is an end-to-end acceptance test
// It simulates a real HTTP request to verify the API works as expected
func TestAPIHealthEndpointAcceptance(t *testing.T) {
	router := setupTestRouter(t)

	req, err := http.NewRequest("GET", "/api/v1/health", nil)
	assert.NoError(t, err, "Should be able to create request")

	recorder := &testResponseWriter{header: make(http.Header)}
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.statusCode, "Health endpoint should return 200 OK")

	var response struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	err = json.Unmarshal(recorder.body, &response)
	assert.NoError(t, err, "Response should be valid JSON")
	assert.True(t, response.Success, "Success field should be true")
	assert.Equal(t, "Job Shop API is running", response.Message)
}

// TestHealthEndpointAvailability tests that the health endpoint is available immediately
func TestHealthEndpointAvailability(t *testing.T) {
	router := setupTestRouter(t)

	// Make multiple requests to ensure consistency
	for i := 0; i < 5; i++ {
		req, _ := http.NewRequest("GET", "/api/v1/health", nil)
		recorder := &testResponseWriter{header: make(http.Header)}
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.statusCode,
			fmt.Sprintf("Request %d should succeed", i+1))
	}
}

// TestHealthEndpointResponseTime tests that the endpoint responds quickly
func TestHealthEndpointResponseTime(t *testing.T) {
	router := setupTestRouter(t)

	req, _ := http.NewRequest("GET", "/api/v1/health", nil)
	recorder := &testResponseWriter{header: make(http.Header)}

	start := time.Now()
	router.ServeHTTP(recorder, req)
	duration := time.Since(start)

	// Health check should be very fast (under 100ms)
	assert.Less(t, duration, 100*time.Millisecond,
		"Health endpoint should respond in less than 100ms")
}

// TestJobLifecycleAcceptance walks a job from lead to completed and paid
func TestJobLifecycleAcceptance(t *testing.T) {
	router := setupTestRouter(t)

	_, response := doJSON(t, router, http.MethodPost, "/api/v1/staff", map[string]interface{}{"name": "Imran", "role": "operator"})
	imran := dataOf(response)
	assert.Equal(t, true, imran["is_available"])
	_, response = doJSON(t, router, http.MethodPost, "/api/v1/staff", map[string]interface{}{"name": "Joseph"})
	joseph := dataOf(response)
	_, response = doJSON(t, router, http.MethodPost, "/api/v1/staff", map[string]interface{}{"name": "Lakshmi"})
	lakshmi := dataOf(response)
	_, response = doJSON(t, router, http.MethodPost, "/api/v1/machines", map[string]interface{}{"name": "Fiber laser"})
	machine := dataOf(response)
	assert.Equal(t, "available", machine["status"])

	code, response := doJSON(t, router, http.MethodPost, "/api/v1/orders", map[string]interface{}{
		"client_name": "Sri Fabricators",
		"base_price":  2000,
	})
	require.Equal(t, http.StatusCreated, code)
	id := int(dataOf(response)["id"].(float64))

	code, _ = doJSON(t, router, http.MethodPut, pathf("/api/v1/orders/%d/staff", id), map[string]interface{}{
		"staff_ids": []interface{}{imran["id"], joseph["id"]},
	})
	require.Equal(t, http.StatusOK, code)
	code, response = doJSON(t, router, http.MethodPut, pathf("/api/v1/orders/%d/staff", id), map[string]interface{}{
		"staff_ids": []interface{}{joseph["id"], lakshmi["id"]},
	})
	require.Equal(t, http.StatusOK, code)
	assignments := dataOf(response)["assignments"].([]interface{})
	require.Len(t, assignments, 2)
	assert.Equal(t, joseph["id"], assignments[0].(map[string]interface{})["staff_id"])
	assert.Equal(t, lakshmi["id"], assignments[1].(map[string]interface{})["staff_id"])

	code, _ = doJSON(t, router, http.MethodPut, pathf("/api/v1/orders/%d/machine", id), map[string]interface{}{
		"machine_id": machine["id"],
	})
	require.Equal(t, http.StatusOK, code)

	for _, status := range []string{"contacted", "confirmed", "progressing", "completed"} {
		code, response = doJSON(t, router, http.MethodPut, pathf("/api/v1/orders/%d/status", id), map[string]interface{}{
			"status": status,
		})
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, status, dataOf(response)["status"])
	}

	for _, amount := range []int{800, 700} {
		code, _ = doJSON(t, router, http.MethodPost, pathf("/api/v1/orders/%d/payments", id), map[string]interface{}{
			"method": "cash",
			"amount": amount,
		})
		require.Equal(t, http.StatusCreated, code)
	}

	code, response = doJSON(t, router, http.MethodGet, pathf("/api/v1/orders/%d", id), nil)
	require.Equal(t, http.StatusOK, code)
	order := dataOf(response)
	assert.Equal(t, float64(1500), order["total_paid"])
	assert.Equal(t, float64(500), order["outstanding"])
	assert.Equal(t, "partially_paid", order["payment_status"])
	assert.Equal(t, machine["id"], order["machine_id"])

	code, response = doJSON(t, router, http.MethodGet, "/api/v1/analytics/summary", nil)
	require.Equal(t, http.StatusOK, code)
	summary := dataOf(response)
	assert.Equal(t, float64(2000), summary["total_revenue"])
	assert.Equal(t, float64(1500), summary["received_revenue"])
	assert.Equal(t, float64(500), summary["pending_revenue"])

	code, _ = doJSON(t, router, http.MethodDelete, pathf("/api/v1/orders/%d", id), nil)
	require.Equal(t, http.StatusOK, code)
	code, response = doJSON(t, router, http.MethodGet, pathf("/api/v1/orders/%d", id), nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "ORDER_NOT_FOUND", response["error"].(map[string]interface{})["code"])
}

// testResponseWriter is a helper for acceptance testing
type testResponseWriter struct {
	header     http.Header
	body       []byte
	statusCode int
}

func (w *testResponseWriter) Header() http.Header {
	return w.header
}

func (w *testResponseWriter) Write(b []byte) (int, error) {
	w.body = append(w.body, b...)
	return len(b), nil
}

func (w *testResponseWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
}
