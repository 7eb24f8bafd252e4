package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/jobshop-api/services"
	"github.com/kendall-kelly/jobshop-api/tests/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// testEnv bundles the services a controller test needs
type testEnv struct {
	db      *gorm.DB
	log     *logrus.Logger
	book    *services.OrderBook
	catalog *services.Catalog
	ledger  *services.ExpenseLedger
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewTestDB(t)
	log := testutil.NewTestLogger()
	book := services.NewOrderBook(db, log)
	require.NoError(t, book.Refresh(t.Context()))
	catalog := services.NewCatalog(db, log)
	catalog.OnChange(book.Refresh)

	return &testEnv{
		db:      db,
		log:     log,
		book:    book,
		catalog: catalog,
		ledger:  services.NewExpenseLedger(db, log),
	}
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	return router
}

func performRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), w.Body.String())
	return response
}

func assertErrorCode(t *testing.T, response map[string]interface{}, code string) {
	t.Helper()
	assert.False(t, response["success"].(bool))
	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, code, errorData["code"])
}
