package main

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"genesearch/storage"
)

func recordRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"), zap.NewNop())
	require.NoError(t, err)

	router := gin.New()
	setupRecordRoutes(router, store, zap.NewNop())
	return router
}

func TestRecordRoutesLimitValidation(t *testing.T) {
	router := recordRouter(t)

	get := func(target string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
		return w
	}

	assert.Equal(t, http.StatusOK, get("/records/matches").Code)
	assert.Equal(t, http.StatusOK, get("/records/matches?limit=5").Code)
	assert.Equal(t, http.StatusBadRequest, get("/records/matches?limit=abc").Code)

	assert.Equal(t, http.StatusOK, get("/records/retrieved/@1@?limit=5").Code)
	assert.Equal(t, http.StatusBadRequest, get("/records/retrieved/@1@?limit=abc").Code)
}
