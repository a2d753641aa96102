package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fekuna/omnipos-workshop-pos/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
)

func TestRouterHealthAndRecovery(t *testing.T) {
	r := NewRouter(logger.NewNop(), 0)
	r.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
