package providers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dummyHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

func TestRouterProvider_GetAddsRoute(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/test", dummyHandler())

	routes := rp.GetRoutes()
	require.Len(t, routes, 1)
	assert.Equal(t, "/test", routes[0].Url)
}

func TestRouterProvider_MultipleRoutes(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/a", dummyHandler())
	rp.Get("/b", dummyHandler())

	assert.Len(t, rp.GetRoutes(), 2)
}

func TestRouterProvider_AllowsGetAndHead(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/test", dummyHandler())
	h := rp.GetRoutes()[0].Handler

	for _, method := range []string{http.MethodGet, http.MethodHead} {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(method, "/test", nil))
		assert.Equal(t, http.StatusOK, rr.Code, method)
	}
}

func TestRouterProvider_RejectsOtherMethods(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/test", dummyHandler())
	h := rp.GetRoutes()[0].Handler

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(method, "/test", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rr.Code, method)
	}
}
