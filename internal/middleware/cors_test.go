package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func preflight(handler http.Handler, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodOptions, "/api/wishlist", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestCORSMiddleware(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	t.Run("development echoes any origin", func(t *testing.T) {
		handler := CORSMiddleware(nil, true)(ok)
		w := preflight(handler, "http://localhost:5173")
		assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("production allows only configured origins", func(t *testing.T) {
		handler := CORSMiddleware([]string{"https://shop.example"}, false)(ok)
		assert.Equal(t, "https://shop.example", preflight(handler, "https://shop.example").Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, preflight(handler, "https://evil.example").Header().Get("Access-Control-Allow-Origin"))
	})
}
