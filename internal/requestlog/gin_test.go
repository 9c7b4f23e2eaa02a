package requestlog

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newGinRouter(rl *RequestLogger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(Gin(rl))
	return router
}

// Test Gin middleware
func TestGin(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("json_body_path_and_query_params", func(t *testing.T) {
		t.Parallel()

		sink := &captureSink{}
		router := newGinRouter(New(Options{Sink: sink, ObfuscatedParams: []string{"password"}}))

		var bound struct {
			Name     string `json:"name"`
			Password string `json:"password"`
		}
		router.POST("/users/:user_id", func(c *gin.Context) {
			require.NoError(t, c.ShouldBindJSON(&bound))
			ReportDuration(c.Request.Context(), 7*time.Millisecond)
			c.JSON(http.StatusCreated, gin.H{"ok": true})
		})

		body := []byte(`{"name":"bob","password":"secret","profile":{"password":"nested"}}`)
		req := httptest.NewRequest(http.MethodPost, "/users/42?tag=a&tag=b&page=2", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
		require.Equal(t, "secret", bound.Password, "body must still be readable downstream")

		records := sink.Records()
		require.Len(t, records, 1)
		rec := records[0]
		require.Equal(t, "/users/42", rec.Path)
		require.Equal(t, http.MethodPost, rec.Method)
		require.Equal(t, http.StatusCreated, rec.Status)
		require.Equal(t, 7.0, rec.DB)
		require.GreaterOrEqual(t, rec.Total, 0.0)
		require.Equal(t, map[string]any{
			"user_id":  "42",
			"tag":      []string{"a", "b"},
			"page":     "2",
			"name":     "bob",
			"password": Mask,
			"profile":  map[string]any{"password": "nested"},
		}, rec.Params)
	})

	t.Run("form_body", func(t *testing.T) {
		t.Parallel()

		sink := &captureSink{}
		router := newGinRouter(New(Options{Sink: sink, ObfuscatedParams: []string{"password"}}))
		router.POST("/sessions", func(c *gin.Context) {
			require.Equal(t, "bob", c.PostForm("name"))
			c.Status(http.StatusNoContent)
		})

		form := url.Values{"name": {"bob"}, "password": {"secret"}}
		req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusNoContent, w.Code)
		records := sink.Records()
		require.Len(t, records, 1)
		require.Equal(t, map[string]any{"name": "bob", "password": Mask}, records[0].Params)
		require.Equal(t, http.StatusNoContent, records[0].Status)
	})

	t.Run("ignored_method", func(t *testing.T) {
		t.Parallel()

		sink := &captureSink{}
		router := newGinRouter(New(Options{Sink: sink, IgnoredMethods: []string{http.MethodDelete}}))
		router.DELETE("/users/:user_id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/users/1", nil))

		require.Equal(t, http.StatusNoContent, w.Code)
		require.Empty(t, sink.Records())
	})

	t.Run("panic_not_logged", func(t *testing.T) {
		t.Parallel()

		sink := &captureSink{}
		router := newGinRouter(New(Options{Sink: sink}))
		router.GET("/boom", func(c *gin.Context) { panic("boom") })

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

		require.Equal(t, http.StatusInternalServerError, w.Code)
		require.Empty(t, sink.Records())
	})

	t.Run("error_status_logged", func(t *testing.T) {
		t.Parallel()

		sink := &captureSink{}
		router := newGinRouter(New(Options{Sink: sink}))
		router.GET("/users/:user_id", func(c *gin.Context) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/missing", nil))

		records := sink.Records()
		require.Len(t, records, 1)
		require.Equal(t, http.StatusNotFound, records[0].Status)
		require.Equal(t, 0.0, records[0].DB)
	})
}
