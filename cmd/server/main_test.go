package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"termimage/backend/internal/config"
	"termimage/backend/internal/hooks"
	"termimage/backend/internal/hub"
	"termimage/backend/pkg/jwt"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logrus.NewEntry(logrus.New())
	log.Logger.SetLevel(logrus.PanicLevel)

	return setupRouter(routerDeps{
		tokens:     jwt.NewManager("test-secret", time.Hour, time.Hour),
		events:     hub.NewHub(),
		dispatcher: hooks.NewDispatcher(hooks.Table{}, log),
		log:        log,
	})
}

func TestRouter_Ping(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_SwaggerDoc(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Term Image API")
	assert.Contains(t, w.Body.String(), "/taxonomies/{taxonomy}/terms")
}

func TestRouter_Metrics(t *testing.T) {
	r := newTestRouter(t)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `termimage_http_requests_total{method="GET",route="/ping",status="200"}`)
}

func TestRouter_PickerScript(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/assets/taxonomy-term-image.js", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "javascript")
	assert.Contains(t, w.Body.String(), "taxonomy-term-image-id")
}

func TestRouter_AdminRequiresToken(t *testing.T) {
	r := newTestRouter(t)

	for _, path := range []string{
		"/api/v1/admin/taxonomies/category/terms/new",
		"/api/v1/admin/media",
		"/api/v1/admin/taxonomies/category/events",
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestNewImageStore(t *testing.T) {
	cfg := &config.Config{TermImage: config.TermImageConfig{Storage: "memory"}}
	s, err := newImageStore(cfg, nil)
	require.NoError(t, err)
	assert.NotNil(t, s)

	cfg.TermImage.Storage = "meta"
	_, err = newImageStore(cfg, nil)
	assert.Error(t, err, "the meta backend needs a database")

	cfg.TermImage.Storage = "redis"
	cfg.RedisURL = "not a url"
	_, err = newImageStore(cfg, nil)
	assert.ErrorContains(t, err, "REDIS_URL")
}
