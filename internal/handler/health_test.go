package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping(context.Context) error { return f.err }

func TestHealthReportsConfiguredVersion(t *testing.T) {
	h := NewHealthHandler("2.3.1", &fakePinger{})

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"version":"2.3.1"`)
}

func TestReadyWithReachableCache(t *testing.T) {
	h := NewHealthHandler("1.0.0", &fakePinger{})

	rec := httptest.NewRecorder()
	h.Ready(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ready", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ready":true`)
	assert.Contains(t, rec.Body.String(), `"name":"cache","status":"ok"`)
}

func TestReadyWithUnreachableCache(t *testing.T) {
	h := NewHealthHandler("1.0.0", &fakePinger{err: errors.New("connection refused")})

	rec := httptest.NewRecorder()
	h.Ready(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ready":false`)
	assert.Contains(t, rec.Body.String(), `"name":"cache","status":"error"`)
}
