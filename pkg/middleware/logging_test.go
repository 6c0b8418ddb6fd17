package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"blog/pkg/logger"
)

func newObservedMiddleware() (*LoggingMiddleware, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewLoggingMiddleware(zap.New(core).Sugar()), logs
}

func chain(lm *LoggingMiddleware, h http.Handler) http.Handler {
	return lm.SetupTracing(lm.SetupLogging(lm.AccessLog(lm.Recover(h))))
}

func TestSetupTracing(t *testing.T) {
	lm, _ := newObservedMiddleware()

	var seen string
	h := lm.SetupTracing(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
	}))

	t.Run("generates id", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, w.Header().Get(RequestIDHeader))
	})

	t.Run("keeps caller id", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set(RequestIDHeader, "req-42")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)

		assert.Equal(t, "req-42", seen)
		assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))
	})
}

func TestAccessLog(t *testing.T) {
	lm, logs := newObservedMiddleware()

	h := chain(lm, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Log(r.Context()).Info("inside handler")
		w.WriteHeader(http.StatusTeapot)
	}))

	r := httptest.NewRequest(http.MethodGet, "/getposts/", nil)
	r.Header.Set(RequestIDHeader, "req-7")
	h.ServeHTTP(httptest.NewRecorder(), r)

	entries := logs.All()
	require.Len(t, entries, 2)

	inside := entries[0].ContextMap()
	assert.Equal(t, "inside handler", entries[0].Message)
	assert.Equal(t, "req-7", inside["request_id"])
	assert.Equal(t, "/getposts/", inside["path"])

	access := entries[1].ContextMap()
	assert.Equal(t, "request", entries[1].Message)
	assert.Equal(t, int64(http.StatusTeapot), access["status"])
	assert.Equal(t, "GET", access["method"])
}

func TestRecover(t *testing.T) {
	lm, logs := newObservedMiddleware()

	h := chain(lm, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("formatting a post without an id")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/getpost/x", nil))
	resp := w.Result()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Internal server error."}`, string(body))
	assert.Equal(t, 1, logs.FilterMessage("panic while serving request").Len())

	access := logs.FilterMessage("request").All()
	require.Len(t, access, 1)
	assert.Equal(t, int64(http.StatusInternalServerError), access[0].ContextMap()["status"])
}
