package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/rsvp-backend/internal/platform/ctxutil"
)

func traceEngine(seen **ctxutil.TraceData) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	r.GET("/x", func(c *gin.Context) {
		*seen = ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestAttachTraceContextKeepsClientIDs(t *testing.T) {
	var seen *ctxutil.TraceData
	r := traceEngine(&seen)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(headerRequestID, "req-42")
	req.Header.Set(headerTraceID, "trace.abc_1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.NotNil(t, seen)
	require.Equal(t, "req-42", seen.RequestID)
	require.Equal(t, "trace.abc_1", seen.TraceID)
	require.Equal(t, "req-42", rec.Header().Get(headerRequestID))
	require.Equal(t, "trace.abc_1", rec.Header().Get(headerTraceID))
}

func TestAttachTraceContextReplacesUnsafeIDs(t *testing.T) {
	var seen *ctxutil.TraceData
	r := traceEngine(&seen)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(headerRequestID, "bad id\twith spaces")
	req.Header.Set(headerTraceID, strings.Repeat("a", maxClientIDLen+1))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.NotNil(t, seen)
	require.NotEqual(t, "bad id\twith spaces", seen.RequestID)
	require.Len(t, seen.RequestID, 36)
	require.Len(t, seen.TraceID, 36)
	require.Equal(t, seen.RequestID, rec.Header().Get(headerRequestID))
}

func TestAttachTraceContextPrefersSpanTraceID(t *testing.T) {
	var seen *ctxutil.TraceData
	r := traceEngine(&seen)

	tid, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	sid, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: tid, SpanID: sid, TraceFlags: trace.FlagsSampled})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req = req.WithContext(trace.ContextWithSpanContext(context.Background(), sc))
	req.Header.Set(headerTraceID, "client-trace")
	r.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, seen)
	require.Equal(t, tid.String(), seen.TraceID)
}
