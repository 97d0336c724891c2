package telemetry

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newRecordingProvider() (*sdktrace.TracerProvider, *tracetest.SpanRecorder) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	return tp, recorder
}

func TestNew_Disabled(t *testing.T) {
	tel, err := New(context.Background(), Config{})
	require.NoError(t, err)

	assert.False(t, tel.IsEnabled())
	assert.Equal(t, "intelliview-api", tel.ServiceName())
	assert.NotNil(t, tel.Tracer())
	assert.NoError(t, tel.Shutdown(context.Background()))
}

func TestHTTPMiddleware_RecordsSpan(t *testing.T) {
	tp, recorder := newRecordingProvider()

	var traceID string
	h := HTTPMiddleware("intelliview-api", tp)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = TraceIDFromContext(r.Context())
		w.WriteHeader(http.StatusAccepted)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/interviews", nil))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "POST /api/interviews", spans[0].Name())
	assert.Equal(t, spans[0].SpanContext().TraceID().String(), traceID)
}

func TestLogrusHook_AddsTraceFields(t *testing.T) {
	tp, _ := newRecordingProvider()
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	logger := logrus.New()
	logger.Out = io.Discard
	logger.AddHook(NewLogrusHook())
	hook := test.NewLocal(logger)

	logger.WithContext(ctx).Info("with span")
	logger.Info("without context")

	entries := hook.AllEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, span.SpanContext().TraceID().String(), entries[0].Data["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), entries[0].Data["span_id"])
	assert.Equal(t, true, entries[0].Data["trace_sampled"])
	assert.NotContains(t, entries[1].Data, "trace_id")
}

func TestLogrusHook_Levels(t *testing.T) {
	assert.Equal(t, logrus.AllLevels, NewLogrusHook().Levels())
}

func TestSampler(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), Sampler(1).Description())
	assert.Equal(t, sdktrace.NeverSample().Description(), Sampler(0).Description())
	assert.Equal(t, sdktrace.TraceIDRatioBased(0.25).Description(), Sampler(0.25).Description())
}

func TestTraceIDFromContext_Empty(t *testing.T) {
	assert.Empty(t, TraceIDFromContext(context.Background()))
}
