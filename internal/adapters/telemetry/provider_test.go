package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.arieo.dev/arieo-pkg/internal/adapters/telemetry"
	"go.arieo.dev/arieo-pkg/internal/core/ports"
	"go.arieo.dev/arieo-pkg/internal/core/ports/mocks"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/mock/gomock"
)

func setupMonitor(t *testing.T) (*tracetest.SpanRecorder, *trace.TracerProvider) {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := trace.NewTracerProvider(trace.WithSpanProcessor(sr))
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return sr, tp
}

func TestInterfaceSatisfaction(_ *testing.T) {
	var _ ports.Tracer = (*telemetry.OTelTracer)(nil)
	var _ ports.Span = (*telemetry.OTelSpan)(nil)
	var _ trace.SpanProcessor = (*telemetry.Bridge)(nil)
}

func TestOTelTracer_EmitPlan(t *testing.T) {
	sr, tp := setupMonitor(t)
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)

	names := []string{"core", "render"}
	deps := map[string][]string{"render": {"core"}}
	renderer.EXPECT().OnPlanEmit(names, deps, []string{"render"}).Times(2)

	tracer := telemetry.NewOTelTracer("test-tracer").WithRenderer(renderer)

	// No active span: only the renderer is notified.
	tracer.EmitPlan(context.Background(), names, deps, []string{"render"})

	ctx, span := tp.Tracer("test").Start(context.Background(), "root")
	tracer.EmitPlan(ctx, names, deps, []string{"render"})
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	events := spans[0].Events()
	require.Len(t, events, 1)
	assert.Equal(t, "plan_emitted", events[0].Name)
}

func TestOTelSpan_SetAttribute(t *testing.T) {
	sr, _ := setupMonitor(t)

	tracer := telemetry.NewOTelTracer("test-tracer")
	_, span := tracer.Start(context.Background(), "core:build")

	span.SetAttribute("arieo.package", "core")
	span.SetAttribute("arieo.build_index", 2)
	span.SetAttribute("count", int64(7))
	span.SetAttribute("ok", true)
	span.SetAttribute("deps", []string{"a", "b"})
	span.SetAttribute("other", 1.5)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)

	attrs := make(map[attribute.Key]attribute.Value)
	for _, a := range spans[0].Attributes() {
		attrs[a.Key] = a.Value
	}
	assert.Equal(t, "core", attrs["arieo.package"].AsString())
	assert.Equal(t, int64(2), attrs["arieo.build_index"].AsInt64())
	assert.Equal(t, int64(7), attrs["count"].AsInt64())
	assert.True(t, attrs["ok"].AsBool())
	assert.Equal(t, []string{"a", "b"}, attrs["deps"].AsStringSlice())
	assert.Equal(t, "1.5", attrs["other"].AsString())
}

func TestOTelSpan_WriteWithoutRenderer(t *testing.T) {
	sr, _ := setupMonitor(t)

	tracer := telemetry.NewOTelTracer("test-tracer")
	_, span := tracer.Start(context.Background(), "core:build")
	n, err := span.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	events := spans[0].Events()
	require.Len(t, events, 1)
	assert.Equal(t, "log", events[0].Name)
	assert.Equal(t, "hello", events[0].Attributes[0].Value.AsString())
}

func TestOTelSpan_WriteWithRenderer(t *testing.T) {
	setupMonitor(t)
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)

	var got []byte
	renderer.EXPECT().OnStageLog(gomock.Any(), gomock.Any()).Do(func(_ string, data []byte) {
		got = append(got, data...)
	}).AnyTimes()

	tracer := telemetry.NewOTelTracer("test-tracer").WithRenderer(renderer)
	_, span := tracer.Start(context.Background(), "core:build")
	_, _ = span.Write([]byte("> make\n"))
	_, _ = span.Write([]byte("done\n"))
	span.End()

	assert.Equal(t, "> make\ndone\n", string(got))
}

func TestOTelSpan_RecordError(t *testing.T) {
	sr, _ := setupMonitor(t)

	tracer := telemetry.NewOTelTracer("test-tracer")
	_, span := tracer.Start(context.Background(), "core:build")
	span.RecordError(errors.New("command failed"))
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "command failed", spans[0].Status().Description)
}
