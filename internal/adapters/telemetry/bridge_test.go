package telemetry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.arieo.dev/arieo-pkg/internal/adapters/telemetry"
	"go.arieo.dev/arieo-pkg/internal/core/ports/mocks"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/mock/gomock"
)

func TestBridge_Lifecycle(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)

	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(telemetry.NewBridge(renderer)))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	gomock.InOrder(
		renderer.EXPECT().OnStageStart(gomock.Any(), "", "core:build", gomock.Any()),
		renderer.EXPECT().OnStageComplete(gomock.Any(), gomock.Any(), nil),
	)

	_, span := tp.Tracer("test").Start(context.Background(), "core:build")
	span.End()
}

func TestBridge_ParentID(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)

	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(telemetry.NewBridge(renderer)))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	renderer.EXPECT().OnStageStart(gomock.Any(), "", "root", gomock.Any())
	renderer.EXPECT().OnStageComplete(gomock.Any(), gomock.Any(), nil).Times(2)

	ctx, root := tp.Tracer("test").Start(context.Background(), "root")
	rootID := root.SpanContext().SpanID().String()
	renderer.EXPECT().OnStageStart(gomock.Any(), rootID, "core:install", gomock.Any())

	_, child := tp.Tracer("test").Start(ctx, "core:install")
	child.End()
	root.End()
}

func TestBridge_ErrorStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)

	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(telemetry.NewBridge(renderer)))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	renderer.EXPECT().OnStageStart(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any())
	renderer.EXPECT().OnStageComplete(gomock.Any(), gomock.Any(), gomock.Any()).Do(
		func(_ string, _ time.Time, err error) {
			require.EqualError(t, err, "command failed")
		},
	)

	_, span := tp.Tracer("test").Start(context.Background(), "core:build")
	span.RecordError(errors.New("command failed"))
	span.SetStatus(codes.Error, "command failed")
	span.End()
}

func TestBridge_NilRenderer(_ *testing.T) {
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(telemetry.NewBridge(nil)))
	otel.SetTracerProvider(tp)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	_, span := tp.Tracer("test").Start(context.Background(), "core:build")
	span.End()
}
