package tracing_test

import (
	"context"
	"testing"

	"quizpath_backend/internal/config"
	"quizpath_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
)

func TestInitTracer_Disabled(t *testing.T) {
	tp, err := tracing.InitTracer(context.Background(), &config.TracingConfig{Enabled: false})
	if err != nil || tp != nil {
		t.Errorf("InitTracer(disabled) = %v, %v", tp, err)
	}
}

func TestInitTracer_Stdout(t *testing.T) {
	ctx := context.Background()
	tp, err := tracing.InitTracer(ctx, &config.TracingConfig{Enabled: true, Exporter: "stdout"})
	if err != nil {
		t.Fatalf("InitTracer(stdout) error = %v", err)
	}
	defer tp.Shutdown(ctx)

	_, span := tracing.StartSpan(ctx, "test.span", attribute.String("topic_id", "arrays"))
	if !span.SpanContext().IsValid() {
		t.Error("span context should be valid with an sdk provider")
	}
	span.End()
}

func TestInitTracer_UnknownExporter(t *testing.T) {
	_, err := tracing.InitTracer(context.Background(), &config.TracingConfig{Enabled: true, Exporter: "zipkin"})
	if err == nil {
		t.Error("InitTracer(zipkin) error = nil")
	}
}
