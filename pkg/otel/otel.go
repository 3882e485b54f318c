package otel

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/log/global"

	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
)

func Setup(ctx context.Context) error {
	if !EnableTelemetry {
		return nil
	}

	resource := sdkresource.Default()

	if err := setupTracer(ctx, resource); err != nil {
		return err
	}

	if err := setupMeter(ctx, resource); err != nil {
		return err
	}

	return setupLogger(ctx, resource)
}

func setupTracer(ctx context.Context, resource *sdkresource.Resource) error {
	var err error
	var exporter sdktrace.SpanExporter

	if useGRPC("OTEL_EXPORTER_OTLP_TRACES_PROTOCOL") {
		exporter, err = otlptracegrpc.New(ctx)
	} else {
		exporter, err = otlptracehttp.New(ctx)
	}

	if err != nil {
		return err
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(time.Second)),
		sdktrace.WithResource(resource),
	)

	otel.SetTracerProvider(provider)

	return nil
}

func setupMeter(ctx context.Context, resource *sdkresource.Resource) error {
	var err error
	var exporter sdkmetric.Exporter

	if useGRPC("OTEL_EXPORTER_OTLP_METRICS_PROTOCOL") {
		exporter, err = otlpmetricgrpc.New(ctx)
	} else {
		exporter, err = otlpmetrichttp.New(ctx)
	}

	if err != nil {
		return err
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(3*time.Second))),
		sdkmetric.WithResource(resource),
	)

	otel.SetMeterProvider(provider)

	return nil
}

func setupLogger(ctx context.Context, resource *sdkresource.Resource) error {
	var err error
	var exporter sdklog.Exporter

	if useGRPC("OTEL_EXPORTER_OTLP_LOGS_PROTOCOL") {
		exporter, err = otlploggrpc.New(ctx)
	} else {
		exporter, err = otlploghttp.New(ctx)
	}

	if err != nil {
		return err
	}

	provider := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
		sdklog.WithResource(resource),
	)

	global.SetLoggerProvider(provider)

	logger := otelslog.NewLogger(instrumentationName, otelslog.WithLoggerProvider(provider))
	slog.SetDefault(logger)

	return nil
}

func useGRPC(signal string) bool {
	if strings.ToLower(os.Getenv("OTEL_EXPORTER_OTLP_PROTOCOL")) == "grpc" {
		return true
	}

	return strings.ToLower(os.Getenv(signal)) == "grpc"
}
