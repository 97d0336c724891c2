// Package telemetry, OpenTelemetry dağıtık izleme kurulumunu sağlar. İzler
// OTLP/gRPC ile bir collector'a (Tempo, Jaeger vb.) gönderilir. Kapalıyken
// global no-op provider kullanılır; middleware ve log hook'u yine çalışır
// ama span üretmez.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// Config, tracing ayarlarıdır.
type Config struct {
	Enabled     bool
	ServiceName string
	Version     string
	Environment string
	// Endpoint, OTLP gRPC alıcısıdır, örn. "tempo:4317".
	Endpoint string
	Insecure bool
	// SampleRatio 0.0 ile 1.0 arasıdır.
	SampleRatio float64
}

// Telemetry, tracer provider'ı ve yaşam döngüsünü tutar.
type Telemetry struct {
	config         Config
	tracerProvider *sdktrace.TracerProvider
	tracer         trace.Tracer
}

// New, config'e göre tracing'i başlatır ve global provider'ı ayarlar.
func New(ctx context.Context, cfg Config) (*Telemetry, error) {
	if cfg.ServiceName == "" {
		cfg.ServiceName = "intelliview-api"
	}
	if !cfg.Enabled {
		return &Telemetry{
			config: cfg,
			tracer: otel.Tracer(cfg.ServiceName),
		}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("telemetry: create OTLP exporter for %s: %w", cfg.Endpoint, err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.Version),
			attribute.String("environment", cfg.Environment),
		),
		resource.WithHost(),
		resource.WithProcess(),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(Sampler(cfg.SampleRatio))),
	)
	Install(tp)

	return &Telemetry{
		config:         cfg,
		tracerProvider: tp,
		tracer:         tp.Tracer(cfg.ServiceName),
	}, nil
}

// Install, provider'ı ve W3C propagator'larını global olarak ayarlar.
func Install(tp trace.TracerProvider) {
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
}

// Sampler, oran için sampler döndürür. 1 ve üstü her şeyi, 0 ve altı
// hiçbir şeyi örnekler.
func Sampler(ratio float64) sdktrace.Sampler {
	switch {
	case ratio >= 1:
		return sdktrace.AlwaysSample()
	case ratio <= 0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.TraceIDRatioBased(ratio)
	}
}

// Tracer, span oluşturmak için tracer'ı döndürür.
func (t *Telemetry) Tracer() trace.Tracer {
	return t.tracer
}

// ServiceName, span'lerde kullanılan servis adıdır.
func (t *Telemetry) ServiceName() string {
	return t.config.ServiceName
}

// IsEnabled, tracing'in açık olup olmadığını döndürür.
func (t *Telemetry) IsEnabled() bool {
	return t.tracerProvider != nil
}

// Shutdown, bekleyen span'leri gönderir ve provider'ı kapatır.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t.tracerProvider == nil {
		return nil
	}
	return t.tracerProvider.Shutdown(ctx)
}

// TraceIDFromContext, context'teki trace ID'yi döndürür; yoksa "".
func TraceIDFromContext(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}
