package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/harborcare/opdflow"

// Metrics holds all application metrics
type Metrics struct {
	RequestCount        metric.Int64Counter
	RequestDuration     metric.Float64Histogram
	CheckInCount        metric.Int64Counter
	QueueDepth          metric.Int64Histogram
	ConsultationMinutes metric.Int64Histogram
}

// Setup initializes OpenTelemetry tracing
func Setup(ctx context.Context, serviceName, serviceVersion, endpoint string) (func(context.Context) error, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, err
	}

	traceExporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tracerProvider.Shutdown, nil
}

// InitMetrics initializes application metrics
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter(instrumentationName)

	requestCount, err := meter.Int64Counter(
		"http.server.request.count",
		metric.WithDescription("Number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("HTTP request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	checkInCount, err := meter.Int64Counter(
		"queue.checkin.count",
		metric.WithDescription("Number of patient check-ins"),
	)
	if err != nil {
		return nil, err
	}

	queueDepth, err := meter.Int64Histogram(
		"queue.depth",
		metric.WithDescription("Waiting-list size observed after each check-in"),
	)
	if err != nil {
		return nil, err
	}

	consultationMinutes, err := meter.Int64Histogram(
		"queue.consultation.minutes",
		metric.WithDescription("Actual consultation duration in minutes"),
		metric.WithUnit("min"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		RequestCount:        requestCount,
		RequestDuration:     requestDuration,
		CheckInCount:        checkInCount,
		QueueDepth:          queueDepth,
		ConsultationMinutes: consultationMinutes,
	}, nil
}

// StartSpan starts a new trace span
func StartSpan(ctx context.Context, spanName string) (context.Context, trace.Span) {
	tracer := otel.Tracer(instrumentationName)
	return tracer.Start(ctx, spanName)
}

// SetSpanAttributes sets attributes on a span
func SetSpanAttributes(span trace.Span, attrs ...attribute.KeyValue) {
	span.SetAttributes(attrs...)
}

// RecordRequestMetric records one HTTP request
func RecordRequestMetric(ctx context.Context, metrics *Metrics, method, route string, statusCode int, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("http.route", route),
		attribute.Int("http.status_code", statusCode),
	}

	metrics.RequestCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	metrics.RequestDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}

// RecordCheckIn records a completed check-in and the resulting queue depth
func RecordCheckIn(ctx context.Context, metrics *Metrics, departmentID string, depth int) {
	attrs := metric.WithAttributes(attribute.String("department_id", departmentID))
	metrics.CheckInCount.Add(ctx, 1, attrs)
	metrics.QueueDepth.Record(ctx, int64(depth), attrs)
}

// RecordConsultation records the actual duration of a completed consultation
func RecordConsultation(ctx context.Context, metrics *Metrics, doctorID string, minutes int) {
	metrics.ConsultationMinutes.Record(ctx, int64(minutes),
		metric.WithAttributes(attribute.String("doctor_id", doctorID)))
}
