package observability

// https://opentelemetry.io/docs/languages/go/exporters/

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/sdk/metric"

	"github.com/benz9527/xtree/lib/infra"
)

type MetricsExporter string

const (
	NoneMetricsExporter       MetricsExporter = "none"
	ConsoleMetricsExporter    MetricsExporter = "console"
	PrometheusMetricsExporter MetricsExporter = "prometheus"
)

func ParseMetricsExporter(name string) (MetricsExporter, error) {
	switch exp := MetricsExporter(strings.ToLower(strings.TrimSpace(name))); exp {
	case "", NoneMetricsExporter:
		return NoneMetricsExporter, nil
	case ConsoleMetricsExporter, PrometheusMetricsExporter:
		return exp, nil
	default:
	}
	return NoneMetricsExporter, infra.NewErrorStack("[xtree] unknown metrics exporter " + name)
}

type exporterConfig struct {
	interval time.Duration
	timeout  time.Duration
	writer   io.Writer
}

type ExporterOption func(*exporterConfig)

func WithExportInterval(interval time.Duration) ExporterOption {
	return func(cfg *exporterConfig) {
		if interval > 0 {
			cfg.interval = interval
		}
	}
}

func WithExportTimeout(timeout time.Duration) ExporterOption {
	return func(cfg *exporterConfig) {
		if timeout > 0 {
			cfg.timeout = timeout
		}
	}
}

// WithExportWriter replaces stdout for the console exporter.
func WithExportWriter(w io.Writer) ExporterOption {
	return func(cfg *exporterConfig) {
		cfg.writer = w
	}
}

// SetupMetricsExporter installs the global meter provider. The returned
// callback flushes and shuts it down.
func SetupMetricsExporter(exp MetricsExporter, opts ...ExporterOption) (func(ctx context.Context) error, error) {
	cfg := &exporterConfig{
		interval: 10 * time.Second,
		timeout:  5 * time.Second,
	}
	for _, o := range opts {
		if o != nil {
			o(cfg)
		}
	}
	switch exp {
	case ConsoleMetricsExporter:
		stdOpts := []stdoutmetric.Option{stdoutmetric.WithPrettyPrint()}
		if cfg.writer != nil {
			stdOpts = append(stdOpts, stdoutmetric.WithWriter(cfg.writer))
		}
		return newConsoleMetricsExporter(cfg.interval, cfg.timeout, stdOpts...)
	case PrometheusMetricsExporter:
		return newPrometheusMetricsExporter()
	default:
	}
	return func(ctx context.Context) error { return nil }, nil
}

// Serves for test/dev environment.
func newConsoleMetricsExporter(interval, timeout time.Duration, opts ...stdoutmetric.Option) (func(ctx context.Context) error, error) {
	exporter, err := stdoutmetric.New(opts...)
	if err != nil {
		return nil, err
	}
	mp := metric.NewMeterProvider(metric.WithReader(metric.NewPeriodicReader(
		exporter,
		metric.WithInterval(interval),
		metric.WithTimeout(timeout),
	)))
	callback := mp.Shutdown
	otel.SetMeterProvider(mp)
	return callback, nil
}

// Serves for the product environment and fetch stats metrics by HTTP.
func newPrometheusMetricsExporter() (func(ctx context.Context) error, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, err
	}
	mp := metric.NewMeterProvider(metric.WithReader(exporter))
	callback := mp.Shutdown
	otel.SetMeterProvider(mp)
	return callback, nil
}

// PrometheusHandler serves the default registry the prometheus
// exporter registers to.
func PrometheusHandler() http.Handler {
	return promhttp.Handler()
}
