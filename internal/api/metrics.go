// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	otelprometheus "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	otelresource "go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.22.0"

	"github.com/platform-engineering-labs/panier"
)

// Metrics owns the registry served on /metrics. Besides the request metrics it
// carries an OTel meter provider exporting into the same registry, which the
// datastore instrumentation records into.
type Metrics struct {
	registry      *prometheus.Registry
	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	meterProvider *sdkmetric.MeterProvider
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "panier",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Number of API requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "panier",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "API request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	registry.MustRegister(m.requests, m.duration)

	m.meterProvider = newMeterProvider(registry)

	return m
}

func newMeterProvider(registry *prometheus.Registry) *sdkmetric.MeterProvider {
	exporter, err := otelprometheus.New(otelprometheus.WithRegisterer(registry))
	if err != nil {
		slog.Error("failed to create Prometheus exporter", "error", err)
		return nil
	}

	res, err := otelresource.New(context.Background(),
		otelresource.WithAttributes(
			semconv.ServiceNameKey.String("panier-agent"),
			semconv.ServiceVersionKey.String(panier.Version),
		),
	)
	if err != nil {
		slog.Error("failed to create resource for OTel", "error", err)
		return nil
	}

	return sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(res),
	)
}

// MeterProvider falls back to the global provider when the exporter could not be set up.
func (m *Metrics) MeterProvider() metric.MeterProvider {
	if m.meterProvider == nil {
		return otel.GetMeterProvider()
	}
	return m.meterProvider
}

func (m *Metrics) Shutdown(ctx context.Context) {
	if m.meterProvider == nil {
		return
	}
	if err := m.meterProvider.Shutdown(ctx); err != nil {
		slog.Error("failed to shut down MeterProvider", "error", err)
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Path() == MetricsRoute {
				return next(c)
			}

			start := time.Now()
			err := next(c)
			if err != nil {
				// let echo write the error response so the recorded code is the real one
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			m.requests.WithLabelValues(c.Request().Method, route, strconv.Itoa(c.Response().Status)).Inc()
			m.duration.WithLabelValues(c.Request().Method, route).Observe(time.Since(start).Seconds())

			return nil
		}
	}
}
