package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Quote outcome label values.
const (
	resultOK                 = "ok"
	resultUnknownProductType = "unknown_product_type"
	resultError              = "error"
)

// Metrics groups the Prometheus collectors for the pricing API.
type Metrics struct {
	QuotesTotal *prometheus.CounterVec
	QuotePrice  *prometheus.HistogramVec
	ReqTotal    *prometheus.CounterVec
	ReqDur      *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// NewMetrics creates and registers the pricing collectors. A nil registry
// uses the Prometheus default registry.
func NewMetrics(namespace string, reg *prometheus.Registry) *Metrics {
	var registerer prometheus.Registerer = prometheus.DefaultRegisterer
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if reg != nil {
		registerer, gatherer = reg, reg
	}

	m := &Metrics{
		QuotesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quotes_total",
			Help:      "Count of price quotes by product type and outcome.",
		}, []string{"product_type", "result"}),
		QuotePrice: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "quote_price",
			Help:      "Distribution of final quoted prices.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000},
		}, []string{"product_type"}),
		ReqTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests handled by the server.",
		}, []string{"method", "route", "status"}),
		ReqDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency distribution in milliseconds.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}, []string{"method", "route"}),
		gatherer: gatherer,
	}

	mustRegisterCounter(registerer, &m.QuotesTotal)
	mustRegisterHistogram(registerer, &m.QuotePrice)
	mustRegisterCounter(registerer, &m.ReqTotal)
	mustRegisterHistogram(registerer, &m.ReqDur)
	return m
}

// ObserveQuote records a quote outcome. price is only observed on success.
func (m *Metrics) ObserveQuote(productType, result string, price float64) {
	if m == nil {
		return
	}
	m.QuotesTotal.WithLabelValues(productType, result).Inc()
	if result == resultOK {
		m.QuotePrice.WithLabelValues(productType).Observe(price)
	}
}

// Middleware records request counts and latency per route.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := routePattern(r)
		m.ReqTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.ReqDur.WithLabelValues(r.Method, route).Observe(float64(time.Since(start)) / float64(time.Millisecond))
	})
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func mustRegisterCounter(reg prometheus.Registerer, c **prometheus.CounterVec) {
	if err := reg.Register(*c); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			panic(fmt.Errorf("register counter: %w", err))
		}
		if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
			*c = existing
		}
	}
}

func mustRegisterHistogram(reg prometheus.Registerer, h **prometheus.HistogramVec) {
	if err := reg.Register(*h); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			panic(fmt.Errorf("register histogram: %w", err))
		}
		if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
			*h = existing
		}
	}
}
