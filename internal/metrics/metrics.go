// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hotel_http_requests_total",
		Help: "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hotel_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	Ocupaciones = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hotel_ocupaciones_total",
		Help: "Occupancy lifecycle events (reservada, pausada, reanudada, finalizada, anulada).",
	}, []string{"evento"})

	Consumos = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hotel_consumos_total",
		Help: "Consumption lines recorded.",
	})

	StockInsuficiente = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hotel_stock_insuficiente_total",
		Help: "Deductions rejected for insufficient stock.",
	})

	Cierres = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hotel_cierres_total",
		Help: "Cash register closures performed.",
	})

	Jobs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hotel_jobs_total",
		Help: "Background jobs processed by type and result.",
	}, []string{"tipo", "resultado"})

	Alertas = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hotel_alertas_total",
		Help: "Occupancy alerts enqueued by type.",
	}, []string{"tipo"})
)
