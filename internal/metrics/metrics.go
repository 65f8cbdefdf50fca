// Package metrics holds the Prometheus collectors of the language server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ParseDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sitter_lsp_parse_seconds",
		Help:    "Time spent parsing a document.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	ScopeBuildDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sitter_lsp_scope_build_seconds",
		Help:    "Time spent building and resolving one document's scope tree.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	OpenDocuments = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sitter_lsp_open_documents",
		Help: "Number of documents currently held by the workspace.",
	})

	PublicDeclarations = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sitter_lsp_public_declarations",
		Help: "Number of distinct names in the public declaration index.",
	})

	DiagnosticsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sitter_lsp_diagnostics_published_total",
		Help: "Diagnostics sent to the client, by code.",
	}, []string{"code"})

	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sitter_lsp_requests_total",
		Help: "Provider calls, by method.",
	}, []string{"method"})

	ProviderPanics = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sitter_lsp_provider_panics_total",
		Help: "Provider calls that panicked and were recovered, by method.",
	}, []string{"method"})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
