package api

import (
	"runtime"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"

	"github.com/pkgsel/pkgsel/catalog"
	"github.com/pkgsel/pkgsel/pkgsel"
)

var (
	apiRequestsInFlightGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pkgsel_api_http_requests_in_flight",
			Help: "Number of concurrent HTTP api requests currently handled.",
		},
		[]string{"method", "path"},
	)
	apiRequestsTotalCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pkgsel_api_http_requests_total",
			Help: "Total number of api requests.",
		},
		[]string{"code", "method", "path"},
	)
	apiResponseSizeSummary = promauto.NewSummaryVec(
		prometheus.SummaryOpts{
			Name: "pkgsel_api_http_response_size_bytes",
			Help: "Api HTTP response size in bytes.",
		},
		[]string{"code", "method", "path"},
	)
	apiRequestsDurationSummary = promauto.NewSummaryVec(
		prometheus.SummaryOpts{
			Name: "pkgsel_api_http_request_duration_seconds",
			Help: "Duration of api requests in seconds.",
		},
		[]string{"code", "method", "path"},
	)
	apiVersionGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pkgsel_build_info",
			Help: "Metric with a constant '1' value labeled by version and goversion from which pkgsel was built.",
		},
		[]string{"version", "goversion"},
	)
	queryEvaluations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pkgsel_query_evaluations_total",
			Help: "Number of queries evaluated via api, labeled by outcome.",
		},
		[]string{"outcome"},
	)
	apiRecordsGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pkgsel_repo_packages",
			Help: "Number of packages in catalog per repository.",
		},
		[]string{"repo"},
	)
)

type metricsCollectorRegistrar struct {
	hasRegistered bool
}

func (r *metricsCollectorRegistrar) Register(router *gin.Engine) {
	if !r.hasRegistered {
		apiVersionGauge.WithLabelValues(pkgsel.Version, runtime.Version()).Set(1)
		router.Use(instrumentHandlerInFlight(apiRequestsInFlightGauge, getBasePath))
		router.Use(instrumentHandlerCounter(apiRequestsTotalCounter, getBasePath))
		router.Use(instrumentHandlerResponseSize(apiResponseSizeSummary, getBasePath))
		router.Use(instrumentHandlerDuration(apiRequestsDurationSummary, getBasePath))
		r.hasRegistered = true
	}
}

// MetricsCollectorRegistrar installs instrumentation middleware once per process
var MetricsCollectorRegistrar = metricsCollectorRegistrar{hasRegistered: false}

func countRecordsByRepo() {
	list, err := context.Catalog()
	if err != nil {
		log.Warn().Err(err).Msg("unable to load catalog for metrics")
		return
	}

	counts := map[string]int{}
	_ = list.ForEach(func(r catalog.Record) error {
		for _, repo := range r[catalog.AttrRepo] {
			counts[repo]++
		}
		return nil
	})

	apiRecordsGauge.Reset()
	for repo, count := range counts {
		apiRecordsGauge.WithLabelValues(repo).Set(float64(count))
	}
}
