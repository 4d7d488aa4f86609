// Package metrics records request and auth recovery observations in prometheus.
package metrics

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/joy-dx/authnet/dto"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"
)

// StatusNetworkError labels requests that never got a response.
const StatusNetworkError = "network_error"

// Recorder implements dto.NetMetrics.
type Recorder struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	recoveriesTotal *prometheus.CounterVec
}

var _ dto.NetMetrics = (*Recorder)(nil)

// NewRecorder registers the collectors on reg. A nil reg uses the default registerer.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Recorder{
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authnet_requests_total",
				Help: "Total number of HTTP requests sent, including replays",
			},
			[]string{"method", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "authnet_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		recoveriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authnet_auth_recoveries_total",
				Help: "Total number of 401 recovery attempts by outcome",
			},
			[]string{"outcome"},
		),
	}
}

// ObserveRequest status 0 means the transport failed.
func (r *Recorder) ObserveRequest(method string, status int, elapsed time.Duration) {
	label := StatusNetworkError
	if status > 0 {
		label = strconv.Itoa(status)
	}
	r.requestsTotal.WithLabelValues(method, label).Inc()
	r.requestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

func (r *Recorder) ObserveRecovery(outcome dto.RecoveryOutcome) {
	r.recoveriesTotal.WithLabelValues(string(outcome)).Inc()
}

// Handler serves the gathered metrics for scraping.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// WriteText dumps every gathered family in the text exposition format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
