package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rosterd", Name: "http_requests_total", Help: "Handled HTTP requests",
	}, []string{"route", "method", "status"})
	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "rosterd", Name: "http_request_seconds", Help: "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	ReadinessScans = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "rosterd", Name: "readiness_scans_total", Help: "Batch readiness scans run",
	})
	ReadinessPairs = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "rosterd", Name: "readiness_pairs_evaluated_total", Help: "Member-position pairs evaluated",
	})
	ReadinessDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "rosterd", Name: "readiness_scan_seconds", Help: "Batch readiness scan duration",
		Buckets: prometheus.DefBuckets,
	})
	ExpiringCerts = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "rosterd", Name: "certifications_expiring", Help: "Certifications inside their course warn window",
	})
	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "rosterd", Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPDuration, ReadinessScans, ReadinessPairs, ReadinessDuration, ExpiringCerts, DBPing)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }

func ObserveHTTP(route, method string, status int, d time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(route).Observe(d.Seconds())
}

func ObserveScan(pairs int, d time.Duration) {
	ReadinessScans.Inc()
	ReadinessPairs.Add(float64(pairs))
	ReadinessDuration.Observe(d.Seconds())
}
