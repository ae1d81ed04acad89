package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type prometheusClient struct {
	reqCnt            *prometheus.CounterVec
	resSz             *prometheus.SummaryVec
	reqDur            *prometheus.SummaryVec
	reqSz             *prometheus.SummaryVec
	up                *prometheus.GaugeVec
	storageOpsTotal   *prometheus.CounterVec
	gateRejectedTotal *prometheus.CounterVec
	hashOutcomeTotal  *prometheus.CounterVec
	gzipTotal         prometheus.Counter
	wsUpgradeTotal    prometheus.Counter
	succeedWebhooks   *prometheus.CounterVec
	failedWebhooks    *prometheus.CounterVec
}

// Instrument will instrument http routes.
func (cl *prometheusClient) Instrument(serverLabel string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Begin timer
			start := time.Now()
			// Calculate request size
			reqSz := computeApproximateRequestSize(r)

			// Next request with new response writer
			sw := statusWriter{ResponseWriter: w}
			next.ServeHTTP(&sw, r)

			// Get status as string
			status := strconv.Itoa(sw.status)
			// Calculate request time
			elapsed := float64(time.Since(start)) / float64(time.Second)
			// Get response size
			resSz := float64(sw.length)

			// Manage prometheus metrics
			cl.reqDur.WithLabelValues(serverLabel, status, r.Method, r.Host).Observe(elapsed)
			cl.reqCnt.WithLabelValues(serverLabel, status, r.Method, r.Host).Inc()
			cl.reqSz.WithLabelValues(serverLabel, status, r.Method, r.Host).Observe(float64(reqSz))
			cl.resSz.WithLabelValues(serverLabel, status, r.Method, r.Host).Observe(resSz)
		})
	}
}

// GetExposeHandler Get handler to expose metrics for request.
func (*prometheusClient) GetExposeHandler() http.Handler {
	return promhttp.Handler()
}

// IncStorageOperations Increment static storage operation counter.
func (cl *prometheusClient) IncStorageOperations(backend, operation string) {
	cl.storageOpsTotal.WithLabelValues(backend, operation).Inc()
}

// IncGateRejection Increment gate rejection counter.
func (cl *prometheusClient) IncGateRejection(kind string) {
	cl.gateRejectedTotal.WithLabelValues(kind).Inc()
}

// IncHashCacheOutcome Increment hash cache decision counter.
func (cl *prometheusClient) IncHashCacheOutcome(outcome string) {
	cl.hashOutcomeTotal.WithLabelValues(outcome).Inc()
}

// IncGzipCompressed Increment compressed response counter.
func (cl *prometheusClient) IncGzipCompressed() {
	cl.gzipTotal.Inc()
}

// IncWebsocketUpgrade Increment accepted websocket upgrade counter.
func (cl *prometheusClient) IncWebsocketUpgrade() {
	cl.wsUpgradeTotal.Inc()
}

func (cl *prometheusClient) IncSucceedWebhooks(eventName string) {
	cl.succeedWebhooks.WithLabelValues(eventName).Inc()
}

func (cl *prometheusClient) IncFailedWebhooks(eventName string) {
	cl.failedWebhooks.WithLabelValues(eventName).Inc()
}

func (cl *prometheusClient) register() {
	cl.reqCnt = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "How many HTTP requests have been processed ?",
		},
		[]string{"server", "status_code", "method", "host"},
	)
	prometheus.MustRegister(cl.reqCnt)

	cl.reqDur = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name: "http_request_duration_seconds",
			Help: "The HTTP request latencies in seconds.",
		},
		[]string{"server", "status_code", "method", "host"},
	)
	prometheus.MustRegister(cl.reqDur)

	cl.reqSz = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name: "http_request_size_bytes",
			Help: "The HTTP request sizes in bytes.",
		},
		[]string{"server", "status_code", "method", "host"},
	)
	prometheus.MustRegister(cl.reqSz)

	cl.resSz = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name: "http_response_size_bytes",
			Help: "The HTTP response sizes in bytes.",
		},
		[]string{"server", "status_code", "method", "host"},
	)
	prometheus.MustRegister(cl.resSz)

	cl.up = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "up",
			Help: "1 = up, 0 = down",
		},
		[]string{"component"},
	)
	cl.up.WithLabelValues("webstone").Set(1)
	prometheus.MustRegister(cl.up)

	cl.storageOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storage_operations_total",
			Help: "How many operations are generated to static storage in total ?",
		},
		[]string{"backend", "operation"},
	)
	prometheus.MustRegister(cl.storageOpsTotal)

	cl.gateRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gate_rejected_total",
			Help: "How many requests have been rejected by the auth/CSRF gate ?",
		},
		[]string{"kind"},
	)
	prometheus.MustRegister(cl.gateRejectedTotal)

	cl.hashOutcomeTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hash_cache_outcome_total",
			Help: "How many hash cache decisions have been taken, by outcome ?",
		},
		[]string{"outcome"},
	)
	prometheus.MustRegister(cl.hashOutcomeTotal)

	cl.gzipTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gzip_compressed_total",
			Help: "How many response bodies have been gzip compressed ?",
		},
	)
	prometheus.MustRegister(cl.gzipTotal)

	cl.wsUpgradeTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_upgrades_total",
			Help: "How many websocket upgrades have been accepted ?",
		},
	)
	prometheus.MustRegister(cl.wsUpgradeTotal)

	cl.succeedWebhooks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "succeed_webhooks_total",
			Help: "How many webhooks have been succeed ?",
		},
		[]string{"event_name"},
	)
	prometheus.MustRegister(cl.succeedWebhooks)

	cl.failedWebhooks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "failed_webhooks_total",
			Help: "How many webhooks have been failed ?",
		},
		[]string{"event_name"},
	)
	prometheus.MustRegister(cl.failedWebhooks)
}

func computeApproximateRequestSize(r *http.Request) int {
	s := 0
	if r.URL != nil {
		s = len(r.URL.Path)
	}

	s += len(r.Method)
	s += len(r.Proto)

	for name, values := range r.Header {
		s += len(name)
		for _, value := range values {
			s += len(value)
		}
	}

	s += len(r.Host)

	// N.B. r.Form and r.MultipartForm are assumed to be included in r.URL.

	if r.ContentLength != -1 {
		s += int(r.ContentLength)
	}

	return s
}
