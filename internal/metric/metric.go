package metric

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "relay_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status"},
	)

	wsActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "relay_ws_active_connections",
			Help: "Open WebSocket connections",
		},
	)

	activeRooms = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "relay_active_rooms",
			Help: "Rooms currently held in memory",
		},
	)

	pipelinesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_pipelines_total",
			Help: "Message pipelines by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	collaboratorDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "relay_collaborator_duration_seconds",
			Help:    "Latency of recognition, translation and synthesis calls",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"op", "status"},
	)

	shortCircuitTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_translation_short_circuit_total",
			Help: "Messages whose source and target language matched",
		},
	)
)

func RecordHTTPMetrics(method, endpoint string, status int, duration time.Duration) {
	s := strconv.Itoa(status)
	httpRequestsTotal.WithLabelValues(method, endpoint, s).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint, s).Observe(duration.Seconds())
}

func IncrementWSActiveConnections() { wsActiveConnections.Inc() }
func DecrementWSActiveConnections() { wsActiveConnections.Dec() }

func SetActiveRooms(n int) { activeRooms.Set(float64(n)) }

// RecordPipeline counts one finished pipeline. outcome is "complete",
// "error" or "rejected".
func RecordPipeline(kind, outcome string) {
	pipelinesTotal.WithLabelValues(kind, outcome).Inc()
}

func ObserveCollaborator(op string, err error, d time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	collaboratorDuration.WithLabelValues(op, status).Observe(d.Seconds())
}

func IncrementShortCircuit() { shortCircuitTotal.Inc() }
