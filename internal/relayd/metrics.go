package relayd

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Relay directions, used as metric label values and counter keys.
const (
	DirectionAB = "a_to_b"
	DirectionBA = "b_to_a"
)

// Error stages, the phase of relaying an error was raised in.
const (
	StageDecode  = "decode"
	StageForward = "forward"
)

var (
	registerOnce sync.Once

	packetsRelayed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "osckit",
			Subsystem: "relay",
			Name:      "packets_total",
			Help:      "Packets accepted for relaying, by direction.",
		},
		[]string{"direction"},
	)
	relayErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "osckit",
			Subsystem: "relay",
			Name:      "errors_total",
			Help:      "Relay errors by direction and stage.",
		},
		[]string{"direction", "stage"},
	)
	packetBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "osckit",
			Subsystem: "relay",
			Name:      "packet_bytes",
			Help:      "Size of relayed packets in bytes.",
			Buckets:   prometheus.ExponentialBuckets(16, 2, 12),
		},
		[]string{"direction"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(packetsRelayed, relayErrors, packetBytes)
	})
}

func RecordRelayed(direction string, size int) {
	RegisterMetrics()
	packetsRelayed.WithLabelValues(direction).Inc()
	packetBytes.WithLabelValues(direction).Observe(float64(size))
}

func RecordRelayError(direction, stage string) {
	RegisterMetrics()
	relayErrors.WithLabelValues(direction, stage).Inc()
}
