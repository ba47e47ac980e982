package relayd

import "sync/atomic"

// Status is a point-in-time snapshot of relay activity, served by the
// admin API.
type Status struct {
	RelayedAToB int64 `json:"relayed_a_to_b"`
	RelayedBToA int64 `json:"relayed_b_to_a"`
	BytesAToB   int64 `json:"bytes_a_to_b"`
	BytesBToA   int64 `json:"bytes_b_to_a"`
	ErrorsAToB  int64 `json:"errors_a_to_b"`
	ErrorsBToA  int64 `json:"errors_b_to_a"`
}

// Counters tracks relay activity for the admin surface. Every update also
// feeds the prometheus metrics, so /status and /metrics report the same
// numbers.
type Counters struct {
	relayedAB atomic.Int64
	relayedBA atomic.Int64
	bytesAB   atomic.Int64
	bytesBA   atomic.Int64
	errorsAB  atomic.Int64
	errorsBA  atomic.Int64
}

// Relayed records one packet of the given size moving in the given
// direction.
func (c *Counters) Relayed(direction string, size int) {
	RecordRelayed(direction, size)
	switch direction {
	case DirectionAB:
		c.relayedAB.Add(1)
		c.bytesAB.Add(int64(size))
	case DirectionBA:
		c.relayedBA.Add(1)
		c.bytesBA.Add(int64(size))
	}
}

// Error records a relay error in the given direction and stage.
func (c *Counters) Error(direction, stage string) {
	RecordRelayError(direction, stage)
	switch direction {
	case DirectionAB:
		c.errorsAB.Add(1)
	case DirectionBA:
		c.errorsBA.Add(1)
	}
}

// Snapshot returns the current counter values.
func (c *Counters) Snapshot() Status {
	return Status{
		RelayedAToB: c.relayedAB.Load(),
		RelayedBToA: c.relayedBA.Load(),
		BytesAToB:   c.bytesAB.Load(),
		BytesBToA:   c.bytesBA.Load(),
		ErrorsAToB:  c.errorsAB.Load(),
		ErrorsBToA:  c.errorsBA.Load(),
	}
}
