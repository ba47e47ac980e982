package osc

import (
	"fmt"
	"sync"
)

// Transform rewrites packets crossing a Relay. Returning nil drops the
// packet.
type Transform func(p Packet) Packet

// TransformAddress lifts an address rewriter into a Transform that applies
// to bare messages and, recursively, to every message inside a bundle.
// Time tags and arguments pass through untouched.
func TransformAddress(f func(addr string) string) Transform {
	var apply func(p Packet) Packet
	apply = func(p Packet) Packet {
		switch t := p.(type) {
		case *Message:
			return &Message{Address: f(t.Address), Arguments: t.Arguments}
		case *Bundle:
			b := &Bundle{Timetag: t.Timetag, Elements: make([]Packet, 0, len(t.Elements))}
			for _, elem := range t.Elements {
				b.Elements = append(b.Elements, apply(elem))
			}
			return b
		}
		return p
	}
	return apply
}

// Relay forwards packets between two ports in both directions. A packet
// received on one port goes out the other, never back to where it came
// from. An optional Transform rewrites packets in flight.
type Relay struct {
	detach []func()
	once   sync.Once
}

// NewRelay binds a and b together until Close is called.
func NewRelay(a, b Port, transform Transform) *Relay {
	r := &Relay{}
	r.detach = append(r.detach,
		a.OnPacket(forward(a, b, transform)),
		b.OnPacket(forward(b, a, transform)),
	)
	return r
}

// forward builds the handler that moves packets from src to dst. Send
// failures surface on the src port, whose consumers own the packet.
func forward(src, dst Port, transform Transform) PacketHandler {
	return func(p Packet, info Info) {
		if transform != nil {
			if p = transform(p); p == nil {
				return
			}
		}
		if err := dst.Send(p); err != nil {
			src.DeliverError(fmt.Errorf("relay: %w", err))
		}
	}
}

// Close detaches the relay from both ports. The ports stay open.
func (r *Relay) Close() error {
	r.once.Do(func() {
		for _, d := range r.detach {
			d()
		}
	})
	return nil
}
