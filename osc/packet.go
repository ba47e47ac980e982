package osc

import (
	"bytes"
	"encoding"
	"fmt"
)

// MaxPacketSize is the largest packet accepted or produced, the maximum UDP
// payload that fits an IPv4 datagram without fragmentation.
const MaxPacketSize = 65507

// Packet is the interface for Message and Bundle.
type Packet interface {
	encoding.BinaryMarshaler
}

// ParsePacket parses a raw packet with DefaultOptions.
func ParsePacket(data []byte) (Packet, error) {
	return DecodePacket(data, DefaultOptions())
}

// DecodePacket parses a raw packet under the given options. The leading
// bytes route the buffer: the padded "#bundle" marker opens a bundle and a
// leading '/' opens a message. Anything else fails with ErrInvalidPacket,
// unless the mode is lenient, in which case the buffer is still read as a
// message.
func DecodePacket(data []byte, opts Options) (Packet, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("DecodePacket: %w: empty packet", ErrTruncated)
	}
	if opts.Mode != Lenient && len(data)%bit32Size != 0 {
		return nil, fmt.Errorf("DecodePacket: %w: length %d is not 32-bit aligned", ErrInvalidPacket, len(data))
	}

	r := &reader{data: data, mode: opts.Mode}
	return parsePacket(r, opts, 0)
}

// parsePacket routes one packet buffer, already bounded by its caller.
func parsePacket(r *reader, opts Options, depth int) (Packet, error) {
	if r.len() == 0 {
		return nil, fmt.Errorf("parsePacket: %w: empty packet", ErrTruncated)
	}

	switch {
	case bytes.HasPrefix(r.data[r.off:], bundleMarker[:]):
		b := &Bundle{}
		if err := b.unmarshal(r, opts, depth); err != nil {
			return nil, err
		}
		return b, nil

	case r.data[r.off] == '/' || opts.Mode == Lenient:
		m := &Message{}
		if err := m.unmarshal(r, opts); err != nil {
			return nil, err
		}
		return m, nil

	default:
		return nil, fmt.Errorf("parsePacket: %w: leading byte %q", ErrInvalidPacket, r.data[r.off])
	}
}
