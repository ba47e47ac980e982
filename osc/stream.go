package osc

import (
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/dougfinl/osckit/slip"
)

// StreamPort adapts byte-stream transports such as TCP connections or
// serial lines to the notification surface, using SLIP framing on both
// directions. Received chunks of any size go to Push; every completed frame
// decodes to one packet. Send writes one SLIP frame per packet to W.
type StreamPort struct {
	Notifier

	// Options shape decoding of received frames.
	Options Options

	// W carries outgoing frames. A nil W makes Send fail.
	W io.Writer

	// Peer, when set, is reported as the source of received packets.
	Peer net.Addr

	mu  sync.Mutex
	dec slip.Decoder
}

// Verify that StreamPort implements the Port interface.
var _ Port = (*StreamPort)(nil)

// Push feeds received bytes to the framing layer. Chunks may split frames,
// escape sequences and packets at any byte. Framing and decode failures go
// to the error handlers; framing resumes at the next frame boundary.
func (p *StreamPort) Push(chunk []byte) {
	p.mu.Lock()
	frames, err := p.dec.Decode(chunk)
	p.mu.Unlock()

	if err != nil {
		p.DeliverError(fmt.Errorf("StreamPort: %w", err))
	}

	info := Info{Addr: p.Peer}
	for _, frame := range frames {
		pkt, err := DecodePacket(frame, p.Options)
		if err != nil {
			p.DeliverError(fmt.Errorf("StreamPort: %w", err))
			continue
		}
		p.Deliver(pkt, frame, info)
	}
}

// Send encodes pkt and writes it to W as one SLIP frame.
func (p *StreamPort) Send(pkt Packet) error {
	if p.W == nil {
		return fmt.Errorf("StreamPort.Send: port has no writer")
	}

	data, err := pkt.MarshalBinary()
	if err != nil {
		return fmt.Errorf("StreamPort.Send: %w", err)
	}

	if _, err := p.W.Write(slip.Encode(data)); err != nil {
		return fmt.Errorf("StreamPort.Send: %w", err)
	}
	return nil
}

// Close drops every subscription and any partially received frame.
func (p *StreamPort) Close() error {
	p.mu.Lock()
	p.dec.Reset()
	p.mu.Unlock()

	return p.Notifier.Close()
}
