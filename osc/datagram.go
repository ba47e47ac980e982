package osc

import "fmt"

// DatagramPort adapts packet-per-datagram transports to the notification
// surface. The owner of the socket feeds received datagrams to Datagram and
// provides Out for transmission, keeping the port free of socket lifecycle
// concerns.
type DatagramPort struct {
	Notifier

	// Options shape decoding of received datagrams.
	Options Options

	// Out transmits one encoded packet. A nil Out makes Send fail.
	Out func(data []byte) error
}

// Verify that DatagramPort implements the Port interface.
var _ Port = (*DatagramPort)(nil)

// Datagram decodes one received datagram and fans it out. Decode failures
// go to the error handlers.
func (p *DatagramPort) Datagram(data []byte, info Info) {
	pkt, err := DecodePacket(data, p.Options)
	if err != nil {
		p.DeliverError(fmt.Errorf("DatagramPort: %w", err))
		return
	}
	p.Deliver(pkt, data, info)
}

// Send encodes pkt and hands it to Out as a single datagram.
func (p *DatagramPort) Send(pkt Packet) error {
	if p.Out == nil {
		return fmt.Errorf("DatagramPort.Send: port has no transmitter")
	}

	data, err := pkt.MarshalBinary()
	if err != nil {
		return fmt.Errorf("DatagramPort.Send: %w", err)
	}
	if len(data) > MaxPacketSize {
		return fmt.Errorf("DatagramPort.Send: packet of %d bytes exceeds MaxPacketSize", len(data))
	}

	return p.Out(data)
}
