package osc

import (
	"net"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Server represents an OSC server. The server listens on Addr for incoming
// OSC packets. Received packets flow to the notification port returned by
// Port and, when a Dispatcher is set, to its address-routed methods.
type Server struct {
	Addr        string
	ReadTimeout time.Duration

	// Options shape packet decoding.
	Options Options

	// Dispatcher, when set, receives every packet for address routing.
	Dispatcher *Dispatcher

	// Logger reports dropped packets and handler panics. The zero value
	// stays silent.
	Logger zerolog.Logger

	port     DatagramPort
	wireOnce sync.Once
}

// Port returns the server's notification port. Subscriptions can be added
// before the server starts serving.
func (s *Server) Port() *DatagramPort {
	return &s.port
}

// ListenAndServe listens on Addr and serves incoming OSC packets.
func (s *Server) ListenAndServe() error {
	ln, err := net.ListenPacket("udp", s.Addr)
	if err != nil {
		return err
	}
	defer ln.Close()

	return s.Serve(ln)
}

// Serve retrieves incoming OSC packets from the given connection and fans
// them out. It always returns a non-nil error, the one the connection read
// failed with.
func (s *Server) Serve(c net.PacketConn) error {
	s.wire()
	s.port.Ready()

	var tempDelay time.Duration
	for {
		data, addr, err := s.readFromConnection(c)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Temporary() {
				if tempDelay == 0 {
					tempDelay = 5 * time.Millisecond
				} else {
					tempDelay *= 2
				}
				if max := 1 * time.Second; tempDelay > max {
					tempDelay = max
				}
				s.Logger.Warn().Err(err).Dur("backoff", tempDelay).Msg("temporary read error")
				time.Sleep(tempDelay)
				continue
			}
			return err
		}
		tempDelay = 0
		go s.serve(data, addr)
	}
}

// wire connects decoding options, error logging and the dispatcher to the
// notification port. It runs once, on the first Serve call.
func (s *Server) wire() {
	s.wireOnce.Do(func() {
		s.port.Options = s.Options
		s.port.OnError(func(err error) {
			s.Logger.Warn().Err(err).Msg("dropping packet")
		})
		if s.Dispatcher != nil {
			s.Dispatcher.Attach(&s.port)
		}
	})
}

func (s *Server) serve(data []byte, addr net.Addr) {
	defer func() {
		if err := recover(); err != nil {
			buf := make([]byte, 64<<10)
			buf = buf[:runtime.Stack(buf, false)]
			s.Logger.Error().Stringer("remote", addr).Str("stack", string(buf)).Msgf("panic handling packet: %v", err)
		}
	}()

	s.port.Datagram(data, Info{Addr: addr})
}

// ReceivePacket reads and decodes a single packet from the connection.
func (s *Server) ReceivePacket(c net.PacketConn) (Packet, net.Addr, error) {
	data, addr, err := s.readFromConnection(c)
	if err != nil {
		return nil, addr, err
	}

	p, err := DecodePacket(data, s.Options)
	return p, addr, err
}

// readFromConnection reads one datagram and returns a copy of its payload.
func (s *Server) readFromConnection(c net.PacketConn) ([]byte, net.Addr, error) {
	if s.ReadTimeout != 0 {
		if err := c.SetReadDeadline(time.Now().Add(s.ReadTimeout)); err != nil {
			return nil, nil, err
		}
	}

	b := bPool.Get().(*[]byte)
	defer bPool.Put(b)

	n, a, err := c.ReadFrom(*b)
	if err != nil {
		return nil, a, err
	}
	data := make([]byte, n)
	copy(data, *b)

	return data, a, nil
}

// ListenAndServe listens on addr and calls handler for every received OSC
// packet.
func ListenAndServe(addr string, handler PacketHandler) error {
	s := &Server{Addr: addr}
	s.Port().OnPacket(handler)
	return s.ListenAndServe()
}
