// Package relayd implements a bidirectional OSC relay. Two UDP listeners
// are bridged so packets arriving on one side are forwarded out the other,
// with prometheus metrics and a small gin admin API on the side.
package relayd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/dougfinl/osckit/osc"
)

// Daemon runs the relay: sockets, forwarding, metrics and the admin
// server. Create one with NewDaemon and drive it with Run.
type Daemon struct {
	cfg      Config
	logger   zerolog.Logger
	counters Counters
}

// NewDaemon validates cfg and prepares a daemon.
func NewDaemon(cfg Config, logger zerolog.Logger) (*Daemon, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Daemon{cfg: cfg, logger: logger}, nil
}

// Status returns a snapshot of the relay counters.
func (d *Daemon) Status() Status {
	return d.counters.Snapshot()
}

// Run opens both relay sides and serves until ctx is canceled or a socket
// fails. A canceled context is a clean shutdown and returns nil.
func (d *Daemon) Run(ctx context.Context) error {
	opts, err := d.cfg.Options()
	if err != nil {
		return err
	}

	connA, fwdA, err := openSide(d.cfg.A)
	if err != nil {
		return fmt.Errorf("side a: %w", err)
	}
	defer connA.Close()

	connB, fwdB, err := openSide(d.cfg.B)
	if err != nil {
		return fmt.Errorf("side b: %w", err)
	}
	defer connB.Close()

	serverA := &osc.Server{Options: opts, Logger: d.logger.With().Str("side", "a").Logger()}
	serverB := &osc.Server{Options: opts, Logger: d.logger.With().Str("side", "b").Logger()}

	d.wireSide(serverA.Port(), connA, fwdA, DirectionAB)
	d.wireSide(serverB.Port(), connB, fwdB, DirectionBA)

	relay := osc.NewRelay(serverA.Port(), serverB.Port(), nil)
	defer relay.Close()

	errc := make(chan error, 3)
	go func() { errc <- serverA.Serve(connA) }()
	go func() { errc <- serverB.Serve(connB) }()

	var admin *http.Server
	if d.cfg.AdminAddr != "" {
		router := NewAdminRouter(d.logger, d.cfg.CORSOrigins, d.Status)
		admin = &http.Server{Addr: d.cfg.AdminAddr, Handler: router}
		go func() {
			if err := admin.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errc <- err
			}
		}()
	}

	d.logger.Info().
		Str("a_listen", d.cfg.A.Listen).Str("a_forward", d.cfg.A.Forward).
		Str("b_listen", d.cfg.B.Listen).Str("b_forward", d.cfg.B.Forward).
		Str("admin", d.cfg.AdminAddr).Str("mode", d.cfg.Mode).
		Msg("relay running")

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errc:
	}

	connA.Close()
	connB.Close()
	if admin != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := admin.Shutdown(shutdownCtx); err != nil {
			d.logger.Warn().Err(err).Msg("admin shutdown")
		}
	}
	if runErr != nil && !errors.Is(runErr, net.ErrClosed) {
		return runErr
	}
	return nil
}

// wireSide attaches transmission and accounting for one relay side.
// Traffic received here flows in the given direction.
func (d *Daemon) wireSide(port *osc.DatagramPort, conn net.PacketConn, fwd net.Addr, direction string) {
	port.Out = func(data []byte) error {
		_, err := conn.WriteTo(data, fwd)
		return err
	}
	port.OnRaw(func(data []byte, _ osc.Info) {
		d.counters.Relayed(direction, len(data))
	})
	port.OnError(func(err error) {
		d.counters.Error(direction, classifyStage(err))
		d.logger.Warn().Err(err).Str("direction", direction).Msg("relay error")
	})
}

func openSide(ep Endpoint) (net.PacketConn, net.Addr, error) {
	fwd, err := net.ResolveUDPAddr("udp", ep.Forward)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve forward address %q: %w", ep.Forward, err)
	}
	conn, err := net.ListenPacket("udp", ep.Listen)
	if err != nil {
		return nil, nil, fmt.Errorf("listen on %q: %w", ep.Listen, err)
	}
	return conn, fwd, nil
}

// classifyStage attributes an error to the decode or forward stage.
// Packets that decoded successfully always re-encode, so any wire format
// sentinel means decoding failed.
func classifyStage(err error) string {
	for _, sentinel := range []error{
		osc.ErrInvalidPacket,
		osc.ErrTruncated,
		osc.ErrInvalidTypeTag,
		osc.ErrInvalidAddress,
		osc.ErrInvalidBundleMarker,
		osc.ErrInvalidArgument,
		osc.ErrUnsupportedArgument,
		osc.ErrBundleTooDeep,
	} {
		if errors.Is(err, sentinel) {
			return StageDecode
		}
	}
	return StageForward
}
