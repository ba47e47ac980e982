package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/dougfinl/osckit/internal/capture"
	"github.com/dougfinl/osckit/internal/logging"
	"github.com/dougfinl/osckit/osc"
)

func main() {
	port := flag.Int("port", 0, "UDP port to listen for OSC packets")
	strict := flag.Bool("strict", false, "reject packets that deviate from strict OSC 1.0 encoding")
	record := flag.String("record", "", "record received packets into this SQLite file")
	label := flag.String("label", "", "label for the recording session")
	flag.Parse()

	if *port == 0 {
		fmt.Println("Usage: osclisten -port <port> [-strict] [-record capture.db [-label name]]")
		os.Exit(1)
	}

	if err := run(*port, *strict, *record, *label); err != nil {
		fmt.Fprintf(os.Stderr, "osclisten: %v\n", err)
		os.Exit(1)
	}
}

func run(port int, strict bool, record, label string) error {
	addr := "0.0.0.0:" + strconv.Itoa(port)

	logger := logging.NewLogger("osclisten")

	opts := osc.Options{Mode: osc.Lenient}
	if strict {
		opts.Mode = osc.Strict
	}

	server := &osc.Server{Addr: addr, Options: opts, Logger: logger}
	p := server.Port()
	p.OnMessage(func(msg *osc.Message, tt osc.Timetag, info osc.Info) {
		if tt != osc.Immediately {
			fmt.Printf("%s  @%s  %s\n", peerString(info), tt.Time().Format(time.RFC3339Nano), msg)
			return
		}
		fmt.Printf("%s  %s\n", peerString(info), msg)
	})
	p.OnBundle(func(b *osc.Bundle, info osc.Info) {
		fmt.Printf("%s  #bundle %v with %d elements\n", peerString(info), b.Timetag.Time(), len(b.Elements))
	})

	if record != "" {
		store, err := capture.Open(record)
		if err != nil {
			return fmt.Errorf("open capture store: %w", err)
		}
		defer store.Close()

		session, err := store.BeginSession(label)
		if err != nil {
			return fmt.Errorf("begin capture session: %w", err)
		}
		logger.Info().Str("session", session).Str("db", record).Msg("recording")
		p.OnRaw(recordHandler(store, session, opts, logger))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- server.ListenAndServe() }()
	logger.Info().Str("addr", addr).Str("mode", opts.Mode.String()).Msg("listening")

	select {
	case <-ctx.Done():
		return nil
	case err := <-errc:
		return err
	}
}

// recordHandler stores every received packet with its original wire bytes.
func recordHandler(store *capture.Store, session string, opts osc.Options, logger zerolog.Logger) osc.RawHandler {
	return func(data []byte, info osc.Info) {
		pkt, err := osc.DecodePacket(data, opts)
		if err != nil {
			return
		}
		if _, err := store.RecordPacket(session, pkt, data, peerString(info)); err != nil {
			logger.Warn().Err(err).Msg("record packet")
		}
	}
}

func peerString(info osc.Info) string {
	if info.Addr == nil {
		return ""
	}
	return info.Addr.String()
}
