package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dougfinl/osckit/internal/logging"
	"github.com/dougfinl/osckit/internal/relayd"
)

func main() {
	configPath := flag.String("config", "", "path to the relay TOML configuration")
	flag.Parse()

	logger := logging.NewLogger("oscrelay")

	cfg := relayd.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = relayd.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "oscrelay: %v\n", err)
			os.Exit(1)
		}
	}

	daemon, err := relayd.NewDaemon(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "oscrelay: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := daemon.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "oscrelay: %v\n", err)
		os.Exit(1)
	}
}
