package relayd

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/dougfinl/osckit/osc"
)

// Endpoint describes one side of the relay. Listen is the UDP address
// packets from this side's peers arrive on. Forward is where packets
// crossing over from the other side get delivered.
type Endpoint struct {
	Listen  string
	Forward string
}

// Config holds the relay daemon configuration.
type Config struct {
	// Mode selects packet parsing, "strict" or "lenient".
	Mode string

	// AdminAddr is the HTTP admin listen address. Empty disables the
	// admin server.
	AdminAddr string

	// CORSOrigins restricts admin API origins. Empty allows any origin.
	CORSOrigins []string

	A Endpoint
	B Endpoint
}

// DefaultConfig returns the configuration the daemon runs with when no
// file overrides it.
func DefaultConfig() Config {
	return Config{
		Mode:      "lenient",
		AdminAddr: "127.0.0.1:7770",
		A:         Endpoint{Listen: "0.0.0.0:8000", Forward: "127.0.0.1:9000"},
		B:         Endpoint{Listen: "0.0.0.0:8001", Forward: "127.0.0.1:9001"},
	}
}

type fileEndpoint struct {
	Listen  string `toml:"listen"`
	Forward string `toml:"forward"`
}

type fileConfig struct {
	Mode        string       `toml:"mode"`
	AdminAddr   string       `toml:"admin_addr"`
	CORSOrigins []string     `toml:"cors_origins"`
	A           fileEndpoint `toml:"a"`
	B           fileEndpoint `toml:"b"`
}

// LoadConfig reads a TOML configuration file, overlaying it on the
// defaults. Keys absent from the file keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load relay config: %w", err)
	}

	if meta.IsDefined("mode") {
		cfg.Mode = strings.TrimSpace(raw.Mode)
	}
	if meta.IsDefined("admin_addr") {
		cfg.AdminAddr = strings.TrimSpace(raw.AdminAddr)
	}
	if meta.IsDefined("cors_origins") {
		cfg.CORSOrigins = raw.CORSOrigins
	}
	if meta.IsDefined("a", "listen") {
		cfg.A.Listen = strings.TrimSpace(raw.A.Listen)
	}
	if meta.IsDefined("a", "forward") {
		cfg.A.Forward = strings.TrimSpace(raw.A.Forward)
	}
	if meta.IsDefined("b", "listen") {
		cfg.B.Listen = strings.TrimSpace(raw.B.Listen)
	}
	if meta.IsDefined("b", "forward") {
		cfg.B.Forward = strings.TrimSpace(raw.B.Forward)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for problems a running daemon could
// not recover from.
func (c Config) Validate() error {
	if _, err := parseMode(c.Mode); err != nil {
		return err
	}
	for _, side := range []struct {
		name string
		ep   Endpoint
	}{
		{"a", c.A},
		{"b", c.B},
	} {
		if c.AdminAddr != "" && c.AdminAddr == side.ep.Listen {
			return fmt.Errorf("relay config: admin_addr %q collides with side %s listen address", c.AdminAddr, side.name)
		}
		if side.ep.Listen == "" {
			return fmt.Errorf("relay config: side %s has no listen address", side.name)
		}
		if side.ep.Forward == "" {
			return fmt.Errorf("relay config: side %s has no forward address", side.name)
		}
	}
	if c.A.Listen == c.B.Listen {
		return fmt.Errorf("relay config: both sides listen on %q", c.A.Listen)
	}
	return nil
}

// Options translates the configuration into packet decoding options.
func (c Config) Options() (osc.Options, error) {
	mode, err := parseMode(c.Mode)
	if err != nil {
		return osc.Options{}, err
	}
	return osc.Options{Mode: mode}, nil
}

func parseMode(s string) (osc.ParseMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lenient":
		return osc.Lenient, nil
	case "strict":
		return osc.Strict, nil
	default:
		return 0, fmt.Errorf("relay config: unknown parse mode %q", s)
	}
}
