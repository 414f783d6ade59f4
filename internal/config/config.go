// Package config loads the daemon's configuration from an optional TOML
// file merged with environment variables. Flags override both.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// OAuth flow selectors.
const (
	FlowBrowser = "browser"
	FlowDevice  = "device"
)

// Config is the daemon's runtime configuration.
type Config struct {
	// Server is the relay websocket URL.
	Server string `toml:"server"`

	// Tool selects the injection binary: "xdotool" or "ydotool".
	Tool string `toml:"tool"`

	OAuth OAuth `toml:"oauth"`
}

// OAuth carries the client identity and flow choice. Native-app client
// secrets are not confidentiality-bearing; they are provisioned here (not
// prompted for) and security rests on redirect-URI validation and token
// verification at the relay.
type OAuth struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	Flow         string `toml:"flow"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: "ws://localhost:8080",
		Tool:   "xdotool",
		OAuth:  OAuth{Flow: FlowBrowser},
	}
}

// Load reads path over the defaults; a missing file is not an error.
// Environment variables are applied last.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyEnv()
	return cfg, nil
}

// Validate checks the flow selector.
func (c Config) Validate() error {
	switch c.OAuth.Flow {
	case FlowBrowser, FlowDevice:
		return nil
	default:
		return fmt.Errorf("unknown oauth flow %q (want %s or %s)", c.OAuth.Flow, FlowBrowser, FlowDevice)
	}
}

func (c *Config) applyEnv() {
	setIf(&c.Server, "UTTER_SERVER")
	setIf(&c.Tool, "UTTER_TOOL")
	setIf(&c.OAuth.ClientID, "UTTER_OAUTH_CLIENT_ID")
	setIf(&c.OAuth.ClientSecret, "UTTER_OAUTH_CLIENT_SECRET")
	setIf(&c.OAuth.Flow, "UTTER_OAUTH_FLOW")
}

func setIf(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
