package app

import (
	"log/slog"

	"github.com/jeffjose/utter/internal/auth"
	"github.com/jeffjose/utter/internal/config"
	"github.com/jeffjose/utter/internal/domain"
	"github.com/jeffjose/utter/internal/platform"
	"github.com/jeffjose/utter/internal/session"
	"github.com/jeffjose/utter/internal/store"
	"github.com/jeffjose/utter/internal/typist"
)

// Wire bundles all stores, services and clients for the CLI.
type Wire struct {
	Identity domain.IdentityStore
	Auth     *auth.Service
	Typist   domain.Typist
	Log      *slog.Logger

	serverURL string
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config) (*Wire, error) {
	if err := cfg.File.Validate(); err != nil {
		return nil, err
	}

	identityStore := store.NewIdentityFileStore(cfg.Home)
	credentialStore := store.NewCredentialFileStore(cfg.Home)

	oauthCfg := auth.DefaultConfig()
	oauthCfg.ClientID = cfg.File.OAuth.ClientID
	oauthCfg.ClientSecret = cfg.File.OAuth.ClientSecret

	var strategy auth.Strategy
	switch cfg.File.OAuth.Flow {
	case config.FlowDevice:
		strategy = auth.NewDeviceStrategy(oauthCfg, cfg.Log)
	default:
		strategy = auth.NewBrowserStrategy(oauthCfg, cfg.Log)
	}
	authSvc := auth.NewService(oauthCfg, credentialStore, strategy, cfg.Log)

	var tool domain.Typist
	if cfg.File.Tool == "ydotool" {
		tool = typist.NewYdotool(cfg.Log)
	} else {
		tool = typist.NewXdotool(cfg.Log)
	}

	return &Wire{
		Identity:  identityStore,
		Auth:      authSvc,
		Typist:    tool,
		Log:       cfg.Log,
		serverURL: cfg.File.Server,
	}, nil
}

// SessionClient builds the relay session client for an already-loaded
// keypair, filling in the device metadata sent at registration.
func (w *Wire) SessionClient(keys domain.Keypair) *session.Client {
	host := platform.Hostname()
	return session.New(session.Config{
		ServerURL:  w.serverURL,
		DeviceID:   host,
		DeviceName: host,
		Version:    "utterd v" + Version,
		Platform:   platform.Name(),
		Arch:       platform.Arch(),
	}, keys, w.Auth, w.Typist, w.Log)
}
