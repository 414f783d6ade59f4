package session

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jeffjose/utter/internal/crypto"
	"github.com/jeffjose/utter/internal/domain"
)

// Config identifies this device to the relay.
type Config struct {
	ServerURL  string
	DeviceID   string
	DeviceName string
	Version    string
	Platform   string
	Arch       string

	// BackoffSeconds is the countdown between reconnect attempts.
	// Defaults to 5.
	BackoffSeconds int
}

// Client maintains one registered relay session, reconnecting forever.
type Client struct {
	cfg    Config
	keys   domain.Keypair
	auth   domain.Authenticator
	typist domain.Typist
	status *Status
	log    *slog.Logger
	dialer *websocket.Dialer

	tick time.Duration // countdown granularity, overridable in tests
}

// New builds a Client. The keypair must already be loaded; auth supplies
// the bearer token at registration time.
func New(cfg Config, keys domain.Keypair, auth domain.Authenticator, typist domain.Typist, log *slog.Logger) *Client {
	if cfg.BackoffSeconds <= 0 {
		cfg.BackoffSeconds = 5
	}
	status := NewStatus(cfg.ServerURL)
	status.update(func(s *Snapshot) {
		s.Tool = typist.Name()
		s.ToolAvailable = typist.Available()
	})
	return &Client{
		cfg:    cfg,
		keys:   keys,
		auth:   auth,
		typist: typist,
		status: status,
		log:    log,
		dialer: websocket.DefaultDialer,
		tick:   time.Second,
	}
}

// Status exposes the shared state record for read-only observers.
func (c *Client) Status() *Status { return c.status }

// Run is the supervisor loop: connect, serve the session until it drops,
// count down, reconnect. It returns only when ctx is cancelled; persisted
// state is never left half-written because all durable writes happen in
// the stores' atomic write path.
func (c *Client) Run(ctx context.Context) error {
	for attempt := 1; ; attempt++ {
		c.status.update(func(s *Snapshot) {
			s.State = StateConnecting
			s.Attempts = attempt
			s.ClientID = ""
			s.Reason = ""
		})

		err := c.runOnce(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		reason := "connection closed"
		if err != nil {
			reason = err.Error()
			c.log.Warn("session ended", "err", err)
		}
		c.status.update(func(s *Snapshot) {
			s.State = StateDisconnected
			s.Reason = reason
			s.LastError = reason
		})

		for remaining := c.cfg.BackoffSeconds; remaining > 0; remaining-- {
			c.status.update(func(s *Snapshot) {
				s.State = StateBackoff
				s.BackoffRemaining = remaining
			})
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.tick):
			}
		}
	}
}

// runOnce performs one full connect-register-serve cycle and returns when
// the transport fails or ctx is cancelled.
func (c *Client) runOnce(ctx context.Context) error {
	creds, err := c.auth.GetOrAuthenticate(ctx)
	if err != nil {
		return newConnectError("acquire credentials: %v", err)
	}

	conn, _, err := c.dialer.DialContext(ctx, c.cfg.ServerURL, nil)
	if err != nil {
		return newConnectError("dial %s: %v", c.cfg.ServerURL, err)
	}
	defer conn.Close()

	// Unblock the read loop when ctx is cancelled.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stop:
		}
	}()

	c.status.update(func(s *Snapshot) { s.State = StateConnected })
	c.log.Info("connected", "server", c.cfg.ServerURL)

	// Frames are processed to completion before the next read, so no two
	// decrypt operations ever run concurrently.
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return &ConnectError{Err: err}
		}

		var f Frame
		if err := json.Unmarshal(data, &f); err != nil {
			c.diagnostic((&ProtocolError{Err: err}).Error())
			continue
		}

		resp := c.handleFrame(&f, creds.IDToken)
		if resp != nil {
			if err := conn.WriteJSON(resp); err != nil {
				return newConnectError("send %s: %v", resp.Type, err)
			}
		}
	}
}

// handleFrame dispatches one inbound frame and returns an optional reply.
func (c *Client) handleFrame(f *Frame, token string) *Frame {
	switch f.Type {
	case FrameConnected:
		c.status.update(func(s *Snapshot) { s.ClientID = f.ClientID })
		return c.registerFrame(token)

	case FrameRegistered:
		c.status.update(func(s *Snapshot) { s.State = StateRegistered })
		c.log.Info("registered with relay")
		return nil

	case FrameText:
		c.handleText(f)
		return nil

	case FramePong:
		// Liveness only; nothing to do.
		return nil

	default:
		c.log.Debug("ignoring unknown frame", "type", f.Type)
		return nil
	}
}

func (c *Client) registerFrame(token string) *Frame {
	return &Frame{
		Type:       FrameRegister,
		ClientType: "linux",
		DeviceID:   c.cfg.DeviceID,
		DeviceName: c.cfg.DeviceName,
		PublicKey:  base64.StdEncoding.EncodeToString(c.keys.Pub.Slice()),
		Version:    c.cfg.Version,
		Platform:   c.cfg.Platform,
		Arch:       c.cfg.Arch,
		Token:      token,
	}
}

// handleText enforces the encryption-only policy, decrypts, and hands the
// plaintext to the typist. Every failure here is a local diagnostic; the
// session keeps running.
func (c *Client) handleText(f *Frame) {
	c.status.update(func(s *Snapshot) { s.MessagesReceived++ })

	if !f.Encrypted {
		c.reject("rejected plaintext message: encryption is required")
		return
	}

	env := domain.EncryptedEnvelope{
		Ciphertext:         f.Content,
		Nonce:              f.Nonce,
		EphemeralPublicKey: f.EphemeralPublicKey,
	}
	plaintext, err := crypto.Open(env, c.keys.Priv)
	if err != nil {
		c.reject("decrypt failed: " + err.Error())
		return
	}

	c.status.update(func(s *Snapshot) { s.LastText = truncate(plaintext, 50) })

	if err := c.typist.Type(plaintext); err != nil {
		c.diagnostic("typing error: " + err.Error())
	}
}

func (c *Client) reject(msg string) {
	c.status.update(func(s *Snapshot) {
		s.Rejected++
		s.LastError = msg
	})
	c.log.Warn(msg)
}

func (c *Client) diagnostic(msg string) {
	c.status.update(func(s *Snapshot) { s.LastError = msg })
	c.log.Warn(msg)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
