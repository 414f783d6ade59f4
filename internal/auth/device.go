package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jeffjose/utter/internal/domain"
)

// DeviceStrategy acquires credentials through the OAuth device grant
// (RFC 8628): the user enters a short code on another device while the
// client polls the token endpoint.
type DeviceStrategy struct {
	tokens *tokenClient
	log    *slog.Logger

	// slowDownStep is added to the poll interval on slow_down (RFC 8628
	// fixes it at five seconds).
	slowDownStep time.Duration
}

// NewDeviceStrategy builds a device-code strategy for cfg.
func NewDeviceStrategy(cfg Config, log *slog.Logger) *DeviceStrategy {
	return &DeviceStrategy{
		tokens:       newTokenClient(cfg, nil),
		log:          log,
		slowDownStep: 5 * time.Second,
	}
}

// Initiate requests a device/user code pair from the identity provider.
func (d *DeviceStrategy) Initiate(ctx context.Context) (*Challenge, error) {
	resp, err := d.tokens.requestDeviceCode(ctx)
	if err != nil {
		return nil, err
	}
	interval := time.Duration(resp.Interval) * time.Second
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Challenge{
		VerificationURL: resp.url(),
		UserCode:        resp.UserCode,
		deviceCode:      resp.DeviceCode,
		interval:        interval,
		expiresAt:       d.tokens.now().Add(time.Duration(resp.ExpiresIn) * time.Second),
	}, nil
}

// Complete polls the token endpoint at the server-specified interval until
// the user approves, the code expires, or ctx is cancelled. slow_down
// increases the interval by five seconds per the RFC.
func (d *DeviceStrategy) Complete(ctx context.Context, ch *Challenge) (domain.CredentialSet, error) {
	interval := ch.interval
	for {
		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return domain.CredentialSet{}, ctx.Err()
		case <-timer.C:
		}

		if d.tokens.now().After(ch.expiresAt) {
			return domain.CredentialSet{}, fmt.Errorf("%w: device code expired", domain.ErrAuthExpired)
		}

		creds, oauthErr, err := d.tokens.pollDeviceToken(ctx, ch.deviceCode)
		if err != nil {
			return domain.CredentialSet{}, err
		}
		switch oauthErr {
		case "":
			return creds, nil
		case "authorization_pending":
			// keep polling
		case "slow_down":
			interval += d.slowDownStep
			d.log.Debug("provider asked to slow down", "interval", interval)
		case "expired_token":
			return domain.CredentialSet{}, fmt.Errorf("%w: device code expired", domain.ErrAuthExpired)
		case "access_denied":
			return domain.CredentialSet{}, fmt.Errorf("authorization denied by user")
		default:
			return domain.CredentialSet{}, fmt.Errorf("device token poll: %s", oauthErr)
		}
	}
}

var _ Strategy = (*DeviceStrategy)(nil)
