package auth

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/jeffjose/utter/internal/domain"
)

// RefreshThreshold is how much remaining life a stored credential set must
// have to be reused without touching the network.
const RefreshThreshold = 5 * time.Minute

// Service drives the credential lifecycle: load, reuse, refresh, or run
// the configured acquisition strategy.
type Service struct {
	store    domain.CredentialStore
	strategy Strategy
	tokens   *tokenClient
	log      *slog.Logger

	// Out receives user-facing flow instructions. Defaults to stdout.
	Out io.Writer
}

// NewService builds a credential service using strategy for fresh
// acquisitions.
func NewService(cfg Config, store domain.CredentialStore, strategy Strategy, log *slog.Logger) *Service {
	return &Service{
		store:    store,
		strategy: strategy,
		tokens:   newTokenClient(cfg, nil),
		log:      log,
		Out:      os.Stdout,
	}
}

// GetOrAuthenticate returns relay-ready credentials. Stored credentials
// valid for more than RefreshThreshold are returned without any network
// call; an imminent expiry triggers a refresh; refresh failure or absent
// credentials fall through to the acquisition strategy.
func (s *Service) GetOrAuthenticate(ctx context.Context) (domain.CredentialSet, error) {
	creds, ok, err := s.store.Load()
	if err != nil {
		// Unreadable credential file: re-authenticate rather than fail.
		s.log.Warn("could not load stored credentials", "err", err)
		ok = false
	}
	if ok {
		if creds.ValidFor(time.Now(), RefreshThreshold) {
			return creds, nil
		}
		if creds.RefreshToken != "" {
			s.log.Info("refreshing oauth token")
			refreshed, err := s.tokens.refresh(ctx, creds.RefreshToken)
			if err == nil {
				if err := s.store.Save(refreshed); err != nil {
					return domain.CredentialSet{}, fmt.Errorf("persist refreshed credentials: %w", err)
				}
				return refreshed, nil
			}
			s.log.Warn("token refresh failed, re-authenticating", "err", err)
		}
	}

	ch, err := s.strategy.Initiate(ctx)
	if err != nil {
		return domain.CredentialSet{}, err
	}
	fmt.Fprint(s.Out, ch.Instructions())

	creds, err = s.strategy.Complete(ctx, ch)
	if err != nil {
		return domain.CredentialSet{}, err
	}
	if err := s.store.Save(creds); err != nil {
		return domain.CredentialSet{}, fmt.Errorf("persist credentials: %w", err)
	}
	s.log.Info("oauth credentials saved")
	return creds, nil
}

// SignOut deletes the persisted credential file.
func (s *Service) SignOut() error {
	return s.store.Clear()
}

// Compile-time assertion that Service implements domain.Authenticator.
var _ domain.Authenticator = (*Service)(nil)
