package auth

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jeffjose/utter/internal/domain"
	"github.com/jeffjose/utter/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeStrategy struct {
	initiated int
	completed int
	creds     domain.CredentialSet
	err       error
}

func (f *fakeStrategy) Initiate(ctx context.Context) (*Challenge, error) {
	f.initiated++
	return &Challenge{VerificationURL: "https://example.test/authorize"}, nil
}

func (f *fakeStrategy) Complete(ctx context.Context, ch *Challenge) (domain.CredentialSet, error) {
	f.completed++
	return f.creds, f.err
}

func TestGetOrAuthenticate_ReusesFreshCredentials(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "should not be called", http.StatusInternalServerError)
	}))
	defer srv.Close()

	cs := store.NewCredentialFileStore(t.TempDir())
	fresh := domain.CredentialSet{
		IDToken:     "id",
		AccessToken: "access",
		ExpiresAt:   time.Now().Add(time.Hour),
	}
	require.NoError(t, cs.Save(fresh))

	cfg := DefaultConfig()
	cfg.TokenURL = srv.URL
	strat := &fakeStrategy{}
	svc := NewService(cfg, cs, strat, testLogger())
	svc.Out = io.Discard

	for i := 0; i < 2; i++ {
		got, err := svc.GetOrAuthenticate(context.Background())
		require.NoError(t, err)
		require.Equal(t, fresh.AccessToken, got.AccessToken)
	}
	require.EqualValues(t, 0, calls.Load())
	require.Zero(t, strat.initiated)
}

func TestGetOrAuthenticate_RefreshesExpiring(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Equal(t, "refresh_token", r.Form.Get("grant_type"))
		require.Equal(t, "old-refresh", r.Form.Get("refresh_token"))
		json.NewEncoder(w).Encode(map[string]any{
			"id_token":     "new-id",
			"access_token": "new-access",
			"expires_in":   3600,
		})
	}))
	defer srv.Close()

	cs := store.NewCredentialFileStore(t.TempDir())
	require.NoError(t, cs.Save(domain.CredentialSet{
		IDToken:      "old-id",
		AccessToken:  "old-access",
		RefreshToken: "old-refresh",
		ExpiresAt:    time.Now().Add(time.Minute), // inside the threshold
	}))

	cfg := DefaultConfig()
	cfg.TokenURL = srv.URL
	svc := NewService(cfg, cs, &fakeStrategy{}, testLogger())
	svc.Out = io.Discard

	got, err := svc.GetOrAuthenticate(context.Background())
	require.NoError(t, err)
	require.Equal(t, "new-access", got.AccessToken)
	// The provider does not echo the refresh token; the old one is kept.
	require.Equal(t, "old-refresh", got.RefreshToken)

	persisted, ok, err := cs.Load()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "new-access", persisted.AccessToken)
}

func TestGetOrAuthenticate_RefreshFailureFallsBackToStrategy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{"error": "invalid_grant"})
	}))
	defer srv.Close()

	cs := store.NewCredentialFileStore(t.TempDir())
	require.NoError(t, cs.Save(domain.CredentialSet{
		AccessToken:  "old-access",
		RefreshToken: "revoked",
		ExpiresAt:    time.Now().Add(-time.Minute),
	}))

	cfg := DefaultConfig()
	cfg.TokenURL = srv.URL
	strat := &fakeStrategy{creds: domain.CredentialSet{
		AccessToken: "brand-new",
		ExpiresAt:   time.Now().Add(time.Hour),
	}}
	svc := NewService(cfg, cs, strat, testLogger())
	svc.Out = io.Discard

	got, err := svc.GetOrAuthenticate(context.Background())
	require.NoError(t, err)
	require.Equal(t, "brand-new", got.AccessToken)
	require.Equal(t, 1, strat.initiated)
	require.Equal(t, 1, strat.completed)
}

func TestGetOrAuthenticate_NoCredentialsRunsStrategy(t *testing.T) {
	cs := store.NewCredentialFileStore(t.TempDir())

	strat := &fakeStrategy{creds: domain.CredentialSet{
		AccessToken: "first",
		ExpiresAt:   time.Now().Add(time.Hour),
	}}
	svc := NewService(DefaultConfig(), cs, strat, testLogger())
	svc.Out = io.Discard

	got, err := svc.GetOrAuthenticate(context.Background())
	require.NoError(t, err)
	require.Equal(t, "first", got.AccessToken)

	persisted, ok, err := cs.Load()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "first", persisted.AccessToken)
}

func TestSignOut(t *testing.T) {
	cs := store.NewCredentialFileStore(t.TempDir())
	require.NoError(t, cs.Save(domain.CredentialSet{AccessToken: "a"}))

	svc := NewService(DefaultConfig(), cs, &fakeStrategy{}, testLogger())
	require.NoError(t, svc.SignOut())

	_, ok, err := cs.Load()
	require.NoError(t, err)
	require.False(t, ok)

	// Idempotent.
	require.NoError(t, svc.SignOut())
}
