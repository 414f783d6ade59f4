package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/jeffjose/utter/internal/domain"
)

const browserFlowTimeout = 300 * time.Second

const callbackOKPage = `<html>
  <body style="font-family: sans-serif; text-align: center; padding: 50px;">
    <h1>Authentication successful</h1>
    <p>You can close this window and return to the terminal.</p>
  </body>
</html>`

// BrowserStrategy acquires credentials through an interactive redirect: a
// loopback listener waits for the identity provider to call back with an
// authorization code, which is then exchanged for tokens.
type BrowserStrategy struct {
	tokens  *tokenClient
	log     *slog.Logger
	timeout time.Duration
}

// NewBrowserStrategy builds a browser strategy for cfg.
func NewBrowserStrategy(cfg Config, log *slog.Logger) *BrowserStrategy {
	return &BrowserStrategy{
		tokens:  newTokenClient(cfg, nil),
		log:     log,
		timeout: browserFlowTimeout,
	}
}

// Initiate starts the loopback callback listener and returns the
// authorization URL the user must visit. The state parameter binds the
// callback to this attempt.
func (b *BrowserStrategy) Initiate(ctx context.Context) (*Challenge, error) {
	ln, err := net.Listen("tcp", b.tokens.cfg.ListenAddr)
	if err != nil {
		return nil, fmt.Errorf("start callback listener on %s: %w", b.tokens.cfg.ListenAddr, err)
	}

	state := uuid.NewString()
	result := make(chan callbackResult, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/callback", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			result <- callbackResult{err: fmt.Errorf("callback state mismatch")}
			return
		}
		if errCode := q.Get("error"); errCode != "" {
			http.Error(w, "authorization failed: "+errCode, http.StatusBadRequest)
			result <- callbackResult{err: fmt.Errorf("authorization failed: %s", errCode)}
			return
		}
		code := q.Get("code")
		if code == "" {
			http.Error(w, "no authorization code received", http.StatusBadRequest)
			result <- callbackResult{err: fmt.Errorf("no authorization code received")}
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, callbackOKPage)
		result <- callbackResult{code: code}
	})

	srv := &http.Server{Handler: mux}
	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			b.log.Warn("callback server stopped", "err", err)
		}
	}()

	authURL := b.tokens.cfg.AuthURL + "?" + url.Values{
		"client_id":     {b.tokens.cfg.ClientID},
		"redirect_uri":  {b.tokens.cfg.RedirectURI},
		"response_type": {"code"},
		"scope":         {b.tokens.cfg.Scopes},
		"access_type":   {"offline"},
		"prompt":        {"consent"},
		"state":         {state},
	}.Encode()

	return &Challenge{
		VerificationURL: authURL,
		CallbackAddr:    ln.Addr().String(),
		state:           state,
		result:          result,
		server:          srv,
	}, nil
}

// Complete waits for the redirect (bounded by the flow timeout) and
// exchanges the authorization code for tokens.
func (b *BrowserStrategy) Complete(ctx context.Context, ch *Challenge) (domain.CredentialSet, error) {
	defer ch.server.Close()

	timer := time.NewTimer(b.timeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return domain.CredentialSet{}, ctx.Err()
	case <-timer.C:
		return domain.CredentialSet{}, fmt.Errorf("authorization timed out after %s", b.timeout)
	case res := <-ch.result:
		if res.err != nil {
			return domain.CredentialSet{}, res.err
		}
		return b.tokens.exchangeCode(ctx, res.code)
	}
}

var _ Strategy = (*BrowserStrategy)(nil)
