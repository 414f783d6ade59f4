package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jeffjose/utter/internal/domain"
)

// Strategy is one way of acquiring a fresh credential set. Initiate
// prepares the flow and returns what the user must do; Complete blocks
// until the flow finishes or fails.
type Strategy interface {
	Initiate(ctx context.Context) (*Challenge, error)
	Complete(ctx context.Context, ch *Challenge) (domain.CredentialSet, error)
}

// Challenge is the pending half of an authorization flow.
type Challenge struct {
	// VerificationURL is where the user authorizes the client.
	VerificationURL string
	// UserCode is shown alongside the URL in the device flow.
	UserCode string

	// CallbackAddr is the bound loopback address in the browser flow.
	CallbackAddr string

	// Browser flow state.
	state  string
	result chan callbackResult
	server *http.Server

	// Device flow state.
	deviceCode string
	interval   time.Duration
	expiresAt  time.Time
}

// Instructions renders what the user has to do to approve the client.
func (c *Challenge) Instructions() string {
	if c.UserCode != "" {
		return fmt.Sprintf("Visit %s and enter code: %s\n", c.VerificationURL, c.UserCode)
	}
	return fmt.Sprintf("Sign in with Google:\n\n   Visit: %s\n\nWaiting for authorization...\n", c.VerificationURL)
}

type callbackResult struct {
	code string
	err  error
}
