package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/jeffjose/utter/internal/domain"
)

// tokenResponse is the identity provider's token endpoint payload.
type tokenResponse struct {
	IDToken      string `json:"id_token"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`

	// Set instead of the fields above on OAuth-level failures.
	ErrorCode        string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// deviceCodeResponse is the device authorization endpoint payload.
// Google uses verification_url; RFC 8628 uses verification_uri.
type deviceCodeResponse struct {
	DeviceCode      string `json:"device_code"`
	UserCode        string `json:"user_code"`
	VerificationURL string `json:"verification_url"`
	VerificationURI string `json:"verification_uri"`
	ExpiresIn       int64  `json:"expires_in"`
	Interval        int64  `json:"interval"`

	ErrorCode        string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (r deviceCodeResponse) url() string {
	if r.VerificationURL != "" {
		return r.VerificationURL
	}
	return r.VerificationURI
}

// tokenClient performs form POSTs against the identity provider. Transport
// errors are retried with backoff; OAuth-level errors are returned in-band
// so callers can react to individual error codes.
type tokenClient struct {
	cfg  Config
	http *retryablehttp.Client
	now  func() time.Time
}

func newTokenClient(cfg Config, httpc *retryablehttp.Client) *tokenClient {
	if httpc == nil {
		httpc = retryablehttp.NewClient()
		httpc.RetryMax = 3
		httpc.Logger = nil
	}
	return &tokenClient{cfg: cfg, http: httpc, now: time.Now}
}

// exchangeCode trades an authorization code for a credential set.
func (t *tokenClient) exchangeCode(ctx context.Context, code string) (domain.CredentialSet, error) {
	resp, err := t.postToken(ctx, url.Values{
		"client_id":     {t.cfg.ClientID},
		"client_secret": {t.cfg.ClientSecret},
		"code":          {code},
		"grant_type":    {"authorization_code"},
		"redirect_uri":  {t.cfg.RedirectURI},
	})
	if err != nil {
		return domain.CredentialSet{}, fmt.Errorf("token exchange: %w", err)
	}
	if resp.ErrorCode != "" {
		return domain.CredentialSet{}, fmt.Errorf("token exchange: %s: %s", resp.ErrorCode, resp.ErrorDescription)
	}
	return t.credentials(resp, resp.RefreshToken), nil
}

// refresh trades a refresh token for a new credential set. The provider
// does not return the refresh token again, so the old one is carried over.
func (t *tokenClient) refresh(ctx context.Context, refreshToken string) (domain.CredentialSet, error) {
	resp, err := t.postToken(ctx, url.Values{
		"client_id":     {t.cfg.ClientID},
		"client_secret": {t.cfg.ClientSecret},
		"refresh_token": {refreshToken},
		"grant_type":    {"refresh_token"},
	})
	if err != nil {
		return domain.CredentialSet{}, fmt.Errorf("token refresh: %w", err)
	}
	if resp.ErrorCode != "" {
		return domain.CredentialSet{}, fmt.Errorf("token refresh: %s: %s", resp.ErrorCode, resp.ErrorDescription)
	}
	return t.credentials(resp, refreshToken), nil
}

// requestDeviceCode starts a device authorization grant.
func (t *tokenClient) requestDeviceCode(ctx context.Context) (deviceCodeResponse, error) {
	var out deviceCodeResponse
	if err := t.postForm(ctx, t.cfg.DeviceAuthURL, url.Values{
		"client_id": {t.cfg.ClientID},
		"scope":     {t.cfg.Scopes},
	}, &out); err != nil {
		return deviceCodeResponse{}, fmt.Errorf("device code request: %w", err)
	}
	if out.ErrorCode != "" {
		return deviceCodeResponse{}, fmt.Errorf("device code request: %s: %s", out.ErrorCode, out.ErrorDescription)
	}
	return out, nil
}

// pollDeviceToken performs one poll of the token endpoint for a pending
// device grant. An empty oauthErr with a nil error means the grant
// completed; otherwise oauthErr carries the provider's signal
// (authorization_pending, slow_down, expired_token, ...).
func (t *tokenClient) pollDeviceToken(ctx context.Context, deviceCode string) (domain.CredentialSet, string, error) {
	resp, err := t.postToken(ctx, url.Values{
		"client_id":     {t.cfg.ClientID},
		"client_secret": {t.cfg.ClientSecret},
		"device_code":   {deviceCode},
		"grant_type":    {"urn:ietf:params:oauth:grant-type:device_code"},
	})
	if err != nil {
		return domain.CredentialSet{}, "", fmt.Errorf("device token poll: %w", err)
	}
	if resp.ErrorCode != "" {
		return domain.CredentialSet{}, resp.ErrorCode, nil
	}
	return t.credentials(resp, resp.RefreshToken), "", nil
}

func (t *tokenClient) credentials(resp tokenResponse, refreshToken string) domain.CredentialSet {
	return domain.CredentialSet{
		IDToken:      resp.IDToken,
		AccessToken:  resp.AccessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    t.now().Add(time.Duration(resp.ExpiresIn) * time.Second),
	}
}

func (t *tokenClient) postToken(ctx context.Context, form url.Values) (tokenResponse, error) {
	var out tokenResponse
	if err := t.postForm(ctx, t.cfg.TokenURL, form, &out); err != nil {
		return tokenResponse{}, err
	}
	return out, nil
}

// postForm posts a urlencoded form and decodes the JSON body regardless of
// status code: OAuth errors arrive as 4xx with a JSON error field.
func (t *tokenClient) postForm(ctx context.Context, endpoint string, form url.Values, out any) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response (%s): %w", endpoint, resp.Status, err)
	}
	return nil
}
