package auth

// Config carries the OAuth endpoints and client identity. Values are
// provisioned at deploy time (config file or environment), never prompted
// for at runtime.
type Config struct {
	ClientID     string
	ClientSecret string

	AuthURL       string
	TokenURL      string
	DeviceAuthURL string

	// RedirectURI must match ListenAddr; the identity provider validates
	// it against the registered client.
	RedirectURI string
	ListenAddr  string

	Scopes string
}

// DefaultConfig returns the Google endpoints the relay is registered with.
func DefaultConfig() Config {
	return Config{
		AuthURL:       "https://accounts.google.com/o/oauth2/v2/auth",
		TokenURL:      "https://oauth2.googleapis.com/token",
		DeviceAuthURL: "https://oauth2.googleapis.com/device/code",
		RedirectURI:   "http://localhost:3000/oauth/callback",
		ListenAddr:    "127.0.0.1:3000",
		Scopes:        "openid email profile",
	}
}
