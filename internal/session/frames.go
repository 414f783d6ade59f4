package session

// Frame type tags on the relay's JSON wire protocol.
const (
	FrameConnected  = "connected"
	FrameRegister   = "register"
	FrameRegistered = "registered"
	FrameText       = "text"
	FramePong       = "pong"
)

// Frame is one JSON message on the relay connection. The Type tag decides
// which fields are meaningful; unused fields are omitted on the wire.
type Frame struct {
	Type string `json:"type"`

	// connected (server -> client)
	ClientID string `json:"clientId,omitempty"`

	// register (client -> server)
	ClientType string `json:"clientType,omitempty"`
	DeviceID   string `json:"deviceId,omitempty"`
	DeviceName string `json:"deviceName,omitempty"`
	PublicKey  string `json:"publicKey,omitempty"`
	Version    string `json:"version,omitempty"`
	Platform   string `json:"platform,omitempty"`
	Arch       string `json:"arch,omitempty"`
	Token      string `json:"token,omitempty"`

	// text (server -> client)
	Content            string `json:"content,omitempty"`
	From               string `json:"from,omitempty"`
	Timestamp          int64  `json:"timestamp,omitempty"`
	Encrypted          bool   `json:"encrypted,omitempty"`
	Nonce              string `json:"nonce,omitempty"`
	EphemeralPublicKey string `json:"ephemeralPublicKey,omitempty"`
}
