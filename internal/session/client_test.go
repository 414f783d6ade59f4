package session

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/jeffjose/utter/internal/crypto"
	"github.com/jeffjose/utter/internal/domain"
)

var errTypist = errors.New("xdotool exited 1")

type fakeAuth struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeAuth) GetOrAuthenticate(ctx context.Context) (domain.CredentialSet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return domain.CredentialSet{
		IDToken:     "id-token",
		AccessToken: "access-token",
		ExpiresAt:   time.Now().Add(time.Hour),
	}, nil
}

func (f *fakeAuth) SignOut() error { return nil }

type fakeTypist struct {
	mu    sync.Mutex
	typed []string
	err   error
}

func (f *fakeTypist) Type(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.typed = append(f.typed, text)
	return nil
}

func (f *fakeTypist) Available() bool { return true }
func (f *fakeTypist) Name() string    { return "faketool" }

func (f *fakeTypist) all() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.typed...)
}

// relayServer is a scripted relay: each accepted websocket is delivered on
// conns for the test body to drive.
type relayServer struct {
	srv   *httptest.Server
	conns chan *websocket.Conn
}

func newRelayServer(t *testing.T) *relayServer {
	t.Helper()
	rs := &relayServer{conns: make(chan *websocket.Conn, 4)}
	up := websocket.Upgrader{}
	rs.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		rs.conns <- c
	}))
	t.Cleanup(rs.srv.Close)
	return rs
}

func (rs *relayServer) url() string {
	return "ws" + strings.TrimPrefix(rs.srv.URL, "http")
}

func (rs *relayServer) accept(t *testing.T) *websocket.Conn {
	t.Helper()
	select {
	case c := <-rs.conns:
		return c
	case <-time.After(5 * time.Second):
		t.Fatal("no client connected")
		return nil
	}
}

func newTestClient(t *testing.T, url string, typist domain.Typist) (*Client, domain.Keypair) {
	t.Helper()
	priv, pub, err := crypto.GenerateX25519()
	require.NoError(t, err)
	keys := domain.Keypair{Priv: priv, Pub: pub}

	c := New(Config{
		ServerURL:      url,
		DeviceID:       "test-host",
		DeviceName:     "test-host",
		Version:        "utterd vtest",
		Platform:       "Test Linux",
		Arch:           "amd64",
		BackoffSeconds: 1,
	}, keys, &fakeAuth{}, typist, slog.New(slog.NewTextHandler(io.Discard, nil)))
	c.tick = 10 * time.Millisecond
	return c, keys
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("timed out waiting: " + msg)
}

func startHandshake(t *testing.T, rs *relayServer) (conn *websocket.Conn, reg Frame) {
	t.Helper()
	conn = rs.accept(t)
	require.NoError(t, conn.WriteJSON(Frame{Type: FrameConnected, ClientID: "client-1"}))
	require.NoError(t, conn.ReadJSON(&reg))
	require.NoError(t, conn.WriteJSON(Frame{Type: FrameRegistered}))
	return conn, reg
}

func encryptedTextFrame(t *testing.T, pub domain.X25519Public, text string) Frame {
	t.Helper()
	env, err := crypto.Seal(text, pub)
	require.NoError(t, err)
	return Frame{
		Type:               FrameText,
		Content:            env.Ciphertext,
		Encrypted:          true,
		Nonce:              env.Nonce,
		EphemeralPublicKey: env.EphemeralPublicKey,
	}
}

func TestClient_RegistersAndTypes(t *testing.T) {
	rs := newRelayServer(t)
	typist := &fakeTypist{}
	c, keys := newTestClient(t, rs.url(), typist)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	conn, reg := startHandshake(t, rs)
	defer conn.Close()

	require.Equal(t, FrameRegister, reg.Type)
	require.Equal(t, "linux", reg.ClientType)
	require.Equal(t, "test-host", reg.DeviceID)
	require.Equal(t, base64.StdEncoding.EncodeToString(keys.Pub.Slice()), reg.PublicKey)
	require.Equal(t, "id-token", reg.Token)
	require.Equal(t, "Test Linux", reg.Platform)

	waitFor(t, func() bool { return c.Status().Snapshot().State == StateRegistered }, "registered")
	require.Equal(t, "client-1", c.Status().Snapshot().ClientID)

	require.NoError(t, conn.WriteJSON(encryptedTextFrame(t, keys.Pub, "hello world")))
	waitFor(t, func() bool { return len(typist.all()) == 1 }, "text typed")
	require.Equal(t, []string{"hello world"}, typist.all())

	snap := c.Status().Snapshot()
	require.Equal(t, 1, snap.MessagesReceived)
	require.Equal(t, "hello world", snap.LastText)
	require.Zero(t, snap.Rejected)
}

func TestClient_RejectsPlaintext(t *testing.T) {
	rs := newRelayServer(t)
	typist := &fakeTypist{}
	c, keys := newTestClient(t, rs.url(), typist)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	conn, _ := startHandshake(t, rs)
	defer conn.Close()

	// Well-formed but unencrypted: must be dropped without injection.
	require.NoError(t, conn.WriteJSON(Frame{Type: FrameText, Content: "sneaky plaintext"}))
	waitFor(t, func() bool { return c.Status().Snapshot().Rejected == 1 }, "plaintext rejected")
	require.Empty(t, typist.all())

	// The session survives and still handles encrypted traffic.
	require.NoError(t, conn.WriteJSON(encryptedTextFrame(t, keys.Pub, "legit")))
	waitFor(t, func() bool { return len(typist.all()) == 1 }, "encrypted text typed")
	require.Equal(t, []string{"legit"}, typist.all())
}

func TestClient_TamperedFrameIsNonFatal(t *testing.T) {
	rs := newRelayServer(t)
	typist := &fakeTypist{}
	c, keys := newTestClient(t, rs.url(), typist)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	conn, _ := startHandshake(t, rs)
	defer conn.Close()

	bad := encryptedTextFrame(t, keys.Pub, "secret")
	bad.Content = base64.StdEncoding.EncodeToString([]byte("garbage ciphertext"))
	require.NoError(t, conn.WriteJSON(bad))
	waitFor(t, func() bool { return c.Status().Snapshot().Rejected == 1 }, "tampered frame rejected")
	require.Empty(t, typist.all())

	require.NoError(t, conn.WriteJSON(encryptedTextFrame(t, keys.Pub, "after")))
	waitFor(t, func() bool { return len(typist.all()) == 1 }, "session still alive")
}

func TestClient_MalformedJSONIsNonFatal(t *testing.T) {
	rs := newRelayServer(t)
	typist := &fakeTypist{}
	c, keys := newTestClient(t, rs.url(), typist)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	conn, _ := startHandshake(t, rs)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	require.NoError(t, conn.WriteJSON(encryptedTextFrame(t, keys.Pub, "still here")))
	waitFor(t, func() bool { return len(typist.all()) == 1 }, "frame after junk typed")
}

func TestClient_TypistFailureIsNonFatal(t *testing.T) {
	rs := newRelayServer(t)
	typist := &fakeTypist{err: errTypist}
	c, keys := newTestClient(t, rs.url(), typist)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	conn, _ := startHandshake(t, rs)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(encryptedTextFrame(t, keys.Pub, "will not type")))
	waitFor(t, func() bool {
		s := c.Status().Snapshot()
		return s.MessagesReceived == 1 && strings.Contains(s.LastError, "typing error")
	}, "typing error recorded")

	// Connection is still up.
	require.NoError(t, conn.WriteJSON(encryptedTextFrame(t, keys.Pub, "second")))
	waitFor(t, func() bool { return c.Status().Snapshot().MessagesReceived == 2 }, "second frame handled")
}

func TestClient_ReconnectsAfterDrop(t *testing.T) {
	rs := newRelayServer(t)
	typist := &fakeTypist{}
	c, _ := newTestClient(t, rs.url(), typist)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	// Drop two connections in a row; the client must keep coming back.
	for i := 0; i < 2; i++ {
		conn := rs.accept(t)
		conn.Close()
	}
	conn, _ := startHandshake(t, rs)
	defer conn.Close()

	waitFor(t, func() bool { return c.Status().Snapshot().State == StateRegistered }, "re-registered after drops")
	require.GreaterOrEqual(t, c.Status().Snapshot().Attempts, 3)
}
