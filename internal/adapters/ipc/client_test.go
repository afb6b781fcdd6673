//go:build !windows

package ipc

import (
	"net"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/presenced/internal/domain"
	"github.com/bft-labs/presenced/internal/ports"
)

type inbound struct {
	op   uint32
	body []byte
}

// fakeDiscord is a single-connection IPC server.
type fakeDiscord struct {
	t      *testing.T
	ln     net.Listener
	frames chan inbound
	connc  chan net.Conn
}

func newFakeDiscord(t *testing.T) *fakeDiscord {
	t.Helper()

	dir, err := os.MkdirTemp("", "ipc")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	ln, err := net.Listen("unix", filepath.Join(dir, "discord-ipc-0"))
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	f := &fakeDiscord{
		t:      t,
		ln:     ln,
		frames: make(chan inbound, 64),
		connc:  make(chan net.Conn, 1),
	}
	go f.serve()
	return f
}

func (f *fakeDiscord) path() string {
	return f.ln.Addr().String()
}

func (f *fakeDiscord) serve() {
	conn, err := f.ln.Accept()
	if err != nil {
		return
	}
	f.connc <- conn
	for {
		op, body, err := readFrame(conn)
		if err != nil {
			close(f.frames)
			return
		}
		f.frames <- inbound{op: op, body: body}
	}
}

func (f *fakeDiscord) conn() net.Conn {
	select {
	case c := <-f.connc:
		f.connc <- c
		return c
	case <-time.After(2 * time.Second):
		f.t.Fatal("client never connected")
		return nil
	}
}

func (f *fakeDiscord) next() inbound {
	select {
	case in, ok := <-f.frames:
		require.True(f.t, ok, "connection closed")
		return in
	case <-time.After(2 * time.Second):
		f.t.Fatal("no frame received")
		return inbound{}
	}
}

func (f *fakeDiscord) send(op uint32, v any) {
	require.NoError(f.t, encodeFrame(f.conn(), op, v))
}

type recorder struct {
	ready        atomic.Int32
	mu           sync.Mutex
	errors       []int
	disconnected []int
}

func (r *recorder) handlers() ports.EventHandlers {
	return ports.EventHandlers{
		Ready: func() { r.ready.Add(1) },
		Disconnected: func(code int, _ string) {
			r.mu.Lock()
			r.disconnected = append(r.disconnected, code)
			r.mu.Unlock()
		},
		Errored: func(code int, _ string) {
			r.mu.Lock()
			r.errors = append(r.errors, code)
			r.mu.Unlock()
		},
	}
}

func (r *recorder) errorCodes() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.errors...)
}

func (r *recorder) disconnects() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.disconnected)
}

func TestClient_HandshakeReadyAndDedupe(t *testing.T) {
	srv := newFakeDiscord(t)
	rec := &recorder{}
	c := NewClient(Options{Path: srv.path()})

	require.NoError(t, c.Initialize("1234", rec.handlers(), false, ""))

	hs := srv.next()
	assert.Equal(t, opHandshake, hs.op)
	assert.JSONEq(t, `{"v":1,"client_id":"1234"}`, string(hs.body))

	srv.send(opFrame, map[string]any{"cmd": "DISPATCH", "evt": "READY", "data": map[string]any{"v": 1}})
	require.Eventually(t, func() bool {
		c.RunCallbacks()
		return rec.ready.Load() == 1
	}, 2*time.Second, 10*time.Millisecond)

	snap := domain.PresenceSnapshot{Details: "Neko Boi OS", LargeImageKey: "nekoemblem"}
	c.UpdatePresence(snap)
	c.UpdatePresence(snap)
	c.UpdatePresence(snap)

	first := srv.next()
	require.Equal(t, opFrame, first.op)
	var cmd struct {
		Cmd   string `json:"cmd"`
		Nonce string `json:"nonce"`
		Args  struct {
			PID      int `json:"pid"`
			Activity struct {
				Details string `json:"details"`
			} `json:"activity"`
		} `json:"args"`
	}
	require.NoError(t, json.Unmarshal(first.body, &cmd))
	assert.Equal(t, "SET_ACTIVITY", cmd.Cmd)
	assert.NotEmpty(t, cmd.Nonce)
	assert.Equal(t, os.Getpid(), cmd.Args.PID)
	assert.Equal(t, "Neko Boi OS", cmd.Args.Activity.Details)

	snap.State = "changed"
	c.UpdatePresence(snap)
	second := srv.next()
	assert.Contains(t, string(second.body), "changed", "identical pushes are suppressed")

	require.NoError(t, c.Shutdown())
	assert.Equal(t, opClose, srv.next().op)
	require.NoError(t, c.Shutdown())
}

func TestClient_ErrorEventAndPing(t *testing.T) {
	srv := newFakeDiscord(t)
	rec := &recorder{}
	c := NewClient(Options{Path: srv.path()})
	t.Cleanup(func() { c.Shutdown() })

	require.NoError(t, c.Initialize("1234", rec.handlers(), false, ""))
	srv.next()

	srv.send(opFrame, map[string]any{"evt": "ERROR", "data": map[string]any{"code": 4000, "message": "bad"}})
	require.Eventually(t, func() bool {
		c.RunCallbacks()
		return len(rec.errorCodes()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []int{4000}, rec.errorCodes())

	srv.send(opPing, map[string]any{"n": 1})
	pong := srv.next()
	assert.Equal(t, opPong, pong.op)
	assert.JSONEq(t, `{"n":1}`, string(pong.body))
}

func TestClient_PeerCloseQueuesDisconnect(t *testing.T) {
	srv := newFakeDiscord(t)
	rec := &recorder{}
	c := NewClient(Options{Path: srv.path()})
	t.Cleanup(func() { c.Shutdown() })

	require.NoError(t, c.Initialize("1234", rec.handlers(), false, ""))
	srv.next()

	srv.send(opClose, map[string]any{"code": 4003, "message": "invalid client id"})
	require.Eventually(t, func() bool {
		c.RunCallbacks()
		return rec.disconnects() == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.False(t, c.Connected())
}

func TestClient_MissingSocketIsDegraded(t *testing.T) {
	t.Parallel()

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Hour
	bo.RandomizationFactor = 0

	rec := &recorder{}
	c := NewClient(Options{
		Path:    filepath.Join(t.TempDir(), "nope"),
		Backoff: bo,
	})

	require.NoError(t, c.Initialize("1234", rec.handlers(), false, ""))
	c.RunCallbacks()
	assert.Equal(t, []int{ErrorCodeUnavailable}, rec.errorCodes())

	// Next attempt is an hour away.
	c.RunCallbacks()
	assert.Len(t, rec.errorCodes(), 1)

	c.UpdatePresence(domain.PresenceSnapshot{Details: "x"})
	assert.False(t, c.Connected())
	require.NoError(t, c.Shutdown())
}

func TestClient_EmptyClientID(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	c := NewClient(Options{Path: filepath.Join(t.TempDir(), "nope")})

	require.NoError(t, c.Initialize("", rec.handlers(), false, ""))
	assert.ErrorIs(t, c.Initialize("", rec.handlers(), false, ""), ErrAlreadyInitialized)

	c.RunCallbacks()
	c.RunCallbacks()
	assert.Equal(t, []int{ErrorCodeUnavailable}, rec.errorCodes(), "no reconnect attempts without a client id")

	require.NoError(t, c.Shutdown())
	assert.ErrorIs(t, c.Initialize("1", rec.handlers(), false, ""), ErrClientClosed)
}

func TestCandidatePaths(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", dir)

	paths := candidatePaths()
	require.Len(t, paths, socketSlots)
	assert.Equal(t, filepath.Join(dir, "discord-ipc-0"), paths[0])
	assert.Equal(t, filepath.Join(dir, "discord-ipc-9"), paths[9])
}
