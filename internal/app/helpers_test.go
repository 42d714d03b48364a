package app

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"wordhunt/internal/config"
	"wordhunt/internal/dictionary"
	"wordhunt/internal/domain"
	"wordhunt/internal/snapshot"
)

// fakeConn records everything sent to it
type fakeConn struct {
	mu     sync.Mutex
	events []*domain.Event
	closed bool
}

func (c *fakeConn) Send(message any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if event, ok := message.(*domain.Event); ok {
		c.events = append(c.events, event)
	}
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) count(eventType domain.EventType) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, event := range c.events {
		if event.Type == eventType {
			n++
		}
	}
	return n
}

func (c *fakeConn) last(eventType domain.EventType) *domain.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.events) - 1; i >= 0; i-- {
		if c.events[i].Type == eventType {
			return c.events[i]
		}
	}
	return nil
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// marshalingConn serializes every event it receives, the way the websocket
// client does, on whichever goroutine delivers it
type marshalingConn struct {
	mu    sync.Mutex
	sent  int
	bytes int
}

func (c *marshalingConn) Send(message any) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.sent++
	c.bytes += len(data)
	c.mu.Unlock()
	return nil
}

func (c *marshalingConn) Close() error { return nil }

func (c *marshalingConn) delivered() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sent
}

// fakeDict answers from a fixed verdict map, unknown for everything else
type fakeDict struct {
	verdicts map[string]dictionary.Verdict
}

func (d fakeDict) IsValidWord(_ context.Context, word, _ string) dictionary.Verdict {
	if verdict, ok := d.verdicts[word]; ok {
		return verdict
	}
	return dictionary.VerdictUnknown
}

func testConfig() *config.Config {
	return &config.Config{
		Game: config.GameConfig{
			HostGracePeriod:        60 * time.Millisecond,
			ParticipantGracePeriod: 40 * time.Millisecond,
			ArbitrationTimeout:     500 * time.Millisecond,
			DictionaryTimeout:      200 * time.Millisecond,
			MaxRoundDuration:       10 * time.Minute,
		},
		Snapshot: config.SnapshotConfig{TTL: time.Minute},
	}
}

func newTestRegistry(cfg *config.Config, dict dictionary.Lookup) *Registry {
	if dict == nil {
		dict = fakeDict{}
	}
	return NewRegistry(cfg, dict, snapshot.Noop{}, zerolog.Nop())
}

var handleCounter int

func nextHandle() string {
	handleCounter++
	return fmt.Sprintf("handle-%d", handleCounter)
}

func createTestRoom(t *testing.T, r *Registry, code string) (*RoomSession, *fakeConn, string) {
	t.Helper()
	conn := &fakeConn{}
	handle := nextHandle()
	session, _, err := r.CreateRoom(code, handle, "Test Room", "en", conn)
	if err != nil {
		t.Fatalf("create room %s: %v", code, err)
	}
	return session, conn, handle
}

func joinTestRoom(t *testing.T, r *Registry, code, name string) (*fakeConn, string) {
	t.Helper()
	conn := &fakeConn{}
	handle := nextHandle()
	if _, _, err := r.JoinRoom(code, name, handle, conn); err != nil {
		t.Fatalf("join room %s as %s: %v", code, name, err)
	}
	return conn, handle
}

func testGrid() domain.Grid {
	return domain.Grid{
		{"K", "L", "B"},
		{"M", "S", "T"},
		{"R", "Ħ", "N"},
	}
}

// waitFor polls cond until it holds or the timeout elapses
func waitFor(t *testing.T, timeout time.Duration, msg string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", msg)
}
