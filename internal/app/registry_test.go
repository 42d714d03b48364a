package app

import (
	"sync/atomic"
	"testing"
	"time"

	"wordhunt/internal/domain"
)

func TestCreateRoomDuplicateCode(t *testing.T) {
	r := newTestRegistry(testConfig(), nil)
	createTestRoom(t, r, "DUP01")

	_, _, err := r.CreateRoom("DUP01", nextHandle(), "Another Room", "en", &fakeConn{})
	if err != domain.ErrRoomExists {
		t.Fatalf("duplicate create err = %v, want ErrRoomExists", err)
	}
}

func TestJoinUnknownRoom(t *testing.T) {
	r := newTestRegistry(testConfig(), nil)

	_, _, err := r.JoinRoom("NOPE01", "ada", nextHandle(), &fakeConn{})
	if err != domain.ErrRoomNotFound {
		t.Fatalf("join unknown room err = %v, want ErrRoomNotFound", err)
	}
}

func TestJoinNameTaken(t *testing.T) {
	r := newTestRegistry(testConfig(), nil)
	createTestRoom(t, r, "TAKEN1")
	joinTestRoom(t, r, "TAKEN1", "ada")

	_, _, err := r.JoinRoom("TAKEN1", "ada", nextHandle(), &fakeConn{})
	if err != domain.ErrNameTaken {
		t.Fatalf("duplicate name err = %v, want ErrNameTaken", err)
	}
}

func TestResolveIdentity(t *testing.T) {
	r := newTestRegistry(testConfig(), nil)
	session, _, hostHandle := createTestRoom(t, r, "IDENT1")
	_, adaHandle := joinTestRoom(t, r, "IDENT1", "ada")

	resolved, identity, ok := r.Resolve(hostHandle)
	if !ok || resolved != session {
		t.Fatal("host handle did not resolve to its session")
	}
	if !identity.IsHost || identity.Name != "" {
		t.Fatalf("host identity = %+v", identity)
	}

	_, identity, ok = r.Resolve(adaHandle)
	if !ok || identity.IsHost || identity.Name != "ada" {
		t.Fatalf("participant identity = %+v, ok=%v", identity, ok)
	}

	if _, _, ok := r.Resolve("never-issued"); ok {
		t.Fatal("unknown handle resolved")
	}
}

func TestHostRebindDuringGrace(t *testing.T) {
	r := newTestRegistry(testConfig(), nil)
	session, _, hostHandle := createTestRoom(t, r, "REBIND")
	joinTestRoom(t, r, "REBIND", "ada")

	r.HandleDisconnect(hostHandle)
	if !session.HostDisconnected() {
		t.Fatal("host not marked disconnected")
	}

	newConn := &fakeConn{}
	newHandle := nextHandle()
	resolved, rebound, err := r.CreateRoom("REBIND", newHandle, "", "", newConn)
	if err != nil {
		t.Fatalf("rebind create: %v", err)
	}
	if resolved != session {
		t.Fatal("rebind produced a different session")
	}
	if !rebound {
		t.Fatal("rebind not reported")
	}
	if session.HostDisconnected() {
		t.Fatal("grace window still open after rebind")
	}
	if !session.IsHost(newHandle) {
		t.Fatal("new handle is not the host")
	}

	// Membership is replayed to the rebound host connection.
	waitFor(t, time.Second, "roster replay", func() bool {
		return newConn.count(domain.EventUpdateUsers) >= 1
	})

	// The grace timer must not fire after the rebind.
	time.Sleep(2 * testConfig().Game.HostGracePeriod)
	if !r.RoomExists("REBIND") {
		t.Fatal("room destroyed despite host rebind")
	}
}

func TestHostGraceExpiryDestroysRoom(t *testing.T) {
	r := newTestRegistry(testConfig(), nil)
	_, _, hostHandle := createTestRoom(t, r, "EXPIRE")
	adaConn, _ := joinTestRoom(t, r, "EXPIRE", "ada")

	r.HandleDisconnect(hostHandle)

	waitFor(t, time.Second, "room destruction", func() bool {
		return !r.RoomExists("EXPIRE")
	})

	waitFor(t, time.Second, "closing notification", func() bool {
		return adaConn.count(domain.EventHostLeftRoomClosing) == 1
	})
	if adaConn.count(domain.EventHostLeftRoomClosing) != 1 {
		t.Fatal("closing notification not sent exactly once")
	}

	payload := adaConn.last(domain.EventHostLeftRoomClosing).Payload.(domain.RoomClosingPayload)
	if payload.Reason != ReasonHostLeft {
		t.Fatalf("closing reason = %s, want %s", payload.Reason, ReasonHostLeft)
	}

	waitFor(t, time.Second, "connection close", adaConn.isClosed)
}

func TestCloseRoomRequiresHost(t *testing.T) {
	r := newTestRegistry(testConfig(), nil)
	createTestRoom(t, r, "CLOSE1")
	_, adaHandle := joinTestRoom(t, r, "CLOSE1", "ada")

	if err := r.CloseRoom(adaHandle); err != domain.ErrNotHost {
		t.Fatalf("participant close err = %v, want ErrNotHost", err)
	}
	if !r.RoomExists("CLOSE1") {
		t.Fatal("room destroyed by a non-host")
	}
}

func TestCloseRoomByHost(t *testing.T) {
	r := newTestRegistry(testConfig(), nil)
	_, _, hostHandle := createTestRoom(t, r, "CLOSE2")
	adaConn, _ := joinTestRoom(t, r, "CLOSE2", "ada")

	if err := r.CloseRoom(hostHandle); err != nil {
		t.Fatalf("host close: %v", err)
	}
	if r.RoomExists("CLOSE2") {
		t.Fatal("room still exists after host close")
	}

	payload := adaConn.last(domain.EventHostLeftRoomClosing).Payload.(domain.RoomClosingPayload)
	if payload.Reason != ReasonHostClosed {
		t.Fatalf("closing reason = %s, want %s", payload.Reason, ReasonHostClosed)
	}
}

func TestEmptyRoomDestroyed(t *testing.T) {
	r := newTestRegistry(testConfig(), nil)
	createTestRoom(t, r, "EMPTY1")
	_, adaHandle := joinTestRoom(t, r, "EMPTY1", "ada")

	r.HandleDisconnect(adaHandle)

	if r.RoomExists("EMPTY1") {
		t.Fatal("room survived its last participant leaving")
	}
}

func TestHandleDisconnectUnknownHandle(t *testing.T) {
	r := newTestRegistry(testConfig(), nil)
	createTestRoom(t, r, "NOOP01")

	// Must be a silent no-op, not a panic or a state change.
	r.HandleDisconnect("never-issued")

	if !r.RoomExists("NOOP01") {
		t.Fatal("unrelated room affected by an unknown handle")
	}
}

func TestRoomCountHook(t *testing.T) {
	r := newTestRegistry(testConfig(), nil)

	var count atomic.Int64
	r.SetOnRoomCount(func(n int) { count.Store(int64(n)) })

	createTestRoom(t, r, "HOOK01")
	waitFor(t, time.Second, "count after create", func() bool {
		return count.Load() == 1
	})

	r.DestroyRoom("HOOK01", ReasonShutdown)
	waitFor(t, time.Second, "count after destroy", func() bool {
		return count.Load() == 0
	})
}

func TestParticipantCountSpansRooms(t *testing.T) {
	r := newTestRegistry(testConfig(), nil)
	createTestRoom(t, r, "MULTI1")
	createTestRoom(t, r, "MULTI2")
	joinTestRoom(t, r, "MULTI1", "ada")
	joinTestRoom(t, r, "MULTI1", "bob")
	joinTestRoom(t, r, "MULTI2", "cyn")

	if got := r.RoomCount(); got != 2 {
		t.Fatalf("room count = %d, want 2", got)
	}
	if got := r.ParticipantCount(); got != 3 {
		t.Fatalf("participant count = %d, want 3", got)
	}
}

func TestRegistryClose(t *testing.T) {
	r := newTestRegistry(testConfig(), nil)
	createTestRoom(t, r, "SHUT01")
	adaConn, _ := joinTestRoom(t, r, "SHUT01", "ada")

	r.Close()

	if r.RoomCount() != 0 {
		t.Fatal("sessions survived registry shutdown")
	}
	waitFor(t, time.Second, "connection close", adaConn.isClosed)
	// Shutdown is not a host departure; no closing notice goes out.
	if adaConn.count(domain.EventHostLeftRoomClosing) != 0 {
		t.Fatal("closing notification sent on server shutdown")
	}
}
