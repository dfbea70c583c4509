package server

import (
	"io"
	"log"
	"net"
	"sync"
	"testing"
	"time"
)

func poolLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// readFrame reads one length-prefixed frame off the watcher side of a pipe.
func readFrame(t *testing.T, conn net.Conn) []byte {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var mu sync.Mutex
	b, err := read(&mu, conn)
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	return b
}

func TestPoolBroadcast(t *testing.T) {
	p := NewPool(poolLogger())
	srvEnd, cliEnd := net.Pipe()
	defer cliEnd.Close()
	p.AddSession("habit-1", NewSyncConn(srvEnd))

	msg := []byte(`{"ok":true}`)
	done := make(chan error, 1)
	go func() { done <- p.Broadcast("habit-1", msg) }()

	got := readFrame(t, cliEnd)
	if string(got) != string(msg) {
		t.Errorf("broadcast payload: got %q, want %q", got, msg)
	}
	if err := <-done; err != nil {
		t.Fatalf("broadcast: %v", err)
	}
}

func TestPoolBroadcastDropsDeadConns(t *testing.T) {
	p := NewPool(poolLogger())
	dead, deadPeer := net.Pipe()
	_ = deadPeer.Close()
	_ = dead.Close()
	live, livePeer := net.Pipe()
	defer livePeer.Close()

	p.AddSession("habit-1", NewSyncConn(dead))
	p.AddConnections("habit-1", []*SyncConn{NewSyncConn(live)})

	go func() {
		_ = p.Broadcast("habit-1", []byte("x"))
	}()
	// the live watcher still receives the frame
	if got := readFrame(t, livePeer); string(got) != "x" {
		t.Errorf("live watcher payload: got %q", got)
	}

	// the dead conn is gone; a second broadcast has only the live watcher
	go func() {
		if err := p.Broadcast("habit-1", []byte("y")); err != nil {
			t.Errorf("second broadcast: %v", err)
		}
	}()
	if got := readFrame(t, livePeer); string(got) != "y" {
		t.Errorf("second payload: got %q", got)
	}
}

func TestPoolAddSessionReplacesWatchers(t *testing.T) {
	p := NewPool(poolLogger())
	old, oldPeer := net.Pipe()
	defer oldPeer.Close()
	defer old.Close()
	p.AddSession("habit-1", NewSyncConn(old))

	fresh, freshPeer := net.Pipe()
	defer freshPeer.Close()
	p.AddSession("habit-1", NewSyncConn(fresh))

	go func() { _ = p.Broadcast("habit-1", []byte("z")) }()
	if got := readFrame(t, freshPeer); string(got) != "z" {
		t.Errorf("fresh watcher payload: got %q", got)
	}
	// the old watcher got nothing
	_ = oldPeer.SetReadDeadline(time.Now().Add(50 * time.Millisecond))
	one := make([]byte, 1)
	if _, err := oldPeer.Read(one); err == nil {
		t.Error("replaced watcher still received data")
	}
}

func TestPoolRemoveSessionClosesConns(t *testing.T) {
	p := NewPool(poolLogger())
	srvEnd, cliEnd := net.Pipe()
	defer cliEnd.Close()
	p.AddSession("habit-1", NewSyncConn(srvEnd))
	if !p.HasSession("habit-1") {
		t.Fatal("expected session to be registered")
	}
	p.RemoveSession("habit-1")
	if p.HasSession("habit-1") {
		t.Fatal("expected session to be gone")
	}
	// the watcher's peer observes the close
	_ = cliEnd.SetReadDeadline(time.Now().Add(2 * time.Second))
	one := make([]byte, 1)
	if _, err := cliEnd.Read(one); err != io.EOF && err != io.ErrClosedPipe {
		t.Errorf("read after remove: got %v, want closed", err)
	}
}

// A pushed broadcast and a handler response racing for the same connection
// must serialize on the SyncConn write mutex; the client reads whole frames
// in some order, never a spliced length prefix.
func TestPoolBroadcastDoesNotInterleaveWithResponses(t *testing.T) {
	p := NewPool(poolLogger())
	srvEnd, cliEnd := net.Pipe()
	defer cliEnd.Close()
	sconn := NewSyncConn(srvEnd)
	p.AddSession("habit-1", sconn)

	const rounds = 50
	tick := []byte(`{"ok":true,"update":{"type":"timer_update","message":{"action":"timer_tick"}}}`)
	resp := []byte(`{"ok":true,"update":{"type":"timer_status","message":{}}}`)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			_ = p.Broadcast("habit-1", tick)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			_ = sconn.Write(resp)
		}
	}()

	ticks, resps := 0, 0
	for i := 0; i < 2*rounds; i++ {
		switch got := readFrame(t, cliEnd); string(got) {
		case string(tick):
			ticks++
		case string(resp):
			resps++
		default:
			t.Fatalf("frame %d spliced: %q", i, got)
		}
	}
	wg.Wait()
	if ticks != rounds || resps != rounds {
		t.Fatalf("frames: got %d ticks, %d responses, want %d each", ticks, resps, rounds)
	}
}

func TestPoolErrorPrecedence(t *testing.T) {
	p := NewPool(poolLogger())
	p.WriteError("habit-1", ErrorTypeCritical, "disk gone")
	// a warning must not mask a critical error
	p.WriteError("habit-1", ErrorTypeWarning, "minor hiccup")
	if e := p.GetError("habit-1"); e == nil || e.Type != ErrorTypeCritical {
		t.Fatalf("error: got %+v, want critical preserved", e)
	}
	p.ForceWriteError("habit-1", ErrorTypeWarning, "reset")
	if e := p.GetError("habit-1"); e == nil || e.Type != ErrorTypeWarning {
		t.Fatalf("error after force: got %+v", e)
	}
}

func TestFrameRoundTrip(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()
	var wmu, rmu sync.Mutex
	payload := []byte(`{"method":"start_timer"}`)
	go func() {
		_ = write(&wmu, a, payload)
	}()
	_ = b.SetReadDeadline(time.Now().Add(2 * time.Second))
	got, err := read(&rmu, b)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("round trip: got %q, want %q", got, payload)
	}
}

func TestIntByteConversion(t *testing.T) {
	for _, v := range []uint32{0, 1, 255, 256, 1 << 20, 0xFFFFFFFF} {
		if got := bytesToInt(intToBytes(v)); got != v {
			t.Errorf("round trip %d: got %d", v, got)
		}
	}
	// little endian on the wire
	b := intToBytes(0x0102)
	if b[0] != 0x02 || b[1] != 0x01 || b[2] != 0 || b[3] != 0 {
		t.Errorf("byte order: got %v", b)
	}
}

func TestValidToken(t *testing.T) {
	if validToken("", "Bearer anything") {
		t.Error("empty secret must reject every request")
	}
	if validToken("s3cret", "s3cret") {
		t.Error("missing Bearer prefix must be rejected")
	}
	if validToken("s3cret", "Bearer wrong") {
		t.Error("wrong token must be rejected")
	}
	if !validToken("s3cret", "Bearer s3cret") {
		t.Error("correct token must be accepted")
	}
}
