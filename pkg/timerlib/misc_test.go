package timerlib

import (
	"testing"
	"time"
)

func TestFormatClock(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00"},
		{-5 * time.Second, "00:00"},
		{59 * time.Second, "00:59"},
		{25 * time.Minute, "25:00"},
		{61 * time.Minute, "01:01:00"},
		{3*time.Hour + 4*time.Minute + 5*time.Second, "03:04:05"},
		{90*time.Minute + 500*time.Millisecond, "01:30:00"},
	}
	for _, c := range cases {
		if got := FormatClock(c.d); got != c.want {
			t.Errorf("FormatClock(%s): got %s, want %s", c.d, got, c.want)
		}
	}
}

func TestNewSessionIdUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewSessionId()
		if len(id) != 16 {
			t.Fatalf("id length: got %d, want 16", len(id))
		}
		if seen[id] {
			t.Fatalf("duplicate session id %s", id)
		}
		seen[id] = true
	}
}
