package order

import (
	"strings"
	"testing"
	"time"
)

func TestOrderNumberFormat(t *testing.T) {
	now := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	n := newOrderNumber(now)

	parts := strings.Split(n, "-")
	if len(parts) != 3 {
		t.Fatalf("expected 3 segments, got %q", n)
	}
	if parts[0] != "CM" {
		t.Errorf("expected CM prefix, got %q", parts[0])
	}
	if parts[1] != "20260827" {
		t.Errorf("expected date segment 20260827, got %q", parts[1])
	}
	if len(parts[2]) != 8 {
		t.Errorf("expected 8-char entropy segment, got %q", parts[2])
	}
	if parts[2] != strings.ToUpper(parts[2]) {
		t.Errorf("expected uppercase entropy, got %q", parts[2])
	}
}

func TestOrderNumberUnique(t *testing.T) {
	now := time.Now()
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		n := newOrderNumber(now)
		if seen[n] {
			t.Fatalf("duplicate order number %q", n)
		}
		seen[n] = true
	}
}

func TestIsTerminal(t *testing.T) {
	cases := []struct {
		status   Status
		terminal bool
	}{
		{StatusPending, false},
		{StatusCompleted, true},
		{StatusCancelled, true},
	}

	for _, tc := range cases {
		o := &Order{Status: tc.status}
		if o.IsTerminal() != tc.terminal {
			t.Errorf("status %s: expected terminal=%v", tc.status, tc.terminal)
		}
	}
}
