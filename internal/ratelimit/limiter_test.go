package ratelimit

import (
	"testing"
	"time"
)

func TestAdmit_AllowsUpToLimit(t *testing.T) {
	l := New(3, time.Minute)

	for i := 0; i < 3; i++ {
		if allowed, _ := l.Admit("client"); !allowed {
			t.Fatalf("request %d must be allowed", i+1)
		}
	}
	allowed, retryAfter := l.Admit("client")
	if allowed {
		t.Fatal("4th request within the window must be denied")
	}
	if retryAfter <= 0 || retryAfter > time.Minute {
		t.Errorf("retryAfter = %v, want within (0, 1m]", retryAfter)
	}
}

func TestAdmit_WindowSlides(t *testing.T) {
	at := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	l := New(2, time.Minute)
	l.now = func() time.Time { return at }

	l.Admit("client")
	at = at.Add(30 * time.Second)
	l.Admit("client")

	if allowed, _ := l.Admit("client"); allowed {
		t.Fatal("3rd request must be denied while both are in the window")
	}

	// 61s after the first request it has left the window.
	at = at.Add(31 * time.Second)
	if allowed, _ := l.Admit("client"); !allowed {
		t.Fatal("request must be allowed once the oldest leaves the window")
	}
}

func TestAdmit_RetryAfterTracksOldestRequest(t *testing.T) {
	at := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	l := New(1, time.Minute)
	l.now = func() time.Time { return at }

	l.Admit("client")
	at = at.Add(20 * time.Second)

	_, retryAfter := l.Admit("client")
	if retryAfter != 40*time.Second {
		t.Errorf("retryAfter = %v, want 40s", retryAfter)
	}
}

func TestAdmit_ClientsAreIndependent(t *testing.T) {
	l := New(1, time.Minute)

	l.Admit("a")
	if allowed, _ := l.Admit("a"); allowed {
		t.Fatal("client a must be at its limit")
	}
	if allowed, _ := l.Admit("b"); !allowed {
		t.Fatal("client b must have its own bucket")
	}
}

func TestAdmit_DeniedRequestsDoNotCount(t *testing.T) {
	at := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	l := New(1, time.Minute)
	l.now = func() time.Time { return at }

	l.Admit("client")
	for i := 0; i < 5; i++ {
		l.Admit("client") // all denied
	}

	at = at.Add(61 * time.Second)
	if allowed, _ := l.Admit("client"); !allowed {
		t.Fatal("denied requests must not extend the window")
	}
}

func TestAdmit_DisabledLimiter(t *testing.T) {
	l := New(0, time.Minute)
	for i := 0; i < 100; i++ {
		if allowed, _ := l.Admit("client"); !allowed {
			t.Fatal("limit<=0 must always allow")
		}
	}
}
