package realtime

import (
	"fmt"
	"sync"
	"testing"
)

func TestPresenceMultipleConnections(t *testing.T) {
	p := NewPresenceRegistry()

	p.Connect("user-a", "conn-1")
	p.Connect("user-a", "conn-2")

	if !p.IsOnline("user-a") {
		t.Fatal("user-a should be online with two connections")
	}
	if got := len(p.Connections("user-a")); got != 2 {
		t.Fatalf("expected 2 connections, got %d", got)
	}

	userID, wasLast := p.Disconnect("conn-1")
	if userID != "user-a" || wasLast {
		t.Fatalf("first disconnect: got (%q, %v), want (user-a, false)", userID, wasLast)
	}
	if !p.IsOnline("user-a") {
		t.Fatal("user-a should stay online while conn-2 lives")
	}

	userID, wasLast = p.Disconnect("conn-2")
	if userID != "user-a" || !wasLast {
		t.Fatalf("last disconnect: got (%q, %v), want (user-a, true)", userID, wasLast)
	}
	if p.IsOnline("user-a") {
		t.Fatal("user-a should be offline after the last disconnect")
	}
}

func TestPresenceDisconnectUnknownConnection(t *testing.T) {
	p := NewPresenceRegistry()

	userID, wasLast := p.Disconnect("never-connected")
	if userID != "" || wasLast {
		t.Fatalf("got (%q, %v), want empty result", userID, wasLast)
	}
}

func TestPresenceUserFor(t *testing.T) {
	p := NewPresenceRegistry()
	p.Connect("user-a", "conn-1")

	if userID, ok := p.UserFor("conn-1"); !ok || userID != "user-a" {
		t.Fatalf("UserFor(conn-1) = (%q, %v)", userID, ok)
	}
	if _, ok := p.UserFor("conn-2"); ok {
		t.Fatal("unauthenticated connection should not resolve")
	}
}

func TestPresenceCountDistinctUsers(t *testing.T) {
	p := NewPresenceRegistry()
	p.Connect("user-a", "conn-1")
	p.Connect("user-a", "conn-2")
	p.Connect("user-b", "conn-3")

	if got := p.Count(); got != 2 {
		t.Fatalf("Count() = %d, want 2", got)
	}
}

func TestPresenceConcurrentChurn(t *testing.T) {
	p := NewPresenceRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			connID := fmt.Sprintf("conn-%d", i)
			p.Connect("user-a", connID)
			p.IsOnline("user-a")
			p.Disconnect(connID)
		}(i)
	}
	wg.Wait()

	if p.IsOnline("user-a") {
		t.Fatal("all connections disconnected, user should be offline")
	}
	if got := p.Count(); got != 0 {
		t.Fatalf("Count() = %d after full churn, want 0", got)
	}
}
