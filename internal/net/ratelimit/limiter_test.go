package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestAllow_BurstThenDeny(t *testing.T) {
	l := New(1, 2)

	if !l.Allow("api.example.com") {
		t.Fatal("first request should be allowed")
	}
	if !l.Allow("api.example.com") {
		t.Fatal("second request within burst should be allowed")
	}
	if l.Allow("api.example.com") {
		t.Fatal("third request should exceed burst")
	}
}

func TestAllow_HostsIndependent(t *testing.T) {
	l := New(1, 1)

	if !l.Allow("a.example.com") {
		t.Fatal("host a should be allowed")
	}
	if !l.Allow("b.example.com") {
		t.Fatal("host b has its own bucket")
	}
	if l.Allow("a.example.com") {
		t.Fatal("host a bucket should be drained")
	}
}

func TestWait_RespectsContext(t *testing.T) {
	l := New(0.001, 1)
	l.Allow("api.example.com") // drain the bucket

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := l.Wait(ctx, "api.example.com"); err == nil {
		t.Fatal("expected context deadline error")
	}
}
