package utils

import (
	"fmt"
	"testing"
	"time"
)

func TestCooldownCacheTry(t *testing.T) {
	cache := NewCooldownCache(16)
	now := time.Now()

	ok, _ := cache.Try("g1:u1", now, time.Minute)
	if !ok {
		t.Fatal("first hit should pass")
	}
	ok, remaining := cache.Try("g1:u1", now.Add(30*time.Second), time.Minute)
	if ok {
		t.Fatal("hit inside cooldown should be rejected")
	}
	if remaining != 30*time.Second {
		t.Fatalf("expected 30s remaining, got %v", remaining)
	}
	ok, _ = cache.Try("g1:u1", now.Add(time.Minute), time.Minute)
	if !ok {
		t.Fatal("hit at cooldown boundary should pass")
	}
}

func TestCooldownCacheBounded(t *testing.T) {
	cache := NewCooldownCache(8)
	now := time.Now()

	for i := 0; i < 50; i++ {
		cache.Try(fmt.Sprintf("key-%d", i), now.Add(time.Duration(i)*time.Second), time.Second)
	}
	if size := cache.Len(); size > 8 {
		t.Fatalf("cache grew past bound: %d", size)
	}
}

func TestParseDuration(t *testing.T) {
	cases := []struct {
		input string
		want  time.Duration
	}{
		{"30s", 30 * time.Second},
		{"10m", 10 * time.Minute},
		{"2h", 2 * time.Hour},
		{"7d", 7 * 24 * time.Hour},
	}
	for _, tc := range cases {
		got, err := ParseDuration(tc.input)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.input, err)
		}
		if got != tc.want {
			t.Errorf("parse %q: expected %v, got %v", tc.input, tc.want, got)
		}
	}

	for _, bad := range []string{"", "10", "m", "1w", "1.5h", "10 m"} {
		if _, err := ParseDuration(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestKeyedMutex(t *testing.T) {
	locks := NewKeyedMutex()
	done := make(chan struct{})

	locks.Lock("a")
	go func() {
		locks.Lock("a")
		locks.Unlock("a")
		close(done)
	}()

	locks.Lock("b")
	locks.Unlock("b")

	select {
	case <-done:
		t.Fatal("second lock on same key acquired while held")
	case <-time.After(50 * time.Millisecond):
	}

	locks.Unlock("a")
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock never released")
	}
}
