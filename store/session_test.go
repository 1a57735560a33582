package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/sahilchouksey/sage-api/model"
)

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	if _, err := s.CheckSession(ctx); err != ErrNoSession {
		t.Fatalf("expected ErrNoSession before login, got %v", err)
	}

	session, err := s.StartSession(ctx)
	if err != nil {
		t.Fatal(err)
	}
	wantExpiry := session.Timestamp.Add(SessionDuration)
	if !session.ExpiresAt.Equal(wantExpiry) {
		t.Errorf("expiry = %v, want %v", session.ExpiresAt, wantExpiry)
	}

	checked, err := s.CheckSession(ctx)
	if err != nil {
		t.Fatalf("CheckSession after login: %v", err)
	}
	if !checked.Authenticated {
		t.Error("session should be authenticated")
	}

	if err := s.ClearSession(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CheckSession(ctx); err != ErrNoSession {
		t.Errorf("expected ErrNoSession after logout, got %v", err)
	}
}

func writeRawSession(t *testing.T, s *Store, session model.AuthSession) {
	t.Helper()
	raw, err := json.Marshal(session)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.kv.Set(context.Background(), AuthKey, raw); err != nil {
		t.Fatal(err)
	}
}

func TestCheckSessionExpiry(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	writeRawSession(t, s, model.AuthSession{
		Authenticated: true,
		Timestamp:     time.Now().Add(-31 * 24 * time.Hour),
		ExpiresAt:     time.Now().Add(-24 * time.Hour),
	})

	if _, err := s.CheckSession(ctx); err != ErrSessionExpired {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	// The lapsed record is cleared; the next check reports no session.
	if _, err := s.CheckSession(ctx); err != ErrNoSession {
		t.Errorf("expected ErrNoSession after expiry cleanup, got %v", err)
	}
}

func TestCheckSessionSlidingRefresh(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	// Three days left: inside the refresh window.
	closeToExpiry := time.Now().Add(3 * 24 * time.Hour)
	writeRawSession(t, s, model.AuthSession{
		Authenticated: true,
		Timestamp:     time.Now().Add(-27 * 24 * time.Hour),
		ExpiresAt:     closeToExpiry,
	})

	refreshed, err := s.CheckSession(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !refreshed.ExpiresAt.After(closeToExpiry.Add(24 * time.Hour)) {
		t.Errorf("expiry %v should have been extended past %v", refreshed.ExpiresAt, closeToExpiry)
	}

	// Ten days left: outside the window, expiry stays put.
	farFromExpiry := time.Now().Add(10 * 24 * time.Hour)
	writeRawSession(t, s, model.AuthSession{
		Authenticated: true,
		Timestamp:     time.Now(),
		ExpiresAt:     farFromExpiry,
	})
	unchanged, err := s.CheckSession(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !unchanged.ExpiresAt.Equal(farFromExpiry) {
		t.Errorf("expiry moved from %v to %v without being near expiry", farFromExpiry, unchanged.ExpiresAt)
	}
}

func TestCheckSessionCorruptRecord(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	if err := s.kv.Set(ctx, AuthKey, []byte("{corrupt")); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CheckSession(ctx); err != ErrNoSession {
		t.Errorf("corrupt record should clear to ErrNoSession, got %v", err)
	}
}

func TestSweepSession(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	writeRawSession(t, s, model.AuthSession{
		Authenticated: true,
		ExpiresAt:     time.Now().Add(-time.Hour),
	})

	if err := s.SweepSession(ctx); err != nil {
		t.Fatalf("sweep should swallow expiry: %v", err)
	}
	if _, err := s.CheckSession(ctx); err != ErrNoSession {
		t.Errorf("record should be cleared by sweep, got %v", err)
	}
}
