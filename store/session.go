package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sahilchouksey/sage-api/database"
	"github.com/sahilchouksey/sage-api/model"
)

const (
	// AuthKey is the storage key holding the login record.
	AuthKey = "sageAuthData"

	// SessionDuration is how long a login stays valid.
	SessionDuration = 30 * 24 * time.Hour
	// SessionRefreshWindow is how close to expiry a check re-extends the
	// session (sliding refresh).
	SessionRefreshWindow = 7 * 24 * time.Hour
)

// StartSession persists a fresh login record.
func (s *Store) StartSession(ctx context.Context) (model.AuthSession, error) {
	now := time.Now()
	session := model.AuthSession{
		Authenticated: true,
		Timestamp:     now,
		ExpiresAt:     now.Add(SessionDuration),
	}
	if err := s.writeSession(ctx, session); err != nil {
		return model.AuthSession{}, err
	}
	return session, nil
}

// CheckSession validates the stored login record against the current time.
// Expired or missing records are cleared and reported; records within the
// refresh window are silently re-extended to the full duration.
func (s *Store) CheckSession(ctx context.Context) (model.AuthSession, error) {
	raw, err := s.kv.Get(ctx, AuthKey)
	if err == database.ErrKeyNotFound {
		return model.AuthSession{}, ErrNoSession
	}
	if err != nil {
		return model.AuthSession{}, &StorageError{Op: "read", Err: err}
	}

	var session model.AuthSession
	if err := json.Unmarshal(raw, &session); err != nil {
		_ = s.ClearSession(ctx)
		return model.AuthSession{}, ErrNoSession
	}

	now := time.Now()
	if !session.Authenticated || now.After(session.ExpiresAt) {
		_ = s.ClearSession(ctx)
		return model.AuthSession{}, ErrSessionExpired
	}

	if session.ExpiresAt.Before(now.Add(SessionRefreshWindow)) {
		session.ExpiresAt = now.Add(SessionDuration)
		if err := s.writeSession(ctx, session); err != nil {
			return model.AuthSession{}, err
		}
	}
	return session, nil
}

// ClearSession removes the login record.
func (s *Store) ClearSession(ctx context.Context) error {
	if err := s.kv.Delete(ctx, AuthKey); err != nil {
		return &StorageError{Op: "delete", Err: err}
	}
	return nil
}

// SweepSession clears the login record once it has lapsed; run
// periodically.
func (s *Store) SweepSession(ctx context.Context) error {
	_, err := s.CheckSession(ctx)
	if err == ErrNoSession || err == ErrSessionExpired {
		return nil
	}
	return err
}

func (s *Store) writeSession(ctx context.Context, session model.AuthSession) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return &StorageError{Op: "encode", Err: err}
	}
	if err := s.kv.Set(ctx, AuthKey, raw); err != nil {
		return &StorageError{Op: "write", Err: err}
	}
	return nil
}
