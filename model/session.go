package model

import "time"

// AuthSession is the persisted login record checked on every request.
// It lives under its own storage key, separate from the document.
type AuthSession struct {
	Authenticated bool      `json:"authenticated"`
	Timestamp     time.Time `json:"timestamp"`
	ExpiresAt     time.Time `json:"expiresAt"`
}
