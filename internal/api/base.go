package api

import "time"

// DefaultBaseURL is the single source of truth for the CLI API target.
const DefaultBaseURL = "http://localhost:8080/api/v1"

// DefaultTimeout bounds every request. The hosted backend sleeps when idle, so
// a cold start can exceed it; callers surface that as a network error.
const DefaultTimeout = 10 * time.Second

// NewDefaultClient builds a client pointed at the default API URL.
func NewDefaultClient(timeout ...time.Duration) *Client {
	return NewClient(DefaultBaseURL, timeout...)
}
