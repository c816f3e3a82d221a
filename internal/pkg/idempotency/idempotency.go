// Package idempotency defines how repeated checkout requests carrying the same
// Idempotency-Key are recognised and replayed.
package idempotency

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
)

const Header = "Idempotency-Key"

// MaxKeyLength bounds client supplied keys.
const MaxKeyLength = 255

var ErrInProgress = errors.New("a request with this idempotency key is still in progress")

// Key returns the trimmed Idempotency-Key header, or "" when absent.
func Key(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(Header))
}

// Fingerprint identifies the request a key was first used with.
func Fingerprint(method, path string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte{0})
	h.Write([]byte(path))
	h.Write([]byte{0})
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

// Record is a stored response. Completed is false while the first request
// holding the key is still running.
type Record struct {
	Fingerprint string `json:"fingerprint"`
	Completed   bool   `json:"completed"`
	Status      int    `json:"status,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	Body        []byte `json:"body,omitempty"`
}

// Store persists records for a limited time.
type Store interface {
	// Reserve claims key for a new request. When the key is already taken it
	// returns the existing record and false.
	Reserve(ctx context.Context, key, fingerprint string) (*Record, bool, error)

	// Complete stores the final response for a reserved key.
	Complete(ctx context.Context, key string, record Record) error

	// Release frees a reserved key so the request can be retried.
	Release(ctx context.Context, key string) error
}
