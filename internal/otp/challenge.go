// Package otp issues short-lived numeric login codes and validates claimed
// codes against the live challenge for a phone number.
package otp

import (
	"context"
	"time"
)

// Challenge is the ephemeral verification record tied to one normalized
// phone number. At most one live challenge exists per phone.
type Challenge struct {
	Phone      string    `json:"phone"`
	Code       string    `json:"code"`
	ExpiresAt  time.Time `json:"expires_at"`
	Attempts   int       `json:"attempts"`
	LastSentAt time.Time `json:"last_sent_at"`
}

// ChallengeStore abstracts where challenges live. The in-memory store is
// only safe for single-instance deployments; multi-instance deployments
// must use the Redis store so the cooldown and at-most-one-live-challenge
// invariants hold across processes.
type ChallengeStore interface {
	// Get returns the live challenge for phone, or nil when none exists.
	Get(ctx context.Context, phone string) (*Challenge, error)
	// Put creates or overwrites the challenge for its phone.
	Put(ctx context.Context, challenge *Challenge) error
	// Delete removes the challenge for phone. Deleting a missing key is not
	// an error.
	Delete(ctx context.Context, phone string) error
}

// Sender dispatches the code to the customer. Implementations must bound
// their own timeouts.
type Sender interface {
	Send(ctx context.Context, phone, code string) error
}
