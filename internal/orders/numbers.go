package orders

import (
	"fmt"
	"math/rand"
)

const (
	orderNumberPrefix = "ODR"
	// maxNumberRetries bounds the collision-retry loop on the order number
	// unique constraint. Five draws from a 900k space makes a spurious
	// failure astronomically unlikely while ruling out livelock.
	maxNumberRetries = 5
)

// newOrderNumber draws a short human-readable order identifier. Uniqueness
// is enforced by the database constraint, not here.
func newOrderNumber() string {
	return fmt.Sprintf("%s%06d", orderNumberPrefix, 100000+rand.Intn(900000))
}
