package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type memoryCounterStore struct {
	mu     sync.Mutex
	counts map[string]int64
	err    error
}

func newMemoryCounterStore() *memoryCounterStore {
	return &memoryCounterStore{counts: map[string]int64{}}
}

func (s *memoryCounterStore) IncrWithTTL(_ context.Context, key string, _ time.Duration) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[key]++
	return s.counts[key], nil
}

func otpRequest(ip, mobile string) *http.Request {
	body := `{"phone":"` + mobile + `"}`
	req := httptest.NewRequest(http.MethodPost, "/otp/send", strings.NewReader(body))
	req.RemoteAddr = ip + ":51234"
	return req
}

func TestOTPRateLimitBlocksPhoneAfterLimit(t *testing.T) {
	store := newMemoryCounterStore()
	policy := NewOTPRateLimitPolicy(time.Minute, 0, 2)

	var hits int
	handler := OTPRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, otpRequest("10.0.0.1", "9876543210"))
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, otpRequest("10.0.0.1", "9876543210"))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, 2, hits)

	// A different phone still goes through.
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, otpRequest("10.0.0.1", "9123456780"))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOTPRateLimitNormalizesPhoneKeys(t *testing.T) {
	store := newMemoryCounterStore()
	policy := NewOTPRateLimitPolicy(time.Minute, 0, 1)

	handler := OTPRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, otpRequest("10.0.0.1", "9876543210"))
	assert.Equal(t, http.StatusOK, w.Code)

	// Same number with country code shares the counter.
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, otpRequest("10.0.0.1", "+919876543210"))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestOTPRateLimitBlocksIPAfterLimit(t *testing.T) {
	store := newMemoryCounterStore()
	policy := NewOTPRateLimitPolicy(time.Minute, 2, 0)

	handler := OTPRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, otpRequest("10.0.0.9", "9876543210"))
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, otpRequest("10.0.0.9", "9000000001"))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestOTPRateLimitPassesThroughWithoutStore(t *testing.T) {
	policy := NewOTPRateLimitPolicy(time.Minute, 1, 1)
	var hits int
	handler := OTPRateLimit(policy, nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, otpRequest("10.0.0.1", "9876543210"))
		assert.Equal(t, http.StatusOK, w.Code)
	}
	assert.Equal(t, 5, hits)
}

func TestOTPRateLimitLeavesBodyReadable(t *testing.T) {
	store := newMemoryCounterStore()
	policy := NewOTPRateLimitPolicy(time.Minute, 0, 5)

	var seenBody string
	handler := OTPRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		seenBody = string(data)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, otpRequest("10.0.0.1", "9876543210"))
	assert.Contains(t, seenBody, "9876543210")
}
