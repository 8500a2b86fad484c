package otp

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/bafnatoys/bafnatoys-backend/pkg/config"
	"github.com/bafnatoys/bafnatoys-backend/pkg/errors"
	"github.com/bafnatoys/bafnatoys-backend/pkg/logger"
	"github.com/bafnatoys/bafnatoys-backend/pkg/metrics"
	"github.com/bafnatoys/bafnatoys-backend/pkg/phone"
)

// Service implements the request/verify workflow for phone login codes.
type Service struct {
	store   ChallengeStore
	sender  Sender
	cfg     config.OTPConfig
	log     *logger.Logger
	metrics *metrics.APIMetrics
	now     func() time.Time
}

// NewService wires a challenge store and an SMS sender into the workflow.
func NewService(store ChallengeStore, sender Sender, cfg config.OTPConfig, log *logger.Logger, apiMetrics *metrics.APIMetrics) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("otp: challenge store is required")
	}
	if sender == nil {
		return nil, fmt.Errorf("otp: sender is required")
	}
	if log == nil {
		return nil, fmt.Errorf("otp: logger is required")
	}
	if apiMetrics == nil {
		apiMetrics = metrics.NewAPIMetrics(nil)
	}
	return &Service{
		store:   store,
		sender:  sender,
		cfg:     cfg,
		log:     log,
		metrics: apiMetrics,
		now:     time.Now,
	}, nil
}

// RequestResult reports how long the issued code stays valid.
type RequestResult struct {
	Phone     string
	ExpiresIn time.Duration
}

// RequestCode issues a fresh 6-digit code for the phone and dispatches it via
// the sender. A resend within the cooldown window is rejected with the number
// of seconds left to wait. Requesting again after the cooldown replaces the
// previous challenge, invalidating its code.
func (s *Service) RequestCode(ctx context.Context, rawPhone string) (*RequestResult, error) {
	normalized := phone.Normalize(rawPhone)
	if !phone.IsValid(normalized) {
		s.metrics.IncOTPSend("invalid_phone")
		return nil, errors.New(errors.CodeValidation, "a valid 10 digit mobile number is required")
	}

	now := s.now()
	existing, err := s.store.Get(ctx, normalized)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "failed to load verification state")
	}
	if existing != nil {
		elapsed := now.Sub(existing.LastSentAt)
		if elapsed < s.cfg.ResendCooldown {
			wait := int((s.cfg.ResendCooldown - elapsed).Round(time.Second) / time.Second)
			if wait < 1 {
				wait = 1
			}
			s.metrics.IncOTPSend("cooldown")
			return nil, errors.New(errors.CodeRateLimit, "please wait before requesting another code").
				WithDetails(map[string]any{"retry_after_seconds": wait})
		}
	}

	challenge := &Challenge{
		Phone:      normalized,
		Code:       generateCode(),
		ExpiresAt:  now.Add(s.cfg.TTL),
		Attempts:   0,
		LastSentAt: now,
	}
	if err := s.store.Put(ctx, challenge); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "failed to persist verification code")
	}

	if err := s.sender.Send(ctx, normalized, challenge.Code); err != nil {
		// The code never reached the customer, so drop the challenge rather
		// than locking them behind a cooldown for a code they cannot know.
		if delErr := s.store.Delete(ctx, normalized); delErr != nil {
			s.log.Error(ctx, "failed to roll back undelivered otp challenge", delErr)
		}
		s.metrics.IncOTPSend("provider_error")
		return nil, errors.Wrap(errors.CodeDependency, err, "failed to send verification code")
	}

	s.metrics.IncOTPSend("ok")
	s.log.Info(s.log.WithField(ctx, "phone", normalized), "otp code dispatched")
	return &RequestResult{Phone: normalized, ExpiresIn: s.cfg.TTL}, nil
}

// VerifyCode checks a claimed code against the live challenge. A correct code
// consumes the challenge; expiry and exhausting the attempt budget also
// consume it, so the customer must request a fresh code.
func (s *Service) VerifyCode(ctx context.Context, rawPhone, code string) (string, error) {
	normalized := phone.Normalize(rawPhone)
	if !phone.IsValid(normalized) {
		s.metrics.IncOTPVerify("invalid_phone")
		return "", errors.New(errors.CodeValidation, "a valid 10 digit mobile number is required")
	}

	challenge, err := s.store.Get(ctx, normalized)
	if err != nil {
		return "", errors.Wrap(errors.CodeInternal, err, "failed to load verification state")
	}
	if challenge == nil {
		s.metrics.IncOTPVerify("not_requested")
		return "", errors.New(errors.CodeValidation, "no verification code was requested for this number")
	}

	now := s.now()
	if !now.Before(challenge.ExpiresAt) {
		if err := s.store.Delete(ctx, normalized); err != nil {
			return "", errors.Wrap(errors.CodeInternal, err, "failed to clear expired verification code")
		}
		s.metrics.IncOTPVerify("expired")
		return "", errors.New(errors.CodeValidation, "verification code has expired, request a new one")
	}

	challenge.Attempts++
	if challenge.Attempts > s.cfg.MaxAttempts {
		if err := s.store.Delete(ctx, normalized); err != nil {
			return "", errors.Wrap(errors.CodeInternal, err, "failed to clear verification state")
		}
		s.metrics.IncOTPVerify("too_many_attempts")
		return "", errors.New(errors.CodeRateLimit, "too many incorrect attempts, request a new code")
	}

	if challenge.Code != code {
		if err := s.store.Put(ctx, challenge); err != nil {
			return "", errors.Wrap(errors.CodeInternal, err, "failed to record verification attempt")
		}
		s.metrics.IncOTPVerify("mismatch")
		return "", errors.New(errors.CodeValidation, "incorrect verification code")
	}

	if err := s.store.Delete(ctx, normalized); err != nil {
		return "", errors.Wrap(errors.CodeInternal, err, "failed to consume verification code")
	}
	s.metrics.IncOTPVerify("ok")
	s.log.Info(s.log.WithField(ctx, "phone", normalized), "otp verified")
	return normalized, nil
}

// generateCode draws a uniform 6-digit code, never with a leading zero.
func generateCode() string {
	return fmt.Sprintf("%06d", 100000+rand.Intn(900000))
}
