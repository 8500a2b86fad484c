// Package authn issues access tokens: OTP-verified logins for wholesale
// buyers and email/password logins for back-office admins.
package authn

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/bafnatoys/bafnatoys-backend/internal/registrations"
	"github.com/bafnatoys/bafnatoys-backend/pkg/auth"
	"github.com/bafnatoys/bafnatoys-backend/pkg/config"
	"github.com/bafnatoys/bafnatoys-backend/pkg/db/models"
	pkgerrors "github.com/bafnatoys/bafnatoys-backend/pkg/errors"
	"github.com/bafnatoys/bafnatoys-backend/pkg/security"
)

// CustomerLoginResult couples the minted token with the buyer profile.
type CustomerLoginResult struct {
	Token        string
	Registration *models.Registration
}

// AdminLoginResult is the admin counterpart.
type AdminLoginResult struct {
	Token string
	Admin *models.Admin
}

type codeVerifier interface {
	VerifyCode(ctx context.Context, phone, code string) (string, error)
}

// AdminRepository looks up back-office accounts.
type AdminRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
}

type adminRepository struct {
	db *gorm.DB
}

// NewAdminRepository builds an admin repository bound to the provided DB.
func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&admin).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// Service performs both login flows.
type Service struct {
	verifier      codeVerifier
	registrations registrations.Service
	admins        AdminRepository
	jwtCfg        config.JWTConfig
	now           func() time.Time
}

// NewService wires the OTP verifier, registration lookups and admin store.
func NewService(verifier codeVerifier, regs registrations.Service, admins AdminRepository, jwtCfg config.JWTConfig) (*Service, error) {
	if verifier == nil {
		return nil, fmt.Errorf("authn: code verifier required")
	}
	if regs == nil {
		return nil, fmt.Errorf("authn: registrations service required")
	}
	if admins == nil {
		return nil, fmt.Errorf("authn: admin repository required")
	}
	return &Service{
		verifier:      verifier,
		registrations: regs,
		admins:        admins,
		jwtCfg:        jwtCfg,
		now:           time.Now,
	}, nil
}

// CustomerLogin verifies the OTP, then requires an existing approved
// registration for the phone. Pending and rejected accounts are refused so
// unreviewed buyers cannot see wholesale prices.
func (s *Service) CustomerLogin(ctx context.Context, rawPhone, code string) (*CustomerLoginResult, error) {
	verifiedPhone, err := s.verifier.VerifyCode(ctx, rawPhone, code)
	if err != nil {
		return nil, err
	}

	registration, err := s.registrations.GetByPhone(ctx, verifiedPhone)
	if err != nil {
		return nil, err
	}
	if registration.IsApproved == nil || !*registration.IsApproved {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "admin approval pending")
	}

	token, err := auth.MintAccessToken(s.jwtCfg, s.now(), auth.AccessTokenPayload{
		SubjectID: registration.ID,
		Role:      auth.RoleCustomer,
		Phone:     registration.OTPMobile,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	return &CustomerLoginResult{Token: token, Registration: registration}, nil
}

// AdminLogin checks the email/password pair against the admins table.
func (s *Service) AdminLogin(ctx context.Context, email, password string) (*AdminLoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password required")
	}

	admin, err := s.admins.FindByEmail(ctx, email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load admin")
	}

	ok, err := security.VerifyPassword(password, admin.PasswordHash)
	if err != nil || !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	token, err := auth.MintAccessToken(s.jwtCfg, s.now(), auth.AccessTokenPayload{
		SubjectID: admin.ID,
		Role:      auth.RoleAdmin,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	return &AdminLoginResult{Token: token, Admin: admin}, nil
}
