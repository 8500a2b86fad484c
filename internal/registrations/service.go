package registrations

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bafnatoys/bafnatoys-backend/pkg/config"
	"github.com/bafnatoys/bafnatoys-backend/pkg/db"
	"github.com/bafnatoys/bafnatoys-backend/pkg/db/models"
	pkgerrors "github.com/bafnatoys/bafnatoys-backend/pkg/errors"
	"github.com/bafnatoys/bafnatoys-backend/pkg/phone"
	"github.com/bafnatoys/bafnatoys-backend/pkg/security"
)

// Service defines registration workflows for buyers and the back office.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Registration, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Registration, error)
	GetByPhone(ctx context.Context, rawPhone string) (*models.Registration, error)
	List(ctx context.Context) ([]models.Registration, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Registration, error)
	SetApproval(ctx context.Context, id uuid.UUID, approved bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo        Repository
	passwordCfg config.PasswordConfig
}

// NewService builds a registrations service.
func NewService(repo Repository, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("registrations repository required")
	}
	return &service{repo: repo, passwordCfg: passwordCfg}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Registration, error) {
	required := map[string]string{
		"firm name": input.FirmName,
		"shop name": input.ShopName,
		"state":     input.State,
		"city":      input.City,
		"zip":       input.Zip,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, field+" is required")
		}
	}

	mobile := phone.Normalize(input.OTPMobile)
	if !phone.IsValid(mobile) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a valid 10 digit mobile number is required")
	}
	whatsapp := ""
	if strings.TrimSpace(input.Whatsapp) != "" {
		whatsapp = phone.Normalize(input.Whatsapp)
	}

	passwordHash := ""
	if input.Password != "" {
		hash, err := security.HashPassword(input.Password, s.passwordCfg)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		passwordHash = hash
	}

	registration := &models.Registration{
		FirmName:        strings.TrimSpace(input.FirmName),
		ShopName:        strings.TrimSpace(input.ShopName),
		State:           strings.TrimSpace(input.State),
		City:            strings.TrimSpace(input.City),
		Zip:             strings.TrimSpace(input.Zip),
		OTPMobile:       mobile,
		Whatsapp:        whatsapp,
		PasswordHash:    passwordHash,
		VisitingCardURL: input.VisitingCardURL,
		IsApproved:      nil,
	}
	if err := s.repo.Create(ctx, registration); err != nil {
		if db.IsUniqueViolation(err, "otp_mobile") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a user with this mobile already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist registration")
	}
	return registration, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Registration, error) {
	registration, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "registration not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load registration")
	}
	return registration, nil
}

func (s *service) GetByPhone(ctx context.Context, rawPhone string) (*models.Registration, error) {
	normalized := phone.Normalize(rawPhone)
	if !phone.IsValid(normalized) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a valid 10 digit mobile number is required")
	}
	registration, err := s.repo.FindByPhone(ctx, normalized)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load registration")
	}
	return registration, nil
}

func (s *service) List(ctx context.Context) ([]models.Registration, error) {
	registrations, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list registrations")
	}
	return registrations, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Registration, error) {
	updates := map[string]any{}
	setString := func(column string, value *string) {
		if value != nil {
			updates[column] = strings.TrimSpace(*value)
		}
	}
	setString("firm_name", input.FirmName)
	setString("shop_name", input.ShopName)
	setString("state", input.State)
	setString("city", input.City)
	setString("zip", input.Zip)
	setString("visiting_card_url", input.VisitingCardURL)

	if input.OTPMobile != nil {
		normalized := phone.Normalize(*input.OTPMobile)
		if !phone.IsValid(normalized) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "a valid 10 digit mobile number is required")
		}
		updates["otp_mobile"] = normalized
	}
	if input.Whatsapp != nil {
		updates["whatsapp"] = phone.Normalize(*input.Whatsapp)
	}
	if len(updates) == 0 {
		return s.Get(ctx, id)
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "registration not found")
		}
		if db.IsUniqueViolation(err, "otp_mobile") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a user with this mobile already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update registration")
	}
	return s.Get(ctx, id)
}

func (s *service) SetApproval(ctx context.Context, id uuid.UUID, approved bool) error {
	if err := s.repo.Update(ctx, id, map[string]any{"is_approved": approved}); err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "registration not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update approval")
	}
	return nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "registration not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete registration")
	}
	return nil
}
