// Package addresses manages each customer's saved address book. All
// operations are scoped to the owning customer; at most one address per
// customer is the default.
package addresses

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bafnatoys/bafnatoys-backend/pkg/db/models"
	"github.com/bafnatoys/bafnatoys-backend/pkg/enums"
	pkgerrors "github.com/bafnatoys/bafnatoys-backend/pkg/errors"
	"github.com/bafnatoys/bafnatoys-backend/pkg/phone"
)

// Input carries the writable address fields.
type Input struct {
	FullName  string
	Phone     string
	Line1     string
	Line2     string
	City      string
	State     string
	Zip       string
	Label     string
	IsDefault bool
}

// Repository defines persistence operations for addresses.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, address *models.Address) error
	FindOwned(ctx context.Context, customerID, id uuid.UUID) (*models.Address, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Address, error)
	Update(ctx context.Context, customerID, id uuid.UUID, updates map[string]any) error
	ClearDefault(ctx context.Context, customerID uuid.UUID) error
	Delete(ctx context.Context, customerID, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an address repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, address *models.Address) error {
	if address.ID == uuid.Nil {
		address.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(address).Error
}

func (r *repository) FindOwned(ctx context.Context, customerID, id uuid.UUID) (*models.Address, error) {
	var address models.Address
	err := r.db.WithContext(ctx).
		Where("id = ? AND customer_id = ?", id, customerID).
		First(&address).Error
	if err != nil {
		return nil, err
	}
	return &address, nil
}

func (r *repository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Address, error) {
	var addresses []models.Address
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("is_default DESC, created_at DESC").
		Find(&addresses).Error
	if err != nil {
		return nil, err
	}
	return addresses, nil
}

func (r *repository) Update(ctx context.Context, customerID, id uuid.UUID, updates map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&models.Address{}).
		Where("id = ? AND customer_id = ?", id, customerID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) ClearDefault(ctx context.Context, customerID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Address{}).
		Where("customer_id = ? AND is_default = ?", customerID, true).
		Update("is_default", false).Error
}

func (r *repository) Delete(ctx context.Context, customerID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND customer_id = ?", id, customerID).
		Delete(&models.Address{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes customer-scoped address book operations.
type Service interface {
	Create(ctx context.Context, customerID uuid.UUID, input Input) (*models.Address, error)
	List(ctx context.Context, customerID uuid.UUID) ([]models.Address, error)
	Update(ctx context.Context, customerID, id uuid.UUID, input Input) (*models.Address, error)
	Delete(ctx context.Context, customerID, id uuid.UUID) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds the address service.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("address repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) Create(ctx context.Context, customerID uuid.UUID, input Input) (*models.Address, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "customer identity missing")
	}
	address, err := buildAddress(customerID, input)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if address.IsDefault {
			if err := repo.ClearDefault(ctx, customerID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear default address")
			}
		}
		return repo.Create(ctx, address)
	})
	if err != nil {
		if pkgErr := pkgerrors.As(err); pkgErr != nil {
			return nil, pkgErr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist address")
	}
	return address, nil
}

func (s *service) List(ctx context.Context, customerID uuid.UUID) ([]models.Address, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "customer identity missing")
	}
	addresses, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list addresses")
	}
	return addresses, nil
}

func (s *service) Update(ctx context.Context, customerID, id uuid.UUID, input Input) (*models.Address, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "customer identity missing")
	}
	address, err := buildAddress(customerID, input)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{
		"full_name":  address.FullName,
		"phone":      address.Phone,
		"line1":      address.Line1,
		"line2":      address.Line2,
		"city":       address.City,
		"state":      address.State,
		"zip":        address.Zip,
		"label":      address.Label,
		"is_default": address.IsDefault,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if address.IsDefault {
			if err := repo.ClearDefault(ctx, customerID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear default address")
			}
		}
		return repo.Update(ctx, customerID, id, updates)
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		if pkgErr := pkgerrors.As(err); pkgErr != nil {
			return nil, pkgErr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update address")
	}
	return s.repo.FindOwned(ctx, customerID, id)
}

func (s *service) Delete(ctx context.Context, customerID, id uuid.UUID) error {
	if customerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "customer identity missing")
	}
	if err := s.repo.Delete(ctx, customerID, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete address")
	}
	return nil
}

func buildAddress(customerID uuid.UUID, input Input) (*models.Address, error) {
	required := map[string]string{
		"full name": input.FullName,
		"line1":     input.Line1,
		"city":      input.City,
		"state":     input.State,
		"zip":       input.Zip,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, field+" is required")
		}
	}
	normalized := phone.Normalize(input.Phone)
	if !phone.IsValid(normalized) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a valid 10 digit phone is required")
	}
	label, err := enums.ParseAddressLabel(input.Label)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "label must be Home, Office or Other")
	}

	return &models.Address{
		CustomerID: customerID,
		FullName:   strings.TrimSpace(input.FullName),
		Phone:      normalized,
		Line1:      strings.TrimSpace(input.Line1),
		Line2:      strings.TrimSpace(input.Line2),
		City:       strings.TrimSpace(input.City),
		State:      strings.TrimSpace(input.State),
		Zip:        strings.TrimSpace(input.Zip),
		Label:      label,
		IsDefault:  input.IsDefault,
	}, nil
}
