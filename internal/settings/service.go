// Package settings holds admin-tunable configuration: keyed JSON bags like
// the COD advance amount, and the flat-rate shipping singleton consulted at
// checkout.
package settings

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bafnatoys/bafnatoys-backend/pkg/db/models"
	pkgerrors "github.com/bafnatoys/bafnatoys-backend/pkg/errors"
)

// Repository defines persistence operations for settings.
type Repository interface {
	FindByKey(ctx context.Context, key string) (*models.Setting, error)
	Upsert(ctx context.Context, key string, data map[string]any) (*models.Setting, error)
	FindShipping(ctx context.Context) (*models.ShippingSetting, error)
	SaveShipping(ctx context.Context, setting *models.ShippingSetting) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a settings repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByKey(ctx context.Context, key string) (*models.Setting, error) {
	var setting models.Setting
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&setting).Error
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *repository) Upsert(ctx context.Context, key string, data map[string]any) (*models.Setting, error) {
	var setting models.Setting
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&setting).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		setting = models.Setting{ID: uuid.New(), Key: key, Data: data}
		if err := r.db.WithContext(ctx).Create(&setting).Error; err != nil {
			return nil, err
		}
		return &setting, nil
	case err != nil:
		return nil, err
	}

	setting.Data = data
	if err := r.db.WithContext(ctx).Save(&setting).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *repository) FindShipping(ctx context.Context) (*models.ShippingSetting, error) {
	var setting models.ShippingSetting
	err := r.db.WithContext(ctx).First(&setting).Error
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *repository) SaveShipping(ctx context.Context, setting *models.ShippingSetting) error {
	if setting.ID == uuid.Nil {
		setting.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Save(setting).Error
}

// Service exposes settings reads and writes. It also implements the shipping
// rate source consumed by order pricing.
type Service interface {
	Get(ctx context.Context, key string) (map[string]any, error)
	Put(ctx context.Context, key string, data map[string]any) (map[string]any, error)
	CurrentShippingSetting(ctx context.Context) (*models.ShippingSetting, error)
	UpdateShippingSetting(ctx context.Context, charge, threshold float64) (*models.ShippingSetting, error)
}

type service struct {
	repo Repository
}

// Defaults applied when a setting is read before it was ever written.
const (
	defaultShippingCharge        = 250
	defaultFreeShippingThreshold = 5000
)

// NewService builds the settings service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	return &service{repo: repo}, nil
}

// Get returns the data bag for key, lazily seeding known keys with their
// defaults on first read so the admin panel always has something to edit.
func (s *service) Get(ctx context.Context, key string) (map[string]any, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "setting key required")
	}
	setting, err := s.repo.FindByKey(ctx, trimmed)
	if err == gorm.ErrRecordNotFound {
		if trimmed == "cod" {
			created, err := s.repo.Upsert(ctx, trimmed, map[string]any{"advanceAmount": float64(0)})
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "seed setting")
			}
			return created.Data, nil
		}
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "setting not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load setting")
	}
	return setting.Data, nil
}

func (s *service) Put(ctx context.Context, key string, data map[string]any) (map[string]any, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "setting key required")
	}
	if data == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "setting data required")
	}
	setting, err := s.repo.Upsert(ctx, trimmed, data)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save setting")
	}
	return setting.Data, nil
}

// CurrentShippingSetting returns the shipping singleton, creating it with
// the defaults on first access.
func (s *service) CurrentShippingSetting(ctx context.Context) (*models.ShippingSetting, error) {
	setting, err := s.repo.FindShipping(ctx)
	if err == gorm.ErrRecordNotFound {
		setting = &models.ShippingSetting{
			ShippingCharge:        defaultShippingCharge,
			FreeShippingThreshold: defaultFreeShippingThreshold,
		}
		if err := s.repo.SaveShipping(ctx, setting); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "seed shipping settings")
		}
		return setting, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shipping settings")
	}
	return setting, nil
}

func (s *service) UpdateShippingSetting(ctx context.Context, charge, threshold float64) (*models.ShippingSetting, error) {
	if charge < 0 || threshold < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping values cannot be negative")
	}
	setting, err := s.CurrentShippingSetting(ctx)
	if err != nil {
		return nil, err
	}
	setting.ShippingCharge = charge
	setting.FreeShippingThreshold = threshold
	if err := s.repo.SaveShipping(ctx, setting); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save shipping settings")
	}
	return setting, nil
}
