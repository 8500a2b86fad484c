package registrations

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bafnatoys/bafnatoys-backend/pkg/db/models"
)

// Repository defines persistence operations for buyer registrations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, registration *models.Registration) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Registration, error)
	FindByPhone(ctx context.Context, phone string) (*models.Registration, error)
	List(ctx context.Context) ([]models.Registration, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a registrations repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, registration *models.Registration) error {
	if registration.ID == uuid.Nil {
		registration.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(registration).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Registration, error) {
	var registration models.Registration
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&registration).Error
	if err != nil {
		return nil, err
	}
	return &registration, nil
}

func (r *repository) FindByPhone(ctx context.Context, phone string) (*models.Registration, error) {
	var registration models.Registration
	err := r.db.WithContext(ctx).Where("otp_mobile = ?", phone).First(&registration).Error
	if err != nil {
		return nil, err
	}
	return &registration, nil
}

func (r *repository) List(ctx context.Context) ([]models.Registration, error) {
	var registrations []models.Registration
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&registrations).Error
	if err != nil {
		return nil, err
	}
	return registrations, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&models.Registration{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Registration{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
