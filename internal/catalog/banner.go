package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bafnatoys/bafnatoys-backend/pkg/db/models"
	pkgerrors "github.com/bafnatoys/bafnatoys-backend/pkg/errors"
)

// BannerRepository defines persistence operations for storefront banners.
type BannerRepository interface {
	Create(ctx context.Context, banner *models.Banner) error
	List(ctx context.Context) ([]models.Banner, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type bannerRepository struct {
	db *gorm.DB
}

// NewBannerRepository builds a banner repository bound to the provided DB.
func NewBannerRepository(db *gorm.DB) BannerRepository {
	return &bannerRepository{db: db}
}

func (r *bannerRepository) Create(ctx context.Context, banner *models.Banner) error {
	if banner.ID == uuid.Nil {
		banner.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(banner).Error
}

func (r *bannerRepository) List(ctx context.Context) ([]models.Banner, error) {
	var banners []models.Banner
	err := r.db.WithContext(ctx).
		Order("display_order ASC, created_at DESC").
		Find(&banners).Error
	if err != nil {
		return nil, err
	}
	return banners, nil
}

func (r *bannerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Banner{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// BannerService exposes banner management.
type BannerService interface {
	Create(ctx context.Context, input CreateBannerInput) (*models.Banner, error)
	List(ctx context.Context) ([]models.Banner, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type bannerService struct {
	repo BannerRepository
}

// NewBannerService builds the banner service.
func NewBannerService(repo BannerRepository) (BannerService, error) {
	if repo == nil {
		return nil, fmt.Errorf("banner repository required")
	}
	return &bannerService{repo: repo}, nil
}

func (s *bannerService) Create(ctx context.Context, input CreateBannerInput) (*models.Banner, error) {
	if strings.TrimSpace(input.ImageURL) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "banner image url required")
	}
	banner := &models.Banner{
		Title:        strings.TrimSpace(input.Title),
		ImageURL:     strings.TrimSpace(input.ImageURL),
		Link:         strings.TrimSpace(input.Link),
		DisplayOrder: input.DisplayOrder,
		IsActive:     input.IsActive,
	}
	if err := s.repo.Create(ctx, banner); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist banner")
	}
	return banner, nil
}

func (s *bannerService) List(ctx context.Context) ([]models.Banner, error) {
	banners, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list banners")
	}
	return banners, nil
}

func (s *bannerService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "banner not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete banner")
	}
	return nil
}
