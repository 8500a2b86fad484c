package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bafnatoys/bafnatoys-backend/pkg/db"
	"github.com/bafnatoys/bafnatoys-backend/pkg/db/models"
	pkgerrors "github.com/bafnatoys/bafnatoys-backend/pkg/errors"
)

// CategoryRepository defines persistence operations for categories.
type CategoryRepository interface {
	WithTx(tx *gorm.DB) CategoryRepository
	Create(ctx context.Context, category *models.Category) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	NextDisplayOrder(ctx context.Context) (int, error)
	FindAdjacent(ctx context.Context, order int, direction MoveDirection) (*models.Category, error)
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository builds a category repository bound to the provided DB.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) WithTx(tx *gorm.DB) CategoryRepository {
	if tx == nil {
		return r
	}
	return &categoryRepository{db: tx}
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).Order("display_order ASC").Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&models.Category{}).
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

func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Category{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *categoryRepository) NextDisplayOrder(ctx context.Context) (int, error) {
	var max int
	err := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Select("COALESCE(MAX(display_order), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

// FindAdjacent locates the category one slot above or below the given order.
func (r *categoryRepository) FindAdjacent(ctx context.Context, order int, direction MoveDirection) (*models.Category, error) {
	query := r.db.WithContext(ctx).Model(&models.Category{})
	if direction == MoveUp {
		query = query.Where("display_order < ?", order).Order("display_order DESC")
	} else {
		query = query.Where("display_order > ?", order).Order("display_order ASC")
	}
	var category models.Category
	if err := query.First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// CategoryService exposes category management.
type CategoryService interface {
	Create(ctx context.Context, name string) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Rename(ctx context.Context, id uuid.UUID, name string) (*models.Category, error)
	Move(ctx context.Context, id uuid.UUID, direction MoveDirection) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type categoryService struct {
	repo CategoryRepository
	tx   txRunner
}

// NewCategoryService builds the category service.
func NewCategoryService(repo CategoryRepository, tx txRunner) (CategoryService, error) {
	if repo == nil {
		return nil, fmt.Errorf("category repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &categoryService{repo: repo, tx: tx}, nil
}

func (s *categoryService) Create(ctx context.Context, name string) (*models.Category, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name required")
	}

	category := &models.Category{Name: trimmed}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		next, err := repo.NextDisplayOrder(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "compute display order")
		}
		category.DisplayOrder = next
		return repo.Create(ctx, category)
	})
	if err != nil {
		if pkgErr := pkgerrors.As(err); pkgErr != nil {
			return nil, pkgErr
		}
		if db.IsUniqueViolation(err, "name") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a category with this name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist category")
	}
	return category, nil
}

func (s *categoryService) List(ctx context.Context) ([]models.Category, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return categories, nil
}

func (s *categoryService) Rename(ctx context.Context, id uuid.UUID, name string) (*models.Category, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name required")
	}
	if err := s.repo.Update(ctx, id, map[string]any{"name": trimmed}); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		if db.IsUniqueViolation(err, "name") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a category with this name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rename category")
	}
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	return category, nil
}

// Move swaps display orders with the adjacent category. At a boundary the
// move is rejected rather than wrapped around.
func (s *categoryService) Move(ctx context.Context, id uuid.UUID, direction MoveDirection) error {
	if direction != MoveUp && direction != MoveDown {
		return pkgerrors.New(pkgerrors.CodeValidation, "direction must be up or down")
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		current, err := repo.FindByID(ctx, id)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
		}

		target, err := repo.FindAdjacent(ctx, current.DisplayOrder, direction)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeValidation, "category is already at the boundary")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find adjacent category")
		}

		if err := repo.Update(ctx, current.ID, map[string]any{"display_order": target.DisplayOrder}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "swap display order")
		}
		if err := repo.Update(ctx, target.ID, map[string]any{"display_order": current.DisplayOrder}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "swap display order")
		}
		return nil
	})
}

func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category")
	}
	return nil
}
