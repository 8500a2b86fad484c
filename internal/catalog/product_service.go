package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/bafnatoys/bafnatoys-backend/pkg/db"
	"github.com/bafnatoys/bafnatoys-backend/pkg/db/models"
	pkgerrors "github.com/bafnatoys/bafnatoys-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ProductService exposes catalog product management.
type ProductService interface {
	Create(ctx context.Context, input CreateProductInput) (*models.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Reorder(ctx context.Context, orderedIDs []uuid.UUID) error
}

type productService struct {
	repo ProductRepository
	tx   txRunner
}

// NewProductService builds the catalog product service.
func NewProductService(repo ProductRepository, tx txRunner) (ProductService, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &productService{repo: repo, tx: tx}, nil
}

func (s *productService) Create(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	name := strings.TrimSpace(input.Name)
	sku := strings.TrimSpace(input.SKU)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name required")
	}
	if sku == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku required")
	}
	if input.Price < 0 || input.MRP < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "prices cannot be negative")
	}
	if input.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}
	for _, tier := range input.BulkPricing {
		if tier.MinQty < 1 || tier.InnerPrice < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid bulk pricing tier")
		}
	}

	unit := strings.TrimSpace(input.Unit)
	if unit == "" {
		unit = "Piece"
	}

	product := &models.Product{
		Name:        name,
		SKU:         sku,
		Slug:        slug.Make(name),
		Price:       input.Price,
		MRP:         input.MRP,
		Stock:       input.Stock,
		Unit:        unit,
		Description: input.Description,
		Tagline:     input.Tagline,
		PackSize:    input.PackSize,
		Images:      input.Images,
		CategoryID:  input.CategoryID,
		BulkPricing: input.BulkPricing,
		TaxFields:   input.TaxFields,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		next, err := repo.NextDisplayOrder(ctx, input.CategoryID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "compute display order")
		}
		product.DisplayOrder = next
		return repo.Create(ctx, product)
	})
	if err != nil {
		return nil, mapProductWriteError(err)
	}
	return s.Get(ctx, product.ID)
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *productService) List(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return products, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error) {
	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name required")
		}
		updates["name"] = name
		updates["slug"] = slug.Make(name)
	}
	if input.SKU != nil {
		sku := strings.TrimSpace(*input.SKU)
		if sku == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku required")
		}
		updates["sku"] = sku
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		updates["price"] = *input.Price
	}
	if input.MRP != nil {
		updates["mrp"] = *input.MRP
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
		}
		updates["stock"] = *input.Stock
	}
	if input.Unit != nil {
		updates["unit"] = *input.Unit
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Tagline != nil {
		updates["tagline"] = *input.Tagline
	}
	if input.PackSize != nil {
		updates["pack_size"] = *input.PackSize
	}
	if input.Images != nil {
		updates["images"] = *input.Images
	}
	if input.CategoryID != nil {
		updates["category_id"] = *input.CategoryID
	}
	if input.BulkPricing != nil {
		updates["bulk_pricing"] = *input.BulkPricing
	}
	if input.TaxFields != nil {
		updates["tax_fields"] = *input.TaxFields
	}
	if len(updates) == 0 {
		return s.Get(ctx, id)
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, mapProductWriteError(err)
	}
	return s.Get(ctx, id)
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

// Reorder rewrites display orders to match the admin's drag-sorted id list.
func (s *productService) Reorder(ctx context.Context, orderedIDs []uuid.UUID) error {
	if len(orderedIDs) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "ordered product ids required")
	}
	seen := make(map[uuid.UUID]struct{}, len(orderedIDs))
	for _, id := range orderedIDs {
		if id == uuid.Nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
		}
		if _, dup := seen[id]; dup {
			return pkgerrors.New(pkgerrors.CodeValidation, "duplicate product id in ordering")
		}
		seen[id] = struct{}{}
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		for position, id := range orderedIDs {
			if err := repo.SetDisplayOrder(ctx, id, position+1); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "apply display order")
			}
		}
		return nil
	})
}

func mapProductWriteError(err error) error {
	if pkgErr := pkgerrors.As(err); pkgErr != nil {
		return pkgErr
	}
	if db.IsUniqueViolation(err, "sku") {
		return pkgerrors.New(pkgerrors.CodeConflict, "a product with this sku already exists")
	}
	if db.IsUniqueViolation(err, "slug") {
		return pkgerrors.New(pkgerrors.CodeConflict, "a product with this name already exists")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist product")
}
