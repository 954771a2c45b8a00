// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Depot Contributors

package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// ProductRepository manages product persistence.
type ProductRepository interface {
	// Create stores a new product.
	Create(ctx context.Context, product *Product) error

	// GetByID retrieves a product by ID.
	GetByID(ctx context.Context, id ulid.ULID) (*Product, error)

	// List retrieves all products ordered by title ascending.
	List(ctx context.Context) ([]*Product, error)

	// Update updates an existing product.
	Update(ctx context.Context, product *Product) error

	// Delete removes a product.
	Delete(ctx context.Context, id ulid.ULID) error

	// TitleTaken reports whether another product already uses the title
	// (case-sensitive exact match). excludeID is ignored when zero.
	TitleTaken(ctx context.Context, title string, excludeID ulid.ULID) (bool, error)
}

// Service provides catalog operations.
type Service struct {
	products ProductRepository
}

// NewService creates a new catalog Service.
func NewService(products ProductRepository) (*Service, error) {
	if products == nil {
		return nil, oops.Errorf("product repository is required")
	}
	return &Service{products: products}, nil
}

// Create validates and stores a new product. Field failures come back as a
// *ValidationError; infrastructure failures as oops-wrapped errors.
func (s *Service) Create(ctx context.Context, product *Product) (*Product, error) {
	product.ID = ulid.Make()
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	if err := s.validate(ctx, product); err != nil {
		return nil, err
	}

	if err := s.products.Create(ctx, product); err != nil {
		// A concurrent writer can slip between validation and insert;
		// the unique index reports it as the same field error.
		if errors.Is(err, ErrTitleTaken) {
			return nil, &ValidationError{Fields: Errors{"title": {msgTitleTaken}}}
		}
		return nil, oops.Code("CATALOG_CREATE_FAILED").
			With("operation", "create product").
			Wrap(err)
	}

	return product, nil
}

// Get retrieves a product by ID.
func (s *Service) Get(ctx context.Context, id ulid.ULID) (*Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("CATALOG_NOT_FOUND").
				With("product_id", id.String()).
				Wrap(err)
		}
		return nil, oops.Code("CATALOG_GET_FAILED").
			With("operation", "get product").
			With("product_id", id.String()).
			Wrap(err)
	}
	return product, nil
}

// List retrieves all products ordered by title ascending.
func (s *Service) List(ctx context.Context) ([]*Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, oops.Code("CATALOG_LIST_FAILED").
			With("operation", "list products").
			Wrap(err)
	}
	return products, nil
}

// Update validates and stores changes to an existing product. The product's
// own title does not count as taken.
func (s *Service) Update(ctx context.Context, product *Product) (*Product, error) {
	product.UpdatedAt = time.Now().UTC()

	if err := s.validate(ctx, product); err != nil {
		return nil, err
	}

	if err := s.products.Update(ctx, product); err != nil {
		if errors.Is(err, ErrTitleTaken) {
			return nil, &ValidationError{Fields: Errors{"title": {msgTitleTaken}}}
		}
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("CATALOG_NOT_FOUND").
				With("product_id", product.ID.String()).
				Wrap(err)
		}
		return nil, oops.Code("CATALOG_UPDATE_FAILED").
			With("operation", "update product").
			With("product_id", product.ID.String()).
			Wrap(err)
	}

	return product, nil
}

// Delete removes a product. Products have no dependent records, so this is
// a plain row delete.
func (s *Service) Delete(ctx context.Context, id ulid.ULID) error {
	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return oops.Code("CATALOG_NOT_FOUND").
				With("product_id", id.String()).
				Wrap(err)
		}
		return oops.Code("CATALOG_DELETE_FAILED").
			With("operation", "delete product").
			With("product_id", id.String()).
			Wrap(err)
	}
	return nil
}

func (s *Service) validate(ctx context.Context, product *Product) error {
	errs, err := product.Validate(ctx, s.products)
	if err != nil {
		return oops.Code("CATALOG_VALIDATE_FAILED").
			With("operation", "check title uniqueness").
			Wrap(err)
	}
	if errs.Any() {
		return &ValidationError{Fields: errs}
	}
	return nil
}
