// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Depot Contributors

// Package postgres provides PostgreSQL implementations of catalog repositories.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"github.com/shopspring/decimal"

	"github.com/depot-store/depot/internal/catalog"
)

// poolIface is the subset of pgxpool.Pool the repository needs. It is
// satisfied by both *pgxpool.Pool and pgxmock.PgxPoolIface.
type poolIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ProductRepository implements catalog.ProductRepository using PostgreSQL.
type ProductRepository struct {
	pool poolIface
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(pool poolIface) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// Create stores a new product.
func (r *ProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO products (id, title, description, image_url, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		product.ID.String(),
		product.Title,
		product.Description,
		product.ImageURL,
		product.Price.String(),
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return oops.Code("PRODUCT_TITLE_TAKEN").
				With("title", product.Title).
				Wrap(catalog.ErrTitleTaken)
		}
		return oops.Code("PRODUCT_CREATE_FAILED").
			With("operation", "insert product").
			With("product_id", product.ID.String()).
			Wrap(err)
	}
	return nil
}

// GetByID retrieves a product by ID.
func (r *ProductRepository) GetByID(ctx context.Context, id ulid.ULID) (*catalog.Product, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, title, description, image_url, price::text, created_at, updated_at
		FROM products
		WHERE id = $1
	`, id.String())

	product, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("PRODUCT_NOT_FOUND").
			With("product_id", id.String()).
			Wrap(catalog.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("PRODUCT_GET_FAILED").
			With("operation", "get product by id").
			With("product_id", id.String()).
			Wrap(err)
	}
	return product, nil
}

// List retrieves all products ordered by title ascending.
func (r *ProductRepository) List(ctx context.Context) ([]*catalog.Product, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, description, image_url, price::text, created_at, updated_at
		FROM products
		ORDER BY title ASC
	`)
	if err != nil {
		return nil, oops.Code("PRODUCT_LIST_FAILED").
			With("operation", "list products").
			Wrap(err)
	}
	defer rows.Close()

	var products []*catalog.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, oops.Code("PRODUCT_SCAN_FAILED").
				With("operation", "scan product row").
				Wrap(err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, oops.Code("PRODUCT_ROWS_ERROR").
			With("operation", "iterate product rows").
			Wrap(err)
	}

	return products, nil
}

// Update updates an existing product.
func (r *ProductRepository) Update(ctx context.Context, product *catalog.Product) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE products
		SET title = $2, description = $3, image_url = $4, price = $5, updated_at = $6
		WHERE id = $1
	`,
		product.ID.String(),
		product.Title,
		product.Description,
		product.ImageURL,
		product.Price.String(),
		product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return oops.Code("PRODUCT_TITLE_TAKEN").
				With("title", product.Title).
				Wrap(catalog.ErrTitleTaken)
		}
		return oops.Code("PRODUCT_UPDATE_FAILED").
			With("operation", "update product").
			With("product_id", product.ID.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("PRODUCT_NOT_FOUND").
			With("product_id", product.ID.String()).
			Wrap(catalog.ErrNotFound)
	}
	return nil
}

// Delete removes a product.
func (r *ProductRepository) Delete(ctx context.Context, id ulid.ULID) error {
	result, err := r.pool.Exec(ctx, `
		DELETE FROM products WHERE id = $1
	`, id.String())
	if err != nil {
		return oops.Code("PRODUCT_DELETE_FAILED").
			With("operation", "delete product").
			With("product_id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("PRODUCT_NOT_FOUND").
			With("product_id", id.String()).
			Wrap(catalog.ErrNotFound)
	}
	return nil
}

// TitleTaken reports whether another product already uses the title.
// The match is case-sensitive and exact.
func (r *ProductRepository) TitleTaken(ctx context.Context, title string, excludeID ulid.ULID) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM products WHERE title = $1 AND id <> $2)
	`, title, excludeID.String()).Scan(&taken)
	if err != nil {
		return false, oops.Code("PRODUCT_TITLE_CHECK_FAILED").
			With("operation", "check title uniqueness").
			Wrap(err)
	}
	return taken, nil
}

// scanProduct scans a single row into a Product. Callers are responsible
// for handling pgx.ErrNoRows.
func scanProduct(row pgx.Row) (*catalog.Product, error) {
	var (
		idStr     string
		title     string
		desc      string
		imageURL  string
		priceStr  string
		createdAt time.Time
		updatedAt time.Time
	)

	err := row.Scan(&idStr, &title, &desc, &imageURL, &priceStr, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("PRODUCT_SCAN_FAILED").
			With("operation", "scan product").
			Wrap(err)
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("PRODUCT_INVALID_ID").
			With("operation", "parse product id").
			With("id", idStr).
			Wrap(err)
	}

	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return nil, oops.Code("PRODUCT_INVALID_PRICE").
			With("operation", "parse product price").
			With("price", priceStr).
			Wrap(err)
	}

	return &catalog.Product{
		ID:          id,
		Title:       title,
		Description: desc,
		ImageURL:    imageURL,
		Price:       price,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique index violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// Compile-time interface check.
var _ catalog.ProductRepository = (*ProductRepository)(nil)
