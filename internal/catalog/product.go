// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Depot Contributors

package catalog

import (
	"context"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

// MinTitleLength is the minimum number of characters in a product title.
const MinTitleLength = 10

// MinPrice is the lowest valid product price. Exactly 0.01 is valid.
var MinPrice = decimal.New(1, -2)

// imageURLRegex accepts any path or URL whose final extension is gif, jpg
// or png, case-insensitively. Anything after the extension fails.
var imageURLRegex = regexp.MustCompile(`(?i)\.(gif|jpg|png)\z`)

// Validation messages, phrased for display next to the offending field.
const (
	msgBlank         = "cannot be blank"
	msgTitleTooShort = "is too short (minimum is 10 characters)"
	msgTitleTaken    = "has already been taken"
	msgImageFormat   = "must be a URL for GIF, JPG or PNG image."
	msgPriceTooLow   = "must be greater than or equal to 0.01"
)

// Product is a catalog entry.
type Product struct {
	ID          ulid.ULID
	Title       string
	Description string
	ImageURL    string
	Price       decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TitleChecker answers whether a title is already used by another product.
// excludeID carries the record's own ID on update so it does not collide
// with itself; a zero ULID excludes nothing.
type TitleChecker interface {
	TitleTaken(ctx context.Context, title string, excludeID ulid.ULID) (bool, error)
}

// Validate checks every field rule and reports all violations at once.
// The title uniqueness probe is the only side effect, and it is read-only.
// A non-nil error means the uniqueness check itself failed, not that the
// product is invalid.
func (p *Product) Validate(ctx context.Context, titles TitleChecker) (Errors, error) {
	errs := Errors{}

	switch {
	case strings.TrimSpace(p.Title) == "":
		errs.Add("title", msgBlank)
	default:
		if utf8.RuneCountInString(p.Title) < MinTitleLength {
			errs.Add("title", msgTitleTooShort)
		}
		taken, err := titles.TitleTaken(ctx, p.Title, p.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			errs.Add("title", msgTitleTaken)
		}
	}

	if strings.TrimSpace(p.Description) == "" {
		errs.Add("description", msgBlank)
	}

	// Blank image URLs fail the presence rule but are exempt from the
	// format rule.
	if strings.TrimSpace(p.ImageURL) == "" {
		errs.Add("image_url", msgBlank)
	} else if !imageURLRegex.MatchString(p.ImageURL) {
		errs.Add("image_url", msgImageFormat)
	}

	if p.Price.Cmp(MinPrice) < 0 {
		errs.Add("price", msgPriceTooLow)
	}

	return errs, nil
}
