// Package validation holds the shape and range checks for catalog input
// payloads. The functions are pure: they never mutate their argument and
// never fail, they only report violations as an ordered list of messages.
package validation

import (
	"fmt"
	"net/url"
	"strings"

	"shopgate/internal/models"
)

const (
	maxTitleLength = 255
	maxPrice       = 999999
	maxImagePixels = 10000
)

// Result is the outcome of a validation pass.
type Result struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

func result(errs []string) Result {
	if errs == nil {
		errs = []string{}
	}
	return Result{IsValid: len(errs) == 0, Errors: errs}
}

// ValidateProduct checks a product creation payload, including every nested
// variant and image. Nested violations are prefixed with the 1-based
// position of the offending entry.
func ValidateProduct(input models.ProductInput) Result {
	var errs []string

	if strings.TrimSpace(input.Title) == "" {
		errs = append(errs, "Title is required")
	}
	if len(input.Title) > maxTitleLength {
		errs = append(errs, "Title must be less than 255 characters")
	}
	if len(input.Variants) == 0 {
		errs = append(errs, "At least one variant is required")
	}
	for i, variant := range input.Variants {
		for _, msg := range ValidateVariant(variant).Errors {
			errs = append(errs, fmt.Sprintf("Variant %d: %s", i+1, msg))
		}
	}
	for i, image := range input.Images {
		for _, msg := range ValidateImage(image).Errors {
			errs = append(errs, fmt.Sprintf("Image %d: %s", i+1, msg))
		}
	}
	if input.Status != nil && !input.Status.Valid() {
		errs = append(errs, "Status must be one of ACTIVE, ARCHIVED or DRAFT")
	}

	return result(errs)
}

// ValidateVariant checks a variant creation payload. Price is required:
// an absent price is reported separately from an out-of-range one.
func ValidateVariant(variant models.VariantInput) Result {
	var errs []string

	if strings.TrimSpace(variant.Title) == "" {
		errs = append(errs, "Title is required")
	}
	if variant.Price == nil {
		errs = append(errs, "Price is required")
	} else if *variant.Price < 0 || *variant.Price > maxPrice {
		errs = append(errs, "Price must be between 0 and 999999")
	}
	if variant.CompareAtPrice != nil && *variant.CompareAtPrice < 0 {
		errs = append(errs, "Compare at price must be positive")
	}
	if variant.InventoryQuantity != nil && *variant.InventoryQuantity < 0 {
		errs = append(errs, "Inventory quantity must be positive")
	}
	if variant.Weight != nil && *variant.Weight < 0 {
		errs = append(errs, "Weight must be positive")
	}

	return result(errs)
}

// ValidateImage checks an image creation payload.
func ValidateImage(image models.ImageInput) Result {
	var errs []string

	if strings.TrimSpace(image.Src) == "" {
		errs = append(errs, "Image source URL is required")
	} else if !isValidURL(image.Src) {
		errs = append(errs, "Image source must be a valid URL")
	}
	if image.Width != nil && (*image.Width < 1 || *image.Width > maxImagePixels) {
		errs = append(errs, "Image width must be between 1 and 10000 pixels")
	}
	if image.Height != nil && (*image.Height < 1 || *image.Height > maxImagePixels) {
		errs = append(errs, "Image height must be between 1 and 10000 pixels")
	}

	return result(errs)
}

// isValidURL requires an absolute URL with a scheme and host, matching the
// strictness of a URL constructor rather than Go's permissive relative-ref
// parsing.
func isValidURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}
