package models

import "time"

// ProductStatus is the publication state of a product.
type ProductStatus string

const (
	StatusActive   ProductStatus = "ACTIVE"
	StatusArchived ProductStatus = "ARCHIVED"
	StatusDraft    ProductStatus = "DRAFT"
)

// Valid reports whether s is one of the known product statuses.
func (s ProductStatus) Valid() bool {
	switch s {
	case StatusActive, StatusArchived, StatusDraft:
		return true
	}
	return false
}

// WeightUnit is the unit a variant weight is expressed in.
type WeightUnit string

const (
	WeightGrams     WeightUnit = "GRAMS"
	WeightKilograms WeightUnit = "KILOGRAMS"
	WeightOunces    WeightUnit = "OUNCES"
	WeightPounds    WeightUnit = "POUNDS"
)

// Product is the root aggregate of the catalog. A product owns its
// variants and images: they have no lifecycle outside of it and the whole
// aggregate is persisted as one document.
type Product struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Vendor      string        `json:"vendor"`
	ProductType string        `json:"productType"`
	Tags        []string      `json:"tags"`
	Status      ProductStatus `json:"status"`
	Variants    []Variant     `json:"variants"`
	Images      []Image       `json:"images"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// Variant is a sellable variation of a product. A product always keeps at
// least one variant.
type Variant struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	Price             float64    `json:"price"`
	CompareAtPrice    *float64   `json:"compareAtPrice,omitempty"`
	SKU               string     `json:"sku,omitempty"`
	Barcode           string     `json:"barcode,omitempty"`
	InventoryQuantity int        `json:"inventoryQuantity"`
	Weight            *float64   `json:"weight,omitempty"`
	WeightUnit        WeightUnit `json:"weightUnit"`
	RequiresShipping  bool       `json:"requiresShipping"`
	Taxable           bool       `json:"taxable"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// Image is a product image reference.
type Image struct {
	ID        string    `json:"id"`
	Src       string    `json:"src"`
	AltText   string    `json:"altText,omitempty"`
	Width     *int      `json:"width,omitempty"`
	Height    *int      `json:"height,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ProductInput is the payload for creating a product. Optional fields use
// pointers so that an absent field and a zero value are distinguishable.
type ProductInput struct {
	Title       string         `json:"title"`
	Description *string        `json:"description"`
	Vendor      *string        `json:"vendor"`
	ProductType *string        `json:"productType"`
	Tags        []string       `json:"tags"`
	Status      *ProductStatus `json:"status"`
	Variants    []VariantInput `json:"variants"`
	Images      []ImageInput   `json:"images"`
}

// VariantInput is the payload for creating a variant, standalone or nested
// in a ProductInput.
type VariantInput struct {
	Title             string      `json:"title"`
	Price             *float64    `json:"price"`
	CompareAtPrice    *float64    `json:"compareAtPrice"`
	SKU               *string     `json:"sku"`
	Barcode           *string     `json:"barcode"`
	InventoryQuantity *int        `json:"inventoryQuantity"`
	Weight            *float64    `json:"weight"`
	WeightUnit        *WeightUnit `json:"weightUnit"`
	RequiresShipping  *bool       `json:"requiresShipping"`
	Taxable           *bool       `json:"taxable"`
}

// ImageInput is the payload for creating an image.
type ImageInput struct {
	Src     string  `json:"src"`
	AltText *string `json:"altText"`
	Width   *int    `json:"width"`
	Height  *int    `json:"height"`
}

// ProductUpdateInput is the partial-update payload for a product. Only
// non-nil fields are merged over the stored document; id, variants, images
// and timestamps are never settable through it.
type ProductUpdateInput struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	Vendor      *string        `json:"vendor"`
	ProductType *string        `json:"productType"`
	Tags        []string       `json:"tags"`
	Status      *ProductStatus `json:"status"`
}

// VariantUpdateInput is the partial-update payload for a variant. ID
// selects the variant inside the product; the remaining fields merge over
// it when non-nil.
type VariantUpdateInput struct {
	ID                string      `json:"id"`
	Title             *string     `json:"title"`
	Price             *float64    `json:"price"`
	CompareAtPrice    *float64    `json:"compareAtPrice"`
	SKU               *string     `json:"sku"`
	Barcode           *string     `json:"barcode"`
	InventoryQuantity *int        `json:"inventoryQuantity"`
	Weight            *float64    `json:"weight"`
	WeightUnit        *WeightUnit `json:"weightUnit"`
	RequiresShipping  *bool       `json:"requiresShipping"`
	Taxable           *bool       `json:"taxable"`
}
