package services

import (
	"encoding/json"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"shopgate/internal/models"
	"shopgate/internal/repositories"
	"shopgate/internal/validation"
)

// EventPublisher publishes catalog lifecycle events. It is satisfied by
// *rabbitmq.Client and may be nil, in which case publishing is skipped.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// ListProductsParams are the filter and pagination arguments of
// GetAllProducts. A nil Status and empty strings mean "no filter"; Limit
// and Offset follow slice semantics.
type ListProductsParams struct {
	Status      *models.ProductStatus
	Vendor      string
	ProductType string
	Limit       int
	Offset      int
}

// ProductList is a filtered page of products together with the pre-pagination
// match count.
type ProductList struct {
	Products   []models.Product `json:"products"`
	TotalCount int              `json:"totalCount"`
}

// ProductService orchestrates validation, id and timestamp assignment and
// nested-entity lifecycle over the product repository. Merging mutations
// load the document, patch it in memory and store it back; mutateMu
// serializes those cycles so a concurrent mutation cannot merge over a
// stale snapshot and drop the other's fields.
type ProductService struct {
	repo     repositories.ProductRepository
	events   EventPublisher
	mutateMu sync.Mutex
}

// NewProductService creates a new ProductService. events may be nil.
func NewProductService(repo repositories.ProductRepository, events EventPublisher) *ProductService {
	return &ProductService{
		repo:   repo,
		events: events,
	}
}

// GetAllProducts loads every product, applies the filters conjunctively and
// then paginates. Status is an exact match; vendor and productType are
// case-insensitive substring matches. TotalCount is the post-filter,
// pre-pagination count.
func (s *ProductService) GetAllProducts(params ListProductsParams) (*ProductList, error) {
	products, err := s.repo.FindAll()
	if err != nil {
		return nil, err
	}

	filtered := make([]models.Product, 0, len(products))
	for _, p := range products {
		if params.Status != nil && p.Status != *params.Status {
			continue
		}
		if params.Vendor != "" && !containsFold(p.Vendor, params.Vendor) {
			continue
		}
		if params.ProductType != "" && !containsFold(p.ProductType, params.ProductType) {
			continue
		}
		filtered = append(filtered, p)
	}

	total := len(filtered)
	page := paginate(filtered, params.Offset, params.Limit)

	return &ProductList{Products: page, TotalCount: total}, nil
}

// GetProductByID returns the product, or nil when the id has no match.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.FindByID(id)
}

// SearchProducts matches the query case-insensitively against title,
// description and tags, returning at most limit products. The result is
// never nil.
func (s *ProductService) SearchProducts(query string, limit int) ([]models.Product, error) {
	products, err := s.repo.FindAll()
	if err != nil {
		return nil, err
	}

	matches := []models.Product{}
	for _, p := range products {
		if limit >= 0 && len(matches) >= limit {
			break
		}
		if matchesQuery(p, query) {
			matches = append(matches, p)
		}
	}
	return matches, nil
}

func matchesQuery(p models.Product, query string) bool {
	if containsFold(p.Title, query) || containsFold(p.Description, query) {
		return true
	}
	for _, tag := range p.Tags {
		if containsFold(tag, query) {
			return true
		}
	}
	return false
}

// CreateProduct validates the input, assigns a new id and one shared "now"
// timestamp to the product and all of its nested entities, applies the
// documented defaults and persists the aggregate.
func (s *ProductService) CreateProduct(input models.ProductInput) (*models.Product, error) {
	if res := validation.ValidateProduct(input); !res.IsValid {
		return nil, &ValidationError{Errors: res.Errors}
	}

	now := time.Now().UTC()

	product := models.Product{
		ID:          uuid.New().String(),
		Title:       input.Title,
		Description: stringOrEmpty(input.Description),
		Vendor:      stringOrEmpty(input.Vendor),
		ProductType: stringOrEmpty(input.ProductType),
		Tags:        input.Tags,
		Status:      models.StatusDraft,
		Variants:    make([]models.Variant, 0, len(input.Variants)),
		Images:      make([]models.Image, 0, len(input.Images)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if product.Tags == nil {
		product.Tags = []string{}
	}
	if input.Status != nil {
		product.Status = *input.Status
	}
	for _, v := range input.Variants {
		product.Variants = append(product.Variants, newVariant(v, now))
	}
	for _, img := range input.Images {
		product.Images = append(product.Images, newImage(img, now))
	}

	if err := s.repo.Create(&product); err != nil {
		return nil, err
	}

	s.publishEvent("product.created", &product)
	return &product, nil
}

// UpdateProduct merges the non-nil input fields over the stored document,
// bumps updatedAt and persists. Returns nil when the id has no match.
func (s *ProductService) UpdateProduct(id string, input models.ProductUpdateInput) (*models.Product, error) {
	s.mutateMu.Lock()
	defer s.mutateMu.Unlock()

	product, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}

	if input.Title != nil {
		product.Title = *input.Title
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Vendor != nil {
		product.Vendor = *input.Vendor
	}
	if input.ProductType != nil {
		product.ProductType = *input.ProductType
	}
	if input.Tags != nil {
		product.Tags = input.Tags
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, &ValidationError{Errors: []string{"Status must be one of ACTIVE, ARCHIVED or DRAFT"}}
		}
		product.Status = *input.Status
	}
	product.UpdatedAt = time.Now().UTC()

	stored, err := s.repo.Update(id, product)
	if err != nil {
		return nil, err
	}
	if stored != nil {
		s.publishEvent("product.updated", stored)
	}
	return stored, nil
}

// DeleteProduct removes the product, reporting whether anything was
// removed. Nested variants and images go with the document; there is
// nothing to cascade.
func (s *ProductService) DeleteProduct(id string) (bool, error) {
	deleted, err := s.repo.Delete(id)
	if err != nil {
		return false, err
	}
	if deleted {
		s.publishEvent("product.deleted", &models.Product{ID: id})
	}
	return deleted, nil
}

// AddProductVariant validates the variant, appends it with a fresh id and
// bumps the product. Returns nil when the product does not exist.
func (s *ProductService) AddProductVariant(productID string, input models.VariantInput) (*models.Product, error) {
	s.mutateMu.Lock()
	defer s.mutateMu.Unlock()

	product, err := s.repo.FindByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}

	if res := validation.ValidateVariant(input); !res.IsValid {
		return nil, &ValidationError{Errors: res.Errors}
	}

	now := time.Now().UTC()
	product.Variants = append(product.Variants, newVariant(input, now))
	product.UpdatedAt = now

	stored, err := s.repo.Update(productID, product)
	if err != nil {
		return nil, err
	}
	if stored != nil {
		s.publishEvent("product.updated", stored)
	}
	return stored, nil
}

// UpdateProductVariant merges the non-nil input fields over the variant
// selected by input.ID, bumping both the variant and the product. Returns
// nil when the product or the variant does not exist.
func (s *ProductService) UpdateProductVariant(productID string, input models.VariantUpdateInput) (*models.Product, error) {
	s.mutateMu.Lock()
	defer s.mutateMu.Unlock()

	product, err := s.repo.FindByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}

	idx := -1
	for i := range product.Variants {
		if product.Variants[i].ID == input.ID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, nil
	}

	patch := models.VariantInput{
		Price:             input.Price,
		CompareAtPrice:    input.CompareAtPrice,
		InventoryQuantity: input.InventoryQuantity,
		Weight:            input.Weight,
	}
	if input.Title != nil {
		patch.Title = *input.Title
	} else {
		patch.Title = product.Variants[idx].Title
	}
	if patch.Price == nil {
		price := product.Variants[idx].Price
		patch.Price = &price
	}
	if res := validation.ValidateVariant(patch); !res.IsValid {
		return nil, &ValidationError{Errors: res.Errors}
	}

	now := time.Now().UTC()
	variant := &product.Variants[idx]
	if input.Title != nil {
		variant.Title = *input.Title
	}
	if input.Price != nil {
		variant.Price = *input.Price
	}
	if input.CompareAtPrice != nil {
		variant.CompareAtPrice = input.CompareAtPrice
	}
	if input.SKU != nil {
		variant.SKU = *input.SKU
	}
	if input.Barcode != nil {
		variant.Barcode = *input.Barcode
	}
	if input.InventoryQuantity != nil {
		variant.InventoryQuantity = *input.InventoryQuantity
	}
	if input.Weight != nil {
		variant.Weight = input.Weight
	}
	if input.WeightUnit != nil {
		variant.WeightUnit = *input.WeightUnit
	}
	if input.RequiresShipping != nil {
		variant.RequiresShipping = *input.RequiresShipping
	}
	if input.Taxable != nil {
		variant.Taxable = *input.Taxable
	}
	variant.UpdatedAt = now
	product.UpdatedAt = now

	stored, err := s.repo.Update(productID, product)
	if err != nil {
		return nil, err
	}
	if stored != nil {
		s.publishEvent("product.updated", stored)
	}
	return stored, nil
}

// RemoveProductVariant removes the variant from the product. Removing the
// sole remaining variant fails with ErrLastVariant: a product must always
// keep at least one. Returns nil when the product or the variant does not
// exist.
func (s *ProductService) RemoveProductVariant(productID, variantID string) (*models.Product, error) {
	s.mutateMu.Lock()
	defer s.mutateMu.Unlock()

	product, err := s.repo.FindByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}

	idx := -1
	for i := range product.Variants {
		if product.Variants[i].ID == variantID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, nil
	}
	if len(product.Variants) == 1 {
		return nil, ErrLastVariant
	}

	product.Variants = append(product.Variants[:idx], product.Variants[idx+1:]...)
	product.UpdatedAt = time.Now().UTC()

	stored, err := s.repo.Update(productID, product)
	if err != nil {
		return nil, err
	}
	if stored != nil {
		s.publishEvent("product.updated", stored)
	}
	return stored, nil
}

// AddProductImage validates the image, appends it with a fresh id and
// bumps the product. Returns nil when the product does not exist.
func (s *ProductService) AddProductImage(productID string, input models.ImageInput) (*models.Product, error) {
	s.mutateMu.Lock()
	defer s.mutateMu.Unlock()

	product, err := s.repo.FindByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}

	if res := validation.ValidateImage(input); !res.IsValid {
		return nil, &ValidationError{Errors: res.Errors}
	}

	now := time.Now().UTC()
	product.Images = append(product.Images, newImage(input, now))
	product.UpdatedAt = now

	stored, err := s.repo.Update(productID, product)
	if err != nil {
		return nil, err
	}
	if stored != nil {
		s.publishEvent("product.updated", stored)
	}
	return stored, nil
}

// RemoveProductImage removes the image from the product. Images carry no
// minimum count: a product may end up with none. Returns nil when the
// product or the image does not exist.
func (s *ProductService) RemoveProductImage(productID, imageID string) (*models.Product, error) {
	s.mutateMu.Lock()
	defer s.mutateMu.Unlock()

	product, err := s.repo.FindByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}

	idx := -1
	for i := range product.Images {
		if product.Images[i].ID == imageID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, nil
	}

	product.Images = append(product.Images[:idx], product.Images[idx+1:]...)
	product.UpdatedAt = time.Now().UTC()

	stored, err := s.repo.Update(productID, product)
	if err != nil {
		return nil, err
	}
	if stored != nil {
		s.publishEvent("product.updated", stored)
	}
	return stored, nil
}

// publishEvent emits a catalog event best-effort. Publishing failures are
// logged and never fail the catalog operation.
func (s *ProductService) publishEvent(routingKey string, product *models.Product) {
	if s.events == nil {
		return
	}
	payload := map[string]interface{}{
		"productId": product.ID,
		"title":     product.Title,
		"status":    product.Status,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal catalog event payload: %v", err)
		return
	}
	if err := s.events.Publish("catalog", routingKey, body); err != nil {
		log.Printf("Warning: failed to publish %s event for product %s: %v", routingKey, product.ID, err)
	}
}

func newVariant(input models.VariantInput, now time.Time) models.Variant {
	v := models.Variant{
		ID:               uuid.New().String(),
		Title:            input.Title,
		WeightUnit:       models.WeightGrams,
		RequiresShipping: true,
		Taxable:          true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if input.Price != nil {
		v.Price = *input.Price
	}
	v.CompareAtPrice = input.CompareAtPrice
	if input.SKU != nil {
		v.SKU = *input.SKU
	}
	if input.Barcode != nil {
		v.Barcode = *input.Barcode
	}
	if input.InventoryQuantity != nil {
		v.InventoryQuantity = *input.InventoryQuantity
	}
	v.Weight = input.Weight
	if input.WeightUnit != nil {
		v.WeightUnit = *input.WeightUnit
	}
	if input.RequiresShipping != nil {
		v.RequiresShipping = *input.RequiresShipping
	}
	if input.Taxable != nil {
		v.Taxable = *input.Taxable
	}
	return v
}

func newImage(input models.ImageInput, now time.Time) models.Image {
	img := models.Image{
		ID:        uuid.New().String(),
		Src:       input.Src,
		Width:     input.Width,
		Height:    input.Height,
		CreatedAt: now,
	}
	if input.AltText != nil {
		img.AltText = *input.AltText
	}
	return img
}

func paginate(products []models.Product, offset, limit int) []models.Product {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(products) {
		return []models.Product{}
	}
	end := len(products)
	if limit >= 0 && offset+limit < end {
		end = offset + limit
	}
	return products[offset:end]
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
