package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"shopgate/internal/models"
)

// productRecord is the database row backing a product aggregate. The whole
// aggregate is serialized into one JSON document per row so that it stays a
// single persistence unit, exactly as in the file store.
type productRecord struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	Doc       string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (productRecord) TableName() string {
	return "products"
}

// GORMProductRepository is a GORM implementation of ProductRepository for
// deployments that want the catalog in SQLite or PostgreSQL instead of a
// JSON file.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository migrates the products table and returns the
// repository.
func NewGORMProductRepository(db *gorm.DB) (*GORMProductRepository, error) {
	if err := db.AutoMigrate(&productRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate products table: %w", err)
	}
	return &GORMProductRepository{db: db}, nil
}

func encodeRecord(product *models.Product) (productRecord, error) {
	doc, err := json.Marshal(product)
	if err != nil {
		return productRecord{}, fmt.Errorf("failed to encode product document: %w", err)
	}
	return productRecord{ID: product.ID, Doc: string(doc)}, nil
}

func decodeRecord(rec productRecord) (*models.Product, error) {
	var product models.Product
	if err := json.Unmarshal([]byte(rec.Doc), &product); err != nil {
		return nil, fmt.Errorf("failed to decode product document %s: %w", rec.ID, err)
	}
	return &product, nil
}

// FindAll retrieves all products in insertion order.
func (r *GORMProductRepository) FindAll() ([]models.Product, error) {
	var records []productRecord
	if err := r.db.Order("created_at").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	products := make([]models.Product, 0, len(records))
	for _, rec := range records {
		product, err := decodeRecord(rec)
		if err != nil {
			return nil, err
		}
		products = append(products, *product)
	}
	return products, nil
}

// FindByID retrieves a single product, or nil when the id has no match.
func (r *GORMProductRepository) FindByID(id string) (*models.Product, error) {
	var rec productRecord
	if err := r.db.First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return decodeRecord(rec)
}

// Create inserts a new product document.
func (r *GORMProductRepository) Create(product *models.Product) error {
	rec, err := encodeRecord(product)
	if err != nil {
		return err
	}
	if err := r.db.Create(&rec).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update replaces the stored document, or returns nil when the id has no
// match.
func (r *GORMProductRepository) Update(id string, product *models.Product) (*models.Product, error) {
	rec, err := encodeRecord(product)
	if err != nil {
		return nil, err
	}
	res := r.db.Model(&productRecord{}).Where("id = ?", id).Update("doc", rec.Doc)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	stored := *product
	return &stored, nil
}

// Delete removes the product row, reporting whether anything was deleted.
func (r *GORMProductRepository) Delete(id string) (bool, error) {
	res := r.db.Delete(&productRecord{}, "id = ?", id)
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete product: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
