package repositories

import (
	"shopgate/internal/models"
)

// ProductRepository defines the interface for product document access.
// Lookups signal "not found" with a nil product, never an error; errors are
// reserved for storage failures. Create performs no uniqueness check on the
// id: the service always supplies a freshly generated one.
type ProductRepository interface {
	FindAll() ([]models.Product, error)
	FindByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(id string, product *models.Product) (*models.Product, error)
	Delete(id string) (bool, error)
}
