package repositories

import (
	"fmt"
	"sync"

	"shopgate/internal/models"
	"shopgate/internal/storage"
)

// StoreProductRepository is the file-store implementation of
// ProductRepository. Identity lookup is a linear scan on id and every
// mutation flushes the whole collection before returning. The mutex
// serializes read-modify-write cycles so concurrent updates cannot
// interleave between load and persist.
type StoreProductRepository struct {
	store *storage.Store
	mu    sync.RWMutex
}

// NewStoreProductRepository creates a repository over an opened store.
func NewStoreProductRepository(store *storage.Store) *StoreProductRepository {
	return &StoreProductRepository{store: store}
}

// FindAll returns a copy of the full ordered product collection.
func (r *StoreProductRepository) FindAll() ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]models.Product, len(r.store.Collection.Products))
	copy(products, r.store.Collection.Products)
	return products, nil
}

// FindByID returns the product with the matching id, or nil if there is
// none.
func (r *StoreProductRepository) FindByID(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.store.Collection.Products {
		if r.store.Collection.Products[i].ID == id {
			p := r.store.Collection.Products[i]
			return &p, nil
		}
	}
	return nil, nil
}

// Create appends the product to the collection and persists.
func (r *StoreProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store.Collection.Products = append(r.store.Collection.Products, *product)
	if err := r.store.Persist(); err != nil {
		// Roll the append back so memory does not drift from disk.
		n := len(r.store.Collection.Products)
		r.store.Collection.Products = r.store.Collection.Products[:n-1]
		return fmt.Errorf("failed to persist created product: %w", err)
	}
	return nil
}

// Update replaces the document at the matching position and persists.
// Returns nil if no document matches.
func (r *StoreProductRepository) Update(id string, product *models.Product) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.store.Collection.Products {
		if r.store.Collection.Products[i].ID != id {
			continue
		}
		previous := r.store.Collection.Products[i]
		r.store.Collection.Products[i] = *product
		if err := r.store.Persist(); err != nil {
			r.store.Collection.Products[i] = previous
			return nil, fmt.Errorf("failed to persist updated product: %w", err)
		}
		stored := r.store.Collection.Products[i]
		return &stored, nil
	}
	return nil, nil
}

// Delete removes the matching document and persists. Returns false if no
// document matches.
func (r *StoreProductRepository) Delete(id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	products := r.store.Collection.Products
	for i := range products {
		if products[i].ID != id {
			continue
		}
		removed := products[i]
		r.store.Collection.Products = append(products[:i], products[i+1:]...)
		if err := r.store.Persist(); err != nil {
			r.store.Collection.Products = append(r.store.Collection.Products[:i],
				append([]models.Product{removed}, r.store.Collection.Products[i:]...)...)
			return false, fmt.Errorf("failed to persist after delete: %w", err)
		}
		return true, nil
	}
	return false, nil
}
