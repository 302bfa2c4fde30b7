package repositories

import (
	"fmt"
	"sync"

	"productapi/internal/models"

	"github.com/google/uuid"
)

// MemoryProductRepository is an in-memory implementation of ProductRepository
// that keeps products in insertion order.
type MemoryProductRepository struct {
	products []models.Product
	mu       sync.RWMutex
}

// NewMemoryProductRepository creates an empty MemoryProductRepository.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make([]models.Product, 0),
	}
}

// indexOf must be called with the lock held.
func (r *MemoryProductRepository) indexOf(id string) int {
	for i := range r.products {
		if r.products[i].ID == id {
			return i
		}
	}
	return -1
}

// GetAll returns a copy of all products.
func (r *MemoryProductRepository) GetAll() ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, len(r.products))
	copy(productList, r.products)
	return productList, nil
}

// GetByID returns the first product whose ID matches.
func (r *MemoryProductRepository) GetByID(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	product := r.products[i]
	return &product, nil
}

// Create appends a product. An empty ID is filled with a new UUID.
func (r *MemoryProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if r.indexOf(product.ID) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateProduct, product.ID)
	}
	r.products = append(r.products, *product)
	return nil
}

// Update replaces a product in place, keeping its position.
func (r *MemoryProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(product.ID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrProductNotFound, product.ID)
	}
	r.products[i] = *product
	return nil
}

// Delete removes a product, preserving the order of the rest.
func (r *MemoryProductRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	r.products = append(r.products[:i], r.products[i+1:]...)
	return nil
}
