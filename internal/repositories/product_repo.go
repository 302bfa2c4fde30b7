package repositories

import (
	"errors"

	"productapi/internal/models"
)

var (
	// ErrProductNotFound is returned when no product has the requested ID.
	ErrProductNotFound = errors.New("product not found")
	// ErrDuplicateProduct is returned when a product ID is already taken.
	ErrDuplicateProduct = errors.New("product already exists")
)

// ProductRepository defines the interface for product data access.
// GetAll returns products in insertion order.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
}
