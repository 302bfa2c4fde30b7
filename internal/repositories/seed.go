package repositories

import (
	"fmt"

	"productapi/internal/models"
)

// SeedData returns the products every fresh collection starts with.
func SeedData() []models.Product {
	return []models.Product{
		{ID: "1", Name: "Laptop", Description: "High-performance laptop", Price: 999.99, Category: "electronics", InStock: true},
		{ID: "2", Name: "Smartphone", Description: "Latest model smartphone", Price: 699.99, Category: "electronics", InStock: true},
		{ID: "3", Name: "Coffee Maker", Description: "Programmable coffee maker", Price: 49.99, Category: "appliances", InStock: false},
	}
}

// SeedProducts loads SeedData into repo.
func SeedProducts(repo ProductRepository) error {
	products := SeedData()
	for i := range products {
		if err := repo.Create(&products[i]); err != nil {
			return fmt.Errorf("failed to seed product %s: %w", products[i].Name, err)
		}
	}
	return nil
}
