package models

import "time"

// Product represents a catalog item.
type Product struct {
	ID          string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string  `json:"name" gorm:"not null"`
	Description string  `json:"description" gorm:"not null"`
	Price       float64 `json:"price" gorm:"not null"`
	Category    string  `json:"category" gorm:"index;not null"`
	InStock     bool    `json:"inStock" gorm:"not null"`
}

// ProductEventType names a change made to the product collection.
type ProductEventType string

const (
	ProductCreated ProductEventType = "product.created"
	ProductUpdated ProductEventType = "product.updated"
	ProductDeleted ProductEventType = "product.deleted"
)

// ProductEvent is published after every successful mutation.
type ProductEvent struct {
	Type       ProductEventType `json:"type"`
	Product    Product          `json:"product"`
	OccurredAt time.Time        `json:"occurredAt"`
}
