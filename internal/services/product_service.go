package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"productapi/internal/apperror"
	"productapi/internal/models"
	"productapi/internal/repositories"
	"productapi/pkg/logger"

	"github.com/google/uuid"
)

// EventPublisher receives product change events.
type EventPublisher interface {
	PublishProductEvent(event models.ProductEvent) error
}

// ProductService handles business logic related to products.
// Mutations are serialized so that read-modify-write sequences never interleave.
type ProductService struct {
	mu        sync.Mutex
	repo      repositories.ProductRepository
	validator *payloadValidator
	publisher EventPublisher
	newID     func() string
	now       func() time.Time
}

// ProductServiceOption configures a ProductService.
type ProductServiceOption func(*ProductService)

// WithEventPublisher publishes an event after every successful mutation.
func WithEventPublisher(p EventPublisher) ProductServiceOption {
	return func(s *ProductService) {
		s.publisher = p
	}
}

// WithIDGenerator replaces the UUID generator used for new products.
func WithIDGenerator(gen func() string) ProductServiceOption {
	return func(s *ProductService) {
		s.newID = gen
	}
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, opts ...ProductServiceOption) *ProductService {
	s := &ProductService{
		repo:      repo,
		validator: newPayloadValidator(),
		newID:     uuid.NewString,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetAllProducts retrieves all products in insertion order.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	products, err := s.repo.GetAll()
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return products, nil
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, translate(err, id)
	}
	return product, nil
}

// CreateProduct validates payload, assigns a new ID and appends the product.
func (s *ProductService) CreateProduct(payload ProductPayload) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	input, err := s.validator.decodeCreate(payload)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		ID:          s.newID(),
		Name:        input.Name,
		Description: input.Description,
		Price:       *input.Price,
		Category:    input.Category,
		InStock:     true,
	}
	if input.InStock != nil {
		product.InStock = *input.InStock
	}

	if err := s.repo.Create(product); err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to create product: %w", err))
	}

	s.publish(models.ProductCreated, product)
	return product, nil
}

// UpdateProduct applies the fields present in payload to an existing product.
// The lookup happens before validation, so an unknown ID is reported as not
// found even when the payload is invalid.
func (s *ProductService) UpdateProduct(id string, payload ProductPayload) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, translate(err, id)
	}

	input, err := s.validator.decodeUpdate(payload)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.InStock != nil {
		product.InStock = *input.InStock
	}

	if err := s.repo.Update(product); err != nil {
		return nil, translate(err, id)
	}

	s.publish(models.ProductUpdated, product)
	return product, nil
}

// DeleteProduct removes a product and returns what was removed.
func (s *ProductService) DeleteProduct(id string) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, translate(err, id)
	}
	if err := s.repo.Delete(id); err != nil {
		return nil, translate(err, id)
	}

	s.publish(models.ProductDeleted, product)
	return product, nil
}

func (s *ProductService) publish(eventType models.ProductEventType, product *models.Product) {
	if s.publisher == nil {
		return
	}
	event := models.ProductEvent{
		Type:       eventType,
		Product:    *product,
		OccurredAt: s.now().UTC(),
	}
	if err := s.publisher.PublishProductEvent(event); err != nil {
		logger.Warn().Err(err).
			Str("event", string(eventType)).
			Str("product_id", product.ID).
			Msg("failed to publish product event")
	}
}

func translate(err error, id string) error {
	if errors.Is(err, repositories.ErrProductNotFound) {
		return apperror.NotFound(fmt.Sprintf("Product with id %s not found", id))
	}
	return apperror.Internal(err)
}
