package handlers

import (
	"encoding/json"
	"time"

	"productapi/internal/apperror"
	"productapi/internal/services"
	"productapi/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// WelcomeMessage is the plain-text body of the root route.
const WelcomeMessage = "Welcome to the Product API"

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// RegisterRoutes registers the product routes. auth guards the mutating routes.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", auth, h.HandleCreateProduct)
	productRoutes.Put("/:id", auth, h.HandleUpdateProduct)
	productRoutes.Delete("/:id", auth, h.HandleDeleteProduct)
}

// HandleWelcome serves the root route.
func HandleWelcome(c *fiber.Ctx) error {
	return c.SendString(WelcomeMessage)
}

// HandleHealth reports liveness.
func HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// HandleGetProducts lists every product.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts()
	if err != nil {
		return err
	}
	return c.JSON(products)
}

// HandleGetProductByID returns one product.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a product from the request body.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	payload, err := parsePayload(c)
	if err != nil {
		return err
	}

	product, err := h.service.CreateProduct(payload)
	if err != nil {
		return err
	}

	logger.Info().Str("product_id", product.ID).Str("name", product.Name).Msg("product created")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Product created successfully",
		"product": product,
	})
}

// HandleUpdateProduct applies a partial update.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	payload, err := parsePayload(c)
	if err != nil {
		return err
	}

	product, err := h.service.UpdateProduct(id, payload)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Product updated successfully",
		"product": product,
	})
}

// HandleDeleteProduct removes a product and echoes it back.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	product, err := h.service.DeleteProduct(c.Params("id"))
	if err != nil {
		return err
	}

	logger.Info().Str("product_id", product.ID).Msg("product deleted")
	return c.JSON(fiber.Map{
		"message": "Product deleted successfully",
		"product": product,
	})
}

// parsePayload decodes a JSON object body. An empty body is an empty payload,
// and a body sent without a Content-Type is read as JSON.
func parsePayload(c *fiber.Ctx) (services.ProductPayload, error) {
	payload := services.ProductPayload{}
	if len(c.Body()) == 0 {
		return payload, nil
	}
	decode := func() error { return c.BodyParser(&payload) }
	if len(c.Request().Header.ContentType()) == 0 {
		decode = func() error { return json.Unmarshal(c.Body(), &payload) }
	}
	if err := decode(); err != nil {
		logger.Debug().Err(err).Str("path", c.Path()).Msg("error parsing request body")
		return nil, apperror.Validation("Invalid request body")
	}
	return payload, nil
}
