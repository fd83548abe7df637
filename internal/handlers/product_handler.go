package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"catalog/internal/models"
	"catalog/internal/services"
)

// ProductCreatedMessage is the acknowledgement returned by POST /products.
const ProductCreatedMessage = "Product added successfully"

// ProductService is the part of services.ProductService the handler needs.
type ProductService interface {
	GetAllProducts(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, req models.CreateProductRequest) error
}

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service      ProductService
	log          zerolog.Logger
	exposeErrors bool
	strict       bool
}

// HandlerConfig controls how failures are reported to clients.
type HandlerConfig struct {
	// ExposeErrorDetails puts the underlying failure text in error bodies.
	// When false the body carries only the error category.
	ExposeErrorDetails bool
	// StrictValidation answers invalid requests with 400 instead of 500.
	StrictValidation bool
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service ProductService, cfg HandlerConfig, log zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service:      service,
		log:          log,
		exposeErrors: cfg.ExposeErrorDetails,
		strict:       cfg.StrictValidation,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/products", h.HandleGetProducts)
	router.Post("/products", h.HandleCreateProduct)
}

// HandleGetProducts returns every product as a JSON array.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.UserContext())
	if err != nil {
		return h.respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(products)
}

// HandleCreateProduct inserts the product described by the request body.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req models.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return h.respondError(c, fmt.Errorf("%w: %w", services.ErrInvalidRequest, err))
	}

	if err := h.service.CreateProduct(c.UserContext(), req); err != nil {
		return h.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": ProductCreatedMessage,
	})
}

func (h *ProductHandler) respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	public := services.ErrStorage.Error()
	if errors.Is(err, services.ErrInvalidRequest) {
		public = services.ErrInvalidRequest.Error()
		if h.strict {
			status = fiber.StatusBadRequest
		}
	}

	h.log.Error().
		Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", status).
		Msg("product request failed")

	if h.exposeErrors {
		public = err.Error()
	}
	return c.Status(status).JSON(fiber.Map{
		"error": public,
	})
}
