package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"catalog/internal/models"
	"catalog/internal/repositories"
)

// EventPublisher delivers product events to a message broker.
type EventPublisher interface {
	PublishProductEvent(ctx context.Context, event models.ProductEvent) error
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	publisher EventPublisher
	validate  *validator.Validate
	strict    bool
	log       zerolog.Logger
	now       func() time.Time
}

// Option configures a ProductService.
type Option func(*ProductService)

// WithPublisher publishes a product.created event after every successful insert.
func WithPublisher(p EventPublisher) Option {
	return func(s *ProductService) { s.publisher = p }
}

// WithStrictValidation rejects incomplete or out-of-range create requests
// before they reach storage.
func WithStrictValidation(strict bool) Option {
	return func(s *ProductService) { s.strict = strict }
}

// WithLogger sets the logger used for non-fatal failures.
func WithLogger(l zerolog.Logger) Option {
	return func(s *ProductService) { s.log = l }
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, opts ...Option) *ProductService {
	s := &ProductService{
		repo:     repo,
		validate: newValidator(),
		log:      zerolog.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return products, nil
}

// CreateProduct stores a new product. The id is assigned by storage and is
// not returned.
func (s *ProductService) CreateProduct(ctx context.Context, req models.CreateProductRequest) error {
	if s.strict {
		if err := s.validateRequest(req); err != nil {
			return err
		}
	}

	if err := s.repo.Create(ctx, req); err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}

	if s.publisher != nil {
		event := models.ProductEvent{
			EventID:    uuid.New().String(),
			Type:       models.ProductCreatedType,
			OccurredAt: s.now().UTC(),
			Product:    models.SnapshotOf(req),
		}
		if err := s.publisher.PublishProductEvent(ctx, event); err != nil {
			// The row is already committed; the event is best effort.
			s.log.Warn().Err(err).Str("event_id", event.EventID).Msg("failed to publish product event")
		}
	}
	return nil
}

func (s *ProductService) validateRequest(req models.CreateProductRequest) error {
	if err := s.validate.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			e := validationErrors[0]
			return fmt.Errorf("%w: field '%s' failed on the '%s' tag", ErrInvalidRequest, e.Field(), e.Tag())
		}
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return nil
}
