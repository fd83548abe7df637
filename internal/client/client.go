package client

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"catalog/internal/models"
)

// DefaultBaseURL is where the catalog service listens by default.
const DefaultBaseURL = "http://localhost:5000"

const defaultTimeout = 5 * time.Second

// Client talks to the catalog service over HTTP.
type Client struct {
	BaseURL string
	Timeout time.Duration
	log     zerolog.Logger
}

// New returns a Client for baseURL. An empty baseURL means DefaultBaseURL.
func New(baseURL string, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: baseURL,
		Timeout: defaultTimeout,
		log:     log,
	}
}

// ListProducts fetches every product from GET /products.
func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	agent, err := c.agent(ctx, fiber.Get(c.BaseURL+"/products"))
	if err != nil {
		return nil, err
	}

	products := []models.Product{}
	code, body, errs := agent.Struct(&products)
	if len(errs) > 0 {
		c.log.Error().Errs("errors", errs).Msg("ListProducts: request failed")
		return nil, fmt.Errorf("failed to call catalog service: %w", errs[0])
	}
	if code != fiber.StatusOK {
		c.log.Error().Int("status", code).Bytes("body", body).Msg("ListProducts: unexpected status")
		return nil, fmt.Errorf("catalog service returned status: %d", code)
	}
	return products, nil
}

// CreateProduct posts the form to POST /products. The returned status is the
// one the service answered with; err is set only when no answer arrived.
func (c *Client) CreateProduct(ctx context.Context, form Form) (int, error) {
	agent, err := c.agent(ctx, fiber.Post(c.BaseURL+"/products").JSON(form.Payload()))
	if err != nil {
		return 0, err
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		c.log.Error().Errs("errors", errs).Msg("CreateProduct: request failed")
		return 0, fmt.Errorf("failed to call catalog service: %w", errs[0])
	}
	if code != fiber.StatusCreated {
		c.log.Warn().Int("status", code).Bytes("body", body).Msg("CreateProduct: product not created")
	}
	return code, nil
}

// agent applies the timeout, shortened to ctx's deadline, and parses the
// request URL. On error a is released; otherwise Bytes or Struct releases it.
func (c *Client) agent(ctx context.Context, a *fiber.Agent) (*fiber.Agent, error) {
	if err := ctx.Err(); err != nil {
		fiber.ReleaseAgent(a)
		return nil, err
	}
	timeout := c.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); timeout <= 0 || remaining < timeout {
			timeout = remaining
		}
	}
	if timeout > 0 {
		a.Timeout(timeout)
	}
	if err := a.Parse(); err != nil {
		fiber.ReleaseAgent(a)
		return nil, fmt.Errorf("invalid catalog service URL %q: %w", c.BaseURL, err)
	}
	return a, nil
}
