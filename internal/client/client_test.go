package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog/internal/handlers"
	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/internal/services"
)

// startServer runs the product routes on an ephemeral port and returns the
// base URL.
func startServer(t *testing.T) string {
	t.Helper()
	repo := repositories.NewMemoryProductRepository()
	productHandler := handlers.NewProductHandler(
		services.NewProductService(repo),
		handlers.HandlerConfig{ExposeErrorDetails: true},
		zerolog.Nop(),
	)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	productHandler.RegisterRoutes(app)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go app.Listener(ln)
	t.Cleanup(func() { app.Shutdown() })

	return "http://" + ln.Addr().String()
}

func penForm() Form {
	return Form{ProductName: "Pen", Category: "Stationery", SupplierID: "7", Stock: "100", Price: "2.5"}
}

func TestNewDefaultsBaseURL(t *testing.T) {
	c := New("", zerolog.Nop())
	assert.Equal(t, DefaultBaseURL, c.BaseURL)
	assert.Equal(t, "http://localhost:5000", c.BaseURL)
}

func TestRenderProduct(t *testing.T) {
	p := models.Product{ID: 1, Name: "Pen", Category: "Stationery", SupplierID: 7, Stock: 100, Price: decimal.RequireFromString("2.50")}
	assert.Equal(t, "Pen - ₹2.5 - Stock: 100", RenderProduct(p))
}

func TestFormSetUpdatesOnlyThatField(t *testing.T) {
	var f Form
	assert.Equal(t, Form{}, f)

	require.NoError(t, f.Set(FieldCategory, "Media"))
	assert.Equal(t, Form{Category: "Media"}, f)

	require.NoError(t, f.Set(FieldPrice, "9.99"))
	assert.Equal(t, Form{Category: "Media", Price: "9.99"}, f)

	assert.Error(t, f.Set("colour", "red"))
	assert.Equal(t, Form{Category: "Media", Price: "9.99"}, f)
}

func TestFormPayload(t *testing.T) {
	f := Form{ProductName: "42", Category: "Media", SupplierID: "3", Stock: "abc", Price: "9.90"}

	body, err := json.Marshal(f.Payload())
	require.NoError(t, err)
	assert.JSONEq(t, `{"product_name":"42","category":"Media","supplier_id":3,"stock":"abc","price":9.9}`, string(body))

	body, err = json.Marshal(Form{}.Payload())
	require.NoError(t, err)
	assert.JSONEq(t, `{"product_name":"","category":"","supplier_id":"","stock":"","price":""}`, string(body))
}

func TestClientRoundTrip(t *testing.T) {
	c := New(startServer(t), zerolog.Nop())
	ctx := context.Background()

	products, err := c.ListProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)

	code, err := c.CreateProduct(ctx, penForm())
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, code)

	products, err = c.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Pen", products[0].Name)
	assert.Equal(t, int64(7), products[0].SupplierID)
	assert.Equal(t, int64(100), products[0].Stock)
	assert.True(t, decimal.RequireFromString("2.5").Equal(products[0].Price))
}

func TestCreateProductReportsServerStatus(t *testing.T) {
	c := New(startServer(t), zerolog.Nop())

	code, err := c.CreateProduct(context.Background(), Form{ProductName: "Pen", Stock: "lots"})
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, code)
}

func TestListProductsUnreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	c := New("http://"+addr, zerolog.Nop())
	c.Timeout = time.Second

	_, err = c.ListProducts(context.Background())
	assert.Error(t, err)
}

func TestCanceledContext(t *testing.T) {
	c := New(startServer(t), zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ListProducts(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = c.CreateProduct(ctx, penForm())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAppMountAndSubmit(t *testing.T) {
	var out bytes.Buffer
	app := NewApp(New(startServer(t), zerolog.Nop()), &out)
	ctx := context.Background()

	require.NoError(t, app.Mount(ctx))
	assert.Equal(t, "Existing Products\n", out.String())

	app.Form = penForm()
	out.Reset()
	require.NoError(t, app.Submit(ctx))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, []string{AddedMessage, "Existing Products", "Pen - ₹2.5 - Stock: 100"}, lines)
	assert.Len(t, app.Products, 1)
}

func TestAppSubmitFailureStillAnnounces(t *testing.T) {
	var out bytes.Buffer
	app := NewApp(New(startServer(t), zerolog.Nop()), &out)
	ctx := context.Background()

	app.Form = Form{ProductName: "Ghost"}
	require.NoError(t, app.Submit(ctx))

	assert.True(t, strings.HasPrefix(out.String(), AddedMessage+"\n"))
	assert.Empty(t, app.Products)
}

func TestUnsupportedSchemeFailsBeforeSending(t *testing.T) {
	c := New("ftp://localhost:5000", zerolog.Nop())

	_, err := c.ListProducts(context.Background())
	assert.ErrorContains(t, err, "invalid catalog service URL")

	_, err = c.CreateProduct(context.Background(), penForm())
	assert.ErrorContains(t, err, "invalid catalog service URL")
}

func TestAppSubmitRecordsCreateOutcome(t *testing.T) {
	var logs bytes.Buffer
	app := NewApp(New(startServer(t), zerolog.New(&logs)), io.Discard)

	app.Form = Form{ProductName: "Ghost"}
	require.NoError(t, app.Submit(context.Background()))

	assert.Contains(t, logs.String(), `"message":"submit: create answered"`)
	assert.Contains(t, logs.String(), `"status":500`)
}
