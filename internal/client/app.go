package client

import (
	"context"
	"fmt"
	"io"

	"catalog/internal/models"
)

// AddedMessage is shown after every submit.
const AddedMessage = "Product added!"

// App is the single add-product screen: a form above the list of existing
// products.
type App struct {
	client   *Client
	out      io.Writer
	Form     Form
	Products []models.Product
}

// NewApp returns an App that renders to out.
func NewApp(c *Client, out io.Writer) *App {
	return &App{
		client:   c,
		out:      out,
		Products: []models.Product{},
	}
}

// Mount loads the product list and renders it.
func (a *App) Mount(ctx context.Context) error {
	return a.Refresh(ctx)
}

// Refresh replaces the displayed products with a fresh list and re-renders.
// On failure the previous list is kept.
func (a *App) Refresh(ctx context.Context) error {
	products, err := a.client.ListProducts(ctx)
	if err != nil {
		return err
	}
	a.Products = products
	a.Render()
	return nil
}

// Submit posts the form, reports AddedMessage whatever the outcome, and
// refreshes the list.
func (a *App) Submit(ctx context.Context) error {
	// The create result is not shown; the refreshed list is the feedback.
	if status, err := a.client.CreateProduct(ctx, a.Form); err != nil {
		a.client.log.Debug().Err(err).Msg("submit: create request failed")
	} else {
		a.client.log.Debug().Int("status", status).Msg("submit: create answered")
	}
	fmt.Fprintln(a.out, AddedMessage)
	return a.Refresh(ctx)
}

// Render writes the product list.
func (a *App) Render() {
	fmt.Fprintln(a.out, "Existing Products")
	for _, p := range a.Products {
		fmt.Fprintln(a.out, RenderProduct(p))
	}
}

// RenderProduct formats one list line, e.g. "Pen - ₹2.5 - Stock: 100".
func RenderProduct(p models.Product) string {
	return fmt.Sprintf("%s - ₹%s - Stock: %d", p.Name, p.Price.String(), p.Stock)
}
