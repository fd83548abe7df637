package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"catalog/internal/client"
	"catalog/internal/logger"
)

var prompts = map[string]string{
	client.FieldProductName: "Name",
	client.FieldCategory:    "Category",
	client.FieldSupplierID:  "Supplier ID",
	client.FieldStock:       "Stock",
	client.FieldPrice:       "Price",
}

func main() {
	log := logger.New(logger.Config{Env: "development", Level: "warn"})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := client.NewApp(client.New(client.DefaultBaseURL, log), os.Stdout)
	if err := app.Mount(ctx); err != nil {
		log.Error().Err(err).Msg("failed to load products")
	}

	in := bufio.NewReader(os.Stdin)
	for ctx.Err() == nil {
		fmt.Println()
		fmt.Println("Add New Product (Ctrl-D to quit)")
		app.Form = client.Form{}
		if err := fillForm(in, &app.Form); err != nil {
			if !errors.Is(err, io.EOF) {
				log.Error().Err(err).Msg("failed to read form")
			}
			return
		}
		if err := app.Submit(ctx); err != nil {
			log.Error().Err(err).Msg("failed to refresh products")
		}
	}
}

func fillForm(in *bufio.Reader, form *client.Form) error {
	for _, field := range client.Fields {
		fmt.Printf("%s: ", prompts[field])
		line, err := in.ReadString('\n')
		if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
			return err
		}
		if err := form.Set(field, strings.TrimRight(line, "\r\n")); err != nil {
			return err
		}
	}
	return nil
}
