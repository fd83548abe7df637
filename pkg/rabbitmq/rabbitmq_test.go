package rabbitmq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	amqp "github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog/internal/models"
)

func sampleEvent() models.ProductEvent {
	name := "Book"
	return models.ProductEvent{
		EventID:    "5b4c2f1e-9f1a-4a8e-9d1b-0c2a3e4f5a6b",
		Type:       models.ProductCreatedType,
		OccurredAt: time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC),
		Product:    models.ProductSnapshot{Name: &name, Price: models.NewScalar("9.99")},
	}
}

func TestNewPublishing(t *testing.T) {
	event := sampleEvent()

	msg, err := newPublishing(event)
	require.NoError(t, err)

	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, event.EventID, msg.MessageId)
	assert.Equal(t, models.ProductCreatedType, msg.Type)
	assert.Equal(t, event.OccurredAt, msg.Timestamp)

	var body map[string]any
	require.NoError(t, json.Unmarshal(msg.Body, &body))
	assert.Equal(t, "product.created", body["type"])
	product := body["product"].(map[string]any)
	assert.Equal(t, "Book", product["product_name"])
	assert.Equal(t, 9.99, product["price"])
	assert.Nil(t, product["stock"])
}

func TestDispatch(t *testing.T) {
	var buf bytes.Buffer
	c := &Client{log: zerolog.New(&buf)}
	body, err := json.Marshal(sampleEvent())
	require.NoError(t, err)

	var got models.ProductEvent
	ack, requeue := c.dispatch(body, func(e models.ProductEvent) error {
		got = e
		return nil
	})
	assert.True(t, ack)
	assert.False(t, requeue)
	assert.Equal(t, "Book", *got.Product.Name)
	assert.Equal(t, "9.99", got.Product.Price.Text())

	ack, requeue = c.dispatch(body, func(models.ProductEvent) error { return errors.New("busy") })
	assert.False(t, ack)
	assert.True(t, requeue)

	ack, requeue = c.dispatch([]byte("not json"), func(models.ProductEvent) error { return nil })
	assert.False(t, ack)
	assert.False(t, requeue)
	assert.Contains(t, buf.String(), "dropping undecodable product event")
}

func TestLogProductEvent(t *testing.T) {
	var buf bytes.Buffer
	handler := LogProductEvent(zerolog.New(&buf))

	require.NoError(t, handler(sampleEvent()))
	assert.Contains(t, buf.String(), `"product_name":"Book"`)
	assert.Contains(t, buf.String(), `"type":"product.created"`)
}

func TestClientWithoutChannel(t *testing.T) {
	c := &Client{log: zerolog.Nop()}

	assert.Error(t, c.PublishProductEvent(context.Background(), sampleEvent()))
	assert.Error(t, c.ConsumeProductEvents(LogProductEvent(zerolog.Nop())))
	assert.NoError(t, c.Close())
}
