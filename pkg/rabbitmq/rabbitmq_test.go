package rabbitmq

import (
	"testing"

	amqp "github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
)

func TestNewMessage(t *testing.T) {
	msg := NewMessage([]byte(`{"id":"1"}`))

	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, []byte(`{"id":"1"}`), msg.Body)
	assert.False(t, msg.Timestamp.IsZero())
}

func TestPublish_WithoutChannel(t *testing.T) {
	c := &Client{exchange: DefaultExchange}
	err := c.Publish("article.created", map[string]string{"id": "1"})
	assert.EqualError(t, err, "RabbitMQ channel is not available")
}

func TestNewClient_InvalidURL(t *testing.T) {
	_, err := NewClient(Config{URL: "not-a-url"})
	assert.Error(t, err)
}
