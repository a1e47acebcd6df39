// Package audit публикует журнал действий администратора в RabbitMQ.
//
// Каждое добавление, изменение и удаление через админку превращается в
// models.AdminLogEntry и отправляется в exchange с ключом маршрутизации,
// равным действию (add, change, delete).
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/accounts-admin/internal/models"
)

// Channel — часть amqp.Channel, нужная для публикации.
type Channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher отправляет записи журнала в exchange.
type Publisher struct {
	ch       Channel
	exchange string
}

// NewPublisher создаёт Publisher поверх канала ch.
func NewPublisher(ch Channel, exchange string) *Publisher {
	return &Publisher{ch: ch, exchange: exchange}
}

// Publish сериализует запись в JSON и публикует её как постоянное сообщение.
func (p *Publisher) Publish(ctx context.Context, entry models.AdminLogEntry) error {
	const op = "audit.Publish"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	body, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = p.ch.Publish(
		p.exchange,
		entry.Action,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    entry.ID,
			Timestamp:    entry.At,
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Connect подключается к RabbitMQ, повторяя попытку retries раз с паузой delay.
func Connect(url string, retries int, delay time.Duration) (*amqp.Connection, error) {
	const op = "audit.Connect"
	var (
		conn *amqp.Connection
		err  error
	)

	for attempt := 0; attempt < retries; attempt++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			return conn, nil
		}
		time.Sleep(delay)
	}
	if err == nil {
		err = fmt.Errorf("no connection attempts made")
	}
	return nil, fmt.Errorf("%s: %w", op, err)
}

// SetupChannel открывает канал и объявляет topic exchange журнала.
func SetupChannel(conn *amqp.Connection, exchange string) (*amqp.Channel, error) {
	const op = "audit.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	err = ch.ExchangeDeclare(
		exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ch, nil
}

// Nop ничего не публикует. Используется, если RabbitMQ не настроен.
type Nop struct{}

func (Nop) Publish(context.Context, models.AdminLogEntry) error { return nil }
