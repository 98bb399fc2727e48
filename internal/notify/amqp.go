package notify

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/speedx-ps/subscriber-hub/internal/lib/sl"
)

// Message описывает уведомление, публикуемое во внешнюю очередь.
type Message struct {
	Level   string    `json:"level"` // success или failure
	Event   string    `json:"event"`
	Message string    `json:"message"`
	TS      time.Time `json:"ts"`
}

// AMQPNotifier публикует уведомления в RabbitMQ для внешнего рассыльщика.
// Ошибка публикации не прерывает операцию: уведомление уже ушло в журнал,
// потеря копии в очереди фиксируется предупреждением.
type AMQPNotifier struct {
	ch       *amqp.Channel
	exchange string
	log      *slog.Logger
}

// Connect устанавливает соединение с RabbitMQ с повторными попытками.
func Connect(connection string, retries int, delay time.Duration) (*amqp.Connection, error) {
	const op = "notify.Connect"
	var conn *amqp.Connection
	var err error

	for range retries {
		conn, err = amqp.Dial(connection)
		if err == nil {
			return conn, nil
		}
		time.Sleep(delay)
	}

	return nil, fmt.Errorf("%s: %w", op, err)
}

// NewAMQPNotifier открывает канал, объявляет exchange и возвращает готовый Notifier.
func NewAMQPNotifier(conn *amqp.Connection, exchange string, log *slog.Logger) (*AMQPNotifier, error) {
	const op = "notify.NewAMQPNotifier"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	err = ch.ExchangeDeclare(
		exchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &AMQPNotifier{ch: ch, exchange: exchange, log: log}, nil
}

// Success публикует уведомление об успехе с ключом маршрутизации "success".
func (n *AMQPNotifier) Success(event, message string) {
	n.publish("success", event, message)
}

// Failure публикует уведомление об ошибке с ключом маршрутизации "failure".
func (n *AMQPNotifier) Failure(event, message string) {
	n.publish("failure", event, message)
}

func (n *AMQPNotifier) publish(level, event, message string) {
	body, err := json.Marshal(Message{
		Level:   level,
		Event:   event,
		Message: message,
		TS:      time.Now().UTC(),
	})
	if err != nil {
		n.log.Warn("failed to marshal notification", sl.Err(err))
		return
	}

	err = n.ch.Publish(
		n.exchange,
		level,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		n.log.Warn("failed to publish notification", slog.String("event", event), sl.Err(err))
	}
}
