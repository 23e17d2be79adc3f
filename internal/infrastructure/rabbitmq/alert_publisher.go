// Package rabbitmq publica las alertas de stock en una cola AMQP (opcional, RABBITMQ_URL).
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/streadway/amqp"

	"github.com/jhoicas/productos-api/internal/application/ports"
	"github.com/jhoicas/productos-api/pkg/config"
	"github.com/jhoicas/productos-api/pkg/logger"
)

var _ ports.Notifier = (*AlertPublisher)(nil)

// publisher es la parte de *amqp.Channel que se usa; permite probar sin broker.
type publisher interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AlertMessage cuerpo JSON publicado en la cola.
type AlertMessage struct {
	Mensaje string    `json:"mensaje"`
	Fecha   time.Time `json:"fecha"`
}

// AlertPublisher implementa Notifier publicando cada alerta como mensaje persistente.
type AlertPublisher struct {
	conn    *amqp.Connection
	channel publisher
	queue   string
	now     func() time.Time
	log     *logger.Logger
}

// NewAlertPublisher conecta con el broker y declara la cola durable de alertas.
func NewAlertPublisher(cfg config.RabbitMQConfig, log *logger.Logger) (*AlertPublisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("conectar RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("abrir canal: %w", err)
	}
	if _, err := ch.QueueDeclare(cfg.AlertsQueue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declarar cola %s: %w", cfg.AlertsQueue, err)
	}
	p := newAlertPublisher(ch, cfg.AlertsQueue, log)
	p.conn = conn
	p.log.Info().Str("cola", cfg.AlertsQueue).Msg("RabbitMQ conectado")
	return p, nil
}

func newAlertPublisher(ch publisher, queue string, log *logger.Logger) *AlertPublisher {
	if log == nil {
		log = logger.Nop()
	}
	return &AlertPublisher{channel: ch, queue: queue, now: time.Now, log: log.Named("rabbitmq")}
}

// Send publica text en la cola de alertas. streadway/amqp no acepta contexto;
// solo se respeta una cancelación previa.
func (p *AlertPublisher) Send(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now := p.now()
	body, err := json.Marshal(AlertMessage{Mensaje: text, Fecha: now})
	if err != nil {
		return fmt.Errorf("rabbitmq: serializar alerta: %w", err)
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    now,
		Body:         body,
	}
	if err := p.channel.Publish("", p.queue, false, false, msg); err != nil {
		return fmt.Errorf("rabbitmq: publicar alerta: %w", err)
	}
	p.log.Debug().Str("message_id", msg.MessageId).Msg("alerta publicada")
	return nil
}

// Close cierra canal y conexión.
func (p *AlertPublisher) Close() error {
	var errs []error
	if c, ok := p.channel.(*amqp.Channel); ok && c != nil {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("cerrar canal: %w", err))
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("cerrar conexión: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("rabbitmq: %v", errs)
	}
	return nil
}
