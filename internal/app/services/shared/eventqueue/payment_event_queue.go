package eventqueue

import (
	"context"
	"fmt"
	"klinipay-service/internal/app/contracts"
	"klinipay-service/internal/pkg/constvars"
	"klinipay-service/internal/pkg/exceptions"
	"sync"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// PaymentEventQueueName carries the terminal outcome of every payment
// session for downstream clinic systems.
const PaymentEventQueueName = "collection_payment_events"

// Service publishes payment events to a durable RabbitMQ queue with
// publisher confirms, so a confirmed publish survives a broker restart.
type Service struct {
	ch       *amqp.Channel
	log      *zap.Logger
	confirms chan amqp.Confirmation
	mu       sync.Mutex
}

func NewService(conn *amqp.Connection, log *zap.Logger) (*Service, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	_, err = ch.QueueDeclare(
		PaymentEventQueueName, // name
		true,                  // durable
		false,                 // autoDelete
		false,                 // exclusive
		false,                 // noWait
		nil,                   // args
	)
	if err != nil {
		return nil, err
	}

	if err := ch.Confirm(false); err != nil {
		return nil, err
	}

	svc := &Service{
		ch:       ch,
		log:      log,
		confirms: ch.NotifyPublish(make(chan amqp.Confirmation, 1)),
	}
	return svc, nil
}

// Publish sends one payment event and waits for the broker confirm.
func (s *Service) Publish(ctx context.Context, event *contracts.PaymentEvent) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.log.Info("PaymentEventQueue.Publish called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQueueNameKey, PaymentEventQueueName),
		zap.String(constvars.LoggingSessionIDKey, event.SessionID),
		zap.String(constvars.LoggingPaymentStatusKey, event.Status),
	)

	body, err := json.Marshal(event)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	msg := amqp.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		Body:         body,
		DeliveryMode: amqp.Persistent,
	}

	if err := s.ch.PublishWithContext(ctx, "", PaymentEventQueueName, false, false, msg); err != nil {
		return exceptions.ErrRabbitMQPublishMessage(err, PaymentEventQueueName)
	}

	select {
	case confirmed := <-s.confirms:
		if !confirmed.Ack {
			return exceptions.ErrRabbitMQPublishMessage(fmt.Errorf("message not confirmed"), PaymentEventQueueName)
		}
	case <-ctx.Done():
		return exceptions.ErrRabbitMQPublishMessage(ctx.Err(), PaymentEventQueueName)
	}
	return nil
}
