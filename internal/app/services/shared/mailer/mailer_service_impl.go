package mailer

import (
	"clinirun-service/internal/app/contracts"
	"clinirun-service/internal/app/models"
	"clinirun-service/internal/pkg/constvars"
	"clinirun-service/internal/pkg/dto/requests"
	"clinirun-service/internal/pkg/exceptions"
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/rabbitmq/amqp091-go"
)

// mailerService publishes templated email jobs to the mailer queue. The
// worker that renders and sends them is a separate deployment.
type mailerService struct {
	Channel *amqp091.Channel
	Queue   string
}

func NewMailerService(rabbitMQConnection *amqp091.Connection, queue string) (contracts.EmailService, error) {
	channel, err := rabbitMQConnection.Channel()
	if err != nil {
		return nil, err
	}

	return &mailerService{
		Channel: channel,
		Queue:   queue,
	}, nil
}

func (s *mailerService) SendOrderConfirmation(ctx context.Context, order *models.Order, recipientEmail string) error {
	return s.publish(ctx, &requests.EmailPayload{
		To:       recipientEmail,
		Subject:  fmt.Sprintf("Order %s confirmed", order.OrderCode),
		Template: "order_confirmation",
		Data: map[string]interface{}{
			"orderCode":   order.OrderCode,
			"totalAmount": order.TotalAmount,
			"currency":    order.Currency,
			"tests":       order.Tests,
		},
	})
}

func (s *mailerService) SendPaymentFailed(ctx context.Context, recipientEmail, reason string) error {
	return s.publish(ctx, &requests.EmailPayload{
		To:       recipientEmail,
		Subject:  "Your payment could not be completed",
		Template: "payment_failed",
		Data: map[string]interface{}{
			"reason": reason,
		},
	})
}

func (s *mailerService) SendTestStatusUpdate(ctx context.Context, order *models.Order, test *models.OrderTest, recipientEmail string) error {
	return s.publish(ctx, &requests.EmailPayload{
		To:       recipientEmail,
		Subject:  fmt.Sprintf("Update on your test %s", test.Name),
		Template: "test_status_update",
		Data: map[string]interface{}{
			"orderCode":    order.OrderCode,
			"testName":     test.Name,
			"status":       test.Status,
			"statusReason": test.StatusReason,
		},
	})
}

func (s *mailerService) publish(ctx context.Context, payload *requests.EmailPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	message := amqp091.Publishing{
		ContentType: constvars.MIMEApplicationJSON,
		Body:        body,
	}

	err = s.Channel.PublishWithContext(ctx, "", s.Queue, false, false, message)
	if err != nil {
		return exceptions.BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevAmqpPublishFailed)
	}
	return nil
}
