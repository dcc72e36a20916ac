package notifications

import (
	"clinirun-service/internal/app/config"
	"clinirun-service/internal/pkg/constvars"
	"clinirun-service/internal/pkg/exceptions"
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type notificationService struct {
	Channel           *amqp091.Channel
	NotificationQueue string
	PushQueue         string
	OperatorQueue     string
	Log               *zap.Logger
}

type notificationMessage struct {
	RecipientType string            `json:"recipientType"` // "patient" | "clinic" | "operator"
	RecipientID   string            `json:"recipientId,omitempty"`
	Title         string            `json:"title"`
	Message       string            `json:"message"`
	Category      string            `json:"category"`
	Timestamp     time.Time         `json:"timestamp"`
	PushToken     string            `json:"pushToken,omitempty"`
	Data          map[string]string `json:"data,omitempty"`
}

type operatorAlert struct {
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Priority  string                 `json:"priority"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func NewNotificationService(rabbitMQConnection *amqp091.Connection, internalConfig *config.InternalConfig, logger *zap.Logger) (*NotificationPublisher, error) {
	channel, err := rabbitMQConnection.Channel()
	if err != nil {
		return nil, err
	}

	return &NotificationPublisher{
		notificationService: notificationService{
			Channel:           channel,
			NotificationQueue: internalConfig.RabbitMQ.NotificationQueue,
			PushQueue:         internalConfig.RabbitMQ.PushQueue,
			OperatorQueue:     internalConfig.RabbitMQ.OperatorQueue,
			Log:               logger,
		},
	}, nil
}

// NotificationPublisher implements both contracts.NotificationService and
// contracts.OperatorAlertService over the same channel.
type NotificationPublisher struct {
	notificationService
}

func (s *NotificationPublisher) NotifyPatient(ctx context.Context, patientID, title, message, category string) error {
	return s.publish(ctx, s.NotificationQueue, notificationMessage{
		RecipientType: "patient",
		RecipientID:   patientID,
		Title:         title,
		Message:       message,
		Category:      category,
		Timestamp:     time.Now(),
	})
}

func (s *NotificationPublisher) NotifyClinic(ctx context.Context, clinicID, title, message, category string) error {
	return s.publish(ctx, s.NotificationQueue, notificationMessage{
		RecipientType: "clinic",
		RecipientID:   clinicID,
		Title:         title,
		Message:       message,
		Category:      category,
		Timestamp:     time.Now(),
	})
}

func (s *NotificationPublisher) NotifyOperator(ctx context.Context, title, message, category string) error {
	return s.publish(ctx, s.OperatorQueue, notificationMessage{
		RecipientType: "operator",
		Title:         title,
		Message:       message,
		Category:      category,
		Timestamp:     time.Now(),
	})
}

func (s *NotificationPublisher) SendPush(ctx context.Context, token, title, message, category string, data map[string]string) error {
	return s.publish(ctx, s.PushQueue, notificationMessage{
		Title:     title,
		Message:   message,
		Category:  category,
		PushToken: token,
		Data:      data,
		Timestamp: time.Now(),
	})
}

func (s *NotificationPublisher) RaiseAlert(ctx context.Context, title, message string, details map[string]interface{}) error {
	return s.publish(ctx, s.OperatorQueue, operatorAlert{
		Title:     title,
		Message:   message,
		Priority:  "high",
		Details:   details,
		Timestamp: time.Now(),
	})
}

func (s *notificationService) publish(ctx context.Context, queue string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	message := amqp091.Publishing{
		ContentType: constvars.MIMEApplicationJSON,
		Body:        body,
	}

	err = s.Channel.PublishWithContext(ctx, "", queue, false, false, message)
	if err != nil {
		return exceptions.BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevAmqpPublishFailed)
	}
	return nil
}
