package mailer

import (
	"clinirun-service/internal/pkg/constvars"
	"clinirun-service/internal/pkg/dto/requests"
	"context"
	"fmt"
	"sort"
	"strings"

	mailerdriver "clinirun-service/internal/app/drivers/mailer"

	"github.com/goccy/go-json"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// MailDispatcher drains the mailer queue and delivers each job over SMTP.
// Delivery is best-effort: failures are logged and the message is dropped,
// never requeued, so a bad address cannot wedge the queue.
type MailDispatcher struct {
	Channel    *amqp091.Channel
	Queue      string
	SMTPClient *mailerdriver.SMTPClient
	Log        *zap.Logger
}

func NewMailDispatcher(rabbitMQConnection *amqp091.Connection, queue string, smtpClient *mailerdriver.SMTPClient, logger *zap.Logger) (*MailDispatcher, error) {
	channel, err := rabbitMQConnection.Channel()
	if err != nil {
		return nil, err
	}

	if _, err := channel.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return nil, err
	}

	return &MailDispatcher{
		Channel:    channel,
		Queue:      queue,
		SMTPClient: smtpClient,
		Log:        logger,
	}, nil
}

// Start consumes until the context is cancelled or the channel closes.
// Run it in its own goroutine.
func (d *MailDispatcher) Start(ctx context.Context) error {
	deliveries, err := d.Channel.Consume(d.Queue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return d.Channel.Close()
		case delivery, ok := <-deliveries:
			if !ok {
				return nil
			}
			d.handle(delivery)
		}
	}
}

func (d *MailDispatcher) handle(delivery amqp091.Delivery) {
	defer func() {
		if err := delivery.Ack(false); err != nil {
			d.Log.Warn("mail dispatcher ack failed", zap.Error(err))
		}
	}()

	var payload requests.EmailPayload
	if err := json.Unmarshal(delivery.Body, &payload); err != nil {
		d.Log.Warn("mail dispatcher dropped malformed payload", zap.Error(err))
		return
	}
	if payload.To == "" {
		d.Log.Warn("mail dispatcher dropped payload without recipient",
			zap.String(constvars.LoggingTemplateKey, payload.Template),
		)
		return
	}

	if err := d.SMTPClient.Send(payload.To, payload.Subject, renderBody(&payload)); err != nil {
		d.Log.Error("mail delivery failed",
			zap.String(constvars.LoggingTemplateKey, payload.Template),
			zap.Error(err),
		)
		return
	}

	d.Log.Info("mail delivered",
		zap.String(constvars.LoggingTemplateKey, payload.Template),
	)
}

// renderBody flattens the template variables into a plain-text body. Rich
// HTML templates belong to the standalone mailer worker; this in-process
// fallback keeps deployments without that worker functional.
func renderBody(payload *requests.EmailPayload) string {
	if len(payload.Data) == 0 {
		return payload.Subject
	}

	keys := make([]string, 0, len(payload.Data))
	for key := range payload.Data {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys)+2)
	lines = append(lines, payload.Subject, "")
	for _, key := range keys {
		lines = append(lines, fmt.Sprintf("%s: %v", key, payload.Data[key]))
	}
	return strings.Join(lines, "\r\n")
}
