package mailer

import (
	"clinirun-service/internal/app/config"
	"fmt"
	"net/smtp"
	"strings"
)

type SMTPClient struct {
	Host        string
	Port        int
	Username    string
	Password    string
	EmailSender string
	Auth        smtp.Auth
}

func NewSMTPClient(driverConfig *config.DriverConfig) *SMTPClient {
	auth := smtp.PlainAuth("", driverConfig.SMTP.Username, driverConfig.SMTP.Password, driverConfig.SMTP.Host)
	return &SMTPClient{
		Host:        driverConfig.SMTP.Host,
		Port:        driverConfig.SMTP.Port,
		Username:    driverConfig.SMTP.Username,
		Password:    driverConfig.SMTP.Password,
		EmailSender: driverConfig.SMTP.EmailSender,
		Auth:        auth,
	}
}

// Send delivers a plain-text message. Template rendering is out of scope
// here; callers hand over the final body.
func (c *SMTPClient) Send(to, subject, body string) error {
	message := strings.Join([]string{
		fmt.Sprintf("From: %s", c.EmailSender),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", c.Host, c.Port)
	return smtp.SendMail(addr, c.Auth, c.EmailSender, []string{to}, []byte(message))
}
