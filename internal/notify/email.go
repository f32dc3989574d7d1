package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"bakery/internal/config"
)

// EmailNotifier sends low-stock alerts over SMTP.
type EmailNotifier struct {
	Host string
	Port int
	User string
	Pass string
	From string
	To   string
}

// FromConfig builds the configured notifier: email when enabled, otherwise a
// no-op.
func FromConfig(cfg config.Config) Notifier {
	if cfg.AlertEmailEnabled && cfg.AlertEmailTo != "" {
		from := cfg.AlertEmailFrom
		if from == "" {
			from = cfg.SMTPUser
		}
		return &EmailNotifier{
			Host: cfg.SMTPHost,
			Port: cfg.SMTPPort,
			User: cfg.SMTPUser,
			Pass: cfg.SMTPPass,
			From: from,
			To:   cfg.AlertEmailTo,
		}
	}
	return Noop{}
}

func (n *EmailNotifier) NotifyLowStock(ctx context.Context, items []LowStockItem) error {
	if len(items) == 0 {
		return nil
	}
	return n.send("Low stock alert", FormatLowStockMessage(items))
}

func (n *EmailNotifier) send(subject, body string) error {
	addr := fmt.Sprintf("%s:%d", n.Host, n.Port)

	var auth smtp.Auth
	if n.User != "" && n.Pass != "" {
		auth = smtp.PlainAuth("", n.User, n.Pass, n.Host)
	}

	msg := strings.Join([]string{
		"From: " + n.From,
		"To: " + n.To,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	return smtp.SendMail(addr, auth, n.From, []string{n.To}, []byte(msg))
}
