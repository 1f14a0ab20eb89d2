package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/taxops/gstledger/src/config"
)

const mailgunSendTimeout = 20 * time.Second

// NewReportDispatcher picks the delivery channel from the configuration.
// Incomplete provider settings fall back to the mock dispatcher with a
// warning rather than failing the run; the report is also printed locally.
func NewReportDispatcher(cfg *config.AppConfig, log *slog.Logger) ReportDispatcher {
	if log == nil {
		log = slog.Default()
	}

	provider := strings.ToLower(cfg.EmailServiceProvider)
	log.Info("initializing report dispatcher", "provider", provider)

	switch provider {
	case "mailgun":
		if cfg.MailgunDomain == "" || cfg.MailgunPrivateAPIKey == "" || cfg.SenderEmail == "" || cfg.ReportRecipient == "" {
			log.Warn("mailgun configuration incomplete, falling back to mock dispatcher")
			return &mockDispatcher{log: log}
		}
		mg := mailgun.NewMailgun(cfg.MailgunDomain, cfg.MailgunPrivateAPIKey)
		log.Info("mailgun client initialized", "domain", cfg.MailgunDomain)
		return &mailgunDispatcher{
			mg:          mg,
			senderEmail: cfg.SenderEmail,
			senderName:  cfg.SenderName,
			recipient:   cfg.ReportRecipient,
			log:         log,
		}
	case "smtp":
		if cfg.SMTPServer == "" || cfg.SMTPUser == "" || cfg.SMTPPassword == "" || cfg.SenderEmail == "" || cfg.ReportRecipient == "" {
			log.Warn("smtp configuration incomplete, falling back to mock dispatcher")
			return &mockDispatcher{log: log}
		}
		return &smtpDispatcher{
			server:      cfg.SMTPServer,
			port:        cfg.SMTPPort,
			user:        cfg.SMTPUser,
			password:    cfg.SMTPPassword,
			senderEmail: cfg.SenderEmail,
			recipient:   cfg.ReportRecipient,
			log:         log,
		}
	default:
		log.Info("defaulting to mock report dispatcher")
		return &mockDispatcher{log: log}
	}
}

type mailgunDispatcher struct {
	mg          mailgun.Mailgun
	senderEmail string
	senderName  string
	recipient   string
	log         *slog.Logger
}

func (d *mailgunDispatcher) DispatchReport(ctx context.Context, subject, body string) error {
	from := fmt.Sprintf("%s <%s>", d.senderName, d.senderEmail)
	message := d.mg.NewMessage(from, subject, body, d.recipient)
	message.AddTag("batch-report")

	ctx, cancel := context.WithTimeout(ctx, mailgunSendTimeout)
	defer cancel()

	resp, id, err := d.mg.Send(ctx, message)
	if err != nil {
		d.log.Error("failed to send batch report via Mailgun",
			"error", err, "to", d.recipient, "mailgunResp", resp, "mailgunId", id)
		return fmt.Errorf("mailgun send failed: %w", err)
	}
	d.log.Info("batch report sent via Mailgun", "to", d.recipient, "id", id)
	return nil
}

type smtpDispatcher struct {
	server      string
	port        int
	user        string
	password    string
	senderEmail string
	recipient   string
	log         *slog.Logger
}

func (d *smtpDispatcher) DispatchReport(_ context.Context, subject, body string) error {
	headers := []string{
		"From: " + d.senderEmail,
		"To: " + d.recipient,
		"Subject: " + subject,
		"MIME-version: 1.0",
		`Content-Type: text/plain; charset="UTF-8"`,
	}
	message := strings.Join(headers, "\r\n") + "\r\n\r\n" + body

	auth := smtp.PlainAuth("", d.user, d.password, d.server)
	addr := fmt.Sprintf("%s:%d", d.server, d.port)
	if err := smtp.SendMail(addr, auth, d.senderEmail, []string{d.recipient}, []byte(message)); err != nil {
		d.log.Error("failed to send batch report via SMTP", "error", err, "to", d.recipient)
		return fmt.Errorf("failed to send batch report via SMTP: %w", err)
	}
	d.log.Info("batch report sent via SMTP", "to", d.recipient)
	return nil
}

type mockDispatcher struct {
	log *slog.Logger
}

func (d *mockDispatcher) DispatchReport(_ context.Context, subject, body string) error {
	d.log.Info("mock dispatcher: would send batch report",
		"subject", subject, "bodyChars", len(body))
	return nil
}
