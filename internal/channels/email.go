package channels

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/findin/findin-backend/internal/config"
)

// SMTPSender delivers email over implicit-TLS SMTP (port 465 style).
type SMTPSender struct {
	host     string
	port     string
	username string
	password string
	from     string
	fromName string
}

// NewEmailSender returns an SMTP sender, or Noop when no host is configured.
func NewEmailSender(cfg *config.Config) Sender {
	if cfg.SMTPHost == "" {
		return Noop{}
	}
	from := cfg.SMTPFrom
	if from == "" {
		from = cfg.SMTPUser
	}
	return &SMTPSender{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     from,
		fromName: cfg.SMTPFromName,
	}
}

func (e *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	fromHeader := fmt.Sprintf("%s <%s>", e.fromName, e.from)
	msg := strings.Join([]string{
		fmt.Sprintf("From: %s", fromHeader),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		`Content-Type: text/plain; charset="utf-8"`,
		"",
		body,
	}, "\r\n")

	serverAddr := e.host + ":" + e.port

	conn, err := tls.Dial("tcp", serverAddr, &tls.Config{ServerName: e.host})
	if err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return fmt.Errorf("smtp deadline: %w", err)
		}
	}

	client, err := smtp.NewClient(conn, e.host)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	defer client.Quit()

	auth := smtp.PlainAuth("", e.username, e.password, e.host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}

	if err := client.Mail(e.from); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte(msg)); err != nil {
		return err
	}
	return w.Close()
}
