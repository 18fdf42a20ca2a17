// Файл: pkg/mailer/mailer.go
package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"lab-system/pkg/config"
	apperrors "lab-system/pkg/errors"
)

// TransportInterface - внешний транспорт сообщений.
type TransportInterface interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// SMTPTransport отправляет письма через SMTP-сервер.
type SMTPTransport struct {
	cfg     config.SMTPConfig
	timeout time.Duration
}

func NewSMTPTransport(cfg config.SMTPConfig) TransportInterface {
	return &SMTPTransport{
		cfg:     cfg,
		timeout: 15 * time.Second,
	}
}

func (t *SMTPTransport) Send(ctx context.Context, recipient, subject, body string) error {
	if recipient == "" {
		return &apperrors.TransportError{Recipient: recipient, Err: fmt.Errorf("пустой адрес получателя")}
	}

	msg := t.buildMessage(recipient, subject, body)
	addr := fmt.Sprintf("%s:%d", t.cfg.Host, t.cfg.Port)
	auth := smtp.PlainAuth("", t.cfg.Username, t.cfg.Password, t.cfg.Host)

	// net/smtp не принимает context, поэтому вызов обернут в горутину
	// с ограничением по времени.
	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, auth, t.cfg.From, []string{recipient}, msg)
	}()

	timer := time.NewTimer(t.timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		if err != nil {
			return &apperrors.TransportError{Recipient: recipient, Err: err}
		}
		return nil
	case <-timer.C:
		return &apperrors.TransportError{Recipient: recipient, Err: fmt.Errorf("таймаут отправки")}
	case <-ctx.Done():
		return &apperrors.TransportError{Recipient: recipient, Err: ctx.Err()}
	}
}

func (t *SMTPTransport) buildMessage(recipient, subject, body string) []byte {
	var sb strings.Builder
	sb.WriteString("From: " + t.cfg.From + "\r\n")
	sb.WriteString("To: " + recipient + "\r\n")
	sb.WriteString("Subject: " + subject + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(body)
	return []byte(sb.String())
}
