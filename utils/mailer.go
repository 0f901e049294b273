// File: utils/mailer.go
package utils

import (
	"fmt"
	"net/smtp"
	"strings"

	"medibook/config"
)

// SendMail delivers a plain-text mail through the configured SMTP relay.
// Delivery runs on the async worker; callers never block a request on it.
func SendMail(to, subject, body string) error {
	cfg := config.AppConfig
	addr := cfg.SMTPHost + ":" + cfg.SMTPPort

	msg := strings.Join([]string{
		"From: " + cfg.MailFrom,
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	var auth smtp.Auth
	if cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost)
	}

	if err := smtp.SendMail(addr, auth, cfg.MailFrom, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send to %s failed: %w", to, err)
	}
	return nil
}
