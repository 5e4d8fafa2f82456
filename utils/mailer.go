package utils

import (
	"fmt"
	"log"

	"gopkg.in/gomail.v2"
)

// Mailer delivers plain-text mail.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer sends through an authenticated SMTP relay with STARTTLS.
type SMTPMailer struct {
	Host     string
	Port     int
	Username string
	Password string
}

func NewSMTPMailer(host string, port int, username, password string) *SMTPMailer {
	return &SMTPMailer{Host: host, Port: port, Username: username, Password: password}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	if m.Username == "" {
		return fmt.Errorf("smtp: sender account not configured")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.Username)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	dialer := gomail.NewDialer(m.Host, m.Port, m.Username, m.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	log.Printf("[INFO] mail sent to %s", to)
	return nil
}
