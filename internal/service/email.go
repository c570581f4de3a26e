package service

import (
	"context"
	"fmt"

	"carrental-backend/internal/logger"

	"gopkg.in/gomail.v2"
)

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(host string, port int, username, password, from string) EmailService {
	return &emailService{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (s *emailService) Send(ctx context.Context, to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	logger.ExternalServiceCall("smtp", "send", "subject", subject)
	err := s.dialer.DialAndSend(m)
	logger.ExternalServiceResult("smtp", "send", err)
	if err != nil {
		return fmt.Errorf("failed to send email via gomail: %w", err)
	}
	return nil
}
