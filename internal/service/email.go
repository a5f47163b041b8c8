package service

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

type emailService struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewEmailService(host string, port int, username, password, from string) EmailService {
	return &emailService{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (s *emailService) SendPaymentConfirmation(ctx context.Context, email, name, code string, amount int64) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", fmt.Sprintf("Payment received for reservation %s", code))

	body := fmt.Sprintf("Hello %s,\n\nWe have received your payment of %d VND for reservation %s.\n\nWe look forward to welcoming you.\n\nBest regards,\nThe StayBook Team", name, amount, code)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send payment confirmation: %w", err)
	}

	return nil
}

func (s *emailService) SendReschedulePaymentConfirmation(ctx context.Context, email, name, code string, amount int64) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", fmt.Sprintf("Reschedule payment received for reservation %s", code))

	body := fmt.Sprintf("Hello %s,\n\nWe have received your additional payment of %d VND for the date change on reservation %s.\n\nYour new stay dates are confirmed.\n\nBest regards,\nThe StayBook Team", name, amount, code)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send reschedule payment confirmation: %w", err)
	}

	return nil
}
