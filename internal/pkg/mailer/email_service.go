package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendWelcome(to, fullName string) error
}

type emailService struct {
	host       string
	port       int
	email      string
	password   string
	senderName string
}

func NewEmailService(host string, port int, email, password, senderName string) IEmailService {
	return &emailService{
		host:       host,
		port:       port,
		email:      email,
		password:   password,
		senderName: senderName,
	}
}

func (s *emailService) SendWelcome(to, fullName string) error {
	if s.host == "" {
		// SMTP not configured; registration still succeeds.
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.email, s.senderName))
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Welcome")
	m.SetBody("text/html", fmt.Sprintf(
		"<p>Hi %s,</p><p>Your account is ready. Open the app and start your first conversation.</p>",
		fullName,
	))

	d := gomail.NewDialer(s.host, s.port, s.email, s.password)
	return d.DialAndSend(m)
}
