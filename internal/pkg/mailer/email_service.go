// FILE: internal/pkg/mailer/email_service.go
package mailer

import (
	"errors"
	"fmt"
	"html"
	"time"

	"gymflow-be/internal/pkg/logger"

	"gopkg.in/gomail.v2"
)

var ErrMailerDisabled = errors.New("mail delivery is not configured")

type IEmailService interface {
	SendWelcome(toEmail, tempCredential, memberName, gymName string) error
	SendExpiryReminder(toEmail, memberName, gymName string, expiryDate time.Time, daysRemaining int) error
}

// sender is the slice of gomail.Dialer we use.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type emailService struct {
	dialer      sender
	senderEmail string
	senderName  string
	loginURL    string
	logger      logger.ILogger
}

// NewEmailService returns a mailer that fails every send with ErrMailerDisabled when host is empty.
func NewEmailService(host string, port int, username, password, senderName, clientURL string, log logger.ILogger) IEmailService {
	var d sender
	if host != "" {
		d = gomail.NewDialer(host, port, username, password)
	}
	return &emailService{
		dialer:      d,
		senderEmail: username,
		senderName:  senderName,
		loginURL:    clientURL + "/member/login",
		logger:      log,
	}
}

func (s *emailService) SendWelcome(toEmail, tempCredential, memberName, gymName string) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Welcome to %s, %s!</h2>
			<p>Your membership is active. Sign in to the member portal with this temporary password:</p>
			<h1 style="color: #4CAF50; letter-spacing: 3px;">%s</h1>
			<p>You will be asked to choose a new password on first sign-in.</p>
			<p><a href="%s">%s</a></p>
		</div>
	`, html.EscapeString(gymName), html.EscapeString(memberName), html.EscapeString(tempCredential), s.loginURL, s.loginURL)

	return s.send(toEmail, fmt.Sprintf("Welcome to %s", gymName), body)
}

func (s *emailService) SendExpiryReminder(toEmail, memberName, gymName string, expiryDate time.Time, daysRemaining int) error {
	when := "today"
	if daysRemaining == 1 {
		when = "tomorrow"
	} else if daysRemaining > 1 {
		when = fmt.Sprintf("in %d days", daysRemaining)
	}

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Hi %s,</h2>
			<p>Your %s membership ends %s, on <strong>%s</strong>.</p>
			<p>Renew at the front desk to keep training without interruption.</p>
		</div>
	`, html.EscapeString(memberName), html.EscapeString(gymName), when, expiryDate.Format("2 January 2006"))

	return s.send(toEmail, "Your membership is about to expire", body)
}

func (s *emailService) send(toEmail, subject, body string) error {
	if s.dialer == nil {
		return ErrMailerDisabled
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Error("Mailer", "Failed to send email", map[string]interface{}{"to": toEmail, "subject": subject, "error": err.Error()})
		return err
	}

	s.logger.Info("Mailer", "Email sent", map[string]interface{}{"to": toEmail, "subject": subject})
	return nil
}
