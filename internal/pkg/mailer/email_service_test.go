package mailer

import (
	"errors"
	"testing"
	"time"

	"gymflow-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type captureSender struct {
	sent []*gomail.Message
	err  error
}

func (c *captureSender) DialAndSend(m ...*gomail.Message) error {
	c.sent = append(c.sent, m...)
	return c.err
}

func newTestService(d sender) *emailService {
	return &emailService{
		dialer:      d,
		senderEmail: "desk@gym.test",
		senderName:  "GymFlow",
		loginURL:    "http://app.test/member/login",
		logger:      logger.NewNopLogger(),
	}
}

func TestSendWelcome(t *testing.T) {
	capture := &captureSender{}
	svc := newTestService(capture)

	require.NoError(t, svc.SendWelcome("ana@example.com", "Tmp-1234", "Ana", "Iron Temple"))
	require.Len(t, capture.sent, 1)

	msg := capture.sent[0]
	assert.Equal(t, []string{"ana@example.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"Welcome to Iron Temple"}, msg.GetHeader("Subject"))
}

func TestSendPropagatesDialerError(t *testing.T) {
	svc := newTestService(&captureSender{err: errors.New("smtp down")})

	err := svc.SendExpiryReminder("ana@example.com", "Ana", "Iron Temple", time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC), 3)
	assert.EqualError(t, err, "smtp down")
}

func TestDisabledMailer(t *testing.T) {
	svc := NewEmailService("", 587, "", "", "GymFlow", "http://app.test", logger.NewNopLogger())

	assert.ErrorIs(t, svc.SendWelcome("ana@example.com", "x", "Ana", "Gym"), ErrMailerDisabled)
}
