package mailer

import (
	"fmt"
	"html"
	"strings"

	"support-chat-be/internal/entity"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendTranscript(toEmail, contactName string, messages []*entity.ChatMessage) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
}

func NewEmailService(host string, port int, username, password, senderEmail, senderName string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		senderName:  senderName,
	}
}

// SendTranscript mails the full conversation log to the contact when a
// conversation is marked resolved.
func (s *emailService) SendTranscript(toEmail, contactName string, messages []*entity.ChatMessage) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.senderEmail, s.senderName))
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Your support conversation transcript")

	var sb strings.Builder
	sb.WriteString(`<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">`)
	sb.WriteString(fmt.Sprintf("<h2>Hi %s,</h2>", html.EscapeString(contactName)))
	sb.WriteString("<p>Your conversation has been resolved. Here is the transcript:</p><hr/>")
	for _, msg := range messages {
		author := "You"
		if msg.Role == entity.MessageRoleAssistant {
			author = "Support"
		}
		sb.WriteString(fmt.Sprintf(
			`<p><strong>%s</strong> <span style="color:#888;">%s</span><br/>%s</p>`,
			author,
			msg.CreatedAt.Format("Jan 2, 15:04"),
			html.EscapeString(msg.Content),
		))
	}
	sb.WriteString("<hr/><p>If you need anything else, just start a new conversation.</p></div>")

	m.SetBody("text/html", sb.String())

	return s.dialer.DialAndSend(m)
}
