package mailer

import (
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendSessionSummary(toEmail, sessionID, summaryText string, keyPoints, actionItems []string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
	}
}

// SendSessionSummary delivers the end-of-call summary to the session owner.
// Delivery is best effort; callers should log failures and move on.
func (s *emailService) SendSessionSummary(toEmail, sessionID, summaryText string, keyPoints, actionItems []string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Your call summary is ready")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Call Summary</h2>
			<p>%s</p>
			%s
			%s
			<p style="color: #888; font-size: 12px;">Session: %s</p>
		</div>
	`, summaryText, renderList("Key Points", keyPoints), renderList("Action Items", actionItems), sessionID)

	m.SetBody("text/html", body)

	return s.dialer.DialAndSend(m)
}

func renderList(title string, items []string) string {
	if len(items) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("<h3>" + title + "</h3><ul>")
	for _, item := range items {
		b.WriteString("<li>" + item + "</li>")
	}
	b.WriteString("</ul>")
	return b.String()
}
