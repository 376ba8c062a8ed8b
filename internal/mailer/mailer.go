// Package mailer sends order confirmation emails over SMTP using each
// tenant's email branding.
package mailer

import (
	"bytes"
	"fmt"
	"net/smtp"
	"strings"
)

// Greetings are the rotating opening lines for confirmation emails. The
// index is driven by the per-tenant counter so consecutive customers see
// different lines.
var Greetings = []string{
	"Thanks for your order!",
	"Great choice! Your order is in.",
	"We're on it! Your order has been received.",
	"Your order is confirmed and heading to the kitchen.",
}

// Mailer sends emails through a plain SMTP relay.
type Mailer struct {
	host string
	port string
	user string
	pass string
}

func New(host, port, user, pass string) *Mailer {
	return &Mailer{host: host, port: port, user: user, pass: pass}
}

// Enabled reports whether SMTP is configured. Order creation proceeds
// without email when it is not.
func (m *Mailer) Enabled() bool {
	return m.host != ""
}

// Send delivers a single HTML email.
func (m *Mailer) Send(from, fromName, to, subject string, htmlBody []byte) error {
	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", sanitizeHeader(fromName), from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", sanitizeHeader(subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.Write(htmlBody)

	addr := m.host + ":" + m.port
	var a smtp.Auth
	if m.user != "" {
		a = smtp.PlainAuth("", m.user, m.pass, m.host)
	}
	return smtp.SendMail(addr, a, from, []string{to}, msg.Bytes())
}

// sanitizeHeader strips CR/LF so user-controlled values cannot inject headers.
func sanitizeHeader(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	return strings.ReplaceAll(s, "\n", "")
}
