// Package mailer delivers account-activation emails.
//
// The Dispatcher decouples mail delivery from the HTTP request path: signup
// handlers enqueue a message and respond immediately, while a background
// worker dials SMTP, retries transient failures, and logs what cannot be
// delivered. A request therefore never blocks on, or fails because of,
// mail-delivery latency.
package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer sends a single activation email. Implementations are called from the
// dispatcher's worker goroutine, never from a request handler.
type Mailer interface {
	Send(to, activationURL string) error
}

// SMTPMailer delivers activation emails over SMTP.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (m *SMTPMailer) Send(to, activationURL string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Account activation link")
	msg.SetBody("text/html", activationBody(activationURL))

	return m.dialer.DialAndSend(msg)
}

func activationBody(activationURL string) string {
	return fmt.Sprintf(`<h1>Please use the following link to activate your account</h1>
<p><a href="%s">%s</a></p>
<hr/>
<p>This link expires shortly. If you did not request it, you can ignore this email.</p>`,
		activationURL, activationURL)
}
