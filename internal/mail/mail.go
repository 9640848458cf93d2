// Package mail sends plain-text notification emails. Delivery is
// synchronous and fire-and-forget: errors propagate to the caller, there is
// no retry or queue.
package mail

import gomail "gopkg.in/gomail.v2"

// Dispatcher sends a message to one or more recipients.
type Dispatcher interface {
	Send(subject, body string, to []string) error
}

// SMTP delivers mail through an SMTP relay.
type SMTP struct {
	dialer *gomail.Dialer
	from   string
}

var _ Dispatcher = (*SMTP)(nil)

// NewSMTP creates a dispatcher for the given relay and sender address.
func NewSMTP(host string, port int, user, password, from string) *SMTP {
	return &SMTP{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
	}
}

// Send delivers a plain-text message.
func (s *SMTP) Send(subject, body string, to []string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return s.dialer.DialAndSend(m)
}
