package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"golang.org/x/time/rate"

	"roomdesk/internal/adapters/observability"
	"roomdesk/internal/domain"
)

var errNotConfigured = errors.New("mailer: SMTP address or sender not configured")

// SMTP sends booking status emails. Outbound sends are rate-limited so a
// burst of admin decisions cannot trip the provider's throttling. Every
// failure, including missing configuration, comes back as an error value.
type SMTP struct {
	addr string // host:port
	from string
	auth smtp.Auth
	rl   *rate.Limiter

	// send is swappable for tests; defaults to smtp.SendMail.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func New(addr, from, user, pass string, rps int) *SMTP {
	if rps <= 0 {
		rps = 1
	}
	var auth smtp.Auth
	if user != "" {
		host := addr
		if i := strings.IndexByte(host, ':'); i >= 0 {
			host = host[:i]
		}
		auth = smtp.PlainAuth("", user, pass, host)
	}
	return &SMTP{
		addr: addr,
		from: from,
		auth: auth,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
		send: smtp.SendMail,
	}
}

func (m *SMTP) SendStatusEmail(ctx context.Context, b domain.Booking, subject, body string) error {
	err := m.deliver(ctx, b, subject, body)
	observability.ObserveNotification(string(b.Status), err)
	return err
}

func (m *SMTP) deliver(ctx context.Context, b domain.Booking, subject, body string) error {
	if m.addr == "" || m.from == "" {
		return errNotConfigured
	}
	if err := m.rl.Wait(ctx); err != nil {
		return fmt.Errorf("mailer: rate wait: %w", err)
	}

	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		m.from, b.GuestEmail, subject, body,
	)
	if err := m.send(m.addr, m.auth, m.from, []string{b.GuestEmail}, []byte(msg)); err != nil {
		return fmt.Errorf("mailer: send to %s: %w", b.GuestEmail, err)
	}
	return nil
}
