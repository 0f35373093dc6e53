package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// SMTPConfig holds the SMTP relay settings
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type sendFunc func(ctx context.Context, from, to string, msg []byte) error

// SMTPMailer sends assignment emails through an SMTP relay. A circuit breaker
// stops dialing the relay after repeated failures; it does not retry.
type SMTPMailer struct {
	cfg     SMTPConfig
	breaker *gobreaker.CircuitBreaker
	send    sendFunc
	log     *logrus.Logger
	now     func() time.Time
}

// NewSMTPMailer creates a mailer for cfg
func NewSMTPMailer(cfg SMTPConfig, log *logrus.Logger) *SMTPMailer {
	m := &SMTPMailer{
		cfg: cfg,
		log: log,
		now: time.Now,
	}
	m.send = m.deliver
	m.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "smtp-mailer",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker changed state")
		},
	})
	return m
}

// NotifyAssigned emails a.RecipientEmail about a new task
func (m *SMTPMailer) NotifyAssigned(ctx context.Context, a Assignment) Result {
	if a.RecipientEmail == "" {
		return Failed(fmt.Errorf("notification has no recipient"))
	}

	messageID := uuid.NewString() + "@" + m.cfg.Host
	msg, err := buildMessage(m.cfg.From, messageID, a, m.now())
	if err != nil {
		return Failed(err)
	}

	_, err = m.breaker.Execute(func() (interface{}, error) {
		return nil, m.send(ctx, m.cfg.From, a.RecipientEmail, msg)
	})
	if err != nil {
		return Failed(fmt.Errorf("failed to send email to %s: %w", a.RecipientEmail, err))
	}

	return Result{Success: true, MessageID: messageID}
}

// deliver runs one SMTP transaction, honouring the context deadline
func (m *SMTPMailer) deliver(ctx context.Context, from, to string, msg []byte) error {
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: m.cfg.Host}); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}
	if m.cfg.User != "" {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)); err != nil {
				return fmt.Errorf("smtp auth: %w", err)
			}
		}
	}

	if err := c.Mail(from); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}
