package notify

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultEmailTimeout bounds one SMTP conversation when the caller's context
// carries no earlier deadline.
const DefaultEmailTimeout = 15 * time.Second

// deliverFunc runs one SMTP transaction. It must give up once ctx is done.
type deliverFunc func(ctx context.Context, addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailConfig describes the outgoing mail server.
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	TTL      time.Duration
	Timeout  time.Duration
}

// Email sends codes as plain-text mail over SMTP.
type Email struct {
	cfg     EmailConfig
	deliver deliverFunc
}

func NewEmail(cfg EmailConfig) *Email {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultEmailTimeout
	}
	return &Email{cfg: cfg, deliver: sendMail}
}

func (n *Email) Send(ctx context.Context, email, code string, otpID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, n.cfg.Timeout)
	defer cancel()

	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}

	addr := net.JoinHostPort(n.cfg.Host, strconv.Itoa(n.cfg.Port))
	if err := n.deliver(ctx, addr, auth, n.cfg.From, []string{email}, n.message(email, code, otpID)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func (n *Email) message(email, code string, otpID uuid.UUID) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", n.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", email)
	b.WriteString("Subject: Your verification code\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	b.WriteString(strings.ReplaceAll(messageText(email, code, otpID, n.cfg.TTL), "\n", "\r\n"))
	b.WriteString("\r\n")
	return []byte(b.String())
}

// sendMail is smtp.SendMail bounded by ctx: the dial honours ctx, the
// connection deadline follows ctx's deadline, and cancellation closes the
// connection.
func sendMail(ctx context.Context, addr string, a smtp.Auth, from string, to []string, msg []byte) error {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			conn.Close()
			return err
		}
	}
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	c, err := smtp.NewClient(conn, host)
	if err != nil {
		conn.Close()
		return ctxErr(ctx, err)
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: host}); err != nil {
			return ctxErr(ctx, err)
		}
	}
	if a != nil {
		if ok, _ := c.Extension("AUTH"); !ok {
			return errors.New("server does not support AUTH")
		}
		if err := c.Auth(a); err != nil {
			return ctxErr(ctx, err)
		}
	}
	if err := c.Mail(from); err != nil {
		return ctxErr(ctx, err)
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return ctxErr(ctx, err)
		}
	}
	w, err := c.Data()
	if err != nil {
		return ctxErr(ctx, err)
	}
	if _, err := w.Write(msg); err != nil {
		return ctxErr(ctx, err)
	}
	if err := w.Close(); err != nil {
		return ctxErr(ctx, err)
	}
	return ctxErr(ctx, c.Quit())
}

// ctxErr prefers the context's error when the failure was caused by it.
func ctxErr(ctx context.Context, err error) error {
	if err != nil && ctx.Err() != nil {
		return fmt.Errorf("%w: %v", ctx.Err(), err)
	}
	return err
}
