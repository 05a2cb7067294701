package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/taskbridge/taskbridge/pkg/slogx"
)

// SMTPConfig holds the connection settings for the outgoing mail server.
type SMTPConfig struct {
	Addr     string // host:port
	User     string
	Password string
	UseTLS   bool
	Timeout  time.Duration
	From     string

	// ResetURL is the frontend page that completes a password reset. The
	// raw token is appended as the final path segment.
	ResetURL string
}

// SMTPMailer delivers mail over a plain or TLS SMTP connection.
type SMTPMailer struct {
	addr     string
	auth     smtp.Auth
	useTLS   bool
	timeout  time.Duration
	from     string
	resetURL string
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	var auth smtp.Auth
	if cfg.User != "" || cfg.Password != "" {
		auth = smtp.PlainAuth("", cfg.User, cfg.Password, host(cfg.Addr))
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &SMTPMailer{
		addr:     cfg.Addr,
		auth:     auth,
		useTLS:   cfg.UseTLS,
		timeout:  timeout,
		from:     cfg.From,
		resetURL: strings.TrimSuffix(cfg.ResetURL, "/"),
	}
}

func (m *SMTPMailer) SendWelcome(ctx context.Context, to, name string) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nWelcome to TaskBridge! Your account is ready.\n\n"+
			"Log in any time to post a task or offer your services.\n",
		name)
	return m.send(ctx, to, "Welcome to TaskBridge", body)
}

func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, name, token string) error {
	link := m.resetURL + "/" + token
	body := fmt.Sprintf(
		"Hi %s,\n\nSomeone requested a password reset for your account.\n\n"+
			"Reset your password here (the link expires in 10 minutes):\n%s\n\n"+
			"If this wasn't you, you can ignore this email.\n",
		name, link)
	return m.send(ctx, to, "Password reset request", body)
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, body string) error {
	msg := []byte(
		"From: " + m.from + "\r\n" +
			"To: " + to + "\r\n" +
			"Subject: " + subject + "\r\n" +
			"Content-Type: text/plain; charset=utf-8\r\n" +
			"\r\n" + body + "\r\n")

	start := time.Now()
	log := slogx.FromContext(ctx).With(
		slog.String("smtp_addr", m.addr),
		slog.Bool("tls", m.useTLS),
		slog.String("subject", subject),
	)

	var err error
	if m.useTLS {
		err = m.sendTLS(to, msg)
	} else {
		err = smtp.SendMail(m.addr, m.auth, m.from, []string{to}, msg)
	}
	if err != nil {
		log.Error("email delivery failed", slog.Any("error", err))
		return err
	}

	log.Info("email sent", slog.Duration("elapsed", time.Since(start)))
	return nil
}

func (m *SMTPMailer) sendTLS(to string, msg []byte) error {
	dialer := net.Dialer{Timeout: m.timeout}

	conn, err := tls.DialWithDialer(&dialer, "tcp", m.addr, &tls.Config{ServerName: host(m.addr)})
	if err != nil {
		return err
	}

	c, err := smtp.NewClient(conn, host(m.addr))
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer func() { _ = c.Close() }()

	if m.auth != nil {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(m.auth); err != nil {
				return err
			}
		}
	}
	if err := c.Mail(m.from); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err = w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

func host(addr string) string {
	if i := strings.Index(addr, ":"); i >= 0 {
		return addr[:i]
	}
	return addr
}
