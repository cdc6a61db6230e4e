package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/gofiber/template/django/v3"
	goerrors "github.com/goliatone/go-errors"
)

// Config carries the SMTP transport and template settings.
type Config struct {
	Host        string
	Port        int
	Username    string
	Password    string
	From        string
	TemplateDir string
	BaseURL     string
}

// SMTPMailer delivers templated HTML email over SMTP. Port 465 gets an
// implicit TLS dial; anything else negotiates STARTTLS when offered.
type SMTPMailer struct {
	cfg    Config
	engine *django.Engine
}

// New loads the template directory and returns a ready mailer.
func New(cfg Config) (*SMTPMailer, error) {
	if cfg.TemplateDir == "" {
		cfg.TemplateDir = "./mailer/templates"
	}

	engine := django.New(cfg.TemplateDir, ".html")
	if err := engine.Load(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load mail templates")
	}

	return &SMTPMailer{
		cfg:    cfg,
		engine: engine,
	}, nil
}

// Send renders the named template and delivers it to a single recipient.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, template string, data map[string]any) error {
	body, err := m.render(template, data)
	if err != nil {
		return err
	}

	message := buildMessage(m.cfg.From, to, subject, body)

	if err := m.deliver(ctx, to, message); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "smtp delivery failed").
			WithMetadata(map[string]any{"to": to, "template": template})
	}

	return nil
}

func (m *SMTPMailer) render(template string, data map[string]any) (string, error) {
	binding := map[string]any{
		"base_url": m.cfg.BaseURL,
	}
	for k, v := range data {
		binding[k] = v
	}

	var buf bytes.Buffer
	if err := m.engine.Render(&buf, template, binding); err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to render mail template").
			WithMetadata(map[string]any{"template": template})
	}

	return buf.String(), nil
}

func (m *SMTPMailer) deliver(ctx context.Context, to, message string) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	fromAddr := parseAddress(m.cfg.From)

	client, err := m.smtpClient(ctx, addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if m.cfg.Username != "" {
		auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return err
		}
	}

	if err := client.Mail(fromAddr); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}

	writer, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := writer.Write([]byte(message)); err != nil {
		_ = writer.Close()
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	return client.Quit()
}

func (m *SMTPMailer) smtpClient(ctx context.Context, addr string) (*smtp.Client, error) {
	dialer := &net.Dialer{}

	if m.cfg.Port == 465 {
		conn, err := (&tls.Dialer{
			NetDialer: dialer,
			Config:    &tls.Config{ServerName: m.cfg.Host},
		}).DialContext(ctx, "tcp", addr)
		if err != nil {
			return nil, err
		}
		return smtp.NewClient(conn, m.cfg.Host)
	}

	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		return nil, err
	}
	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: m.cfg.Host}); err != nil {
			_ = client.Close()
			return nil, err
		}
	}
	return client, nil
}

func buildMessage(from, to, subject, body string) string {
	headers := []string{
		"From: " + from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=utf-8",
		"",
		body,
	}
	return strings.Join(headers, "\r\n")
}

func parseAddress(from string) string {
	start := strings.Index(from, "<")
	end := strings.Index(from, ">")
	if start >= 0 && end > start {
		return strings.TrimSpace(from[start+1 : end])
	}
	return strings.TrimSpace(from)
}
