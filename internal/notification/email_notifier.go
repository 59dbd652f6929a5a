package notification

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/locvowork/employee_management_sample/recordmanager/internal/domain"
	"github.com/locvowork/employee_management_sample/recordmanager/internal/logger"
)

const (
	DefaultConfirmationSubject = "Welcome to BitFutura!"

	defaultConfirmationBody = `Hi {{.Name}},

Welcome aboard to BitFutura! We are excited to have you join our team.

Your employee record (ID: {{.ID}}) has been successfully created in our system.

Best regards,
BitFutura HR
`
)

var confirmationBody = template.Must(template.New("confirmation").Parse(defaultConfirmationBody))

// SMTPConfig holds the outgoing mail server settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Sender   string
	Timeout  time.Duration
}

// MailSender delivers a fully formatted message.
type MailSender interface {
	Send(ctx context.Context, from string, to []string, msg []byte) error
}

// EmailNotifier sends a welcome email to every newly created employee.
type EmailNotifier struct {
	sender  string
	subject string
	mailer  MailSender
}

// NewEmailNotifier creates a notifier that delivers through the SMTP server in cfg.
func NewEmailNotifier(cfg SMTPConfig) *EmailNotifier {
	return NewEmailNotifierWithSender(cfg.Sender, NewSMTPSender(cfg))
}

func NewEmailNotifierWithSender(from string, mailer MailSender) *EmailNotifier {
	return &EmailNotifier{sender: from, subject: DefaultConfirmationSubject, mailer: mailer}
}

// NotifyCreated implements domain.NotificationGateway.
func (n *EmailNotifier) NotifyCreated(ctx context.Context, e domain.Employee) error {
	msg, err := n.compose(e)
	if err != nil {
		return fmt.Errorf("%w: compose message for %s: %v", domain.ErrDeliveryFailure, e.ID, err)
	}

	logger.DebugLog(ctx, "Sending email to %s (Name: %s)", e.Email, e.Name)
	if err := n.mailer.Send(ctx, n.sender, []string{e.Email}, msg); err != nil {
		return fmt.Errorf("%w: send to %s: %v", domain.ErrDeliveryFailure, e.Email, err)
	}
	logger.InfoLog(ctx, "Email successfully sent to %s", e.Email)
	return nil
}

func (n *EmailNotifier) compose(e domain.Employee) ([]byte, error) {
	var body bytes.Buffer
	if err := confirmationBody.Execute(&body, e); err != nil {
		return nil, err
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", n.sender)
	fmt.Fprintf(&msg, "To: %s\r\n", e.Email)
	fmt.Fprintf(&msg, "Subject: %s\r\n", n.subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(strings.ReplaceAll(body.String(), "\n", "\r\n"))
	return msg.Bytes(), nil
}

// smtpSender talks to an SMTP server. Port 465 uses implicit TLS, any other
// port upgrades with STARTTLS when the server offers it.
type smtpSender struct {
	cfg SMTPConfig
}

func NewSMTPSender(cfg SMTPConfig) MailSender {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &smtpSender{cfg: cfg}
}

func (s *smtpSender) Send(ctx context.Context, from string, to []string, msg []byte) error {
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	dialer := &net.Dialer{Timeout: s.cfg.Timeout}
	tlsCfg := &tls.Config{ServerName: s.cfg.Host}

	var conn net.Conn
	var err error
	if s.cfg.Port == 465 {
		conn, err = (&tls.Dialer{NetDialer: dialer, Config: tlsCfg}).DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return fmt.Errorf("connect %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	} else {
		conn.SetDeadline(time.Now().Add(s.cfg.Timeout))
	}

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if s.cfg.Port != 465 {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(tlsCfg); err != nil {
				return fmt.Errorf("starttls: %w", err)
			}
		}
	}
	if s.cfg.Username != "" {
		auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("authentication failed: %w", err)
		}
	}
	if err := client.Mail(from); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("rcpt %s: %w", rcpt, err)
		}
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		w.Close()
		return fmt.Errorf("write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finish body: %w", err)
	}
	return client.Quit()
}
