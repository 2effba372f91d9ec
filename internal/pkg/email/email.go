package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/sesi/membership/internal/pkg/notify"
)

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	UseTLS    bool
	Timeout   time.Duration
}

// SMTPMailer delivers notify messages over SMTP
type SMTPMailer struct {
	config SMTPConfig
	logger zerolog.Logger
	now    func() time.Time
}

var _ notify.Sender = (*SMTPMailer)(nil)

// NewSMTPMailer creates a new mailer
func NewSMTPMailer(config SMTPConfig, logger zerolog.Logger) *SMTPMailer {
	if config.Timeout <= 0 {
		config.Timeout = 15 * time.Second
	}
	return &SMTPMailer{
		config: config,
		logger: logger.With().Str("component", "smtp").Logger(),
		now:    time.Now,
	}
}

// Configured reports whether credentials are present
func (s *SMTPMailer) Configured() bool {
	return s.config.Host != "" && s.config.Username != "" && s.config.Password != ""
}

// Send delivers msg. Without credentials it only logs the message.
func (s *SMTPMailer) Send(ctx context.Context, msg notify.Message) error {
	if !s.Configured() {
		ev := s.logger.Warn().
			Str("to", msg.To).
			Str("subject", msg.Subject).
			Str("kind", msg.Kind)
		if len(msg.Attachments) > 0 {
			ev = ev.Str("attachment", msg.Attachments[0].Filename)
		}
		ev.Msg("SMTP credentials not configured - email not sent")
		return nil
	}

	raw, err := BuildMessage(s.from(), msg, s.now())
	if err != nil {
		return err
	}
	return s.deliver(ctx, msg.To, raw)
}

func (s *SMTPMailer) from() string {
	return (&mailAddress{name: s.config.FromName, email: s.config.FromEmail}).String()
}

func (s *SMTPMailer) deliver(ctx context.Context, to string, raw []byte) error {
	addr := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
	dialer := &net.Dialer{Timeout: s.config.Timeout}

	var (
		conn net.Conn
		err  error
	)
	if s.config.UseTLS {
		conn, err = (&tls.Dialer{
			NetDialer: dialer,
			Config:    &tls.Config{ServerName: s.config.Host},
		}).DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		s.logger.Error().Err(err).Str("server", addr).Msg("Failed to connect to SMTP server")
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	} else {
		_ = conn.SetDeadline(time.Now().Add(s.config.Timeout))
	}

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Close()

	if !s.config.UseTLS {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(&tls.Config{ServerName: s.config.Host}); err != nil {
				return fmt.Errorf("STARTTLS failed: %w", err)
			}
		}
	}

	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	if err := client.Auth(auth); err != nil {
		s.logger.Error().Err(err).Msg("SMTP authentication failed")
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}
	if err := client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		return fmt.Errorf("failed to write email message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}
	return client.Quit()
}

type mailAddress struct {
	name  string
	email string
}

func (a *mailAddress) String() string {
	if a.name == "" {
		return a.email
	}
	return fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", a.name), a.email)
}

// BuildMessage renders msg as an RFC 5322 message. Messages with attachments
// are multipart/mixed with base64 parts.
func BuildMessage(from string, msg notify.Message, date time.Time) ([]byte, error) {
	var buf bytes.Buffer

	writeHeader(&buf, "From", from)
	writeHeader(&buf, "To", msg.To)
	writeHeader(&buf, "Subject", mime.QEncoding.Encode("utf-8", msg.Subject))
	writeHeader(&buf, "Date", date.Format(time.RFC1123Z))
	if msg.ID != "" {
		writeHeader(&buf, "X-Notification-ID", msg.ID)
	}
	writeHeader(&buf, "MIME-Version", "1.0")

	if len(msg.Attachments) == 0 {
		writeHeader(&buf, "Content-Type", "text/html; charset=UTF-8")
		writeHeader(&buf, "Content-Transfer-Encoding", "base64")
		buf.WriteString("\r\n")
		writeBase64(&buf, []byte(msg.HTMLBody))
		return buf.Bytes(), nil
	}

	mw := multipart.NewWriter(&buf)
	writeHeader(&buf, "Content-Type", "multipart/mixed; boundary="+mw.Boundary())
	buf.WriteString("\r\n")

	body, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {"text/html; charset=UTF-8"},
		"Content-Transfer-Encoding": {"base64"},
	})
	if err != nil {
		return nil, fmt.Errorf("create body part: %w", err)
	}
	writeBase64(body, []byte(msg.HTMLBody))

	for _, a := range msg.Attachments {
		ct := a.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		part, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {mime.FormatMediaType(ct, map[string]string{"name": a.Filename})},
			"Content-Transfer-Encoding": {"base64"},
			"Content-Disposition":       {mime.FormatMediaType("attachment", map[string]string{"filename": a.Filename})},
		})
		if err != nil {
			return nil, fmt.Errorf("create attachment part: %w", err)
		}
		writeBase64(part, a.Data)
	}

	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}
	return buf.Bytes(), nil
}

func writeHeader(buf *bytes.Buffer, key, value string) {
	buf.WriteString(key)
	buf.WriteString(": ")
	buf.WriteString(value)
	buf.WriteString("\r\n")
}

// writeBase64 wraps encoded output at 76 columns
func writeBase64(w io.Writer, data []byte) {
	enc := base64.StdEncoding.EncodeToString(data)
	for len(enc) > 76 {
		_, _ = w.Write([]byte(enc[:76] + "\r\n"))
		enc = enc[76:]
	}
	_, _ = w.Write([]byte(enc + "\r\n"))
}
