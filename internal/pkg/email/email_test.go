package email

import (
	"context"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sesi/membership/internal/pkg/notify"
)

var templates = Templates{SiteURL: "https://sesi.co.in", AdminEmail: "admin@sesi.co.in"}

func TestApplicationReceived(t *testing.T) {
	msg, err := templates.ApplicationReceived(ApplicationSummary{
		ID:          "app-1",
		FullName:    "Dr. <script>Asha</script>",
		Email:       "asha@example.com",
		SubmittedAt: time.Date(2025, 1, 5, 9, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, notify.KindApplicationReceived, msg.Kind)
	assert.Equal(t, "asha@example.com", msg.To)
	assert.Equal(t, "SESI Membership Application Received", msg.Subject)
	assert.Contains(t, msg.HTMLBody, "app-1")
	assert.Contains(t, msg.HTMLBody, "January 05, 2025")
	assert.NotContains(t, msg.HTMLBody, "<script>")
	assert.Contains(t, msg.HTMLBody, "&lt;script&gt;")
}

func TestApplicationAlertGoesToAdmin(t *testing.T) {
	msg, err := templates.ApplicationAlert(ApplicationSummary{ID: "app-2", FullName: "Ravi Kumar", Mobile: "9876543210"})
	require.NoError(t, err)

	assert.Equal(t, "admin@sesi.co.in", msg.To)
	assert.Equal(t, "New Membership Application - Ravi Kumar", msg.Subject)
	assert.Contains(t, msg.HTMLBody, "https://sesi.co.in/admin/applications/app-2")
}

func TestContactAlertEscapesVisitorInput(t *testing.T) {
	msg, err := templates.ContactAlert(ContactSummary{
		Name:        "Visitor",
		Email:       "visitor@example.com",
		Subject:     "Fellowship dates",
		Message:     "<b>When</b> is the next fellowship?",
		SubmittedAt: time.Date(2025, 2, 10, 8, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, notify.KindContactAlert, msg.Kind)
	assert.Equal(t, "admin@sesi.co.in", msg.To)
	assert.Equal(t, "Contact Form: Fellowship dates", msg.Subject)
	assert.Contains(t, msg.HTMLBody, "visitor@example.com")
	assert.Contains(t, msg.HTMLBody, "February 10, 2025")
	assert.NotContains(t, msg.HTMLBody, "<b>When</b>")
}

func TestApprovalAttachesCertificate(t *testing.T) {
	a := ApprovalSummary{
		FullName:         "Ravi Kumar",
		Email:            "ravi@example.com",
		MembershipType:   "Life Member",
		MembershipNumber: "SESI-2025-0007",
		ApprovedAt:       time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	msg, err := templates.Approval(a, "SESI_Certificate_SESI-2025-0007.pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)

	assert.Equal(t, notify.KindApproval, msg.Kind)
	assert.Equal(t, "SESI Membership Approved - SESI-2025-0007", msg.Subject)
	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, "application/pdf", msg.Attachments[0].ContentType)

	adminMsg, err := templates.ApprovalAdmin(a)
	require.NoError(t, err)
	assert.Equal(t, "admin@sesi.co.in", adminMsg.To)
	assert.Contains(t, adminMsg.HTMLBody, "February 01, 2025")
}

func TestBuildMessageWithAttachment(t *testing.T) {
	msg := notify.Message{
		ID:       "n-1",
		To:       "ravi@example.com",
		Subject:  "Welcome – SESI",
		HTMLBody: "<p>Hello</p>",
		Attachments: []notify.Attachment{
			{Filename: "cert.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.4 test")},
		},
	}

	raw, err := BuildMessage("SESI <no-reply@sesi.co.in>", msg, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	parsed, err := mail.ReadMessage(strings.NewReader(string(raw)))
	require.NoError(t, err)

	dec := new(mime.WordDecoder)
	subject, err := dec.DecodeHeader(parsed.Header.Get("Subject"))
	require.NoError(t, err)
	assert.Equal(t, "Welcome – SESI", subject)
	assert.Equal(t, "n-1", parsed.Header.Get("X-Notification-ID"))

	mediaType, params, err := mime.ParseMediaType(parsed.Header.Get("Content-Type"))
	require.NoError(t, err)
	assert.Equal(t, "multipart/mixed", mediaType)

	mr := multipart.NewReader(parsed.Body, params["boundary"])

	// multipart.Reader decodes quoted-printable only, so base64 parts are read raw
	first, err := mr.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "text/html; charset=UTF-8", first.Header.Get("Content-Type"))

	second, err := mr.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "cert.pdf", second.FileName())
	body, err := io.ReadAll(second)
	require.NoError(t, err)
	assert.Equal(t, "JVBERi0xLjQgdGVzdA==", strings.TrimSpace(string(body)))

	_, err = mr.NextPart()
	assert.ErrorIs(t, err, io.EOF)
}

func TestBuildMessagePlain(t *testing.T) {
	raw, err := BuildMessage("no-reply@sesi.co.in", notify.Message{To: "a@b.c", Subject: "Hi", HTMLBody: "<p>x</p>"}, time.Now())
	require.NoError(t, err)

	parsed, err := mail.ReadMessage(strings.NewReader(string(raw)))
	require.NoError(t, err)
	assert.Equal(t, "text/html; charset=UTF-8", parsed.Header.Get("Content-Type"))
}

func TestBase64LinesAreWrapped(t *testing.T) {
	var sb strings.Builder
	writeBase64(&sb, []byte(strings.Repeat("x", 500)))
	for _, line := range strings.Split(strings.TrimSpace(sb.String()), "\r\n") {
		assert.LessOrEqual(t, len(line), 76)
	}
}

func TestUnconfiguredMailerOnlyLogs(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{Host: "smtp.example.com", Port: 587}, zerolog.Nop())
	assert.False(t, m.Configured())
	assert.NoError(t, m.Send(context.Background(), notify.Message{To: "a@b.c", Subject: "x"}))
}
