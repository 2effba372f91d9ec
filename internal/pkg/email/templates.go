package email

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/sesi/membership/internal/pkg/notify"
)

// ApplicationSummary is what intake notifications show about an application
type ApplicationSummary struct {
	ID             string
	FullName       string
	Email          string
	Mobile         string
	MembershipType string
	Region         string
	SubmittedAt    time.Time
}

// ApprovalSummary is what approval notifications show about a new member
type ApprovalSummary struct {
	ApplicationID    string
	FullName         string
	Email            string
	MembershipType   string
	MembershipNumber string
	CertificateURL   string
	ApprovedAt       time.Time
}

// ContactSummary is a contact form submission as the office sees it
type ContactSummary struct {
	ID          string
	Name        string
	Email       string
	Phone       string
	Subject     string
	Message     string
	SubmittedAt time.Time
}

// Templates builds notification messages with links back to the site
type Templates struct {
	SiteURL    string
	AdminEmail string
}

const layout = `<html>
<body>
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
{{template "content" .}}
<p>Best regards,<br>SESI Admin Team<br>Shoulder &amp; Elbow Society of India<br><a href="{{.SiteURL}}">{{.SiteURL}}</a></p>
</div>
</body>
</html>`

var tmpl = template.Must(template.New("received").Parse(layout + `{{define "content"}}
<h2 style="color: #333;">Membership Application Received</h2>
<p>Dear {{.App.FullName}},</p>
<p>Thank you for applying for membership with the Shoulder &amp; Elbow Society of India (SESI).</p>
<p>Your application has been successfully received and is now under review.</p>
<p>Application ID: <strong>{{.App.ID}}</strong><br>Application Date: {{.Date}}</p>
<p>You will receive a confirmation email once your application has been reviewed by our team.</p>
{{end}}`))

var alertTmpl = template.Must(template.New("alert").Parse(layout + `{{define "content"}}
<h2 style="color: #333;">New Membership Application</h2>
<p>Application ID: {{.App.ID}}<br>
Name: {{.App.FullName}}<br>
Email: {{.App.Email}}<br>
Mobile: {{.App.Mobile}}<br>
Membership Type: {{.App.MembershipType}}<br>
Region: {{.App.Region}}</p>
<p>Please review the application in the admin panel:<br><a href="{{.Link}}">{{.Link}}</a></p>
{{end}}`))

var approvalTmpl = template.Must(template.New("approval").Parse(layout + `{{define "content"}}
<h2 style="color: #333;">Welcome to SESI!</h2>
<p>Dear {{.Approval.FullName}},</p>
<p>We are pleased to inform you that your application for {{.Approval.MembershipType}} membership has been approved.</p>
<p>Your membership number is <strong>{{.Approval.MembershipNumber}}</strong>.</p>
<p>Your membership certificate is attached to this email.{{if .Link}} You can also download it from <a href="{{.Link}}">{{.Link}}</a>.{{end}}</p>
{{end}}`))

var approvalAdminTmpl = template.Must(template.New("approval-admin").Parse(layout + `{{define "content"}}
<h2 style="color: #333;">Membership Approved</h2>
<p>Name: {{.Approval.FullName}}<br>
Email: {{.Approval.Email}}<br>
Membership Type: {{.Approval.MembershipType}}<br>
Membership Number: {{.Approval.MembershipNumber}}<br>
Approved On: {{.Date}}</p>
{{if .Link}}<p>Certificate: <a href="{{.Link}}">{{.Link}}</a></p>{{end}}
{{end}}`))

var contactAlertTmpl = template.Must(template.New("contact").Parse(layout + `{{define "content"}}
<h2 style="color: #333;">New Contact Form Submission</h2>
<p>From: {{.Contact.Name}} &lt;{{.Contact.Email}}&gt;{{if .Contact.Phone}}<br>
Phone: {{.Contact.Phone}}{{end}}<br>
Received: {{.Date}}</p>
<p><strong>{{.Contact.Subject}}</strong></p>
<p style="white-space: pre-wrap;">{{.Contact.Message}}</p>
{{end}}`))

type view struct {
	SiteURL  string
	App      ApplicationSummary
	Approval ApprovalSummary
	Contact  ContactSummary
	Date     string
	Link     string
}

func render(t *template.Template, v view) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("render %s email: %w", t.Name(), err)
	}
	return buf.String(), nil
}

// ApplicationReceived is the acknowledgment sent to the applicant
func (t Templates) ApplicationReceived(app ApplicationSummary) (notify.Message, error) {
	body, err := render(tmpl, view{
		SiteURL: t.SiteURL,
		App:     app,
		Date:    app.SubmittedAt.UTC().Format("January 02, 2006 15:04 MST"),
	})
	if err != nil {
		return notify.Message{}, err
	}
	return notify.Message{
		Kind:     notify.KindApplicationReceived,
		To:       app.Email,
		Subject:  "SESI Membership Application Received",
		HTMLBody: body,
	}, nil
}

// ApplicationAlert tells the admin mailbox about a new application
func (t Templates) ApplicationAlert(app ApplicationSummary) (notify.Message, error) {
	body, err := render(alertTmpl, view{
		SiteURL: t.SiteURL,
		App:     app,
		Link:    t.SiteURL + "/admin/applications/" + app.ID,
	})
	if err != nil {
		return notify.Message{}, err
	}
	return notify.Message{
		Kind:     notify.KindApplicationAlert,
		To:       t.AdminEmail,
		Subject:  "New Membership Application - " + app.FullName,
		HTMLBody: body,
	}, nil
}

// Approval congratulates the new member and attaches the certificate PDF
func (t Templates) Approval(a ApprovalSummary, certificateName string, pdf []byte) (notify.Message, error) {
	body, err := render(approvalTmpl, view{
		SiteURL:  t.SiteURL,
		Approval: a,
		Link:     a.CertificateURL,
	})
	if err != nil {
		return notify.Message{}, err
	}
	msg := notify.Message{
		Kind:     notify.KindApproval,
		To:       a.Email,
		Subject:  "SESI Membership Approved - " + a.MembershipNumber,
		HTMLBody: body,
	}
	if len(pdf) > 0 {
		msg.Attachments = []notify.Attachment{{
			Filename:    certificateName,
			ContentType: "application/pdf",
			Data:        pdf,
		}}
	}
	return msg, nil
}

// ApprovalAdmin confirms an approval to the admin mailbox
func (t Templates) ApprovalAdmin(a ApprovalSummary) (notify.Message, error) {
	body, err := render(approvalAdminTmpl, view{
		SiteURL:  t.SiteURL,
		Approval: a,
		Date:     a.ApprovedAt.UTC().Format("January 02, 2006"),
		Link:     a.CertificateURL,
	})
	if err != nil {
		return notify.Message{}, err
	}
	return notify.Message{
		Kind:     notify.KindApprovalAdmin,
		To:       t.AdminEmail,
		Subject:  fmt.Sprintf("Membership Approved - %s (%s)", a.FullName, a.MembershipNumber),
		HTMLBody: body,
	}, nil
}

// ContactAlert forwards a contact form submission to the admin mailbox
func (t Templates) ContactAlert(c ContactSummary) (notify.Message, error) {
	body, err := render(contactAlertTmpl, view{
		SiteURL: t.SiteURL,
		Contact: c,
		Date:    c.SubmittedAt.UTC().Format("January 02, 2006 15:04 MST"),
	})
	if err != nil {
		return notify.Message{}, err
	}
	return notify.Message{
		Kind:     notify.KindContactAlert,
		To:       t.AdminEmail,
		Subject:  "Contact Form: " + c.Subject,
		HTMLBody: body,
	}, nil
}
