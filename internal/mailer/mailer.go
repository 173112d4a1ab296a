package mailer

import (
	"bytes"
	"embed"
	"html/template"
)

type MailTemplateFile string

const (
	FROM_NAME = "RotationHub CE"
	MAX_RETRY = 3

	TemplateCeCertificateIssued   MailTemplateFile = "templates/ce_certificate_issued.tmpl"
	TemplateCeCertificateRejected MailTemplateFile = "templates/ce_certificate_rejected.tmpl"
	TemplateCeCertificateRevoked  MailTemplateFile = "templates/ce_certificate_revoked.tmpl"
)

//go:embed "templates"
var FS embed.FS

type Client interface {
	Send(templateFile MailTemplateFile, toEmail string, data any) (int, error)
}

// CeCertificateMailData is used by every ce certificate template, Reason is empty for issued mails.
type CeCertificateMailData struct {
	PreceptorName     string `json:"preceptor_name"`
	CertificateNumber string `json:"certificate_number"`
	UniversityName    string `json:"university_name"`
	RotationTitle     string `json:"rotation_title"`
	ContactHours      string `json:"contact_hours"`
	VerifyURL         string `json:"verify_url"`
	Reason            string `json:"reason"`
}

// Each template defines a "subject" and a "body" block.
func renderTemplate(templateFile MailTemplateFile, data any) (string, string, error) {
	tmpl, err := template.ParseFS(FS, string(templateFile))
	if err != nil {
		return "", "", err
	}

	subject := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(subject, "subject", data); err != nil {
		return "", "", err
	}

	body := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(body, "body", data); err != nil {
		return "", "", err
	}

	return subject.String(), body.String(), nil
}
