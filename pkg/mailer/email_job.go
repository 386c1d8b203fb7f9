package mailer

import (
	"errors"
	"strings"

	"github.com/oksasatya/go-ddd-auth-service/pkg/mailer/templates"
)

var (
	ErrJobNoRecipient = errors.New("email job has no recipient")
	ErrJobNoContent   = errors.New("email job has neither template nor body")
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Template (with Data) or Subject plus Text/HTML must be set.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // "welcome" or "login_notification"
	Data     map[string]any `json:"data,omitempty"`
}

// Normalize fills To from Data["Email"] when missing and validates the job.
func (j *EmailJob) Normalize() error {
	j.To = strings.TrimSpace(j.To)
	if j.To == "" {
		if s, ok := j.Data["Email"].(string); ok {
			j.To = strings.TrimSpace(s)
		}
	}
	if j.To == "" {
		return ErrJobNoRecipient
	}
	if j.Template == "" && j.Text == "" && j.HTML == "" {
		return ErrJobNoContent
	}
	return nil
}

// Content returns subject, text and html, rendering the template when set.
func (j *EmailJob) Content() (subject, text, html string, err error) {
	if j.Template == "" {
		return j.Subject, j.Text, j.HTML, nil
	}
	subject, text, html, err = templates.Render(j.Template, j.Data)
	if err != nil {
		return "", "", "", err
	}
	if j.Subject != "" {
		subject = j.Subject
	}
	return subject, text, html, nil
}
