package delivery

import (
	"context"
	"fmt"
	"html"
	"strings"

	"docdigest/internal/apperrors"
)

// Mailer sends an HTML email.
type Mailer interface {
	SendHTML(ctx context.Context, to []string, subject, htmlBody string) error
}

// EmailText renders d as the plain text of the email body.
func EmailText(d Digest) string {
	var sb strings.Builder

	results := d.Results()
	if len(results) > 0 {
		sb.WriteString("📄 *Document Changes*\n\n")
		for _, r := range results {
			actions := r.Actions
			if actions == "" {
				actions = "None"
			}
			fmt.Fprintf(&sb, "%s\n%s\nAction Items: %s\n\n", r.Title, r.Summary, actions)
		}
	} else {
		sb.WriteString("📄 No document changes detected.\n\n")
	}

	sb.WriteString("💬 *Slack Summary*\n")
	sb.WriteString(d.Activity.Summary + "\n")
	if d.Activity.Actions != "" {
		fmt.Fprintf(&sb, "\nAction Items:\n%s\n", d.Activity.Actions)
	}
	return sb.String()
}

// EmailHTML renders d as an HTML email body.
func EmailHTML(d Digest) string {
	return strings.ReplaceAll(html.EscapeString(EmailText(d)), "\n", "<br>")
}

// EmailPublisher mails the digest.
type EmailPublisher struct {
	mailer  Mailer
	to      []string
	subject string
}

// NewEmailPublisher creates an EmailPublisher. An empty subject selects DefaultSubject.
func NewEmailPublisher(mailer Mailer, to []string, subject string) *EmailPublisher {
	if subject == "" {
		subject = DefaultSubject
	}
	return &EmailPublisher{mailer: mailer, to: to, subject: subject}
}

// Name implements Publisher.
func (p *EmailPublisher) Name() string { return "email" }

// Publish implements Publisher.
func (p *EmailPublisher) Publish(ctx context.Context, d Digest) error {
	if len(p.to) == 0 {
		return apperrors.MissingConfig("EMAIL_TO")
	}
	if p.mailer == nil {
		return fmt.Errorf("%w: no mailer configured", apperrors.ErrConfig)
	}
	if err := p.mailer.SendHTML(ctx, p.to, p.subject, EmailHTML(d)); err != nil {
		return fmt.Errorf("failed to send digest email: %w", err)
	}
	return nil
}
