package gworkspace

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"strings"

	"golang.org/x/time/rate"
	"google.golang.org/api/gmail/v1"
)

// Mailer sends HTML mail through the Gmail API as the authenticated user.
type Mailer struct {
	svc     *gmail.Service
	limiter *rate.Limiter
}

// NewMailer creates a Mailer.
func NewMailer(svc *gmail.Service) *Mailer {
	return &Mailer{svc: svc, limiter: newLimiter(GmailRequestsPerSecond)}
}

// SendHTML sends an HTML message to the given recipients.
func (m *Mailer) SendHTML(ctx context.Context, to []string, subject, htmlBody string) error {
	if len(to) == 0 {
		return fmt.Errorf("no recipients")
	}

	raw := buildMessage(to, subject, htmlBody)

	if err := wait(ctx, m.limiter); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	_, err := m.svc.Users.Messages.Send("me", &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString(raw),
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

// buildMessage renders an RFC 822 message with a UTF-8 HTML body.
func buildMessage(to []string, subject, htmlBody string) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.BEncoding.Encode("UTF-8", subject))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	buf.WriteString("Content-Transfer-Encoding: base64\r\n")
	buf.WriteString("\r\n")

	encoded := base64.StdEncoding.EncodeToString([]byte(htmlBody))
	for len(encoded) > 76 {
		buf.WriteString(encoded[:76] + "\r\n")
		encoded = encoded[76:]
	}
	buf.WriteString(encoded + "\r\n")
	return buf.Bytes()
}
