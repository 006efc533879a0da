// Package mail delivers provisioning email over SMTP.
package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/relayhq/relay-server/modules/provisioning/domain/notification"
	"github.com/relayhq/relay-server/pkg/composables"
	"github.com/relayhq/relay-server/pkg/configuration"
)

type SMTPGateway struct {
	opts configuration.SMTPOptions
}

func NewSMTPGateway(opts configuration.SMTPOptions) notification.Gateway {
	return &SMTPGateway{opts: opts}
}

// SendApproval mails the login credentials to an approved requester. When
// SMTP is not configured, or the send fails, it reports false; the approval
// itself has already been committed by the caller.
func (g *SMTPGateway) SendApproval(ctx context.Context, a notification.Approval) bool {
	logger := composables.UseLogger(ctx)

	if !g.opts.Configured() {
		logger.WithField("email", a.RecipientEmail).Warn("smtp not configured, skipping approval email")
		return false
	}

	msg := buildApprovalMessage(g.opts.Sender(), a)
	addr := fmt.Sprintf("%s:%d", g.opts.Host, g.opts.Port)
	auth := smtp.PlainAuth("", g.opts.Username, g.opts.Password, g.opts.Host)

	if err := smtp.SendMail(addr, auth, g.opts.Sender(), []string{a.RecipientEmail}, msg); err != nil {
		logger.WithField("email", a.RecipientEmail).WithError(err).Error("failed to send approval email")
		return false
	}

	logger.WithField("email", a.RecipientEmail).Info("approval email sent")
	return true
}

func buildApprovalMessage(from string, a notification.Approval) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", a.RecipientEmail)
	fmt.Fprintf(&b, "Subject: Your Relay account is ready\r\n")
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	fmt.Fprintf(&b, "Hi %s,\r\n\r\n", a.RecipientName)
	fmt.Fprintf(&b, "Your access request for %s has been approved.\r\n\r\n", a.Organization)
	fmt.Fprintf(&b, "Login email: %s\r\n", a.LoginEmail)
	fmt.Fprintf(&b, "Temporary password: %s\r\n\r\n", a.TemporaryPassword)
	b.WriteString("Please sign in and change your password right away.\r\n")
	return []byte(b.String())
}
