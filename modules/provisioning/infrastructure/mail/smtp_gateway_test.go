package mail

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/relayhq/relay-server/modules/provisioning/domain/notification"
	"github.com/relayhq/relay-server/pkg/configuration"
)

func TestSendApprovalUnconfigured(t *testing.T) {
	t.Parallel()

	gw := NewSMTPGateway(configuration.SMTPOptions{})
	sent := gw.SendApproval(context.Background(), notification.Approval{
		RecipientEmail: "taylor@example.com",
	})
	assert.False(t, sent)
}

func TestBuildApprovalMessage(t *testing.T) {
	t.Parallel()

	msg := string(buildApprovalMessage("noreply@relayhq.io", notification.Approval{
		RecipientEmail:    "taylor@example.com",
		RecipientName:     "Taylor Reed",
		LoginEmail:        "taylor@example.com",
		TemporaryPassword: "tmp-pass-123",
		Organization:      "Reed Creative",
	}))

	assert.Contains(t, msg, "To: taylor@example.com\r\n")
	assert.Contains(t, msg, "Temporary password: tmp-pass-123")
	assert.Contains(t, msg, "Reed Creative")
	// Headers and body are separated by a blank line.
	assert.Contains(t, msg, "charset=utf-8\r\n\r\nHi Taylor Reed")
}
