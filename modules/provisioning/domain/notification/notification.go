// Package notification defines the outbound mail boundary for access
// provisioning.
package notification

import "context"

// Approval carries everything a welcome message needs. TemporaryPassword is
// the generated credential the new user logs in with.
type Approval struct {
	RecipientEmail    string
	RecipientName     string
	LoginEmail        string
	TemporaryPassword string
	Organization      string
}

// Gateway delivers provisioning mail. Delivery is strictly best-effort: the
// return value reports whether the message went out, and a failure never
// propagates as an error into the approval flow.
type Gateway interface {
	SendApproval(ctx context.Context, a Approval) bool
}
