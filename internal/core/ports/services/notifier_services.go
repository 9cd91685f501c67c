package services

import "context"

// Notifier is the outbound notification collaborator. Delivery is
// fire-and-forget: implementations log failures and never propagate them, so
// a dead broker cannot fail a claim or an approval.
type Notifier interface {
	Notify(ctx context.Context, templateKey, recipient string, data map[string]any)
}
