package port

import "context"

// Notifier receives user-facing messages. Delivery is fire-and-forget.
type Notifier interface {
	Notify(ctx context.Context, message string)
}
