package ports

import "github.com/pontonfc/ponto-system/internal/core/domain"

// Notifier is the worker-side end of the notification channel. Publish
// never blocks; when the channel is saturated the notification is dropped
// and accounted for, because the worker must never wait on the consumer.
type Notifier interface {
	Publish(n domain.Notification)
}

// NotificationSource is the consumer-side end. Draining is non-blocking:
// an empty channel is a normal, immediately returned condition.
type NotificationSource interface {
	// TryNext pops the oldest pending notification, if any.
	TryNext() (domain.Notification, bool)
	// Drain pops up to max pending notifications in emission order.
	Drain(max int) []domain.Notification
}
