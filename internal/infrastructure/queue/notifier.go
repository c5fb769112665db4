// Package queue implements the single FIFO notification channel between
// the serial worker and the rest of the system.
package queue

import (
	"github.com/rs/zerolog"

	"github.com/pontonfc/ponto-system/internal/api/metrics"
	"github.com/pontonfc/ponto-system/internal/core/domain"
)

const defaultCapacity = 256

// Notifier carries tagged notifications from the worker goroutine to the
// consumer in emission order. Publish never blocks: the worker must never
// wait on consumer behavior, so a saturated channel drops the notification
// instead. Draining is likewise non-blocking; an empty channel is a
// normal, immediately returned condition.
type Notifier struct {
	ch  chan domain.Notification
	log zerolog.Logger
}

// NewNotifier creates a Notifier with the given capacity.
// If capacity <= 0, defaultCapacity is used.
func NewNotifier(capacity int, log zerolog.Logger) *Notifier {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Notifier{
		ch:  make(chan domain.Notification, capacity),
		log: log,
	}
}

// Publish enqueues n without blocking. Drops (and counts) the
// notification when the channel is full.
func (q *Notifier) Publish(n domain.Notification) {
	select {
	case q.ch <- n:
		metrics.NotificationsQueueDepth.Set(float64(len(q.ch)))
	default:
		metrics.NotificationsDroppedTotal.Inc()
		q.log.Warn().
			Str("kind", string(n.Kind)).
			Msg("notification channel full, dropping")
	}
}

// TryNext pops the oldest pending notification, if any.
func (q *Notifier) TryNext() (domain.Notification, bool) {
	select {
	case n := <-q.ch:
		metrics.NotificationsQueueDepth.Set(float64(len(q.ch)))
		return n, true
	default:
		return domain.Notification{}, false
	}
}

// Drain pops up to max pending notifications in emission order.
// max <= 0 drains everything currently pending.
func (q *Notifier) Drain(max int) []domain.Notification {
	if max <= 0 {
		max = len(q.ch)
	}
	var out []domain.Notification
	for len(out) < max {
		n, ok := q.TryNext()
		if !ok {
			break
		}
		out = append(out, n)
	}
	return out
}
