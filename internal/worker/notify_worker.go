package worker

import (
	"github.com/spec-kit/desk-support/internal/events"
	"github.com/spec-kit/desk-support/internal/notify"
)

// StartNotifyWorker wires the Redis notifier to the event dispatcher.
func StartNotifyWorker(notifier *notify.RedisNotifier, dispatcher events.Dispatcher) {
	if notifier == nil {
		return
	}
	notifier.RegisterHandlers(dispatcher)
}
