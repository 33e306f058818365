package usecase

import (
	"log/slog"

	"charityconnect/internal/domain/entity"
)

const EventCounterChanged = "profile.counter_changed"

// CounterChanged asks for a profile counter to move by Delta. It is delivered after the
// triggering write has been persisted and its failure never affects that write.
type CounterChanged struct {
	Email   string
	Counter entity.ProfileCounter
	Delta   int64
}

func (CounterChanged) EventName() string {
	return EventCounterChanged
}

func publishCounter(publisher EventPublisher, logger *slog.Logger, email string, counter entity.ProfileCounter, delta int64) {
	if email == "" {
		return
	}
	if !publisher.Publish(CounterChanged{Email: email, Counter: counter, Delta: delta}) {
		logger.Warn("Counter update not queued", "email", email, "counter", counter, "delta", delta)
	}
}
