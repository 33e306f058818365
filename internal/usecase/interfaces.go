package usecase

import (
	"context"
	"time"

	"charityconnect/internal/infrastructure/events"
)

// RateLimiter is satisfied by *ratelimit.RateLimiter.
type RateLimiter interface {
	Allow(key, action string) (bool, time.Duration)
}

// EventPublisher is satisfied by *events.Dispatcher. Publish must not block.
type EventPublisher interface {
	Publish(evt events.Event) bool
}

// ImageStore uploads a base64 data URI and returns the public URL.
type ImageStore interface {
	UploadDataURI(ctx context.Context, dataURI, folder string) (string, error)
}
