package scanning

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// Limited caps how often the wrapped Scanner is called
type Limited struct {
	next    Scanner
	limiter *rate.Limiter
	maxWait time.Duration
}

// NewLimited allows perMinute calls to next, waiting at most maxWait for a slot.
// A perMinute of zero or less disables the limit.
func NewLimited(next Scanner, perMinute int, maxWait time.Duration) *Limited {
	limit := rate.Inf
	if perMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(perMinute))
	}
	return &Limited{
		next:    next,
		limiter: rate.NewLimiter(limit, 1),
		maxWait: maxWait,
	}
}

// ExtractText waits for a slot and then delegates
func (l *Limited) ExtractText(imageData []byte, contentType string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), l.maxWait)
	defer cancel()

	if err := l.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("waiting for scanner slot: %w", err)
	}
	return l.next.ExtractText(imageData, contentType)
}

// Close closes the wrapped scanner
func (l *Limited) Close() error {
	return l.next.Close()
}
