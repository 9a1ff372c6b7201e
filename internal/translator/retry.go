package translator

import (
	"context"
	"log"
	"time"
)

var defaultRetryDelays = []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}

// retrying re-issues a translation after transient failures only.
type retrying struct {
	next        Translator
	maxRetries  int
	retryDelays []time.Duration
}

// WithRetry wraps t so that network errors and 5xx answers are retried up to
// maxRetries times. Auth, rate-limit and quota errors are returned at once.
func WithRetry(t Translator, maxRetries int) Translator {
	return &retrying{next: t, maxRetries: maxRetries, retryDelays: defaultRetryDelays}
}

func (r *retrying) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	for attempt := 0; ; attempt++ {
		out, err := r.next.Translate(ctx, text, sourceLang, targetLang)
		if err == nil {
			return out, nil
		}
		if attempt >= r.maxRetries || !IsTransient(err) {
			return "", err
		}

		delay := r.retryDelays[len(r.retryDelays)-1]
		if attempt < len(r.retryDelays) {
			delay = r.retryDelays[attempt]
		}
		log.Printf("translator: transient error, retry %d/%d after %v: %v", attempt+1, r.maxRetries, delay, err)

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
	}
}
