package translator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/sashabaranov/go-openai"
)

var (
	ErrAuth          = errors.New("authentication failed")
	ErrRateLimited   = errors.New("rate limited")
	ErrQuotaExceeded = errors.New("quota exceeded")
)

// deepL answers 456 when the character quota of the plan is used up
const statusQuotaExceeded = 456

// StatusError is a non-2xx answer from a translation provider.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s API status %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s API status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// Unwrap maps well-known status codes to the package sentinels so callers
// can use errors.Is(err, ErrAuth).
func (e *StatusError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrAuth
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case statusQuotaExceeded:
		return ErrQuotaExceeded
	}
	return nil
}

// IsTransient reports whether err is worth retrying: network failures and
// provider-side 5xx answers. Auth, rate-limit and quota errors are not.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= 500 && statusErr.StatusCode <= 599
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, io.ErrUnexpectedEOF)
}

// fromOpenAIError converts go-openai errors into StatusError so that the
// classification above works the same for every provider.
func fromOpenAIError(provider string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return &StatusError{Provider: provider, StatusCode: apiErr.HTTPStatusCode, Body: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		body := ""
		if reqErr.Err != nil {
			body = reqErr.Err.Error()
		}
		return &StatusError{Provider: provider, StatusCode: reqErr.HTTPStatusCode, Body: body}
	}
	return err
}
