package coach

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

var (
	ErrUpstreamTimeout     = errors.New("coach request timed out")
	ErrUpstreamRateLimited = errors.New("coach rate limit reached")
	ErrUpstreamError       = errors.New("coach service error")
	ErrMalformedResponse   = errors.New("malformed coach response")
	ErrNotConfigured       = errors.New("coach is not configured")
	// ErrBusy is returned while another chat turn is still in flight
	ErrBusy = errors.New("coach is still answering")
)

// classify maps a transport error from the model onto the coach taxonomy
func classify(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrUpstreamTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrUpstreamTimeout, err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "status code: 429"), strings.Contains(msg, "rate limit"):
		return fmt.Errorf("%w: %v", ErrUpstreamRateLimited, err)
	case strings.Contains(msg, "status code: 401"), strings.Contains(msg, "invalid api key"):
		return fmt.Errorf("%w: %v", ErrNotConfigured, err)
	}
	return fmt.Errorf("%w: %v", ErrUpstreamError, err)
}

// UserMessage turns a coach error into a sentence fit for the user.
// None of these failures touch local state, so every message invites a retry.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUpstreamTimeout):
		return "AI request timed out. Try again."
	case errors.Is(err, ErrUpstreamRateLimited):
		return "AI service rate limit hit. Try again shortly."
	case errors.Is(err, ErrMalformedResponse):
		return "No response from AI model."
	case errors.Is(err, ErrNotConfigured):
		return "AI service configuration error. Set a key with 'habitflow key set'."
	case errors.Is(err, ErrBusy):
		return "Still waiting for the previous answer."
	case errors.Is(err, ErrUpstreamError):
		return "AI service temporarily unavailable."
	}
	return "Could not reach the AI coach. Try again."
}
