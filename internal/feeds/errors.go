package feeds

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Feed-level failure kinds. Every error returned while fetching a feed wraps
// exactly one of these.
var (
	ErrNetwork    = errors.New("network error")
	ErrHTTPStatus = errors.New("unexpected HTTP status")
	ErrParse      = errors.New("feed parse error")
	ErrTimeout    = errors.New("feed fetch timed out")
)

// Failure kind labels, as reported in FailedFeed.Kind and metrics.
const (
	KindNetwork = "network"
	KindHTTP    = "http"
	KindParse   = "parse"
	KindTimeout = "timeout"
)

// Kind maps a fetch error to its failure label.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrTimeout):
		return KindTimeout
	case errors.Is(err, ErrHTTPStatus):
		return KindHTTP
	case errors.Is(err, ErrParse):
		return KindParse
	default:
		return KindNetwork
	}
}

// transportError wraps an error from the HTTP client as either a timeout or a
// network failure.
func transportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", ErrNetwork, err)
}
