package notify

import (
	"context"
	"fmt"

	"github.com/hamed0406/mcstatus/internal/domain"
)

// Channel is a chat channel holding at most one live status message.
type Channel interface {
	// DeleteMessage removes a previously posted message. An empty id is a no-op.
	DeleteMessage(ctx context.Context, id string) error
	// PostMessage publishes a status message and returns its id.
	PostMessage(ctx context.Context, n domain.Notice) (string, error)
}

// ChannelError describes a failed channel request. StatusCode is 0 when no
// response was received.
type ChannelError struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *ChannelError) Error() string {
	switch {
	case e.Err != nil && e.StatusCode != 0:
		return fmt.Sprintf("discord %s: status %d: %v", e.Op, e.StatusCode, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("discord %s: %v", e.Op, e.Err)
	case e.Body != "":
		return fmt.Sprintf("discord %s: status %d: %s", e.Op, e.StatusCode, e.Body)
	default:
		return fmt.Sprintf("discord %s: status %d", e.Op, e.StatusCode)
	}
}

func (e *ChannelError) Unwrap() error { return e.Err }
