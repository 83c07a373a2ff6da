package sinks

import (
	"context"

	"github.com/redhat-appstudio/statuspage-watcher/pkg/statuspage"
)

// Sink receives every event the watcher decides to surface.
type Sink interface {
	Emit(ctx context.Context, event statuspage.Event) error
}

// Names of the built-in sinks
const (
	ConsoleSinkName = "console"
	ForwardSinkName = "forward"
)

// Error messages
const (
	ErrForwardRequest = "failed to send event to forward endpoint"
	ErrForwardStatus  = "forward endpoint returned error status"
	ErrForwardEncode  = "failed to marshal event"
	ErrConsoleWrite   = "failed to write event block"
)
