package sinks

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/redhat-appstudio/statuspage-watcher/pkg/statuspage"
)

const (
	consoleTimeFormat = "2006-01-02 15:04:05"
	separatorWidth    = 60
)

var separator = strings.Repeat("-", separatorWidth)

// ConsoleSink prints each event as a multi-line block.
type ConsoleSink struct {
	out io.Writer
	mu  sync.Mutex
}

func NewConsoleSink(out io.Writer) *ConsoleSink {
	return &ConsoleSink{out: out}
}

// Emit writes the whole block in one call so concurrent webhook deliveries
// never interleave lines.
func (c *ConsoleSink) Emit(_ context.Context, event statuspage.Event) error {
	block := FormatBlock(event)

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := io.WriteString(c.out, block); err != nil {
		return fmt.Errorf("%s: %w", ErrConsoleWrite, err)
	}
	return nil
}

// FormatBlock renders event the way ConsoleSink prints it.
func FormatBlock(event statuspage.Event) string {
	var b strings.Builder
	ts := event.At.Format(consoleTimeFormat)

	if event.Kind == statuspage.KindUnknown {
		fmt.Fprintf(&b, "[%s] Unknown payload received\n", ts)
		if event.Detail != "" {
			fmt.Fprintf(&b, "Reason: %s\n", event.Detail)
		}
		b.WriteString(separator)
		b.WriteString("\n")
		return b.String()
	}

	fmt.Fprintf(&b, "[%s] Product: %s\n", ts, event.Event.Product)
	fmt.Fprintf(&b, "Status: %s\n", event.Event.Status)
	if event.Event.PreviousStatus != "" {
		fmt.Fprintf(&b, "Previous status: %s\n", event.Event.PreviousStatus)
	}
	if event.Event.Message != "" {
		fmt.Fprintf(&b, "Message - %s\n", event.Event.Message)
	}
	b.WriteString(separator)
	b.WriteString("\n")
	return b.String()
}
