// Package notify delivers short staff-facing messages (success, error, info,
// warning or custom) to one or more destinations.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Level is the kind of a notification
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
)

// DefaultDuration is how long a notification stays visible when no duration is given
const DefaultDuration = 3 * time.Second

// Options customise a notification
type Options struct {
	Level    Level         `json:"level,omitempty"`
	Title    string        `json:"title,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
	OrderID  string        `json:"order_id,omitempty"`
}

// Notification is a single message for staff
type Notification struct {
	Level    Level         `json:"level"`
	Title    string        `json:"title,omitempty"`
	Message  string        `json:"message"`
	Duration time.Duration `json:"duration"`
	OrderID  string        `json:"order_id,omitempty"`
}

// Notifier is passed to every component that reports outcomes to staff
type Notifier interface {
	Success(ctx context.Context, msg string) error
	Error(ctx context.Context, msg string) error
	Info(ctx context.Context, msg string) error
	Warning(ctx context.Context, msg string) error
	Custom(ctx context.Context, msg string, opts Options) error
	Notify(ctx context.Context, n Notification) error
}

// Sender is a destination for notifications
type Sender interface {
	Send(ctx context.Context, n Notification) error
}

// Toaster fans notifications out to its senders
type Toaster struct {
	senders []Sender
}

var _ Notifier = (*Toaster)(nil)

// NewToaster creates a notifier writing to all given senders
func NewToaster(senders ...Sender) *Toaster {
	return &Toaster{senders: senders}
}

func (t *Toaster) Success(ctx context.Context, msg string) error {
	return t.Notify(ctx, Notification{Level: LevelSuccess, Message: msg})
}

func (t *Toaster) Error(ctx context.Context, msg string) error {
	return t.Notify(ctx, Notification{Level: LevelError, Message: msg})
}

func (t *Toaster) Info(ctx context.Context, msg string) error {
	return t.Notify(ctx, Notification{Level: LevelInfo, Message: msg})
}

func (t *Toaster) Warning(ctx context.Context, msg string) error {
	return t.Notify(ctx, Notification{Level: LevelWarning, Message: msg})
}

// Custom sends msg with caller-provided options. The level defaults to info.
func (t *Toaster) Custom(ctx context.Context, msg string, opts Options) error {
	return t.Notify(ctx, Notification{
		Level:    opts.Level,
		Title:    opts.Title,
		Message:  msg,
		Duration: opts.Duration,
		OrderID:  opts.OrderID,
	})
}

// Notify delivers n to every sender. A failing sender does not stop the others.
func (t *Toaster) Notify(ctx context.Context, n Notification) error {
	if n.Level == "" {
		n.Level = LevelInfo
	}
	if n.Duration <= 0 {
		n.Duration = DefaultDuration
	}

	var errs []error
	for _, s := range t.senders {
		if err := s.Send(ctx, n); err != nil {
			errs = append(errs, fmt.Errorf("%T: %w", s, err))
		}
	}
	return errors.Join(errs...)
}
