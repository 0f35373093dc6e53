// Package notify delivers best-effort task assignment emails.
//
// Delivery is never authoritative: task creation succeeds whether or not the
// email goes out. Callers hand an Assignment to a Dispatcher, which runs the
// attempt on its own goroutine, logs the Result and discards it.
package notify

import (
	"context"
	"errors"
)

// ErrDisabled is reported when no SMTP credentials are configured
var ErrDisabled = errors.New("email notifications are disabled")

// Assignment describes the email sent to an employee who received a task
type Assignment struct {
	RecipientEmail string
	RecipientName  string
	TaskTitle      string
	AssignerName   string
}

// Result is the outcome of one delivery attempt
type Result struct {
	Success   bool
	MessageID string
	Err       error
}

// Failed builds an unsuccessful Result
func Failed(err error) Result {
	return Result{Success: false, Err: err}
}

// Notifier delivers assignment notifications
type Notifier interface {
	NotifyAssigned(ctx context.Context, a Assignment) Result
}

// Disabled is the Notifier used when mail is not configured
type Disabled struct{}

// NotifyAssigned always reports ErrDisabled
func (Disabled) NotifyAssigned(context.Context, Assignment) Result {
	return Failed(ErrDisabled)
}
