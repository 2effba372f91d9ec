// Package notify moves outbound notifications off the request path.
//
// Request handlers hand a Message to a Dispatcher, which only enqueues it.
// A Worker drains the Queue in the background and delivers through a Sender.
// Enqueue and delivery failures are logged and counted but never surface to
// the code that asked for the notification.
package notify

import (
	"context"
	"errors"
	"time"
)

// Message kinds
const (
	KindApplicationReceived = "application_received"
	KindApplicationAlert    = "application_alert"
	KindApproval            = "approval"
	KindApprovalAdmin       = "approval_admin"
	KindContactAlert        = "contact_alert"
)

var (
	// ErrQueueFull is returned by a bounded queue that cannot take more messages
	ErrQueueFull = errors.New("notification queue full")
	// ErrQueueClosed is returned after Close
	ErrQueueClosed = errors.New("notification queue closed")
)

// Attachment is a file sent along with a message
type Attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

// Message is one outbound notification
type Message struct {
	ID          string       `json:"id"`
	Kind        string       `json:"kind"`
	To          string       `json:"to"`
	Subject     string       `json:"subject"`
	HTMLBody    string       `json:"html_body"`
	Attachments []Attachment `json:"attachments,omitempty"`
	Attempt     int          `json:"attempt"`
	EnqueuedAt  time.Time    `json:"enqueued_at"`
}

// Queue buffers messages between the dispatcher and the worker
type Queue interface {
	Enqueue(ctx context.Context, msg Message) error
	// Dequeue blocks until a message is available or ctx is done
	Dequeue(ctx context.Context) (Message, error)
	Close() error
}

// Sender delivers a message, e.g. over SMTP
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Notifier is what services depend on
type Notifier interface {
	Notify(ctx context.Context, msg Message)
}
