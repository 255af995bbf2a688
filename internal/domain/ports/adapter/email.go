package adapter

import "context"

// Message is one outbound email.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// EmailSender abstracts the external email transport. Implementations make
// exactly one outbound call per Send, bounded by their configured timeout;
// there is no retry or queueing at this layer.
type EmailSender interface {
	Send(ctx context.Context, msg Message) error
}
