package mailer

import (
	"context"
	"sync"
)

// Message is one captured delivery.
type Message struct {
	To       string
	Subject  string
	Template string
	Data     map[string]any
}

// Recorder captures outgoing mail instead of delivering it. Used in tests
// and local development runs without an SMTP server.
type Recorder struct {
	mu       sync.Mutex
	Messages []Message

	// Fail, when set, makes every Send return this error.
	Fail error
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Send(ctx context.Context, to, subject, template string, data map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Fail != nil {
		return r.Fail
	}

	r.Messages = append(r.Messages, Message{
		To:       to,
		Subject:  subject,
		Template: template,
		Data:     data,
	})

	return nil
}

// Last returns the most recent capture, or nil.
func (r *Recorder) Last() *Message {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.Messages) == 0 {
		return nil
	}
	return &r.Messages[len(r.Messages)-1]
}

// Count returns how many messages were captured.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Messages)
}
