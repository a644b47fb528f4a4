// Package notify carries transient user-facing messages from controllers to
// whatever surface shows them: a toast in the TUI, a line on stderr in the CLI.
package notify

import (
	"fmt"
	"io"
	"sync"
)

// Kind is the tone of a notification.
type Kind int

const (
	Info Kind = iota
	Success
	Error
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case Error:
		return "error"
	}
	return "info"
}

// Notifier receives notifications. Implementations must be safe for
// concurrent use.
type Notifier interface {
	Notify(message string, kind Kind)
}

// Message is one recorded notification.
type Message struct {
	Text string
	Kind Kind
}

// Func adapts a function to Notifier.
type Func func(message string, kind Kind)

func (f Func) Notify(message string, kind Kind) {
	f(message, kind)
}

// Discard drops every notification.
var Discard Notifier = Func(func(string, Kind) {})

// --- Queue ---

// Queue buffers notifications until the UI drains them on its next update.
type Queue struct {
	mu      sync.Mutex
	pending []Message
}

func (q *Queue) Notify(message string, kind Kind) {
	q.mu.Lock()
	q.pending = append(q.pending, Message{Text: message, Kind: kind})
	q.mu.Unlock()
}

// Drain returns and clears everything queued so far, oldest first.
func (q *Queue) Drain() []Message {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.pending
	q.pending = nil
	return out
}

// --- Recorder ---

// Recorder keeps every notification. Useful in tests.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

func (r *Recorder) Notify(message string, kind Kind) {
	r.mu.Lock()
	r.messages = append(r.messages, Message{Text: message, Kind: kind})
	r.mu.Unlock()
}

// Messages returns a copy of everything recorded.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.messages...)
}

// Last returns the most recent notification.
func (r *Recorder) Last() (Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		return Message{}, false
	}
	return r.messages[len(r.messages)-1], true
}

// --- Writer ---

// Writer prints one line per notification.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (n *Writer) Notify(message string, kind Kind) {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, _ = fmt.Fprintf(n.w, "%s: %s\n", kind, message)
}
