// Package notify models user-facing toast notifications as an injected
// capability rather than a global.
package notify

import (
	"log/slog"
	"sync"
)

// Kind is the severity of a toast.
type Kind string

const (
	Success Kind = "success"
	Info    Kind = "info"
	Warning Kind = "warning"
	Error   Kind = "error"
)

// Toast is a single notification.
type Toast struct {
	Kind    Kind   `json:"kind"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Notifier surfaces a notification to the user.
type Notifier interface {
	Notify(kind Kind, title, message string)
}

// Func adapts a plain function to Notifier.
type Func func(kind Kind, title, message string)

// Notify calls f.
func (f Func) Notify(kind Kind, title, message string) { f(kind, title, message) }

// Discard drops every notification.
var Discard Notifier = Func(func(Kind, string, string) {})

// Recorder collects toasts until they are drained. Front-ends use it to
// pick up notifications raised by long-lived components between renders.
type Recorder struct {
	mu     sync.Mutex
	toasts []Toast
}

// Notify appends a toast.
func (r *Recorder) Notify(kind Kind, title, message string) {
	r.mu.Lock()
	r.toasts = append(r.toasts, Toast{Kind: kind, Title: title, Message: message})
	r.mu.Unlock()
}

// Toasts returns a copy of the recorded toasts without clearing them.
func (r *Recorder) Toasts() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Toast(nil), r.toasts...)
}

// Drain returns the recorded toasts and clears the recorder.
func (r *Recorder) Drain() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.toasts
	r.toasts = nil
	return out
}

// Logged wraps next so that every toast is also written to logger.
func Logged(logger *slog.Logger, next Notifier) Notifier {
	return Func(func(kind Kind, title, message string) {
		logger.Info("notification", "kind", string(kind), "title", title, "message", message)
		next.Notify(kind, title, message)
	})
}
