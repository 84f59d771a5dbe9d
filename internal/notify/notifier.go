// Package notify dispatches member-facing notifications. Dispatch is a
// best-effort side effect: callers must never fail or roll back a loan
// state transition because a notification could not be delivered.
package notify

import (
	"log"
)

// Notifier sends a message to a recipient. Implementations report
// delivery success; they never block the calling operation.
type Notifier interface {
	Notify(recipient, subject, body string) bool
}

// LogNotifier writes notifications to the process log. It stands in for
// a real email or SMS gateway and always reports success.
type LogNotifier struct{}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// Notify logs the notification and reports success.
func (n *LogNotifier) Notify(recipient, subject, body string) bool {
	log.Printf("notification to=%s subject=%q", recipient, subject)
	log.Printf("notification body=%q", body)
	return true
}
