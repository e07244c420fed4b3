// package feedback implements the ephemeral notification surface workflows
// report outcomes through.
//
// One message at a time: publishing supersedes any pending message
// immediately, and the current message auto-dismisses after a fixed delay.
// No queue is maintained.
package feedback

import (
	"sync"
	"time"
)

// DefaultDismiss matches the toast timing of the gateway's web clients.
const DefaultDismiss = 2200 * time.Millisecond

// Notifier holds at most one visible message.
type Notifier struct {
	mu      sync.Mutex
	message string
	seq     int
	delay   time.Duration
	sink    func(string)
}

// New creates a Notifier with the given auto-dismiss delay.
// Non-positive delays fall back to [DefaultDismiss].
func New(delay time.Duration) *Notifier {
	if delay <= 0 {
		delay = DefaultDismiss
	}
	return &Notifier{delay: delay}
}

// SetSink registers a function that receives every published message, letting
// a UI layer print or render them without polling Current.
func (n *Notifier) SetSink(fn func(string)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sink = fn
}

// Publish replaces the current message and restarts the dismiss timer.
func (n *Notifier) Publish(message string) {
	n.mu.Lock()
	n.message = message
	n.seq++
	seq := n.seq
	sink := n.sink
	n.mu.Unlock()

	if sink != nil {
		sink(message)
	}

	time.AfterFunc(n.delay, func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		// A later Publish supersedes this dismissal.
		if n.seq == seq {
			n.message = ""
		}
	})
}

// Current returns the visible message, or "" when dismissed.
func (n *Notifier) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.message
}
