package roster

import (
	"sync"
	"time"
)

// Notice is a transient message about a row save.
type Notice struct {
	Text  string
	Error bool
	At    time.Time
}

// Notices keeps the latest notice and clears it after ttl. A newer notice
// replaces the current one and restarts the timer.
type Notices struct {
	mu      sync.Mutex
	ttl     time.Duration
	current *Notice
	seq     uint64
	timer   *time.Timer
	sink    func(Notice)
	now     func() time.Time
}

// NewNotices creates a notice board. sink, when non-nil, receives every
// published notice synchronously.
func NewNotices(ttl time.Duration, sink func(Notice)) *Notices {
	return &Notices{ttl: ttl, sink: sink, now: time.Now}
}

// Publish replaces the current notice.
func (n *Notices) Publish(text string, isError bool) {
	n.mu.Lock()
	notice := Notice{Text: text, Error: isError, At: n.now()}
	n.current = &notice
	n.seq++
	seq := n.seq
	if n.timer != nil {
		n.timer.Stop()
	}
	if n.ttl > 0 {
		n.timer = time.AfterFunc(n.ttl, func() { n.expire(seq) })
	}
	sink := n.sink
	n.mu.Unlock()

	if sink != nil {
		sink(notice)
	}
}

// Current returns the notice on display, if any.
func (n *Notices) Current() (Notice, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return Notice{}, false
	}
	return *n.current, true
}

// Clear removes the current notice and cancels its timer.
func (n *Notices) Clear() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = nil
	n.seq++
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}

func (n *Notices) expire(seq uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.seq == seq {
		n.current = nil
		n.timer = nil
	}
}
