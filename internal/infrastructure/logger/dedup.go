package logger

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// DefaultFlushDelay is how long a repeated line is held before it is written with its count
const DefaultFlushDelay = 2 * time.Second

var std = NewDeduplicator(log.Default(), DefaultFlushDelay)

// Dedup logs through the package-level deduplicator
func Dedup(format string, args ...any) {
	std.Printf(format, args...)
}

// Deduplicator collapses runs of identical log lines into one line with a count
type Deduplicator struct {
	out        *log.Logger
	flushDelay time.Duration

	mu      sync.Mutex
	lastMsg string
	count   int
	timer   *time.Timer
}

// NewDeduplicator writes collapsed lines to out after flushDelay of quiet
func NewDeduplicator(out *log.Logger, flushDelay time.Duration) *Deduplicator {
	return &Deduplicator{
		out:        out,
		flushDelay: flushDelay,
	}
}

// Printf queues a formatted line. A different line flushes the pending one first.
func (d *Deduplicator) Printf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	d.mu.Lock()
	defer d.mu.Unlock()

	if msg != d.lastMsg {
		d.flushLocked()
		d.lastMsg = msg
	}
	d.count++

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.flushDelay, d.Flush)
}

// Flush writes the pending line, if any
func (d *Deduplicator) Flush() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.flushLocked()
}

func (d *Deduplicator) flushLocked() {
	switch {
	case d.count == 0:
		return
	case d.count == 1:
		d.out.Print(d.lastMsg)
	default:
		d.out.Printf("%s (%d)", d.lastMsg, d.count)
	}
	d.count = 0
	d.lastMsg = ""
}
