package logger

import (
	"bytes"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestDeduplicator() (*Deduplicator, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewDeduplicator(log.New(&buf, "", 0), time.Hour), &buf
}

func TestDeduplicator_CollapsesRepeats(t *testing.T) {
	d, buf := newTestDeduplicator()

	d.Printf("cache hit %d", 1)
	d.Printf("cache hit %d", 1)
	d.Printf("cache hit %d", 1)
	assert.Empty(t, buf.String(), "nothing is written until flush")

	d.Flush()
	assert.Equal(t, "cache hit 1 (3)\n", buf.String())
}

func TestDeduplicator_DifferentLineFlushesPending(t *testing.T) {
	d, buf := newTestDeduplicator()

	d.Printf("first")
	d.Printf("second")
	d.Flush()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{"first", "second"}, lines)
}

func TestDeduplicator_FlushWithoutPending(t *testing.T) {
	d, buf := newTestDeduplicator()

	d.Flush()
	assert.Empty(t, buf.String())
}

func TestDeduplicator_TimerFlushes(t *testing.T) {
	var buf safeBuffer
	d := NewDeduplicator(log.New(&buf, "", 0), 10*time.Millisecond)

	d.Printf("tick")
	d.Printf("tick")

	assert.Eventually(t, func() bool {
		return buf.String() == "tick (2)\n"
	}, time.Second, 5*time.Millisecond)
}
