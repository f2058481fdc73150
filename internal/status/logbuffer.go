package status

import (
	"fmt"
	"sync"
)

// LogBuffer is an unbounded FIFO of log lines shared between workers and the
// polling /logs reader.
type LogBuffer struct {
	mu    sync.Mutex
	lines []string
}

// NewLogBuffer returns an empty buffer.
func NewLogBuffer() *LogBuffer {
	return &LogBuffer{}
}

// Push appends a line. Safe for concurrent producers; never blocks.
func (b *LogBuffer) Push(line string) {
	b.mu.Lock()
	b.lines = append(b.lines, line)
	b.mu.Unlock()
}

// Pushf formats and appends a line.
func (b *LogBuffer) Pushf(format string, args ...any) {
	b.Push(fmt.Sprintf(format, args...))
}

// Drain removes and returns every queued line in FIFO order. Returns an empty
// slice when nothing is pending. Pushes racing with a drain land in the next
// drain.
func (b *LogBuffer) Drain() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.lines) == 0 {
		return []string{}
	}
	out := b.lines
	b.lines = nil
	return out
}
