package service

import (
	"sync"

	"github.com/yndnr/corelink-go/internal/core/domain"
)

// logRing keeps the most recent core output lines.
type logRing struct {
	mu    sync.Mutex
	lines []domain.LogLine
	next  int
	full  bool
}

func newLogRing(size int) *logRing {
	if size <= 0 {
		size = 1
	}
	return &logRing{lines: make([]domain.LogLine, size)}
}

func (r *logRing) add(l domain.LogLine) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lines[r.next] = l
	r.next = (r.next + 1) % len(r.lines)
	if r.next == 0 {
		r.full = true
	}
}

// tail returns up to n lines, oldest first. n <= 0 returns everything.
func (r *logRing) tail(n int) []domain.LogLine {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := r.next
	if r.full {
		count = len(r.lines)
	}
	if n <= 0 || n > count {
		n = count
	}

	out := make([]domain.LogLine, 0, n)
	start := r.next - n
	if start < 0 {
		start += len(r.lines)
	}
	for i := 0; i < n; i++ {
		out = append(out, r.lines[(start+i)%len(r.lines)])
	}
	return out
}
