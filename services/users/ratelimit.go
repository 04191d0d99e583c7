package users

import (
	"strings"
	"sync"
	"time"
)

// resetLimiter caps password reset emails per address over a sliding
// window. State is in-memory; a process restart clears it, which is
// acceptable for abuse throttling.
type resetLimiter struct {
	mu     sync.Mutex
	max    int
	window time.Duration
	sent   map[string][]time.Time
	now    func() time.Time
}

func newResetLimiter(max int, window time.Duration) *resetLimiter {
	return &resetLimiter{
		max:    max,
		window: window,
		sent:   make(map[string][]time.Time),
		now:    time.Now,
	}
}

// Allow records an attempt for the email and reports whether it is
// within the limit.
func (l *resetLimiter) Allow(email string) bool {
	key := strings.ToLower(strings.TrimSpace(email))
	now := l.now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	recent := l.sent[key][:0]
	for _, t := range l.sent[key] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= l.max {
		l.sent[key] = recent
		return false
	}

	l.sent[key] = append(recent, now)
	return true
}
