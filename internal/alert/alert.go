// Package alert funnels non-fatal warnings to the log, deduplicated by
// message so repeated identical failures do not spam the user.
package alert

import (
	"fmt"
	"log/slog"
	"sync"
)

// Sink deduplicates warning messages for the lifetime of one store session.
type Sink struct {
	mu     sync.Mutex
	seen   map[string]struct{}
	logger *slog.Logger
}

// NewSink returns a sink logging through the default slog logger.
func NewSink() *Sink {
	return &Sink{
		seen:   make(map[string]struct{}),
		logger: slog.Default(),
	}
}

// Warnf logs the formatted message at warn level unless an identical message
// was already emitted. It reports whether the message was actually logged.
func (s *Sink) Warnf(format string, args ...any) bool {
	message := fmt.Sprintf(format, args...)

	s.mu.Lock()
	if _, ok := s.seen[message]; ok {
		s.mu.Unlock()
		return false
	}
	s.seen[message] = struct{}{}
	s.mu.Unlock()

	s.logger.Warn(message)
	return true
}

// Reset forgets previously emitted messages.
func (s *Sink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen = make(map[string]struct{})
}
