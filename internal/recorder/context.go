package recorder

import (
	"context"
	"time"
)

type sessionKey struct{}

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// FromContext returns the session stored in ctx, if any.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok && s != nil
}

// StartFromContext starts a recorder on the session in ctx. Without a
// session it returns a recorder that measures time but records nothing.
func StartFromContext(ctx context.Context, label string) *Recorder {
	if s, ok := FromContext(ctx); ok {
		return s.Start(label)
	}
	return &Recorder{label: label, start: time.Now(), verbosity: VerbosityLow}
}
