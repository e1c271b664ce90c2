package finality

import "go.uber.org/zap"

// Option configures watcher settings.
type Option func(*settings)

type settings struct {
	logger *zap.Logger
	clock  Clock
}

// WithLogger sets a custom logger for the watcher.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(s *settings) { s.clock = c }
}

func applyOptions(opts []Option) settings {
	s := settings{logger: zap.NewNop(), clock: realClock{}}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	return s
}
