package bridge

import "go.uber.org/zap"

// Option configures facade settings.
type Option func(*settings)

type settings struct {
	logger   *zap.Logger
	recorder Recorder
}

// WithLogger sets a custom logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithRecorder attaches an operation recorder.
func WithRecorder(r Recorder) Option {
	return func(s *settings) { s.recorder = r }
}

func applyOptions(opts []Option) settings {
	s := settings{logger: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	return s
}
