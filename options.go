package avis

import "log/slog"

// Option configures a Session during creation.
//
// Example:
//
//	s, err := avis.NewSession(cfg,
//	    avis.WithEngine(spectrum.Factory(nil)),
//	    avis.WithOutput(gl.NewOutput(funcs)),
//	)
type Option func(*sessionOptions)

type sessionOptions struct {
	factory EngineFactory
	output  Output
	logger  *slog.Logger
}

// WithEngine sets the factory Start uses to create the engine.
func WithEngine(f EngineFactory) Option {
	return func(o *sessionOptions) {
		o.factory = f
	}
}

// WithOutput sets where frames are rendered and read back from.
func WithOutput(out Output) Option {
	return func(o *sessionOptions) {
		o.output = out
	}
}

// WithSessionLogger overrides the logger taken from [Logger].
func WithSessionLogger(l *slog.Logger) Option {
	return func(o *sessionOptions) {
		o.logger = l
	}
}
