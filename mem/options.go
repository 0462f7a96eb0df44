package mem

import "go.uber.org/zap"

type options struct {
	log      *zap.Logger
	strictWX bool
}

// Option configures a Region.
type Option func(*options)

// WithStrictWX rejects permission changes which would make the region writable and executable
// at the same time. Code must then be written while the region is ReadWrite and executed after
// a transition to ReadExecute.
func WithStrictWX() Option {
	return func(o *options) { o.strictWX = true }
}

// WithLogger sets the logger for region lifecycle events. The package logger is used by default.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.log = l }
}
