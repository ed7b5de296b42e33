package animation

import "log"

// Logger is the logging capability consumed by the player and its cache.
// Implementations are fire-and-forget: they must not panic and have no error
// to return.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Criticalf(format string, args ...any)
}

// StdLogger writes level-prefixed lines through the standard log package.
// It is the default logger of a Player.
type StdLogger struct{}

func (StdLogger) Debugf(format string, args ...any)    { log.Printf("[DEBUG] "+format, args...) }
func (StdLogger) Infof(format string, args ...any)     { log.Printf("[INFO] "+format, args...) }
func (StdLogger) Warnf(format string, args ...any)     { log.Printf("[WARNING] "+format, args...) }
func (StdLogger) Errorf(format string, args ...any)    { log.Printf("[ERROR] "+format, args...) }
func (StdLogger) Criticalf(format string, args ...any) { log.Printf("[CRITICAL] "+format, args...) }

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debugf(format string, args ...any)    {}
func (NopLogger) Infof(format string, args ...any)     {}
func (NopLogger) Warnf(format string, args ...any)     {}
func (NopLogger) Errorf(format string, args ...any)    {}
func (NopLogger) Criticalf(format string, args ...any) {}
