package safego

import (
	"errors"

	"go.uber.org/zap"
)

// Go runs fn in a new goroutine. A panic is logged with its stack instead of
// crashing the process; a returned error is logged unless it matches one of
// expected (e.g. http.ErrServerClosed after a graceful shutdown).
//
// The returned channel is closed when fn has finished.
//
// Usage:
//
//	done := safego.Go(logger, "http-server", srv.ListenAndServe, http.ErrServerClosed)
func Go(logger *zap.Logger, name string, fn func() error, expected ...error) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Goroutine panicked",
					zap.String("goroutine", name),
					zap.Any("panic", r),
					zap.Stack("stack"),
				)
			}
		}()

		err := fn()
		if err == nil {
			return
		}
		for _, e := range expected {
			if errors.Is(err, e) {
				return
			}
		}
		logger.Error("Goroutine exited with error", zap.String("goroutine", name), zap.Error(err))
	}()
	return done
}
