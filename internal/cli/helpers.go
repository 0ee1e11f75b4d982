package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aretw0/blocksmith/internal/logging"
	"github.com/aretw0/blocksmith/pkg/domain"
)

// Exit codes of the blocksmith command.
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitNotReady = 2
	ExitTool     = 3
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// createLogger configures the application logger.
// Debug overrides the configured level.
func createLogger(level slog.Level, debug bool) *slog.Logger {
	if debug {
		level = slog.LevelDebug
	}
	return logging.New(level)
}

// ExitCode maps a command error to the process exit status.
// Interruptions exit cleanly.
func ExitCode(err error) int {
	switch {
	case err == nil, isInterrupted(err):
		return ExitOK
	case errors.Is(err, domain.ErrNotReady), errors.Is(err, domain.ErrNotLinked):
		return ExitNotReady
	case errors.Is(err, domain.ErrToolFailed), errors.Is(err, domain.ErrToolNotRegistered):
		return ExitTool
	}
	return ExitFailure
}

func isInterrupted(err error) bool {
	return errors.Is(err, context.Canceled)
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}
