package core

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync"

	"go.uber.org/zap"
)

var (
	crashMu        sync.Mutex
	crashLogger    *zap.Logger
	crashFinalizer func()
)

// SetCrashLogger routes crash reports through logger in addition to stderr
func SetCrashLogger(logger *zap.Logger) {
	crashMu.Lock()
	defer crashMu.Unlock()
	crashLogger = logger
}

// SetCrashFinalizer registers cleanup that runs before the crash report, e.g. restoring the terminal
func SetCrashFinalizer(fn func()) {
	crashMu.Lock()
	defer crashMu.Unlock()
	crashFinalizer = fn
}

// HandleCrash is the unified panic handler that runs cleanup, reports the stack trace and exits
func HandleCrash(r any) {
	if r == nil {
		return
	}

	crashMu.Lock()
	finalize, logger := crashFinalizer, crashLogger
	crashMu.Unlock()

	// Restore terminal first so the report is readable
	if finalize != nil {
		finalize()
	}

	stack := debug.Stack()
	if logger != nil {
		logger.Error("crash detected", zap.Any("panic", r), zap.ByteString("stack", stack))
		_ = logger.Sync()
	}

	fmt.Fprintf(os.Stderr, "\r\n\x1b[31mCRASH DETECTED: %v\x1b[0m\r\n", r)
	fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", stack)
	os.Stderr.Sync()

	os.Exit(1)
}

// Go runs a function in a new goroutine with panic recovery
// Use this instead of the 'go' keyword so every crash goes through HandleCrash
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}
