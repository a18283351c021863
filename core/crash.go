package core

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync/atomic"
)

// crashCleanup restores the terminal before a crash report is printed
var crashCleanup atomic.Pointer[func()]

// Swapped by tests
var (
	crashOut  io.Writer = os.Stderr
	crashExit           = os.Exit
)

// SetCrashCleanup registers the function run before a crash report, nil clears it
func SetCrashCleanup(fn func()) {
	if fn == nil {
		crashCleanup.Store(nil)
		return
	}
	crashCleanup.Store(&fn)
}

// HandleCrash restores the terminal, prints the panic with its stack and exits
func HandleCrash(r any) {
	if r == nil {
		return
	}
	if fn := crashCleanup.Swap(nil); fn != nil {
		(*fn)()
	}

	fmt.Fprintf(crashOut, "\r\n\x1b[31mCRASH DETECTED: %v\x1b[0m\r\n", r)
	fmt.Fprintf(crashOut, "Stack Trace:\r\n%s\r\n", debug.Stack())

	crashExit(1)
}

// Go runs fn in a new goroutine with panic recovery.
// Use this instead of the 'go' keyword while a terminal screen is active
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

// Guard wraps an errgroup worker with the same recovery as Go
func Guard(fn func() error) func() error {
	return func() error {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		return fn()
	}
}
