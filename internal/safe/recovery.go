// Package safe contains the panic-containment helpers every goroutine and
// tick in the orchestrator wraps itself with.
package safe

import (
	"fmt"
	"log"
	"runtime/debug"
)

// RecoverAndLog recovers a panic in the current goroutine, logging it with
// the given label and a stack trace. Call via defer at the top of any
// goroutine or tick that must not take the whole process down with it.
func RecoverAndLog(label string) {
	if r := recover(); r != nil {
		log.Printf("❌ [%s] recovered panic: %v\n%s", label, r, debug.Stack())
	}
}

// Go runs fn in a new goroutine with RecoverAndLog wired in.
func Go(label string, fn func()) {
	go func() {
		defer RecoverAndLog(label)
		fn()
	}()
}

// Run executes fn and converts any panic into an error instead of crashing
// the calling goroutine. Used for per-symbol tick processing where a panic
// in one symbol must not abort the rest of the scan.
func Run(label string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ [%s] recovered panic: %v\n%s", label, r, debug.Stack())
			err = fmt.Errorf("%s: panic: %v", label, r)
		}
	}()
	return fn()
}
