package main

import (
	"fmt"
	"os"
)

// stderrLogger writes leveled lines to stderr, the concrete
// counterpart to the original tool's `err << SELF << ": ..."`
// convention (main.cpp) behind engine.Logger.
type stderrLogger struct{}

func (l *stderrLogger) Debugf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "tupla: debug: "+format+"\n", args...)
}

func (l *stderrLogger) Infof(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "tupla: "+format+"\n", args...)
}

func (l *stderrLogger) Errorf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "tupla: error: "+format+"\n", args...)
}
