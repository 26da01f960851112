package utils

import (
	"fmt"
	"io"
)

// Logger traces decoding. Nil *Logger, or one without writer, discards everything.
type Logger struct {
	io.Writer
}

func NewLogger(w io.Writer) *Logger {
	return &Logger{Writer: w}
}

// Enabled reports if output goes anywhere, use it to skip costly formatting
func (l *Logger) Enabled() bool {
	return l != nil && l.Writer != nil
}

func (l *Logger) Printf(format string, a ...interface{}) {
	if l.Enabled() {
		fmt.Fprintf(l, format+"\n", a...)
	}
}
