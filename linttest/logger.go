// Copyright © 2018 The ELPS authors

package linttest

import (
	"bytes"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
)

// Logger is an io.Writer which forwards complete lines to a test log.
type Logger struct {
	t   testing.TB
	buf []byte
}

var _ io.Writer = (*Logger)(nil)

// NewWriter returns a Logger writing to t.
func NewWriter(t testing.TB) *Logger {
	return &Logger{
		t: t,
	}
}

// NewLogger returns a debug level logrus logger whose output goes to t.Log.
// Buffered partial lines are flushed when the test ends.
func NewLogger(t testing.TB) *logrus.Logger {
	w := NewWriter(t)
	t.Cleanup(w.Flush)
	lg := logrus.New()
	lg.SetOutput(w)
	lg.SetLevel(logrus.DebugLevel)
	lg.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true})
	return lg
}

func (log *Logger) Write(b []byte) (int, error) {
	log.buf = append(log.buf, b...)
	for {
		i := bytes.Index(log.buf, []byte("\n"))
		if i < 0 {
			return len(b), nil
		}
		log.t.Log(string(log.buf[:i])) // slice does not include \n
		log.buf = log.buf[i+1:]
	}
}

// Flush logs any buffered partial line.
func (log *Logger) Flush() {
	if len(log.buf) == 0 {
		return
	}
	log.t.Log(string(log.buf))
	log.buf = nil
}
