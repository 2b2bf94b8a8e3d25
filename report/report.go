// Copyright © 2024 The ELPS authors

// Package report defines the diagnostic records produced while linting and
// the catalog of messages they refer to.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Severity classifies a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// MarshalJSON encodes the severity as a lowercase string.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Diagnostic is a single message located in the source.  Line and Col are
// 1-based.
type Diagnostic struct {
	Code Code     `json:"code"`
	Line int      `json:"line"`
	Col  int      `json:"col"`
	Args []string `json:"args,omitempty"`
}

// Severity returns the severity implied by the diagnostic code.
func (d Diagnostic) Severity() Severity {
	return d.Code.Severity()
}

// Message returns the formatted message text.
func (d Diagnostic) Message() string {
	return d.Code.Format(d.Args...)
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s (%s)", d.Line, d.Col, d.Message(), d.Code)
}

// ErrTooMany is returned by Sink.Add once the sink has reached its ceiling.
var ErrTooMany = errors.New("too many diagnostics")

// Sink is an append-only diagnostic list with an optional ceiling.
type Sink struct {
	diags []Diagnostic
	max   int
}

// NewSink returns a sink which reports ErrTooMany once max diagnostics have
// been added.  A max of zero or less disables the ceiling.
func NewSink(max int) *Sink {
	return &Sink{max: max}
}

// SetMax changes the ceiling.
func (s *Sink) SetMax(max int) {
	s.max = max
}

// Add appends d.  The diagnostic is always recorded; ErrTooMany signals that
// the ceiling has been reached.
func (s *Sink) Add(d Diagnostic) error {
	s.diags = append(s.diags, d)
	if s.max > 0 && len(s.diags) >= s.max {
		return ErrTooMany
	}
	return nil
}

// Append records d without checking the ceiling.
func (s *Sink) Append(d Diagnostic) {
	s.diags = append(s.diags, d)
}

// Len returns the number of recorded diagnostics.
func (s *Sink) Len() int {
	return len(s.diags)
}

// Diagnostics returns the recorded diagnostics in emission order.
func (s *Sink) Diagnostics() []Diagnostic {
	return s.diags
}
