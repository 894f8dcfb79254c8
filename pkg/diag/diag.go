// Package diag carries positioned compile-time diagnostics.
//
// A Diagnostic is pure data: producing one never aborts compilation. The
// location type is a parameter so that early stages can anchor reports to raw
// source ranges while later stages anchor them to lowered expression ids.
package diag

import "fmt"

// Diagnostic is a single compile-time report with a primary location of type L
// and zero or more secondary labels.
type Diagnostic[L any] struct {
	Message  string
	Location L
	Labels   []Label[L]
}

// Label is a secondary location attached to a diagnostic, e.g. "value defined here".
type Label[L any] struct {
	Message  string
	Location L
}

// New builds a diagnostic from a printf-style message.
func New[L any](location L, format string, args ...any) Diagnostic[L] {
	return Diagnostic[L]{Message: fmt.Sprintf(format, args...), Location: location}
}

// WithLabel returns a copy of d carrying one more secondary label.
func (d Diagnostic[L]) WithLabel(location L, format string, args ...any) Diagnostic[L] {
	labels := make([]Label[L], 0, len(d.Labels)+1)
	labels = append(labels, d.Labels...)
	labels = append(labels, Label[L]{Message: fmt.Sprintf(format, args...), Location: location})
	d.Labels = labels
	return d
}

// Map converts a diagnostic from one location type to another, translating the
// primary location and every label through resolve.
func Map[A, B any](d Diagnostic[A], resolve func(A) B) Diagnostic[B] {
	out := Diagnostic[B]{Message: d.Message, Location: resolve(d.Location)}
	for _, l := range d.Labels {
		out.Labels = append(out.Labels, Label[B]{Message: l.Message, Location: resolve(l.Location)})
	}
	return out
}

// Sink accumulates diagnostics in the order they are reported.
// Each sink is owned by exactly one compilation call; it is not synchronized.
type Sink[L any] struct {
	list []Diagnostic[L]
}

// Report appends an already-built diagnostic.
func (s *Sink[L]) Report(d Diagnostic[L]) {
	s.list = append(s.list, d)
}

// Emit builds a diagnostic from a printf-style message and appends it.
func (s *Sink[L]) Emit(location L, format string, args ...any) {
	s.Report(New(location, format, args...))
}

// List returns the accumulated diagnostics in report order.
func (s *Sink[L]) List() []Diagnostic[L] {
	return s.list
}

// Len returns the number of accumulated diagnostics.
func (s *Sink[L]) Len() int {
	return len(s.list)
}
