// Package validation provides the request-validation framework shared by
// every inbound request shape. A builder copies raw form values into optional
// fields, records every rule violation into a State, and only a fully valid
// State lets the builder produce a domain object.
package validation

import (
	"fmt"
	"sort"
	"strings"
)

// RejectionCode classifies why a field was rejected.
type RejectionCode string

const (
	// CodeMissingRequiredValue marks a field that must be present but was not supplied.
	CodeMissingRequiredValue RejectionCode = "missing_required_value"

	// CodeInvalidValue marks a field that was supplied but failed a rule.
	CodeInvalidValue RejectionCode = "invalid_value"

	// CodeAmbiguousValue marks a field that was supplied more than once where a
	// single value was expected.
	CodeAmbiguousValue RejectionCode = "ambiguous_value"
)

// Rejection is a single recorded rule violation for a field.
type Rejection struct {
	Code    RejectionCode
	Message string
}

func (r Rejection) String() string {
	return r.Message
}

// MissingRequiredValue builds the rejection for an absent required field.
func MissingRequiredValue(field string) Rejection {
	return Rejection{
		Code:    CodeMissingRequiredValue,
		Message: fmt.Sprintf("missing required value: %s", field),
	}
}

// InvalidValue builds the rejection for a field that failed a rule.
func InvalidValue(field string) Rejection {
	return Rejection{
		Code:    CodeInvalidValue,
		Message: fmt.Sprintf("invalid value: %s", field),
	}
}

// InvalidValuef builds an invalid-value rejection with a specific message.
func InvalidValuef(format string, args ...any) Rejection {
	return Rejection{
		Code:    CodeInvalidValue,
		Message: fmt.Sprintf(format, args...),
	}
}

// State accumulates every violation found during one validation pass. It is
// request-local: a builder resets it at the start of Validate and never
// mutates it afterwards. Valid starts true and latches false on the first
// Reject, but validation itself must not short-circuit - callers get the
// complete set of violations, not a first-failure report.
type State struct {
	Rejections map[string][]Rejection
	Valid      bool
}

// NewState returns an empty, valid State.
func NewState() *State {
	return &State{
		Rejections: make(map[string][]Rejection),
		Valid:      true,
	}
}

// Reject records a violation against a field and invalidates the state.
func (s *State) Reject(field string, rejection Rejection) {
	s.Rejections[field] = append(s.Rejections[field], rejection)
	s.Valid = false
}

// Fields returns the rejected field names in stable order.
func (s *State) Fields() []string {
	fields := make([]string, 0, len(s.Rejections))
	for field := range s.Rejections {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// Messages renders the rejections as field -> human-readable reasons,
// suitable for a wire-visible error body.
func (s *State) Messages() map[string][]string {
	messages := make(map[string][]string, len(s.Rejections))
	for field, rejections := range s.Rejections {
		for _, r := range rejections {
			messages[field] = append(messages[field], r.Message)
		}
	}
	return messages
}

func (s *State) String() string {
	if s.Valid {
		return "valid"
	}
	parts := make([]string, 0, len(s.Rejections))
	for _, field := range s.Fields() {
		reasons := make([]string, 0, len(s.Rejections[field]))
		for _, r := range s.Rejections[field] {
			reasons = append(reasons, r.Message)
		}
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(reasons, "; ")))
	}
	return strings.Join(parts, ", ")
}
