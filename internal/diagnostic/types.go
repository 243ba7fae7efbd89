package diagnostic

import (
	"errors"
	"fmt"
	"strings"

	"apitier-generator/internal/common"
)

// Diagnostics holds all diagnostic information from one generation run.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity DiagnosticSeverity
	// Code is a unique identifier for this type of diagnostic.
	Code string
	// Message is the human-readable description.
	Message string
	// Symbol is the registry symbol this relates to (if any).
	Symbol string
	// Source is the declaration site, "file:line" (if known).
	Source string
	// Err is the typed error behind an error diagnostic.
	Err error
}

// DiagnosticSeverity represents the severity level of a diagnostic.
type DiagnosticSeverity int

const (
	DiagnosticInfo DiagnosticSeverity = iota
	DiagnosticWarning
	DiagnosticError
)

// String returns a human-readable severity name.
func (s DiagnosticSeverity) String() string {
	switch s {
	case DiagnosticInfo:
		return "info"
	case DiagnosticWarning:
		return "warning"
	case DiagnosticError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// AddError adds an error diagnostic wrapping err.
func (d *Diagnostics) AddError(code string, err error, symbol, source string) {
	d.Errors = append(d.Errors, Diagnostic{
		Severity: DiagnosticError,
		Code:     code,
		Message:  err.Error(),
		Symbol:   symbol,
		Source:   source,
		Err:      err,
	})
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message, symbol, source string) {
	d.Warnings = append(d.Warnings, Diagnostic{
		Severity: DiagnosticWarning,
		Code:     code,
		Message:  message,
		Symbol:   symbol,
		Source:   source,
	})
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code, message, symbol, source string) {
	d.Infos = append(d.Infos, Diagnostic{
		Severity: DiagnosticInfo,
		Code:     code,
		Message:  message,
		Symbol:   symbol,
		Source:   source,
	})
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other *Diagnostics) {
	if other == nil {
		return
	}

	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// IsValid returns true if there are no errors.
func (d *Diagnostics) IsValid() bool {
	return len(d.Errors) == 0
}

// Err returns all error diagnostics joined into one error, or nil if valid.
// The typed errors stay reachable through errors.As and errors.Is.
func (d *Diagnostics) Err() error {
	if d.IsValid() {
		return nil
	}

	errs := make([]error, 0, len(d.Errors))
	for _, e := range d.Errors {
		errs = append(errs, &located{diag: e})
	}

	return errors.Join(errs...)
}

// located decorates a diagnostic's error with its declaration site.
type located struct {
	diag Diagnostic
}

func (l *located) Error() string { return l.diag.String() }

func (l *located) Unwrap() error { return l.diag.Err }

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if d.Source != "" {
		return d.Source + ": " + msg
	}

	return msg
}

// Summary renders every diagnostic, errors first, one per line.
func (d *Diagnostics) Summary() string {
	var b strings.Builder

	for _, group := range [][]Diagnostic{d.Errors, d.Warnings, d.Infos} {
		for _, diag := range group {
			b.WriteString(diag.Severity.String())
			b.WriteString(": ")
			b.WriteString(diag.String())
			b.WriteByte('\n')
		}
	}

	return b.String()
}
