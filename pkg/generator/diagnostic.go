package generator

import (
	"errors"
	"fmt"
)

type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "ERROR"
	}
	return "WARNING"
}

// Diagnostic describes a problem found while generating code for one block.
// Emitters return it as an error; the walker records it and, unless disabled,
// puts its comment form into the output in place of the failed statement.
type Diagnostic struct {
	Severity  Severity
	BlockID   string
	BlockType string
	Message   string
}

func (d *Diagnostic) Error() string {
	if d.BlockType != "" {
		return fmt.Sprintf("%s: %s (%s)", d.Severity, d.Message, d.BlockType)
	}
	return fmt.Sprintf("%s: %s", d.Severity, d.Message)
}

// Comment renders the diagnostic as a single C comment line without the
// trailing newline, e.g. "// ERROR: Missing sound impact sensor initialize block!".
func (d *Diagnostic) Comment() string {
	return "// " + d.Severity.String() + ": " + d.Message
}

// Errorf returns an error-level diagnostic.
func Errorf(format string, args ...any) *Diagnostic {
	return &Diagnostic{Severity: SeverityError, Message: fmt.Sprintf(format, args...)}
}

// Warningf returns a warning-level diagnostic.
func Warningf(format string, args ...any) *Diagnostic {
	return &Diagnostic{Severity: SeverityWarning, Message: fmt.Sprintf(format, args...)}
}

// AsDiagnostic converts any emitter error into a Diagnostic.
func AsDiagnostic(err error) *Diagnostic {
	var d *Diagnostic
	if errors.As(err, &d) {
		return d
	}
	return &Diagnostic{Severity: SeverityError, Message: err.Error()}
}
