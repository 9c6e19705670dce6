package errdefs

import (
	"errors"
	"fmt"
	"strings"
)

// Compiler failures.
var (
	ErrDefineSyntax        = errors.New("define syntax error")
	ErrDefineCycle         = errors.New("definition cycle")
	ErrParameterResolution = errors.New("parameter resolution error")
	ErrDuplicateDefinition = errors.New("already defined")
)

// Runtime failures.
var (
	ErrValidation         = errors.New("validation error")
	ErrAttributeNotFound  = errors.New("attribute not found")
	ErrStrictInterrupt    = errors.New("strict validation interrupted")
	ErrPrecondition       = errors.New("precondition failed")
	ErrDomainUnresolved   = fmt.Errorf("%w: class domain not resolved", ErrPrecondition)
	ErrReaderMissing      = fmt.Errorf("%w: no byte reader attached", ErrPrecondition)
	ErrFrozen             = errors.New("registry is frozen")
	ErrUnsupportedPattern = errors.New("unsupported path pattern")
)

// Registry misses. Each variant wraps ErrNotFound so callers can match
// either the specific registry or any miss.
var (
	ErrNotFound       = errors.New("not found")
	ErrStructNotFound = fmt.Errorf("struct %w", ErrNotFound)
	ErrDomainNotFound = fmt.Errorf("class domain %w", ErrNotFound)
	ErrKindNotFound   = fmt.Errorf("field kind %w", ErrNotFound)
	ErrLabelNotFound  = fmt.Errorf("label %w", ErrNotFound)
)

// DefineError reports a problem with one declaration.
type DefineError struct {
	Kind       error
	Definition string
	Field      string
	Msg        string
	// Suggestions are close matches for an unknown name.
	Suggestions []string
}

func (e *DefineError) Error() string {
	var sb strings.Builder

	sb.WriteString(e.Kind.Error())

	if e.Definition != "" {
		sb.WriteString(" in " + e.Definition)

		if e.Field != "" {
			sb.WriteString("." + e.Field)
		}
	}

	if e.Msg != "" {
		sb.WriteString(": " + e.Msg)
	}

	if len(e.Suggestions) > 0 {
		sb.WriteString(" (did you mean " + strings.Join(e.Suggestions, ", ") + "?)")
	}

	return sb.String()
}

func (e *DefineError) Unwrap() error { return e.Kind }

// Syntaxf builds a DefineError of kind ErrDefineSyntax.
func Syntaxf(def, field, format string, args ...any) *DefineError {
	return &DefineError{Kind: ErrDefineSyntax, Definition: def, Field: field, Msg: fmt.Sprintf(format, args...)}
}

// Duplicatef builds a DefineError of kind ErrDuplicateDefinition.
func Duplicatef(def, format string, args ...any) *DefineError {
	return &DefineError{Kind: ErrDuplicateDefinition, Definition: def, Msg: fmt.Sprintf(format, args...)}
}

// Paramf builds a DefineError of kind ErrParameterResolution.
func Paramf(def, param, format string, args ...any) *DefineError {
	return &DefineError{Kind: ErrParameterResolution, Definition: def, Field: param, Msg: fmt.Sprintf(format, args...)}
}

// CycleError reports a cycle in the struct reference graph.
type CycleError struct {
	// Path lists the struct names along one cycle; the first name is repeated at the end.
	Path []string
}

func (e *CycleError) Error() string {
	if len(e.Path) == 0 {
		return ErrDefineCycle.Error()
	}

	return ErrDefineCycle.Error() + ": " + strings.Join(e.Path, " -> ")
}

func (e *CycleError) Unwrap() error { return ErrDefineCycle }

// NotFoundError reports a registry miss.
type NotFoundError struct {
	Kind        error
	Name        string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("%s: %q", e.Kind.Error(), e.Name)
	if len(e.Suggestions) > 0 {
		msg += " (did you mean " + strings.Join(e.Suggestions, ", ") + "?)"
	}

	return msg
}

func (e *NotFoundError) Unwrap() error { return e.Kind }

// NotFound builds a NotFoundError.
func NotFound(kind error, name string, suggestions ...string) *NotFoundError {
	return &NotFoundError{Kind: kind, Name: name, Suggestions: suggestions}
}

// ValidationError is raised when a value fails its field's structural check.
type ValidationError struct {
	// Path is the canonical path of the failing field.
	Path string
	// Kind is the field kind name.
	Kind string
	Msg  string
	// Err is an optional cause (a precondition or registry miss).
	Err error
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s: %s (%s)", ErrValidation.Error(), e.Path, e.Kind)
	if e.Msg != "" {
		msg += ": " + e.Msg
	}

	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

// Is matches ErrValidation.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func (e *ValidationError) Unwrap() error { return e.Err }

// Invalidf builds a ValidationError.
func Invalidf(path, kind, format string, args ...any) *ValidationError {
	return &ValidationError{Path: path, Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// MissingFieldWarning reports a required member absent from a sample.
// It is non-fatal outside strict mode.
type MissingFieldWarning struct {
	Struct string
	Path   string
	Field  string
	// IsStruct is true when the missing member is a nested struct.
	IsStruct bool
}

func (w MissingFieldWarning) String() string {
	what := "field"
	if w.IsStruct {
		what = "struct"
	}

	return fmt.Sprintf("required %s %q of %s missing at %s", what, w.Field, w.Struct, w.Path)
}

// OffenseKind classifies one strict-mode offense.
type OffenseKind int

const (
	OffenseMissingField OffenseKind = iota
	OffenseMissingStruct
	OffenseExtraKey
)

// Offense is a single strict-mode problem.
type Offense struct {
	Kind OffenseKind
	Path string
	Name string
}

func (o Offense) String() string {
	switch o.Kind {
	case OffenseMissingStruct:
		return fmt.Sprintf("missing required struct %q at %s", o.Name, o.Path)
	case OffenseExtraKey:
		return fmt.Sprintf("unexpected key %q at %s", o.Name, o.Path)
	default:
		return fmt.Sprintf("missing required field %q at %s", o.Name, o.Path)
	}
}

// StrictInterruptError lists every offense found while validating in strict mode.
type StrictInterruptError struct {
	Struct   string
	Offenses []Offense
}

func (e *StrictInterruptError) Error() string {
	parts := make([]string, 0, len(e.Offenses))
	for _, o := range e.Offenses {
		parts = append(parts, o.String())
	}

	return fmt.Sprintf("%s: %s: %s", ErrStrictInterrupt.Error(), e.Struct, strings.Join(parts, "; "))
}

func (e *StrictInterruptError) Unwrap() error { return ErrStrictInterrupt }

// Names returns the offending member names, in order.
func (e *StrictInterruptError) Names() []string {
	names := make([]string, 0, len(e.Offenses))
	for _, o := range e.Offenses {
		names = append(names, o.Name)
	}

	return names
}
