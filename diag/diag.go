// ==============================================================================================
// FILE: diag/diag.go
// ==============================================================================================
// PACKAGE: diag
// PURPOSE: The error taxonomy of §7: diagnostics tagged with a location,
//          a category, and a severity, collected in discovery order. A
//          Bag is the explicit result-carrying alternative to exceptions
//          that §9's design notes call for — panic-mode recovery reports
//          through a Bag and keeps going, it never unwinds past it.
// ==============================================================================================

package diag

import (
	"fmt"

	"go.uber.org/zap"

	"sigmafox/source"
)

// Category partitions diagnostics into the four families §7 names.
type Category int

const (
	Lexical Category = iota
	Syntactic
	Declaration
	Internal
)

func (c Category) String() string {
	switch c {
	case Lexical:
		return "lexical"
	case Syntactic:
		return "syntactic"
	case Declaration:
		return "declaration"
	default:
		return "internal"
	}
}

// Severity distinguishes warnings (shadowing) from hard errors.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// Code names a specific diagnostic within its Category, for tests and
// consumers that want to branch on more than the free-text Message.
type Code string

const (
	CodeUnterminatedStringEOL Code = "UNTERMINATED_STRING_EOL"
	CodeUnterminatedStringEOF Code = "UNTERMINATED_STRING_EOF"
	CodeUnterminatedComment   Code = "UNTERMINATED_COMMENT"
	CodeUndefinedCharacter    Code = "UNDEFINED_CHARACTER"

	CodeUnexpectedToken    Code = "UNEXPECTED_TOKEN"
	CodeMissingSemicolon   Code = "MISSING_SEMICOLON"
	CodeMissingTerminator  Code = "MISSING_TERMINATOR"
	CodeMissingIdentifier  Code = "MISSING_IDENTIFIER"
	CodeMissingRParen      Code = "MISSING_RPAREN"

	CodeRedeclaration        Code = "REDECLARATION"
	CodeShadowing            Code = "SHADOWING"
	CodeUndeclaredIdentifier Code = "UNDECLARED_IDENTIFIER"
	CodeUndefinedIdentifier  Code = "UNDEFINED_IDENTIFIER_USE"
	CodeWrongKind            Code = "WRONG_KIND"
	CodeNoReturnValue        Code = "NO_RETURN_VALUE"
	CodeArityMismatch        Code = "ARITY_MISMATCH"
	CodeCyclicalDependency   Code = "CYCLICAL_DEPENDENCY"
	CodeIncludeFailedToParse Code = "INCLUDE_FAILED_TO_PARSE"
	CodeIncludeScopeImbalance Code = "INCLUDE_SCOPE_IMBALANCE"
	CodeTypeMismatch         Code = "TYPE_MISMATCH"

	CodeInvariantViolation Code = "INVARIANT_VIOLATION"
)

// Diagnostic is one reported issue: a location, a taxonomy slot, a
// human-readable message, and the offending lexeme when one exists. Exact
// textual formatting is unspecified by §7; tests assert these fields.
type Diagnostic struct {
	Category Category
	Severity Severity
	Code     Code
	Location source.Location
	Message  string
	Lexeme   string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s[%s]: %s (%q)",
		d.Location.File, d.Location.Row, d.Location.Column,
		d.Category, d.Code, d.Message, d.Lexeme)
}

// Bag collects diagnostics in discovery order and tracks the error count
// that gates code generation (§7: "a non-zero error count ... causes the
// parser to report overall failure").
type Bag struct {
	items            []Diagnostic
	warningsAsErrors bool
	log              *zap.SugaredLogger
}

// NewBag creates an empty Bag. log may be nil; a no-op logger is used in
// that case so callers that don't care about tracing never nil-check it.
func NewBag(warningsAsErrors bool, log *zap.SugaredLogger) *Bag {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Bag{warningsAsErrors: warningsAsErrors, log: log}
}

// Report records d in discovery order and emits a debug trace line. The
// diagnostic itself — not the log line — is what consumers act on.
func (b *Bag) Report(d Diagnostic) {
	b.items = append(b.items, d)
	b.log.Debugw("diagnostic", "category", d.Category.String(), "code", string(d.Code),
		"file", string(d.Location.File), "row", d.Location.Row, "col", d.Location.Column)
}

// All returns every reported diagnostic in discovery order.
func (b *Bag) All() []Diagnostic { return b.items }

// ErrorCount is the count that gates downstream code generation: every
// SeverityError diagnostic, plus every SeverityWarning one when
// warnings-as-errors is enabled (§6, §7).
func (b *Bag) ErrorCount() int {
	n := 0
	for _, d := range b.items {
		if d.Severity == SeverityError || (d.Severity == SeverityWarning && b.warningsAsErrors) {
			n++
		}
	}
	return n
}
