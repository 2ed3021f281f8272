// Package errors provides structured error types for the Quest runtime.
//
// This package defines QuestError, the error value every runtime operation
// returns when something goes wrong, with a class for programmatic handling
// and a catalog of message templates for consistent wording.
package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
	"text/template"
)

// ErrorClass categorizes errors for filtering and templating.
type ErrorClass string

const (
	ClassInternal ErrorClass = "internal" // Invariant violations
	ClassMessaged ErrorClass = "messaged" // Ad hoc messages
	ClassKey      ErrorClass = "key"      // Missing attributes, bad indices
	ClassArity    ErrorClass = "arity"    // Wrong argument count
	ClassType     ErrorClass = "type"     // Wrong runtime type
	ClassValue    ErrorClass = "value"    // Right type, invalid value
	ClassBoxed    ErrorClass = "boxed"    // Wrapped external error
)

// QuestError represents any ordinary (non-jump) runtime error.
type QuestError struct {
	Class   ErrorClass     `json:"class"`
	Code    string         `json:"code,omitempty"`
	Message string         `json:"message"`
	Hints   []string       `json:"hints,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
	Err     error          `json:"-"` // boxed cause
}

// Error implements the error interface.
func (e *QuestError) Error() string {
	return e.String()
}

// Unwrap exposes the boxed cause, if any.
func (e *QuestError) Unwrap() error {
	return e.Err
}

// Is matches another *QuestError by class, so callers can write
// errors.Is(err, &QuestError{Class: ClassKey}). Arity errors are missing or
// surplus arguments and also match ClassKey.
func (e *QuestError) Is(target error) bool {
	t, ok := target.(*QuestError)
	if !ok {
		return false
	}
	if t.Code != "" && t.Code != e.Code {
		return false
	}
	return t.Class == "" || t.Class == e.Class || (t.Class == ClassKey && e.Class == ClassArity)
}

// String returns a formatted string representation of the error.
func (e *QuestError) String() string {
	var sb strings.Builder

	sb.WriteString(e.Message)
	if e.Err != nil && e.Class == ClassBoxed {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}

	for _, hint := range e.Hints {
		sb.WriteString("\n  ")
		sb.WriteString(hint)
	}

	return sb.String()
}

// PrettyString returns a multi-line formatted string for display.
func (e *QuestError) PrettyString() string {
	var sb strings.Builder

	switch e.Class {
	case ClassInternal:
		sb.WriteString("Internal error")
	case ClassKey:
		sb.WriteString("Key error")
	case ClassType:
		sb.WriteString("Type error")
	case ClassValue:
		sb.WriteString("Value error")
	case ClassArity:
		sb.WriteString("Argument error")
	default:
		sb.WriteString("Runtime error")
	}
	if e.Code != "" {
		sb.WriteString(" [")
		sb.WriteString(e.Code)
		sb.WriteString("]")
	}
	sb.WriteString(":\n  ")
	sb.WriteString(e.Message)
	if e.Err != nil {
		sb.WriteString("\n  caused by: ")
		sb.WriteString(e.Err.Error())
	}

	for i, hint := range e.Hints {
		sb.WriteString("\n  ")
		if i == 0 {
			sb.WriteString("Hint: ")
		} else {
			sb.WriteString("  or: ")
		}
		sb.WriteString(hint)
	}

	return sb.String()
}

// ToJSON returns the error as JSON bytes.
func (e *QuestError) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// WithHint returns a copy of the error with an extra hint appended.
func (e *QuestError) WithHint(hint string) *QuestError {
	copy := *e
	copy.Hints = append(append([]string(nil), e.Hints...), hint)
	return &copy
}

// ErrorDef defines an error in the catalog.
type ErrorDef struct {
	Class    ErrorClass // Error category
	Template string     // Message template with {{.placeholders}}
	Hints    []string   // Hint templates (may use {{.placeholders}})
}

// ErrorCatalog maps error codes to their definitions.
var ErrorCatalog = map[string]ErrorDef{
	// ========================================
	// Internal errors (INTERNAL-0xxx)
	// ========================================
	"INTERNAL-0001": {
		Class:    ClassInternal,
		Template: "internal error: {{.Detail}}",
	},
	"INTERNAL-0002": {
		Class:    ClassInternal,
		Template: "return targets a binding that has already exited",
	},
	"INTERNAL-0003": {
		Class:    ClassInternal,
		Template: "yield is not supported",
	},

	// ========================================
	// Key errors (KEY-0xxx)
	// ========================================
	"KEY-0001": {
		Class:    ClassKey,
		Template: "attribute {{.Key}} does not exist for {{.Object}}",
		// Hint "Did you mean `X`?" added dynamically by fuzzy matching
	},
	"KEY-0002": {
		Class:    ClassKey,
		Template: "index {{.Index}} out of bounds (length {{.Len}})",
	},
	"KEY-0003": {
		Class:    ClassKey,
		Template: "missing argument {{.Position}}",
	},
	"KEY-0004": {
		Class:    ClassKey,
		Template: "bad slice {{.Start}}..{{.Stop}} (length {{.Len}})",
	},
	"KEY-0005": {
		Class:    ClassKey,
		Template: "no binding {{.Depth}} frames up (stack depth {{.Len}})",
	},

	// ========================================
	// Arity errors (ARITY-0xxx)
	// ========================================
	"ARITY-0001": {
		Class:    ClassArity,
		Template: "wrong number of arguments to `{{.Function}}`. got={{.Got}}, want={{.Want}}",
	},
	"ARITY-0002": {
		Class:    ClassArity,
		Template: "wrong number of arguments to `{{.Function}}`. got={{.Got}}, want={{.Min}}-{{.Max}}",
	},
	"ARITY-0003": {
		Class:    ClassArity,
		Template: "wrong number of arguments to `{{.Function}}`. got={{.Got}}, want at least {{.Min}}",
	},

	// ========================================
	// Type errors (TYPE-0xxx)
	// ========================================
	"TYPE-0001": {
		Class:    ClassType,
		Template: "{{.Function}} expected {{.Expected}}, got {{.Got}}",
	},
	"TYPE-0002": {
		Class:    ClassType,
		Template: "cannot call {{.Got}} as a function",
		Hints:    []string{"define a `()` attribute to make it callable"},
	},
	"TYPE-0003": {
		Class:    ClassType,
		Template: "{{.Function}} must return {{.Expected}}, got {{.Got}}",
	},

	// ========================================
	// Value errors (VALUE-0xxx)
	// ========================================
	"VALUE-0001": {
		Class:    ClassValue,
		Template: "{{.Function}}: invalid value {{.Value}}",
	},
	"VALUE-0002": {
		Class:    ClassValue,
		Template: "division by zero",
	},
	"VALUE-0003": {
		Class:    ClassValue,
		Template: "stack depth exceeded (limit {{.Limit}})",
		Hints:    []string{"check for unbounded recursion", "raise runtime.max_stack_depth in the config"},
	},
	"VALUE-0004": {
		Class:    ClassValue,
		Template: "parent chain of {{.Object}} is deeper than {{.Limit}}, possible cycle",
	},
	"VALUE-0005": {
		Class:    ClassValue,
		Template: "cannot convert {{.Value}} to {{.Target}}",
	},
	"VALUE-0006": {
		Class:    ClassValue,
		Template: "assertion failed{{if .Message}}: {{.Message}}{{end}}",
	},

	// ========================================
	// Boxed errors (BOXED-0xxx)
	// ========================================
	"BOXED-0001": {
		Class:    ClassBoxed,
		Template: "{{.Operation}} failed",
	},
}

// New creates a QuestError from the catalog.
// If the code is not found, creates a generic error with the message.
func New(code string, data map[string]any) *QuestError {
	def, ok := ErrorCatalog[code]
	if !ok {
		msg := code
		if data != nil {
			if m, ok := data["message"].(string); ok {
				msg = m
			}
		}
		return &QuestError{
			Class:   ClassMessaged,
			Code:    code,
			Message: msg,
			Data:    data,
		}
	}

	msg := renderTemplate(def.Template, data)

	var hints []string
	for _, hintTmpl := range def.Hints {
		rendered := renderTemplate(hintTmpl, data)
		if rendered != "" {
			hints = append(hints, rendered)
		}
	}

	return &QuestError{
		Class:   def.Class,
		Code:    code,
		Message: msg,
		Hints:   hints,
		Data:    data,
	}
}

// NewSimple creates a simple error without using the catalog.
func NewSimple(class ErrorClass, message string) *QuestError {
	return &QuestError{
		Class:   class,
		Message: message,
	}
}

// Messaged creates an ad hoc error, formatted like fmt.Sprintf.
func Messaged(format string, a ...any) *QuestError {
	return NewSimple(ClassMessaged, fmt.Sprintf(format, a...))
}

// Box wraps an external error.
func Box(operation string, err error) *QuestError {
	qe := New("BOXED-0001", map[string]any{"Operation": operation})
	qe.Err = err
	return qe
}

// Internal creates an invariant-violation error.
func Internal(detail string) *QuestError {
	return New("INTERNAL-0001", map[string]any{"Detail": detail})
}

// renderTemplate renders a Go template with the given data.
func renderTemplate(tmplStr string, data map[string]any) string {
	if data == nil {
		return tmplStr
	}

	tmpl, err := template.New("").Parse(tmplStr)
	if err != nil {
		return tmplStr
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return tmplStr
	}

	return buf.String()
}

// ClassOf returns the class of err when it is (or wraps) a *QuestError, or "".
func ClassOf(err error) ErrorClass {
	var qe *QuestError
	if !stderrors.As(err, &qe) {
		return ""
	}
	return qe.Class
}

// ============================================================================
// Fuzzy Matching - "Did you mean?" suggestions
// ============================================================================

// levenshteinDistance computes the edit distance between two strings.
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			cur[j] = min(
				prev[j]+1,      // deletion
				cur[j-1]+1,     // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, cur = cur, prev
	}

	return prev[len(b)]
}

// threshold returns the maximum edit distance worth suggesting for input.
// Short words (1-3): 1 edit, medium (4-6): 2, longer: 3.
func threshold(input string) int {
	switch {
	case len(input) >= 7:
		return 3
	case len(input) >= 4:
		return 2
	default:
		return 1
	}
}

// FuzzyMatch represents a fuzzy match result with its distance.
type FuzzyMatch struct {
	Value    string
	Distance int
}

// FindClosestMatch finds the closest match to the given string from candidates.
// Returns "" when nothing is close enough, or when input matches exactly.
func FindClosestMatch(input string, candidates []string) string {
	matches := FindTopMatches(input, candidates, 1)
	if len(matches) == 0 {
		return ""
	}
	return matches[0]
}

// FindTopMatches returns the top N closest matches to the input.
func FindTopMatches(input string, candidates []string, n int) []string {
	if len(input) == 0 || len(candidates) == 0 || n <= 0 {
		return nil
	}

	inputLower := strings.ToLower(input)

	var matches []FuzzyMatch
	for _, candidate := range candidates {
		dist := levenshteinDistance(inputLower, strings.ToLower(candidate))
		if dist > 0 {
			matches = append(matches, FuzzyMatch{Value: candidate, Distance: dist})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})

	limit := threshold(input)
	var result []string
	for i := 0; i < len(matches) && len(result) < n; i++ {
		if matches[i].Distance <= limit {
			result = append(result, matches[i].Value)
		}
	}

	return result
}

// NewMissingAttribute creates a KeyError for an attribute that is absent from
// an object and its whole parent chain, with a fuzzy "did you mean" hint.
func NewMissingAttribute(key, object string, available []string) *QuestError {
	err := New("KEY-0001", map[string]any{
		"Key":    key,
		"Object": object,
	})

	if suggestion := FindClosestMatch(key, available); suggestion != "" {
		err.Hints = append(err.Hints, "Did you mean `"+suggestion+"`?")
	}

	return err
}

// NewTypeError creates a TypeError recording expected and actual type names.
func NewTypeError(function, expected, got string) *QuestError {
	return New("TYPE-0001", map[string]any{
		"Function": function,
		"Expected": expected,
		"Got":      got,
	})
}
