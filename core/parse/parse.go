// Package parse recovers a DNA document from free-form model output and, on
// failure, builds the corrective follow-up message the repair round sends.
package parse

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Kesaramb/infographedia/core/dna"
)

// ErrorKind classifies why a response could not be turned into a document.
type ErrorKind string

const (
	// KindInvalidJSON means no parseable JSON was found in the output.
	KindInvalidJSON ErrorKind = "invalid_json"

	// KindSchema means the JSON parsed but violated the DNA schema.
	KindSchema ErrorKind = "schema"
)

// Error describes a failed parse attempt with enough detail for the model
// to self-correct.
type Error struct {
	Kind       ErrorKind
	Message    string
	RawText    string
	Violations []dna.Violation
}

func (e *Error) Error() string {
	return e.Message
}

const invalidJSONMessage = "Invalid JSON: Could not parse the response as JSON. " +
	"Make sure to output ONLY valid JSON with no markdown or explanation."

// Model output wraps JSON in ``` or ```json fences often enough that fenced
// extraction goes first.
var fencePattern = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\n?```")

// ExtractCandidateJSON recovers a JSON object from model output that may be
// raw JSON, fenced in a code block, or embedded in surrounding prose. Tiers,
// in priority order: fenced block, leading brace, first balanced {...} span.
// As a last resort the original text is returned unchanged so the JSON
// parser fails with a clear error instead of this extractor silently
// succeeding on garbage.
func ExtractCandidateJSON(text string) string {
	if m := fencePattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}

	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "{") {
		return trimmed
	}

	if span := braceSpan(text); span != "" {
		return span
	}

	return text
}

// braceSpan returns the first balanced {...} span in text, or "" when none
// closes. String literals are skipped so braces inside JSON strings do not
// unbalance the count.
func braceSpan(text string) string {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}

// Parse extracts, JSON-parses, and schema-validates model output. On
// success the returned document satisfies every DNA constraint.
func Parse(text string) (*dna.DNA, *Error) {
	candidate := ExtractCandidateJSON(text)

	var doc dna.DNA
	if err := json.Unmarshal([]byte(candidate), &doc); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			// Well-formed JSON with a mistyped field is a schema problem,
			// not a parse problem.
			v := dna.Violation{
				Path:   typeErr.Field,
				Reason: fmt.Sprintf("must be of type %s", typeErr.Type),
			}
			return nil, &Error{
				Kind:       KindSchema,
				Message:    formatViolations([]dna.Violation{v}),
				RawText:    text,
				Violations: []dna.Violation{v},
			}
		}
		return nil, &Error{
			Kind:    KindInvalidJSON,
			Message: invalidJSONMessage,
			RawText: text,
		}
	}

	if violations := dna.Validate(&doc); len(violations) > 0 {
		return nil, &Error{
			Kind:       KindSchema,
			Message:    formatViolations(violations),
			RawText:    text,
			Violations: violations,
		}
	}

	return &doc, nil
}

func formatViolations(violations []dna.Violation) string {
	var b strings.Builder
	b.WriteString("Schema validation failed:\n")
	for _, v := range violations {
		fmt.Fprintf(&b, "  - %s\n", v)
	}
	b.WriteString("\nFix these issues and regenerate the JSON.")
	return b.String()
}

// correctionPreviewLimit bounds how much of the offending output is quoted
// back to the model.
const correctionPreviewLimit = 1000

// BuildCorrectionPrompt produces the follow-up user message for the single
// repair attempt: the full error list plus the head of the bad output.
func BuildCorrectionPrompt(perr *Error) string {
	preview := perr.RawText
	if len(preview) > correctionPreviewLimit {
		preview = preview[:correctionPreviewLimit]
	}

	return fmt.Sprintf(`Your previous output was invalid:

%s

Previous output (first %d chars):
%s

Please fix the issues and output ONLY valid JSON matching the DNA schema. No markdown, no explanation.`,
		perr.Message, correctionPreviewLimit, preview)
}
