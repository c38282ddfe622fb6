package generate

import (
	"fmt"

	"github.com/Kesaramb/infographedia/core/dna"
)

// Stage classifies where a generation failed. Callers map StageAPI to an
// upstream/server error and the rest to client-correctable errors.
type Stage string

const (
	// StageAPI: the model-calling transport failed (network, auth, quota).
	// Fatal, never retried here; retry policy belongs to the caller.
	StageAPI Stage = "api"

	// StageParse: model output was empty or contained no usable JSON.
	StageParse Stage = "parse"

	// StageValidation: JSON was well-formed but violated the schema.
	StageValidation Stage = "validation"

	// StageToolLoop: the model exceeded the tool-calling round budget.
	// Signals a prompt-design problem, not a transient fault.
	StageToolLoop Stage = "tool_loop"
)

// Result is a successful generation: the validated document plus the search
// queries performed, for caller transparency.
type Result struct {
	DNA           *dna.DNA `json:"dna"`
	SearchQueries []string `json:"searchQueries"`
}

// Error is the only error type Generate returns. No transport error or
// panic crosses the orchestrator boundary untyped.
type Error struct {
	Stage   Stage
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("generate (%s): %s", e.Stage, e.Message)
}

func stageError(stage Stage, format string, args ...any) *Error {
	return &Error{Stage: stage, Message: fmt.Sprintf(format, args...)}
}
