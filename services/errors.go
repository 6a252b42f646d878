package services

import (
	"fmt"
	"strings"

	"github.com/CCMKTGGP/brand-visibility-tracker/models"
)

// MalformedResponseError means no repair strategy produced a parseable JSON
// value from the model's text. It carries a bounded preview of the input so
// logs stay readable.
type MalformedResponseError struct {
	Err     error
	Preview string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed model response: %v (preview: %q)", e.Err, e.Preview)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// InvalidJudgmentError means the response parsed as JSON but failed
// structural validation. Fields lists exactly what was absent or mistyped.
type InvalidJudgmentError struct {
	Fields []string
}

func (e *InvalidJudgmentError) Error() string {
	return "invalid judgment: missing or invalid fields: " + strings.Join(e.Fields, ", ")
}

// UpstreamCallError wraps a provider/network failure. Opaque to the pipeline
// beyond which model was being called.
type UpstreamCallError struct {
	Model string
	Err   error
}

func (e *UpstreamCallError) Error() string {
	return fmt.Sprintf("upstream call to %s failed: %v", e.Model, e.Err)
}

func (e *UpstreamCallError) Unwrap() error {
	return e.Err
}

// NoPromptsForStageError is a configuration error: the prompt source defines
// zero templates for the requested stage.
type NoPromptsForStageError struct {
	Stage models.FunnelStage
}

func (e *NoPromptsForStageError) Error() string {
	return fmt.Sprintf("no prompts configured for stage %s", e.Stage.Label())
}

// AllPromptsFailedError means every prompt in a stage run errored. Returned
// instead of a misleading zero-valued aggregate.
type AllPromptsFailedError struct {
	Stage models.FunnelStage
	Total int
}

func (e *AllPromptsFailedError) Error() string {
	return fmt.Sprintf("all %d prompts failed for stage %s", e.Total, e.Stage.Label())
}
