package session

import (
	"errors"
	"fmt"
)

// Stage names a step of the pipeline
type Stage string

const (
	StageUpload     Stage = "upload"
	StageNormalize  Stage = "normalize"
	StageTranscribe Stage = "transcribe"
	StageSummarize  Stage = "summarize"
	StageDone       Stage = "done"
)

// StageError records which stage a session failed in
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// FailedStage returns the stage err was raised in, or "" if it carries none
func FailedStage(err error) Stage {
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return stageErr.Stage
	}
	return ""
}
