package app

import "fmt"

// Stage names one phase of the benchmark pipeline.
type Stage string

const (
	StageLoad      Stage = "load"
	StageDeploy    Stage = "deploy"
	StageEnumerate Stage = "enumerate"
	StageExecute   Stage = "execute"
	StageEvaluate  Stage = "evaluate"
	StageReport    Stage = "report"
)

// StageError reports the stage that halted the pipeline and why.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
