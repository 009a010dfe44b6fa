package provision

import (
	"context"
	"errors"
	"fmt"
	"time"

	"git.home.luguber.info/inful/gitp4setup/internal/logfields"
	"git.home.luguber.info/inful/gitp4setup/internal/metrics"
)

// StepName is a strongly-typed identifier for a provisioning step.
type StepName string

// Canonical step names, in execution order.
const (
	StepPreflight        StepName = "preflight"
	StepGitWorkspace     StepName = "git_workspace"
	StepGitMarker        StepName = "git_marker"
	StepGitP4Clone       StepName = "git_p4_clone"
	StepRenderClientSpec StepName = "render_client_spec"
	StepP4Workspace      StepName = "p4_workspace"
	StepP4Marker         StepName = "p4_marker"
	StepP4Client         StepName = "p4_client"
)

// StepFunc is a discrete unit of work in a provisioning run.
type StepFunc func(ctx context.Context, st *State) error

// StepDef binds a name to its work. Skip, when set and true, bypasses the step.
type StepDef struct {
	Name StepName
	Fn   StepFunc
	Skip func(st *State) bool
}

// StepError carries the failing step and its underlying cause.
type StepError struct {
	Step StepName
	Err  error
}

func (e *StepError) Error() string { return fmt.Sprintf("step %s: %v", e.Step, e.Err) }
func (e *StepError) Unwrap() error { return e.Err }

// StepReport records what happened to one step.
type StepReport struct {
	Name     StepName
	Result   metrics.ResultLabel
	Duration time.Duration
	Err      error
}

// RunSteps executes steps in order, recording timing and stopping on the first error.
// Nothing already done is undone.
func RunSteps(ctx context.Context, st *State, steps []StepDef) error {
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			se := &StepError{Step: step.Name, Err: err}
			st.record(StepReport{Name: step.Name, Result: metrics.ResultFailed, Err: se})
			return se
		}

		if step.Skip != nil && step.Skip(st) {
			st.logger.Debug("Skipping step", logfields.Step(string(step.Name)))
			st.record(StepReport{Name: step.Name, Result: metrics.ResultSkipped})
			continue
		}

		st.logger.Debug("Starting step", logfields.Step(string(step.Name)))
		t0 := time.Now()
		err := step.Fn(ctx, st)
		dur := time.Since(t0)

		if err != nil {
			se := &StepError{Step: step.Name, Err: err}
			st.record(StepReport{Name: step.Name, Result: metrics.ResultFailed, Duration: dur, Err: se})
			return se
		}

		st.record(StepReport{Name: step.Name, Result: metrics.ResultSuccess, Duration: dur})
		st.logger.Debug("Step complete",
			logfields.Step(string(step.Name)),
			logfields.DurationMS(float64(dur.Microseconds())/1000))
	}
	return nil
}

// FailedStep returns the name of the step that produced err, if any.
func FailedStep(err error) (StepName, bool) {
	var se *StepError
	if errors.As(err, &se) {
		return se.Step, true
	}
	return "", false
}
