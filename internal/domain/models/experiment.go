package models

import "time"

type ExperimentStatus string

const (
	ExperimentDraft     ExperimentStatus = "draft"
	ExperimentRunning   ExperimentStatus = "running"
	ExperimentCompleted ExperimentStatus = "completed"
)

// CanTransitionTo encodes the only legal transitions: draft -> running and
// running -> completed. Completed is terminal.
func (s ExperimentStatus) CanTransitionTo(next ExperimentStatus) bool {
	switch s {
	case ExperimentDraft:
		return next == ExperimentRunning
	case ExperimentRunning:
		return next == ExperimentCompleted
	default:
		return false
	}
}

// OutcomeSignals are the per-variant outcome rates derived from funnel
// events referencing a variant's job applications. InterviewRate is the
// primary signal for winner determination.
type OutcomeSignals struct {
	InterviewRate float64
	ResponseRate  float64
}

// Experiment compares two tailored CV variants. WinnerID, if set, equals
// VariantAID or VariantBID; a nil winner on a completed experiment means the
// variants tied within the configured epsilon.
type Experiment struct {
	ID          int
	VariantAID  int
	VariantBID  int
	Hypothesis  string
	Status      ExperimentStatus
	WinnerID    *int
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// Start moves a draft experiment to running.
func (e *Experiment) Start() error {
	if !e.Status.CanTransitionTo(ExperimentRunning) {
		return &InvalidTransitionError{From: e.Status, To: ExperimentRunning}
	}
	e.Status = ExperimentRunning
	return nil
}

// Complete moves a running experiment to completed and records the winner.
// A nil winner is a valid terminal state.
func (e *Experiment) Complete(winnerID *int, at time.Time) error {
	if !e.Status.CanTransitionTo(ExperimentCompleted) {
		return &InvalidTransitionError{From: e.Status, To: ExperimentCompleted}
	}
	if winnerID != nil && *winnerID != e.VariantAID && *winnerID != e.VariantBID {
		return NewValidation("winner_id", *winnerID, "winner must be one of the experiment variants")
	}
	e.Status = ExperimentCompleted
	e.WinnerID = winnerID
	e.CompletedAt = &at
	return nil
}
