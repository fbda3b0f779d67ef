package models

import "time"

type FunnelStage string

const (
	StageViewed       FunnelStage = "viewed"
	StageSaved        FunnelStage = "saved"
	StageCVTailored   FunnelStage = "cv_tailored"
	StageApplied      FunnelStage = "applied"
	StageInterviewing FunnelStage = "interviewing"
	StageOffered      FunnelStage = "offered"
	StageAccepted     FunnelStage = "accepted"
	StageRejected     FunnelStage = "rejected"
	StageWithdrawn    FunnelStage = "withdrawn"
)

// linearStages is the fixed funnel ordering up to the terminal branch.
var linearStages = []FunnelStage{
	StageViewed, StageSaved, StageCVTailored, StageApplied, StageInterviewing, StageOffered,
}

// terminalStages are mutually exclusive per (profile, job): only the latest
// terminal event per job counts.
var terminalStages = []FunnelStage{StageAccepted, StageRejected, StageWithdrawn}

func LinearStages() []FunnelStage {
	return linearStages
}

func TerminalStages() []FunnelStage {
	return terminalStages
}

func (s FunnelStage) IsTerminal() bool {
	for _, t := range terminalStages {
		if s == t {
			return true
		}
	}
	return false
}

func ParseFunnelStage(s string) (FunnelStage, error) {
	for _, stage := range append(linearStages, terminalStages...) {
		if s == string(stage) {
			return stage, nil
		}
	}
	return "", NewValidation("stage", s, "unknown funnel stage")
}

// FunnelEvent is one lifecycle transition in a user's pursuit of a job.
// The event log is append-only; events are never mutated or deleted.
type FunnelEvent struct {
	ID           int
	ProfileID    int
	JobID        int
	Stage        FunnelStage
	TailoredCVID *int
	CreatedAt    time.Time
}

type StageMetrics struct {
	Stage          FunnelStage `json:"stage"`
	Count          int         `json:"count"`
	ConversionRate int         `json:"conversion_rate"`
}

type FunnelMetrics struct {
	Stages      []StageMetrics `json:"stages"`
	TotalEvents int            `json:"total_events"`
}
