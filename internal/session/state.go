package session

import (
	"github.com/BerylCAtieno/rankrent-factory/internal/models"
)

// Step names the variant a session is in.
type Step string

const (
	StepInput      Step = "input"
	StepProcessing Step = "processing"
	StepResults    Step = "results"
)

// State is one of Input, Processing or Results. Each variant carries only
// the fields valid in that step.
type State interface {
	Step() Step
	language() models.Language
}

// Input is the idle, editable form. Error is set only after a failed run;
// Logs keep the failed run's progress until the next submit or reset.
type Input struct {
	Language models.Language
	Logs     []models.LogEntry
	Error    string
}

// Processing is a run in flight; Logs grow as the run reports progress.
type Processing struct {
	Language models.Language
	Logs     []models.LogEntry
}

// Results holds the finished plan. PlanID is set when the plan was archived.
type Results struct {
	Language models.Language
	Logs     []models.LogEntry
	Plan     *models.BusinessPlan
	PlanID   string
}

func (Input) Step() Step      { return StepInput }
func (Processing) Step() Step { return StepProcessing }
func (Results) Step() Step    { return StepResults }

func (s Input) language() models.Language      { return s.Language }
func (s Processing) language() models.Language { return s.Language }
func (s Results) language() models.Language    { return s.Language }

// View is the flat JSON rendering of a State for API clients.
type View struct {
	Step     Step                 `json:"step"`
	Logs     []models.LogEntry    `json:"logs"`
	Plan     *models.BusinessPlan `json:"plan,omitempty"`
	PlanID   string               `json:"planId,omitempty"`
	Error    string               `json:"error,omitempty"`
	Language models.Language      `json:"language"`
}

// ViewOf flattens st. Logs is never nil so clients always see an array.
func ViewOf(st State) View {
	v := View{Step: st.Step(), Language: st.language(), Logs: []models.LogEntry{}}
	switch s := st.(type) {
	case Input:
		v.Error = s.Error
		v.Logs = append(v.Logs, s.Logs...)
	case Processing:
		v.Logs = append(v.Logs, s.Logs...)
	case Results:
		v.Logs = append(v.Logs, s.Logs...)
		v.Plan = s.Plan
		v.PlanID = s.PlanID
	}
	return v
}

func cloneLogs(logs []models.LogEntry) []models.LogEntry {
	if logs == nil {
		return nil
	}
	return append([]models.LogEntry(nil), logs...)
}

// clone returns a copy whose log slice is not shared with the session.
func clone(st State) State {
	switch s := st.(type) {
	case Input:
		s.Logs = cloneLogs(s.Logs)
		return s
	case Processing:
		s.Logs = cloneLogs(s.Logs)
		return s
	case Results:
		s.Logs = cloneLogs(s.Logs)
		return s
	}
	return st
}
