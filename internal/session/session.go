// Package session drives the input → processing → results flow for one
// client and streams run progress to subscribers.
package session

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/BerylCAtieno/rankrent-factory/internal/models"
	"github.com/BerylCAtieno/rankrent-factory/internal/planner"
)

// UserFacingError is the only failure text shown to clients; details are logged.
const UserFacingError = "Failed to generate plan. Please ensure your API Key is valid and try again."

var (
	ErrRunInFlight    = errors.New("session: a run is already in progress")
	ErrResultsPending = errors.New("session: reset the current results before submitting again")
)

// Runner produces plans. *planner.Planner satisfies it.
type Runner interface {
	Ready() error
	GeneratePlan(ctx context.Context, location, niche string, lang models.Language, onLog planner.LogFunc) (*models.BusinessPlan, error)
}

// Archiver persists a successful plan and returns its id.
type Archiver interface {
	Archive(ctx context.Context, plan *models.BusinessPlan) (string, error)
}

// EventKind distinguishes stream events.
type EventKind string

const (
	EventLog   EventKind = "log"
	EventState EventKind = "state"
)

// Event is pushed to subscribers: a new log entry or a step change.
type Event struct {
	Kind  EventKind        `json:"kind"`
	Log   *models.LogEntry `json:"log,omitempty"`
	State *View            `json:"state,omitempty"`
}

const subscriberBuffer = 256

type Session struct {
	ID        string
	CreatedAt time.Time

	runner   Runner
	archiver Archiver

	mu      sync.Mutex
	state   State
	done    chan struct{}
	subs    map[int]chan Event
	nextSub int
}

// New returns a session in the input step with English selected.
func New(id string, runner Runner, archiver Archiver) *Session {
	return &Session{
		ID:        id,
		CreatedAt: time.Now().UTC(),
		runner:    runner,
		archiver:  archiver,
		state:     Input{Language: models.LanguageEnglish},
		subs:      make(map[int]chan Event),
	}
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.state)
}

// Submit validates the form and starts a run in the background. A missing
// provider credential moves straight back to input with the error set.
func (s *Session) Submit(location, niche, language string) error {
	in, err := planner.NewInput(location, niche, language)
	if err != nil {
		return err
	}

	s.mu.Lock()
	switch s.state.(type) {
	case Processing:
		s.mu.Unlock()
		return ErrRunInFlight
	case Results:
		s.mu.Unlock()
		return ErrResultsPending
	}

	if err := s.runner.Ready(); err != nil {
		log.Printf("ERROR: session %s: %v", s.ID, err)
		s.setLocked(Input{Language: in.Language, Error: UserFacingError})
		s.mu.Unlock()
		return err
	}

	done := make(chan struct{})
	s.done = done
	s.setLocked(Processing{Language: in.Language})
	s.mu.Unlock()

	log.Printf("STATE: session %s processing %q in %q (%s)", s.ID, in.Niche, in.Location, in.Language)
	go s.run(in, done)
	return nil
}

func (s *Session) run(in planner.Input, done chan struct{}) {
	defer close(done)

	// Runs are never cancelled once started.
	ctx := context.Background()
	plan, err := s.runner.GeneratePlan(ctx, in.Location, in.Niche, in.Language, s.appendLog)

	var planID string
	if err == nil && s.archiver != nil {
		id, aerr := s.archiver.Archive(ctx, plan)
		if aerr != nil {
			log.Printf("WARN: session %s: archive plan: %v", s.ID, aerr)
		}
		planID = id
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	logs := s.logsLocked()
	if err != nil {
		log.Printf("ERROR: session %s run failed: %v", s.ID, err)
		s.setLocked(Input{Language: in.Language, Logs: logs, Error: UserFacingError})
		return
	}
	log.Printf("STATE: session %s results ready", s.ID)
	s.setLocked(Results{Language: in.Language, Logs: logs, Plan: plan, PlanID: planID})
}

func (s *Session) appendLog(entry models.LogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.state.(Processing)
	if !ok {
		return
	}
	p.Logs = append(p.Logs, entry)
	s.state = p
	s.publishLocked(Event{Kind: EventLog, Log: &entry})
}

// Reset discards the current plan, logs and error. It is a no-op on a fresh
// input step and refused while a run is in flight.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.state.(Processing); ok {
		return ErrRunInFlight
	}
	s.setLocked(Input{Language: s.state.language()})
	return nil
}

// DismissError clears a failure message shown on the input step.
func (s *Session) DismissError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	in, ok := s.state.(Input)
	if !ok || in.Error == "" {
		return
	}
	in.Error = ""
	s.setLocked(in)
}

// Wait blocks until the current run, if any, has reached a terminal step.
func (s *Session) Wait(ctx context.Context) error {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribe streams events from now on. The returned func unsubscribes and
// closes the channel. A subscriber that falls too far behind misses events.
func (s *Session) Subscribe() (<-chan Event, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	ch := make(chan Event, subscriberBuffer)
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
}

func (s *Session) logsLocked() []models.LogEntry {
	if p, ok := s.state.(Processing); ok {
		return p.Logs
	}
	return nil
}

func (s *Session) setLocked(st State) {
	s.state = st
	v := ViewOf(st)
	s.publishLocked(Event{Kind: EventState, State: &v})
}

func (s *Session) publishLocked(evt Event) {
	for id, ch := range s.subs {
		select {
		case ch <- evt:
		default:
			log.Printf("WARN: session %s subscriber %d is full, dropping %s event", s.ID, id, evt.Kind)
		}
	}
}
