// Package view provides a presenter that records what the core emitted,
// for surfaces that serve state on request (HTTP, MCP) and for tests.
package view

import (
	"sync"

	"github.com/aretw0/hydroplant/pkg/domain"
)

// State is the rendered view as a remote client sees it.
type State struct {
	Account          string           `json:"account,omitempty"`
	ConnectAvailable bool             `json:"connect_available"`
	Busy             bool             `json:"busy"`
	Snapshot         *domain.Snapshot `json:"snapshot,omitempty"`
	Stage            int              `json:"stage"`
	Bloomed          bool             `json:"bloomed"`
	Alerts           []string         `json:"alerts,omitempty"`
}

// Counters tracks how many times each event was emitted.
type Counters struct {
	BusyOn       int
	BusyOff      int
	Snapshots    int
	StageChanges int
	Waterings    int
	Milestones   int
}

// Recorder implements ports.Presenter and ports.Notifier in memory.
// Safe for concurrent use.
type Recorder struct {
	mu       sync.Mutex
	state    State
	counters Counters
	maxAlert int
}

// NewRecorder creates a Recorder with connect available, keeping at most
// maxAlerts recent alerts (0 keeps all).
func NewRecorder(maxAlerts int) *Recorder {
	return &Recorder{
		state:    State{ConnectAvailable: true},
		maxAlert: maxAlerts,
	}
}

func (r *Recorder) ShowAccount(display string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Account = display
}

func (r *Recorder) SetConnectAvailable(available bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.ConnectAvailable = available
}

func (r *Recorder) SetBusy(busy bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Busy = busy
	if busy {
		r.counters.BusyOn++
	} else {
		r.counters.BusyOff++
	}
}

func (r *Recorder) ShowSnapshot(snapshot domain.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Snapshot = &snapshot
	r.counters.Snapshots++
}

func (r *Recorder) StageChanged(stage int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Stage = stage
	r.counters.StageChanges++
}

func (r *Recorder) Watering() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counters.Waterings++
}

func (r *Recorder) Milestone(snapshot domain.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Bloomed = true
	r.counters.Milestones++
}

// Alert records a user-visible alert.
func (r *Recorder) Alert(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Alerts = append(r.state.Alerts, message)
	if r.maxAlert > 0 && len(r.state.Alerts) > r.maxAlert {
		r.state.Alerts = r.state.Alerts[len(r.state.Alerts)-r.maxAlert:]
	}
}

// State returns a copy of the current view.
func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.state
	if s.Snapshot != nil {
		snap := *s.Snapshot
		s.Snapshot = &snap
	}
	s.Alerts = append([]string(nil), s.Alerts...)
	return s
}

// Counters returns the emission counters.
func (r *Recorder) Counters() Counters {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counters
}
