// Package upload owns the interaction state of a classification session.
//
// The Machine is the only writer of that state. Front ends either call its
// methods directly or emit events on a Bus the machine is attached to.
//
//	Idle ──select ok──▶ Previewing ──classify──▶ Submitting ──ok──▶ Result
//	  ▲                   │                         │
//	  └──────remove───────┘                         └──error──▶ Failed
//
// From Result or Failed, remove returns to Idle and a new valid file goes
// to Previewing. While Submitting, select, remove and classify are refused;
// the in-flight call always runs to completion.
package upload

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/idlab-discover/InfraClassify-cli/internal/apperr"
	"github.com/idlab-discover/InfraClassify-cli/internal/client"
	"github.com/idlab-discover/InfraClassify-cli/internal/imagefile"
	"github.com/idlab-discover/InfraClassify-cli/internal/notify"
	"github.com/idlab-discover/InfraClassify-cli/internal/render"
	"github.com/idlab-discover/InfraClassify-cli/internal/validator"
)

// State of the session.
type State int

const (
	Idle State = iota
	Previewing
	Submitting
	Result
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Previewing:
		return "Previewing"
	case Submitting:
		return "Submitting"
	case Result:
		return "Result"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

var (
	// ErrBusy is returned for actions refused while a classification is in flight.
	ErrBusy = errors.New("classification in progress")
	// ErrNoFile is returned when classification is requested without a previewed file.
	ErrNoFile = errors.New("no file selected")
)

// Classifier performs one classification, retries included.
type Classifier interface {
	Classify(ctx context.Context, file *imagefile.CandidateFile) (*client.Result, error)
}

// Renderer maps a result to display fields.
type Renderer func(*client.Result) render.DisplayModel

// Runner runs the submission. The default starts a goroutine; a synchronous
// runner makes RequestClassify block until the result is in.
type Runner func(func())

// Deps are the collaborators of a Machine. Client and Notifier are required.
type Deps struct {
	Client   Classifier
	Notifier notify.Notifier
	Renderer Renderer
	Runner   Runner

	// OnChange is called after every state change, outside the machine lock.
	OnChange func(Snapshot)
}

// Request is the single in-flight classification.
type Request struct {
	ID      string
	File    *imagefile.CandidateFile
	Started time.Time
}

// Controls tells the front end which actions are enabled.
type Controls struct {
	Select   bool
	Remove   bool
	Classify bool
}

// Snapshot is a read-only view of the machine.
type Snapshot struct {
	State     State
	File      *imagefile.CandidateFile
	RequestID string
	Result    *client.Result // as received; Display holds the clamped rendering
	Display   *render.DisplayModel
	Err       error
	Controls  Controls
}

// Machine is the upload state machine.
type Machine struct {
	mu      sync.Mutex
	deps    Deps
	state   State
	file    *imagefile.CandidateFile
	request *Request
	result  *client.Result
	display *render.DisplayModel
	err     error
}

// New checks deps and returns a Machine in Idle. A missing required
// collaborator yields an *apperr.InitializationError; if a notifier is
// available it is told once.
func New(deps Deps) (*Machine, error) {
	var missing []string
	if deps.Client == nil {
		missing = append(missing, "classification client")
	}
	if deps.Notifier == nil {
		missing = append(missing, "notifier")
	}
	if len(missing) > 0 {
		err := &apperr.InitializationError{Missing: missing}
		if deps.Notifier != nil {
			deps.Notifier.Notify("Could not start the classifier: "+err.Error(), notify.Error)
		}
		logf("", "%v", err)
		return nil, err
	}
	if deps.Renderer == nil {
		deps.Renderer = render.Render
	}
	if deps.Runner == nil {
		deps.Runner = func(f func()) { go f() }
	}
	return &Machine{deps: deps, state: Idle}, nil
}

// Attach subscribes the machine to the three user events. The returned
// teardown unregisters all of them; calling it more than once is safe.
func (m *Machine) Attach(bus *Bus) (teardown func()) {
	offs := []func(){
		bus.On(FileSelected, func(_ context.Context, p Payload) { _ = m.SelectFile(p.File) }),
		bus.On(RemoveRequested, func(context.Context, Payload) { _ = m.Remove() }),
		bus.On(ClassifyRequested, func(ctx context.Context, _ Payload) { _ = m.RequestClassify(ctx) }),
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			for _, off := range offs {
				off()
			}
		})
	}
}

// Snapshot returns the current view.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Controls reports which actions are enabled in the current state.
func (m *Machine) Controls() Controls {
	m.mu.Lock()
	defer m.mu.Unlock()
	return controlsFor(m.state)
}

// SelectFile validates file and, if accepted, makes it the previewed file.
// A rejected file leaves the state unchanged and shows why. A nil file
// stands for a selection that could not be read.
func (m *Machine) SelectFile(file *imagefile.CandidateFile) error {
	m.mu.Lock()
	if m.state == Submitting {
		m.mu.Unlock()
		m.deps.Notifier.Notify("Please wait for the current classification to finish.", notify.Info)
		return ErrBusy
	}

	outcome := validator.Validate(file)
	validator.LogOutcome(file, outcome)
	if err := outcome.Err(); err != nil {
		m.mu.Unlock()
		ve, _ := validator.AsValidation(err)
		m.deps.Notifier.Notify(ve.Message(), notify.Error)
		return err
	}

	from := m.state
	m.file = file
	m.result = nil
	m.display = nil
	m.err = nil
	m.state = Previewing
	snap := m.snapshotLocked()
	m.mu.Unlock()

	logf(file.Name, "%s -> %s", from, Previewing)
	m.changed(snap)
	return nil
}

// Remove discards the file and any result. It is a no-op in Idle and
// refused while Submitting.
func (m *Machine) Remove() error {
	m.mu.Lock()
	if m.state == Submitting {
		m.mu.Unlock()
		m.deps.Notifier.Notify("The image is being classified and cannot be removed yet.", notify.Info)
		return ErrBusy
	}
	from := m.state
	m.file = nil
	m.result = nil
	m.display = nil
	m.err = nil
	m.state = Idle
	snap := m.snapshotLocked()
	m.mu.Unlock()

	if from != Idle {
		logf("", "%s -> %s", from, Idle)
	}
	m.changed(snap)
	return nil
}

// Begin moves Previewing to Submitting and returns the new request.
func (m *Machine) Begin() (*Request, error) {
	m.mu.Lock()
	switch m.state {
	case Submitting:
		m.mu.Unlock()
		return nil, ErrBusy
	case Previewing:
	default:
		m.mu.Unlock()
		return nil, ErrNoFile
	}

	req := &Request{ID: uuid.NewString(), File: m.file, Started: time.Now()}
	m.request = req
	m.result = nil
	m.display = nil
	m.err = nil
	m.state = Submitting
	snap := m.snapshotLocked()
	m.mu.Unlock()

	logf(req.ID, "%s -> %s (%s)", Previewing, Submitting, req.File.Name)
	m.changed(snap)
	return req, nil
}

// Finish ends req with the classification outcome. Stale requests are ignored.
func (m *Machine) Finish(req *Request, res *client.Result, err error) {
	m.mu.Lock()
	if req == nil || m.request != req {
		m.mu.Unlock()
		return
	}
	m.request = nil

	var msg string
	if err == nil && res != nil {
		dm := m.deps.Renderer(res)
		m.result = res
		m.display = &dm
		m.err = nil
		m.state = Result
	} else {
		if err == nil {
			err = client.ErrMalformedResponse
		}
		m.result = nil
		m.display = nil
		m.err = err
		m.state = Failed
		msg = client.UserMessage(err)
	}
	state := m.state
	snap := m.snapshotLocked()
	m.mu.Unlock()

	logf(req.ID, "%s -> %s after %s", Submitting, state, time.Since(req.Started).Round(time.Millisecond))
	if msg != "" {
		m.deps.Notifier.Notify(msg, notify.Error)
	}
	m.changed(snap)
}

// RequestClassify starts a classification of the previewed file through
// the Runner. It returns ErrNoFile or ErrBusy when the trigger is disabled.
func (m *Machine) RequestClassify(ctx context.Context) error {
	req, err := m.Begin()
	if err != nil {
		switch {
		case errors.Is(err, ErrBusy):
			m.deps.Notifier.Notify("A classification is already running.", notify.Info)
		default:
			m.deps.Notifier.Notify("Please select an image first.", notify.Info)
		}
		return err
	}

	m.deps.Runner(func() {
		res, err := m.deps.Client.Classify(client.WithRequestID(ctx, req.ID), req.File)
		m.Finish(req, res, err)
	})
	return nil
}

func (m *Machine) snapshotLocked() Snapshot {
	s := Snapshot{
		State:    m.state,
		File:     m.file,
		Result:   m.result,
		Display:  m.display,
		Err:      m.err,
		Controls: controlsFor(m.state),
	}
	if m.request != nil {
		s.RequestID = m.request.ID
	}
	return s
}

func (m *Machine) changed(s Snapshot) {
	if m.deps.OnChange != nil {
		m.deps.OnChange(s)
	}
}

func controlsFor(s State) Controls {
	switch s {
	case Idle:
		return Controls{Select: true}
	case Previewing:
		return Controls{Select: true, Remove: true, Classify: true}
	case Submitting:
		return Controls{}
	default: // Result, Failed
		return Controls{Select: true, Remove: true}
	}
}
