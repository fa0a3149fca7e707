package movement

import (
	"fmt"
	"io"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/oomph-ac/mover/assert"
	"github.com/oomph-ac/mover/game"
	"github.com/oomph-ac/mover/oerror"
	"github.com/sirupsen/logrus"
)

// ErrUnknownMode is returned when a mode identifier is not registered with a state machine.
var ErrUnknownMode = oerror.New("unknown movement mode")

// StateMachine owns the registered movement modes of a mover and runs ticks through whichever
// mode the start state names. Running a tick never mutates the machine; Commit does.
type StateMachine struct {
	modes    *orderedmap.OrderedMap[string, Mode]
	starting string
	current  string

	log    logrus.FieldLogger
	tracer Tracer

	listeners []func(from, to string)
}

// NewStateMachine returns a state machine with no modes registered.
func NewStateMachine(log logrus.FieldLogger, tracer Tracer) *StateMachine {
	if tracer == nil {
		tracer = NopTracer{}
	}
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &StateMachine{
		modes:  orderedmap.NewOrderedMap[string, Mode](),
		log:    log,
		tracer: tracer,
	}
}

// Register adds a mode. The first mode registered becomes the starting mode.
func (sm *StateMachine) Register(m Mode) error {
	if _, ok := sm.modes.Get(m.Name()); ok {
		return oerror.New(game.ErrorInternalDuplicateMode, m.Name())
	}
	sm.modes.Set(m.Name(), m)
	if sm.starting == "" {
		sm.starting = m.Name()
	}
	return nil
}

// SetStartingMode sets the mode used by states that do not name one.
func (sm *StateMachine) SetStartingMode(name string) error {
	if _, ok := sm.modes.Get(name); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMode, name)
	}
	sm.starting = name
	if sm.current == "" {
		sm.current = name
	}
	return nil
}

// StartingMode returns the mode used by states that do not name one.
func (sm *StateMachine) StartingMode() string {
	return sm.starting
}

// Current returns the mode of the last committed tick, or the starting mode if nothing has been
// committed yet.
func (sm *StateMachine) Current() string {
	if sm.current == "" {
		return sm.starting
	}
	return sm.current
}

// Mode returns the mode registered under name.
func (sm *StateMachine) Mode(name string) (Mode, bool) {
	return sm.modes.Get(name)
}

// Modes returns the identifiers of every registered mode in registration order.
func (sm *StateMachine) Modes() []string {
	names := make([]string, 0, sm.modes.Len())
	for el := sm.modes.Front(); el != nil; el = el.Next() {
		names = append(names, el.Key)
	}
	return names
}

// OnModeChange registers a function called by Commit whenever the committed mode changes.
func (sm *StateMachine) OnModeChange(f func(from, to string)) {
	sm.listeners = append(sm.listeners, f)
}

func (sm *StateMachine) resolve(name string) Mode {
	assert.IsTrue(sm.modes.Len() > 0, game.ErrorInternalNoModes)
	if name == "" {
		name = sm.starting
	}
	m, ok := sm.modes.Get(name)
	if !ok {
		sm.log.Warnf(game.DiagnosticUnknownStartMode, name, sm.starting)
		m, _ = sm.modes.Get(sm.starting)
	}
	return m
}

// GenerateMove asks the mode named by the start state for a proposed move and mixes the start
// state's layered moves into it.
func (sm *StateMachine) GenerateMove(start TickStartData, ts TimeStep) ProposedMove {
	assert.IsTrue(start.State != nil, game.ErrorInternalMissingStartState)
	assert.IsTrue(start.Moves != nil, game.ErrorInternalMissingLayeredMoves)
	assert.IsTrue(ts.StepMs > 0, game.ErrorInternalInvalidTimeStep, ts.StepMs)

	m := sm.resolve(start.State.Mode)
	move := m.GenerateMove(start, ts)
	start.Moves.Mix(start, ts, &move, sm.tracer)
	return move
}

// SimulateTick runs the mode named by the start state over the proposed move, then evaluates the
// mode's transitions. A requested mode change is only written to the end state once the mode's
// SimulationTick has completed, so it takes effect on the next tick. Requests for unknown modes
// are logged and rejected.
func (sm *StateMachine) SimulateTick(start TickStartData, ts TimeStep, move ProposedMove, c Capsule, env Environment) TickEndData {
	assert.IsTrue(start.State != nil, game.ErrorInternalMissingStartState)
	assert.IsTrue(start.Moves != nil, game.ErrorInternalMissingLayeredMoves)
	assert.NotNil(env, game.ErrorInternalMissingEnvironment)
	assert.IsTrue(ts.StepMs > 0, game.ErrorInternalInvalidTimeStep, ts.StepMs)

	m := sm.resolve(start.State.Mode)
	end := TickEndData{State: *start.State, Moves: start.Moves.Clone()}
	end.State.Mode = m.Name()
	end.Moves.Advance(start, ts, sm.tracer)

	scratch := newScratch()
	defer putScratch(scratch)

	params := &SimulationTickParams{
		Start:    start,
		TimeStep: ts,
		Move:     move,
		Capsule:  c,
		Env:      env,
		Scratch:  scratch,
		Tracer:   sm.tracer,
		Log:      sm.log,
	}
	m.SimulationTick(params, &end)

	if end.Teleported {
		// A teleport uses none of the step: only the teleport itself is consumed.
		end.Moves = start.Moves.Clone()
		end.Moves.Cancel(LayeredMoveTeleport)
	}

	if !end.Teleported && end.NextMode == "" {
		for _, t := range m.Transitions() {
			res := t.Evaluate(params, &end)
			if res.NextMode == "" {
				continue
			}
			sm.tracer.Notify(DebugModeTransitions, true, "transition %s requested mode %s", t.Name(), res.NextMode)
			t.Trigger(params, &end)
			end.NextMode = res.NextMode
			break
		}
	}

	if end.NextMode != "" {
		if _, ok := sm.modes.Get(end.NextMode); ok {
			sm.tracer.Notify(DebugModeTransitions, end.NextMode != m.Name(), "mode %s -> %s", m.Name(), end.NextMode)
			end.State.Mode = end.NextMode
		} else {
			sm.log.Warnf(game.DiagnosticUnknownMode, end.NextMode, m.Name())
			end.RejectedMode = end.NextMode
			end.NextMode = ""
		}
	}
	return end
}

// Commit records the end of a tick as the machine's current mode and notifies mode change
// listeners.
func (sm *StateMachine) Commit(end TickEndData) {
	prev := sm.Current()
	sm.current = end.State.Mode
	if prev == sm.current {
		return
	}
	for _, f := range sm.listeners {
		f(prev, sm.current)
	}
}
