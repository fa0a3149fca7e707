package mover

import (
	"io"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/mover/event"
	"github.com/oomph-ac/mover/game"
	"github.com/oomph-ac/mover/internal"
	"github.com/oomph-ac/mover/movement"
	"github.com/oomph-ac/mover/movement/mode"
	"github.com/oomph-ac/mover/session"
	"github.com/oomph-ac/mover/settings"
	"github.com/sirupsen/logrus"
)

// Mover is the movement simulation of a single actor. A Mover is not safe for concurrent use: ticks
// of an actor are strictly sequential, and every method must be called from the goroutine
// driving them.
type Mover struct {
	log *logrus.Logger
	env movement.Environment
	dbg *Debugger

	settings settings.Settings
	capsule  movement.Capsule
	sm       *movement.StateMachine

	state     movement.KinematicState
	moves     *movement.LayeredMoveQueue
	committed bool

	frame     uint64
	simTimeMs float64
	carryMs   float32

	// pending is the tick simulated by SimulateTick, waiting for Commit.
	pending *TickRecord
	history *internal.CircularQueue[TickRecord]

	recorder  *session.Recorder
	listeners []func(from, to string)
}

// New returns a Mover placed in env. log may be nil, in which case nothing is logged.
func New(log *logrus.Logger, env movement.Environment, opts Opts) (*Mover, error) {
	opts = opts.withDefaults()
	if err := opts.Settings.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}

	m := &Mover{
		log:      log,
		env:      env,
		dbg:      NewDebugger(log),
		settings: opts.Settings,
		capsule:  opts.Capsule,
		moves:    movement.NewLayeredMoveQueue(),
		state: movement.KinematicState{
			Position:    opts.Position,
			Orientation: opts.Orientation,
			Mode:        opts.Settings.Movement.StartingMode,
		},
	}
	if opts.HistorySize > 0 {
		m.history = internal.NewCircularQueue[TickRecord](opts.HistorySize)
	}
	m.dbg.SetEnabled(movement.DebugModeMovementSim, opts.Settings.Debug.DrawMovementDebug)
	if err := m.rebuild(); err != nil {
		return nil, err
	}
	return m, nil
}

// rebuild creates the state machine from the current settings.
func (m *Mover) rebuild() error {
	sm, err := mode.NewMachine(m.settings, m.log, m.dbg)
	if err != nil {
		return err
	}
	if m.committed {
		// Carry the committed mode over without notifying anybody.
		sm.Commit(movement.TickEndData{State: m.state})
	}
	sm.OnModeChange(m.modeChanged)
	m.sm = sm
	return nil
}

func (m *Mover) modeChanged(from, to string) {
	m.log.WithFields(logrus.Fields{"from": from, "to": to, "frame": m.frame}).Debug("movement mode changed")
	for _, f := range m.listeners {
		f(from, to)
	}
}

// Settings returns the settings the mover simulates with.
func (m *Mover) Settings() settings.Settings {
	return m.settings
}

// SetSettings replaces the settings of the mover. They take effect on the next tick.
func (m *Mover) SetSettings(s settings.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	prev := m.settings
	m.settings = s
	if err := m.rebuild(); err != nil {
		m.settings = prev
		return err
	}
	if s.Debug.DrawMovementDebug != prev.Debug.DrawMovementDebug {
		m.dbg.SetEnabled(movement.DebugModeMovementSim, s.Debug.DrawMovementDebug)
	}
	if m.recorder != nil {
		if data, err := s.Encode(); err == nil {
			ev := event.SettingsEvent{Settings: data}
			ev.EvTime = m.simTimeMs
			m.record(ev)
		}
	}
	return nil
}

// Debugger returns the debugger the simulation of the mover reports to.
func (m *Mover) Debugger() *Debugger {
	return m.dbg
}

// Capsule returns the collision shape of the mover.
func (m *Mover) Capsule() movement.Capsule {
	return m.capsule
}

// State returns the state of the last committed tick.
func (m *Mover) State() movement.KinematicState {
	return m.state
}

// Moves returns a copy of the layered moves that will be mixed into the next tick.
func (m *Mover) Moves() *movement.LayeredMoveQueue {
	return m.moves.Clone()
}

// Mode returns the mode that will run the next tick.
func (m *Mover) Mode() string {
	if !m.committed {
		return m.sm.StartingMode()
	}
	return m.state.Mode
}

// Frame returns the number of ticks committed so far.
func (m *Mover) Frame() uint64 {
	return m.frame
}

// SimTimeMs returns the simulation time reached by the last committed tick.
func (m *Mover) SimTimeMs() float64 {
	return m.simTimeMs
}

// IsOnGround returns true if the mover is walking. It is false until a tick has been committed.
func (m *Mover) IsOnGround() bool {
	return m.committed && m.state.Mode == game.ModeWalk
}

// IsAirborne returns true if the mover is in the air. It is false until a tick has been committed.
func (m *Mover) IsAirborne() bool {
	return m.committed && m.state.Mode == game.ModeAir
}

// FeetLocation returns the bottom of the mover's capsule.
func (m *Mover) FeetLocation() mgl32.Vec3 {
	return m.capsule.FeetLocation(m.state.Position)
}

// OnModeChange registers a function called whenever a committed tick changes the mode of the mover.
func (m *Mover) OnModeChange(f func(from, to string)) {
	m.listeners = append(m.listeners, f)
}

// QueueLayeredMove queues a layered move. It is mixed into the next tick.
func (m *Mover) QueueLayeredMove(lm movement.LayeredMove) {
	m.moves.Queue(lm)
	if m.recorder == nil {
		return
	}
	if !event.Encodable(lm) {
		m.log.WithFields(logrus.Fields{"frame": m.frame, "move": lm.Name()}).Warn("layered move cannot be recorded, replays of this session will diverge")
		return
	}
	ev := event.QueueMoveEvent{Move: lm.Clone()}
	ev.EvTime = m.simTimeMs
	m.record(ev)
}

// Teleport requests the mover to be moved to pos on its next tick. The teleport does not consume
// any simulated time. If the environment rejects it, the tick runs as if it was never requested.
func (m *Mover) Teleport(pos mgl32.Vec3) {
	m.QueueLayeredMove(&movement.Teleport{Target: pos})
}

// SetRecorder starts recording every tick of the mover to r. A nil recorder stops recording.
func (m *Mover) SetRecorder(r *session.Recorder) error {
	m.recorder = r
	if r == nil {
		return nil
	}
	data, err := m.settings.Encode()
	if err != nil {
		return err
	}
	ev := event.StartEvent{
		Frame:    m.frame,
		State:    m.state,
		Moves:    event.QueuedMoves(m.moves),
		Capsule:  m.capsule,
		Settings: data,
	}
	ev.EvTime = m.simTimeMs
	return r.Write(ev)
}

func (m *Mover) record(ev event.Event) {
	if err := m.recorder.Write(ev); err != nil {
		m.log.WithField("event", ev.ID()).Errorf("unable to record event: %v", err)
		m.recorder = nil
	}
}
