package session

import (
	"fmt"
	"time"

	"github.com/oomph-ac/mover/event"
	"github.com/oomph-ac/mover/game"
	"github.com/oomph-ac/mover/movement"
	"github.com/oomph-ac/mover/movement/mode"
	"github.com/oomph-ac/mover/settings"
	"github.com/sirupsen/logrus"
)

// Mismatch is a tick whose re-simulated state did not match the recorded one.
type Mismatch struct {
	Frame    uint64
	Want     uint64
	Got      uint64
	WantMode string
	GotMode  string
}

func (m Mismatch) String() string {
	return fmt.Sprintf("frame %d: checksum %016x != %016x (mode %s, replayed %s)", m.Frame, m.Got, m.Want, m.WantMode, m.GotMode)
}

// Report is the outcome of replaying a recording.
type Report struct {
	Ticks       int
	ModeChanges int
	Teleports   int
	Mismatches  []Mismatch
	FinalState  movement.KinematicState

	// tickMicros holds how long every re-simulated tick took.
	tickMicros []float64
}

// OK returns true if every tick re-simulated to the recorded state.
func (r Report) OK() bool {
	return len(r.Mismatches) == 0
}

// TickTimes returns the mean, median, 99th percentile and standard deviation of the time taken by
// a single tick, in microseconds.
func (r Report) TickTimes() (mean, median, p99, stdDev float64) {
	if len(r.tickMicros) == 0 {
		return
	}
	return game.Mean(r.tickMicros), game.Median(r.tickMicros), game.Percentile(r.tickMicros, 0.99), game.StandardDeviation(r.tickMicros)
}

// Replay runs every tick of rec again against env, starting from the recorded start state, and
// compares the checksum of each resulting state against the recorded one. env must hold the same
// collision geometry the recording was made in.
func Replay(rec *Recording, env movement.Environment, log logrus.FieldLogger) (Report, error) {
	s, err := settings.Decode(rec.Start.Settings)
	if err != nil {
		return Report{}, err
	}
	sm, err := mode.NewMachine(s, log, nil)
	if err != nil {
		return Report{}, err
	}

	report := Report{}
	state := rec.Start.State
	moves := event.Queue(rec.Start.Moves)
	for _, ev := range rec.Events {
		switch ev := ev.(type) {
		case event.SettingsEvent:
			if s, err = settings.Decode(ev.Settings); err != nil {
				return report, err
			}
			if sm, err = mode.NewMachine(s, log, nil); err != nil {
				return report, err
			}
		case event.QueueMoveEvent:
			moves.Queue(ev.Move.Clone())
		case event.TickEvent:
			start := movement.TickStartData{State: &state, Input: ev.Input, Moves: moves}
			ts := ev.TimeStep()

			t := time.Now()
			move := sm.GenerateMove(start, ts)
			end := sm.SimulateTick(start, ts, move, rec.Start.Capsule, env)
			report.tickMicros = append(report.tickMicros, float64(time.Since(t).Nanoseconds())/1e3)
			sm.Commit(end)

			report.Ticks++
			if end.State.Mode != state.Mode {
				report.ModeChanges++
			}
			if end.Teleported {
				report.Teleports++
			}
			if got := end.State.Checksum(); got != ev.Checksum {
				m := Mismatch{Frame: ev.Frame, Want: ev.Checksum, Got: got, WantMode: ev.Mode, GotMode: end.State.Mode}
				report.Mismatches = append(report.Mismatches, m)
				if log != nil {
					log.WithFields(logrus.Fields{"frame": ev.Frame, "mode": end.State.Mode}).Warn("replayed state does not match recording")
				}
			}
			state, moves = end.State, end.Moves
		}
	}
	report.FinalState = state
	return report, nil
}
