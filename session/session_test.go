package session

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/klauspost/compress/zstd"
	"github.com/oomph-ac/mover/event"
	"github.com/oomph-ac/mover/game"
	"github.com/oomph-ac/mover/movement"
	"github.com/oomph-ac/mover/movement/mode"
	"github.com/oomph-ac/mover/settings"
	"github.com/oomph-ac/mover/world"
)

// simulate runs a scripted actor through the default layout for ticks ticks, writing everything to
// r. It returns the final state.
func simulate(t *testing.T, r *Recorder, ticks int, tamper func(*event.TickEvent)) movement.KinematicState {
	s := settings.DefaultSettings()
	data, err := s.Encode()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sm, err := mode.NewMachine(s, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w := world.DefaultLayout().Build(nil)
	c := movement.DefaultCapsule()

	state := movement.KinematicState{Position: mgl32.Vec3{0, 0, 200}, Mode: game.ModeAir}
	moves := movement.NewLayeredMoveQueue()
	if err := r.Write(event.StartEvent{State: state, Capsule: c, Settings: data}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ts := movement.TimeStep{StepMs: s.Simulation.StepMs}
	for i := 0; i < ticks; i++ {
		in := movement.InputSnapshot{MoveInput: mgl32.Vec3{1, 0, 0}, OrientationIntent: mgl32.Vec3{1, 0.5, 0}}
		in.JumpPressed = i%40 == 20
		if i == 60 {
			tp := &movement.Teleport{Target: mgl32.Vec3{-200, 200, 150}}
			moves.Queue(tp)
			ev := event.QueueMoveEvent{Move: tp}
			ev.EvTime = ts.BaseSimTimeMs
			if err := r.Write(ev); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}

		start := movement.TickStartData{State: &state, Input: in, Moves: moves}
		end := sm.SimulateTick(start, ts, sm.GenerateMove(start, ts), c, w)
		sm.Commit(end)

		ev := event.TickEvent{Frame: ts.Frame, StepMs: ts.StepMs, Input: in, Checksum: end.State.Checksum(), Mode: end.State.Mode, RemainingMs: end.RemainingMs}
		ev.EvTime = ts.BaseSimTimeMs
		if tamper != nil {
			tamper(&ev)
		}
		if err := r.Write(ev); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		state, moves = end.State, end.Moves
		ts.Frame++
		ts.BaseSimTimeMs = ts.EndSimTimeMs()
	}
	return state
}

func TestReplayMatchesRecording(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.mvr")
	r, err := Create(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	final := simulate(t, r, 120, nil)
	if err := r.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Events() != 1+120+1 {
		t.Fatalf("expected %d events, got %d", 1+120+1, r.Events())
	}
	if err := r.Write(event.TickEvent{}); err == nil {
		t.Fatal("expected writing to a closed recorder to fail")
	}

	rec, err := Open(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Ticks() != 120 {
		t.Fatalf("expected 120 ticks, got %d", rec.Ticks())
	}

	report, err := Replay(rec, world.DefaultLayout().Build(nil), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !report.OK() {
		t.Fatalf("expected replay to match, got %d mismatches (first: %v)", len(report.Mismatches), report.Mismatches[0])
	}
	if report.Ticks != 120 || report.Teleports != 1 {
		t.Fatalf("expected 120 ticks and one teleport, got %d and %d", report.Ticks, report.Teleports)
	}
	if report.ModeChanges == 0 {
		t.Fatal("expected the actor to land and jump")
	}
	if report.FinalState.Checksum() != final.Checksum() {
		t.Fatalf("expected final state %+v, got %+v", final, report.FinalState)
	}
	if mean, median, p99, _ := report.TickTimes(); mean < 0 || p99 < median {
		t.Fatalf("unexpected tick timings mean=%v median=%v p99=%v", mean, median, p99)
	}
}

func TestReplayReportsMismatch(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewRecorder(&buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	simulate(t, r, 30, func(ev *event.TickEvent) {
		if ev.Frame == 10 {
			ev.Checksum ^= 1
		}
	})
	if err := r.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec, err := Decode(&buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	report, err := Replay(rec, world.DefaultLayout().Build(nil), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Mismatches) != 1 || report.Mismatches[0].Frame != 10 {
		t.Fatalf("expected a single mismatch at frame 10, got %v", report.Mismatches)
	}
}

func TestDecodeRejectsUnknownVersion(t *testing.T) {
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, _ = enc.Write([]byte("mover/0\n"))
	_ = enc.Close()

	if _, err := Decode(&buf); err == nil {
		t.Fatal("expected an unsupported version to be rejected")
	}
}

func TestDecodeRequiresStart(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewRecorder(&buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_ = r.Write(event.TickEvent{Mode: game.ModeWalk})
	_ = r.Close()

	if _, err := Decode(&buf); err == nil {
		t.Fatal("expected a recording without a start event to be rejected")
	}
}
