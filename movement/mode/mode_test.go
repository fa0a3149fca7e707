package mode

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/mover/game"
	"github.com/oomph-ac/mover/movement"
	"github.com/oomph-ac/mover/settings"
)

// mockEnv is a scripted environment. Sweeps are blocked at blockAt when it is set.
type mockEnv struct {
	floor      movement.FloorResult
	blockAt    float32
	normal     mgl32.Vec3
	teleportOK bool

	impacts int
	sweeps  int
}

func (e *mockEnv) SweepAndMove(_ movement.Capsule, from, delta, _ mgl32.Vec3) movement.HitResult {
	e.sweeps++
	if e.blockAt > 0 {
		return movement.HitResult{Blocking: true, Time: e.blockAt, Normal: e.normal, Location: from.Add(delta.Mul(e.blockAt))}
	}
	return movement.HitResult{Time: 1, Location: from.Add(delta)}
}

func (e *mockEnv) SlideAlongSurface(_ movement.Capsule, from, delta mgl32.Vec3, fraction float32, normal mgl32.Vec3) movement.HitResult {
	slide := game.VectorPlaneProject(delta, normal).Mul(fraction)
	return movement.HitResult{Time: 1, Location: from.Add(slide)}
}

func (e *mockEnv) FindFloor(movement.Capsule, mgl32.Vec3, float32, float32) movement.FloorResult {
	return e.floor
}

func (e *mockEnv) Teleport(movement.Capsule, mgl32.Vec3, mgl32.Vec3) bool {
	return e.teleportOK
}

func (e *mockEnv) HandleImpact(movement.Impact) {
	e.impacts++
}

var (
	walkableFloor = movement.FloorResult{Blocking: true, Walkable: true, Normal: game.Up}
	noFloor       = movement.FloorResult{}
	step          = movement.TimeStep{StepMs: 1000.0 / 60.0}
)

func newMachine(s settings.Settings) *movement.StateMachine {
	sm, err := NewMachine(s, nil, nil)
	if err != nil {
		panic(err)
	}
	return sm
}

func tick(sm *movement.StateMachine, env movement.Environment, state movement.KinematicState, in movement.InputSnapshot, q *movement.LayeredMoveQueue) (movement.ProposedMove, movement.TickEndData) {
	if q == nil {
		q = movement.NewLayeredMoveQueue()
	}
	start := movement.TickStartData{State: &state, Input: in, Moves: q}
	move := sm.GenerateMove(start, step)
	return move, sm.SimulateTick(start, step, move, movement.DefaultCapsule(), env)
}

func TestDeterministicTick(t *testing.T) {
	sm := newMachine(settings.DefaultSettings())
	state := movement.KinematicState{
		Mode:           game.ModeWalk,
		Position:       mgl32.Vec3{12.5, -3, 88},
		Orientation:    mgl32.Vec3{0, 30, 0},
		LinearVelocity: mgl32.Vec3{310, -45, 0},
		Floor:          walkableFloor,
	}
	in := movement.InputSnapshot{MoveInput: mgl32.Vec3{1, 0.3, 0}, OrientationIntent: mgl32.Vec3{0, 1, 0}}

	var first uint64
	for i := 0; i < 3; i++ {
		env := &mockEnv{floor: walkableFloor, blockAt: 0.4, normal: mgl32.Vec3{-1, 0, 0}}
		_, end := tick(sm, env, state, in, nil)
		sum := end.State.Checksum()
		if i == 0 {
			first = sum
			continue
		}
		if sum != first {
			t.Fatalf("run %d produced checksum %x, expected %x", i, sum, first)
		}
	}
}

func TestTeleportRefundsTick(t *testing.T) {
	for _, m := range []string{game.ModeWalk, game.ModeAir} {
		sm := newMachine(settings.DefaultSettings())
		env := &mockEnv{floor: walkableFloor, teleportOK: true}
		target := mgl32.Vec3{500.25, -20, 300}
		q := movement.NewLayeredMoveQueue()
		q.Queue(&movement.Teleport{Target: target})

		state := movement.KinematicState{Mode: m, LinearVelocity: mgl32.Vec3{900, 0, -300}}
		_, end := tick(sm, env, state, movement.InputSnapshot{JumpPressed: true}, q)
		if end.RemainingMs != step.StepMs {
			t.Fatalf("%s: expected the full %vms refunded, got %v", m, step.StepMs, end.RemainingMs)
		}
		if end.State.Position != target {
			t.Fatalf("%s: expected to land exactly on %v, got %v", m, target, end.State.Position)
		}
		if end.State.Mode != m || end.NextMode != "" {
			t.Fatalf("%s: expected the mode to stay put, got %q", m, end.State.Mode)
		}
		if env.sweeps != 0 {
			t.Fatalf("%s: expected no sweep on a teleport tick", m)
		}
		if end.Moves.Len() != 0 {
			t.Fatalf("%s: expected nothing queued on a teleport tick, got %d moves", m, end.Moves.Len())
		}
	}
}

func TestFailedTeleportFallsThrough(t *testing.T) {
	sm := newMachine(settings.DefaultSettings())
	env := &mockEnv{floor: walkableFloor}
	q := movement.NewLayeredMoveQueue()
	q.Queue(&movement.Teleport{Target: mgl32.Vec3{1000, 0, 0}})

	_, end := tick(sm, env, movement.KinematicState{Mode: game.ModeWalk, Floor: walkableFloor}, movement.DefaultInput(), q)
	if end.Teleported || end.RemainingMs != 0 {
		t.Fatalf("expected a rejected teleport to consume the tick, got %+v", end)
	}
	if end.State.Position == (mgl32.Vec3{1000, 0, 0}) {
		t.Fatal("expected the mover not to be moved to the rejected target")
	}
}

func TestWalkJump(t *testing.T) {
	s := settings.DefaultSettings()
	for _, floor := range []movement.FloorResult{walkableFloor, noFloor} {
		sm := newMachine(s)
		env := &mockEnv{floor: floor}
		state := movement.KinematicState{Mode: game.ModeWalk, Floor: walkableFloor}

		_, end := tick(sm, env, state, movement.InputSnapshot{JumpPressed: true}, nil)
		if end.NextMode != game.ModeAir || end.State.Mode != game.ModeAir {
			t.Fatalf("walkable=%t: expected a jump to leave for Air, got next=%q", floor.Walkable, end.NextMode)
		}
		moves := end.Moves.Moves()
		if len(moves) != 1 {
			t.Fatalf("walkable=%t: expected one queued move, got %d", floor.Walkable, len(moves))
		}
		jump, ok := moves[0].(*movement.JumpImpulse)
		if !ok || jump.UpwardsSpeed != s.Movement.JumpForce {
			t.Fatalf("walkable=%t: expected a jump impulse of %v, got %#v", floor.Walkable, s.Movement.JumpForce, moves[0])
		}

		// The impulse is applied on the next tick, in Air.
		move, next := tick(sm, env, end.State, movement.DefaultInput(), end.Moves)
		if move.LinearVelocity.Z() <= 0 {
			t.Fatalf("walkable=%t: expected the impulse to lift the mover, got %v", floor.Walkable, move.LinearVelocity)
		}
		if next.Moves.Len() != 0 {
			t.Fatalf("walkable=%t: expected the impulse to be consumed", floor.Walkable)
		}
	}
}

func TestWalkFallsOffLedge(t *testing.T) {
	sm := newMachine(settings.DefaultSettings())
	env := &mockEnv{floor: noFloor}
	state := movement.KinematicState{Mode: game.ModeWalk, LinearVelocity: mgl32.Vec3{600, 0, 0}, Floor: walkableFloor}

	_, end := tick(sm, env, state, movement.DefaultInput(), nil)
	if end.NextMode != game.ModeAir || end.State.Mode != game.ModeAir {
		t.Fatalf("expected to fall into Air, got next=%q", end.NextMode)
	}
	if end.Moves.Len() != 0 {
		t.Fatal("expected no jump to be queued when falling")
	}
}

func TestWalkStaysOnWalkableFloor(t *testing.T) {
	sm := newMachine(settings.DefaultSettings())
	env := &mockEnv{floor: walkableFloor}
	state := movement.KinematicState{Mode: game.ModeWalk, Floor: walkableFloor}
	in := movement.InputSnapshot{MoveInput: mgl32.Vec3{1, 0, 0}}

	_, end := tick(sm, env, state, in, nil)
	if end.NextMode != "" || end.State.Mode != game.ModeWalk {
		t.Fatalf("expected to keep walking, got next=%q", end.NextMode)
	}
	if end.State.LinearVelocity.X() <= 0 {
		t.Fatalf("expected to accelerate forward, got %v", end.State.LinearVelocity)
	}
	if !end.State.Floor.Walkable {
		t.Fatal("expected the floor of the tick to be stored on the state")
	}
}

func TestAirLands(t *testing.T) {
	sm := newMachine(settings.DefaultSettings())
	env := &mockEnv{floor: walkableFloor}
	state := movement.KinematicState{Mode: game.ModeAir, LinearVelocity: mgl32.Vec3{0, 0, -400}}

	_, end := tick(sm, env, state, movement.DefaultInput(), nil)
	if end.NextMode != game.ModeWalk || end.State.Mode != game.ModeWalk {
		t.Fatalf("expected to land into Walk, got next=%q", end.NextMode)
	}
	if env.impacts != 1 {
		t.Fatalf("expected one impact, got %d", env.impacts)
	}
}

func TestAirKeepsFalling(t *testing.T) {
	s := settings.DefaultSettings()
	sm := newMachine(s)
	env := &mockEnv{floor: noFloor}
	state := movement.KinematicState{Mode: game.ModeAir}

	move, end := tick(sm, env, state, movement.DefaultInput(), nil)
	wantZ := -s.Air.Gravity * step.Seconds()
	if !mgl32.FloatEqualThreshold(move.LinearVelocity.Z(), wantZ, 1e-4) {
		t.Fatalf("expected gravity to pull the move down to %v, got %v", wantZ, move.LinearVelocity.Z())
	}
	if end.NextMode != "" || end.State.Mode != game.ModeAir {
		t.Fatalf("expected to stay in Air, got next=%q", end.NextMode)
	}
	if env.impacts != 0 {
		t.Fatal("expected no impact while falling freely")
	}
}

func TestVelocityReflectsCollision(t *testing.T) {
	sm := newMachine(settings.DefaultSettings())
	// The floor stops the fall halfway through the tick.
	env := &mockEnv{floor: walkableFloor, blockAt: 0.5, normal: game.Up}
	state := movement.KinematicState{Mode: game.ModeAir, LinearVelocity: mgl32.Vec3{300, 0, -600}}

	move, end := tick(sm, env, state, movement.DefaultInput(), nil)
	got := end.State.LinearVelocity
	if got.Z() <= move.LinearVelocity.Z()*0.5-1e-2 || got.Z() >= 0 {
		t.Fatalf("expected the vertical velocity to be cut to half of %v, got %v", move.LinearVelocity.Z(), got.Z())
	}
	if !mgl32.FloatEqualThreshold(got.X(), move.LinearVelocity.X(), 1e-2) {
		t.Fatalf("expected the slide to keep the horizontal velocity %v, got %v", move.LinearVelocity.X(), got.X())
	}
	wantPos := state.Position.Add(end.State.LinearVelocity.Mul(step.Seconds()))
	if !end.State.Position.ApproxEqualThreshold(wantPos, 1e-3) {
		t.Fatalf("expected position %v to match the recorded velocity (%v)", end.State.Position, wantPos)
	}
}

func TestAirModels(t *testing.T) {
	accel := settings.DefaultSettings()
	damped := settings.DefaultSettings()
	damped.Air.Model = settings.AirModelDamping

	state := movement.KinematicState{Mode: game.ModeAir, LinearVelocity: mgl32.Vec3{800, 0, 0}}
	start := movement.TickStartData{State: &state, Input: movement.DefaultInput(), Moves: movement.NewLayeredMoveQueue()}

	a := NewAir(accel).GenerateMove(start, step)
	if a.LinearVelocity.X() != 800 {
		t.Fatalf("expected the acceleration model to keep horizontal speed, got %v", a.LinearVelocity.X())
	}
	d := NewAir(damped).GenerateMove(start, step)
	if d.LinearVelocity.X() >= 800 {
		t.Fatalf("expected the damping model to slow the mover down, got %v", d.LinearVelocity.X())
	}
}

func TestWalkFollowsFloorPlane(t *testing.T) {
	s := settings.DefaultSettings()
	ramp := mgl32.Vec3{-0.5, 0, 0.866}.Normalize()
	state := movement.KinematicState{
		Mode:  game.ModeWalk,
		Floor: movement.FloorResult{Blocking: true, Walkable: true, Normal: ramp},
	}
	in := movement.InputSnapshot{MoveInput: mgl32.Vec3{1, 0, 0}}
	start := movement.TickStartData{State: &state, Input: in, Moves: movement.NewLayeredMoveQueue()}

	move := NewWalk(s).GenerateMove(start, step)
	if move.LinearVelocity.Z() <= 0 {
		t.Fatalf("expected to accelerate up the ramp, got %v", move.LinearVelocity)
	}
	if d := move.LinearVelocity.Dot(ramp); d > 1e-3 || d < -1e-3 {
		t.Fatalf("expected the move to stay on the ramp plane, got normal component %v", d)
	}
}

func TestWalkSprint(t *testing.T) {
	s := settings.DefaultSettings()
	state := movement.KinematicState{Mode: game.ModeWalk, LinearVelocity: mgl32.Vec3{1150, 0, 0}, Floor: walkableFloor}
	walk := NewWalk(s)

	run := func(sprint bool) float32 {
		in := movement.InputSnapshot{MoveInput: mgl32.Vec3{1, 0, 0}, SprintPressed: sprint}
		start := movement.TickStartData{State: &state, Input: in, Moves: movement.NewLayeredMoveQueue()}
		return walk.GenerateMove(start, step).LinearVelocity.X()
	}
	if run(true) <= run(false) {
		t.Fatal("expected sprinting to accelerate harder")
	}
}

func TestTurnsTowardsOrientationIntent(t *testing.T) {
	sm := newMachine(settings.DefaultSettings())
	env := &mockEnv{floor: walkableFloor}
	state := movement.KinematicState{Mode: game.ModeWalk, Floor: walkableFloor}
	in := movement.InputSnapshot{OrientationIntent: mgl32.Vec3{0, 1, 0}}

	move, end := tick(sm, env, state, in, nil)
	if move.AngularVelocity.Y() != game.TurningRateLimit {
		t.Fatalf("expected a clamped yaw rate, got %v", move.AngularVelocity)
	}
	if yaw := end.State.Orientation.Y(); yaw <= 0 || yaw > 90 {
		t.Fatalf("expected to have turned part of the way to 90 degrees, got %v", yaw)
	}
	if end.State.MoveDirectionIntent != (mgl32.Vec3{0, 1, 0}) {
		t.Fatalf("expected the direction intent to be kept, got %v", end.State.MoveDirectionIntent)
	}
	if end.State.Position != state.Position {
		t.Fatal("expected turning on the spot not to move the mover")
	}
}

func TestNewMachine(t *testing.T) {
	s := settings.DefaultSettings()
	sm, err := NewMachine(s, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sm.StartingMode() != game.ModeAir {
		t.Fatalf("expected to start in %s, got %s", game.ModeAir, sm.StartingMode())
	}
	if modes := sm.Modes(); len(modes) != 2 {
		t.Fatalf("expected two modes, got %v", modes)
	}

	s.Movement.StartingMode = "Swim"
	if _, err := NewMachine(s, nil, nil); !errors.Is(err, movement.ErrUnknownMode) {
		t.Fatalf("expected ErrUnknownMode, got %v", err)
	}
}

func TestEndFloorIsLastQueried(t *testing.T) {
	ledge := movement.FloorResult{Blocking: true, Normal: mgl32.Vec3{0.8, 0, 0.6}, Distance: 0.5}
	for _, m := range []string{game.ModeWalk, game.ModeAir} {
		sm := newMachine(settings.DefaultSettings())
		env := &mockEnv{floor: ledge}
		state := movement.KinematicState{Mode: m, Floor: walkableFloor}

		_, end := tick(sm, env, state, movement.DefaultInput(), nil)
		if end.State.Floor != ledge {
			t.Fatalf("%s: expected the floor found after the move, got %+v", m, end.State.Floor)
		}
		if end.State.Mode != game.ModeAir {
			t.Fatalf("%s: expected an unwalkable floor to leave the mover airborne, got %s", m, end.State.Mode)
		}
	}
}
