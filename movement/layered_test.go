package movement

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/mover/game"
)

func startWith(v mgl32.Vec3, in InputSnapshot, q *LayeredMoveQueue) TickStartData {
	return TickStartData{State: &KinematicState{LinearVelocity: v}, Input: in, Moves: q}
}

func TestLayeredOverridePrecedence(t *testing.T) {
	a := mgl32.Vec3{100, 0, 0}
	b := mgl32.Vec3{0, 250, 0}
	for _, mix := range []MixMode{MixModeOverrideVelocity, MixModeOverrideAll} {
		q := NewLayeredMoveQueue()
		q.Queue(&Override{Velocity: a, Mix: mix, Duration: -1})
		q.Queue(&Override{Velocity: b, Mix: mix, Duration: -1})

		move := ProposedMove{LinearVelocity: mgl32.Vec3{1, 2, 3}}
		q.Mix(startWith(mgl32.Vec3{}, DefaultInput(), q), TimeStep{StepMs: 16}, &move, NopTracer{})
		if move.LinearVelocity != b {
			t.Fatalf("%s: expected the later override %v to win, got %v", mix, b, move.LinearVelocity)
		}

		q = NewLayeredMoveQueue()
		q.Queue(&Override{Velocity: b, Mix: mix, Duration: -1})
		q.Queue(&Override{Velocity: a, Mix: mix, Duration: -1})
		move = ProposedMove{}
		q.Mix(startWith(mgl32.Vec3{}, DefaultInput(), q), TimeStep{StepMs: 16}, &move, NopTracer{})
		if move.LinearVelocity != a {
			t.Fatalf("%s: expected the later override %v to win, got %v", mix, a, move.LinearVelocity)
		}
	}
}

func TestLayeredAdditiveThenOverride(t *testing.T) {
	q := NewLayeredMoveQueue()
	q.Queue(&JumpImpulse{UpwardsSpeed: 300})
	q.Queue(&Override{Velocity: mgl32.Vec3{5, 0, 0}, Mix: MixModeOverrideVelocity, Duration: -1})

	move := ProposedMove{LinearVelocity: mgl32.Vec3{0, 10, 0}}
	q.Mix(startWith(mgl32.Vec3{}, DefaultInput(), q), TimeStep{StepMs: 16}, &move, NopTracer{})
	if move.LinearVelocity != (mgl32.Vec3{5, 0, 0}) {
		t.Fatalf("expected the override to replace the jump, got %v", move.LinearVelocity)
	}

	q = NewLayeredMoveQueue()
	q.Queue(&Override{Velocity: mgl32.Vec3{5, 0, 0}, Mix: MixModeOverrideVelocity, Duration: -1})
	q.Queue(&JumpImpulse{UpwardsSpeed: 300})
	move = ProposedMove{}
	q.Mix(startWith(mgl32.Vec3{}, DefaultInput(), q), TimeStep{StepMs: 16}, &move, NopTracer{})
	if move.LinearVelocity != (mgl32.Vec3{5, 0, 300}) {
		t.Fatalf("expected the jump to add onto the override, got %v", move.LinearVelocity)
	}
}

func TestJumpImpulseConsumedOnce(t *testing.T) {
	q := NewLayeredMoveQueue()
	q.Queue(&JumpImpulse{UpwardsSpeed: 300})
	start := startWith(mgl32.Vec3{}, DefaultInput(), q)
	ts := TimeStep{StepMs: 16}

	move := ProposedMove{}
	q.Mix(start, ts, &move, NopTracer{})
	if move.LinearVelocity != game.Up.Mul(300) {
		t.Fatalf("expected an upward impulse of 300, got %v", move.LinearVelocity)
	}
	q.Advance(start, ts, NopTracer{})
	if q.Len() != 0 {
		t.Fatalf("expected the impulse to be consumed, %d moves left", q.Len())
	}
}

func TestLayeredDuration(t *testing.T) {
	q := NewLayeredMoveQueue()
	q.Queue(&Override{Velocity: mgl32.Vec3{1, 0, 0}, Mix: MixModeOverrideVelocity, Duration: 50})
	start := startWith(mgl32.Vec3{}, DefaultInput(), q)

	for i, wantLen := range []int{1, 1, 0} {
		ts := TimeStep{BaseSimTimeMs: float64(i) * 20, StepMs: 20}
		q.Advance(start, ts, NopTracer{})
		if q.Len() != wantLen {
			t.Fatalf("after tick %d expected %d moves, got %d", i, wantLen, q.Len())
		}
		if wantLen > 0 {
			if startMs, started := q.StartTime(0); !started || startMs != 0 {
				t.Fatalf("expected the move to have started at 0ms, got %v (started=%t)", startMs, started)
			}
		}
	}
}

func TestCrouchLastsUntilReleased(t *testing.T) {
	q := NewLayeredMoveQueue()
	q.Queue(NewCrouch(0.75, -1))
	v := mgl32.Vec3{400, 0, 0}
	held := InputSnapshot{CrouchPressed: true}
	ts := TimeStep{StepMs: 16}

	for i := 0; i < 5; i++ {
		start := startWith(v, held, q)
		move := ProposedMove{LinearVelocity: mgl32.Vec3{1000, 0, 0}}
		q.Mix(start, ts, &move, NopTracer{})
		if move.LinearVelocity != v.Mul(0.75) {
			t.Fatalf("tick %d: expected the crouch to scale the prior velocity, got %v", i, move.LinearVelocity)
		}
		q.Advance(start, ts, NopTracer{})
		if !q.Has(LayeredMoveCrouch) {
			t.Fatalf("tick %d: crouch ended while still held", i)
		}
		ts.BaseSimTimeMs += float64(ts.StepMs)
	}

	released := startWith(v, DefaultInput(), q)
	move := ProposedMove{LinearVelocity: mgl32.Vec3{1000, 0, 0}}
	q.Mix(released, ts, &move, NopTracer{})
	if move.LinearVelocity != (mgl32.Vec3{1000, 0, 0}) {
		t.Fatalf("expected a released crouch to contribute nothing, got %v", move.LinearVelocity)
	}
	q.Advance(released, ts, NopTracer{})
	if q.Has(LayeredMoveCrouch) {
		t.Fatal("expected the crouch to end once released")
	}
}

func TestLayeredQueueClone(t *testing.T) {
	q := NewLayeredMoveQueue()
	q.Queue(&JumpImpulse{UpwardsSpeed: 300})
	q.Queue(NewCrouch(0.5, -1))

	c := q.Clone()
	c.Advance(startWith(mgl32.Vec3{}, DefaultInput(), c), TimeStep{StepMs: 16}, NopTracer{})
	if c.Len() != 0 {
		t.Fatalf("expected the clone to drop both moves, got %d", c.Len())
	}
	if q.Len() != 2 {
		t.Fatalf("advancing a clone changed the original queue: %d moves", q.Len())
	}

	c = q.Clone()
	c.Moves()[0].(*JumpImpulse).UpwardsSpeed = 1
	if q.Moves()[0].(*JumpImpulse).UpwardsSpeed != 300 {
		t.Fatal("expected the clone to own copies of its moves")
	}

	if n := q.Cancel(LayeredMoveCrouch); n != 1 || q.Len() != 1 {
		t.Fatalf("expected Cancel to remove exactly the crouch, removed %d, %d left", n, q.Len())
	}
}

func TestTeleportLayeredMove(t *testing.T) {
	q := NewLayeredMoveQueue()
	target := mgl32.Vec3{10, 20, 30}
	q.Queue(&Teleport{Target: target})
	move := ProposedMove{}
	q.Mix(startWith(mgl32.Vec3{}, DefaultInput(), q), TimeStep{StepMs: 16}, &move, NopTracer{})
	if !move.HasTargetLocation || move.TargetLocation != target {
		t.Fatalf("expected the teleport target to be set, got %+v", move)
	}
}
