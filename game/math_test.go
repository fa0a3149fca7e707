package game

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestWrapYawDelta(t *testing.T) {
	cases := map[float32]float32{
		0:    0,
		190:  -170,
		-190: 170,
		180:  180,
		-180: 180,
		720:  0,
		-350: 10,
	}
	for in, want := range cases {
		if got := WrapYawDelta(in); !Float32ApproxEq(got, want) {
			t.Errorf("WrapYawDelta(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestRotateVectorYaw(t *testing.T) {
	got := RotateVector(mgl32.Vec3{0, 90, 0}, Forward)
	if !Vec32ApproxEq(got, mgl32.Vec3{0, 1, 0}) {
		t.Fatalf("expected forward rotated by 90 yaw to face +Y, got %v", got)
	}
}

func TestRotateVectorPitch(t *testing.T) {
	got := RotateVector(mgl32.Vec3{90, 0, 0}, Forward)
	if !Vec32ApproxEq(got, Up) {
		t.Fatalf("expected forward pitched up by 90 to face up, got %v", got)
	}
}

func TestRotatorFromDirectionRoundTrip(t *testing.T) {
	dir := mgl32.Vec3{1, 1, 0}.Normalize()
	rot := RotatorFromDirection(dir)
	if !Float32ApproxEq(rot[1], 45) || !Float32ApproxEq(rot[0], 0) {
		t.Fatalf("unexpected rotator %v", rot)
	}
	if back := DirectionVector(rot); !Vec32ApproxEq(back, dir) {
		t.Fatalf("expected %v back, got %v", dir, back)
	}
	if got := RotateVector(rot, Forward); !Vec32ApproxEq(got, dir) {
		t.Fatalf("RotateVector disagrees with DirectionVector: %v", got)
	}
}

func TestVectorPlaneProject(t *testing.T) {
	got := VectorPlaneProject(mgl32.Vec3{3, 4, 5}, Up)
	if got != (mgl32.Vec3{3, 4, 0}) {
		t.Fatalf("unexpected projection %v", got)
	}
}

func TestNormalizeToRange(t *testing.T) {
	if got := NormalizeToRange(600, 0, 1200); got != 0.5 {
		t.Fatalf("expected 0.5, got %v", got)
	}
	if got := NormalizeToRange(5, 3, 3); got != 1 {
		t.Fatalf("expected degenerate range to return 1, got %v", got)
	}
}

func TestSafeNormal(t *testing.T) {
	if got := SafeNormal(mgl32.Vec3{1e-6, 0, 0}); got != (mgl32.Vec3{}) {
		t.Fatalf("expected zero vector, got %v", got)
	}
	if got := SafeNormal(mgl32.Vec3{0, 0, 2}); got != Up {
		t.Fatalf("expected up, got %v", got)
	}
}

func TestPercentile(t *testing.T) {
	data := []float64{5, 1, 4, 2, 3}
	if got := Median(data); got != 3 {
		t.Fatalf("expected median 3, got %v", got)
	}
	if got := Percentile(data, 1); got != 5 {
		t.Fatalf("expected p100 5, got %v", got)
	}
	if data[0] != 5 {
		t.Fatal("Percentile must not reorder its input")
	}
}

func TestVec32ApproxEq(t *testing.T) {
	if !Vec32ApproxEq(mgl32.Vec3{5.96e-8, 0.99999994, 0}, mgl32.Vec3{0, 1, 0}) {
		t.Fatal("expected rounding noise around zero to compare equal")
	}
	if Vec32ApproxEq(mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 1, 1e-3}) {
		t.Fatal("expected a difference in one component to compare unequal")
	}
}
