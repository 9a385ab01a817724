package sensor

import (
	"math"
	"testing"

	"github.com/Versifine/stride/internal/physics"
	"github.com/go-gl/mathgl/mgl64"
)

type fakeMotor struct {
	pos       mgl64.Vec3
	stable    bool
	prevented bool
	normal    mgl64.Vec3
	anyGround bool
}

func (m *fakeMotor) Position() mgl64.Vec3 { return m.pos }
func (m *fakeMotor) Radius() float64 { return 0.3 }
func (m *fakeMotor) Height() float64 { return 1.8 }
func (m *fakeMotor) IsStableOnGround() bool { return m.stable }
func (m *fakeMotor) SnappingPrevented() bool { return m.prevented }
func (m *fakeMotor) GroundNormal() mgl64.Vec3 { return m.normal }
func (m *fakeMotor) FoundAnyGround() bool { return m.anyGround }

func testSettings(ground, fall Mode) Settings {
	return Settings{
		GroundMode:    ground,
		FallMode:      fall,
		CheckDistance: 0.1,
		CheckRadius:   0.3,
		RayDistance:   1.0,
		MaxSlopeAngle: 45,
		Mask:          physics.LayerMask(physics.LayerGround),
	}
}

func floorGrid() *physics.Grid {
	g := physics.NewGrid()
	g.Fill(-3, -1, -3, 3, -1, 3, physics.LayerGround)
	return g
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in    string
		want  Mode
		known bool
	}{
		{"motor", ModeMotor, true},
		{" CAST ", ModeCast, true},
		{"raycast", ModeMotor, false},
		{"", ModeMotor, false},
	}
	for _, tt := range tests {
		got, known := ParseMode(tt.in)
		if got != tt.want || known != tt.known {
			t.Fatalf("ParseMode(%q) = %q,%t want %q,%t", tt.in, got, known, tt.want, tt.known)
		}
	}
}

func TestMotorGround(t *testing.T) {
	steep := mgl64.Vec3{0, 1, 1.5}.Normalize()
	tests := []struct {
		name         string
		motor        *fakeMotor
		wantGrounded bool
		wantWalkable bool
		wantAny      bool
	}{
		{"flat", &fakeMotor{stable: true, normal: physics.Up, anyGround: true}, true, true, true},
		{"steep", &fakeMotor{stable: false, normal: steep, anyGround: true}, false, false, true},
		{"air", &fakeMotor{normal: physics.Up}, false, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewGroundSensor(testSettings(ModeMotor, ModeMotor), nil)
			s.Evaluate(tt.motor)
			info := s.Info()
			if info.Grounded != tt.wantGrounded || info.Walkable != tt.wantWalkable || info.FoundAnyGround != tt.wantAny {
				t.Fatalf("info = %+v", info)
			}
			if s.Grounded() != tt.wantGrounded {
				t.Fatalf("Grounded() = %t", s.Grounded())
			}
		})
	}
}

func TestMotorGround_SlopeAngle(t *testing.T) {
	s := NewGroundSensor(testSettings(ModeMotor, ModeMotor), nil)
	s.Evaluate(&fakeMotor{normal: mgl64.Vec3{0, 1, 1}.Normalize(), anyGround: true})
	if math.Abs(s.Info().SlopeAngle-45) > 1e-9 {
		t.Fatalf("slope = %v, want 45", s.Info().SlopeAngle)
	}
	if !s.Info().Walkable {
		t.Fatalf("45 degrees should be walkable at max 45")
	}
}

func TestMotorFall(t *testing.T) {
	tests := []struct {
		name  string
		motor *fakeMotor
		want  bool
	}{
		{"stable", &fakeMotor{stable: true}, false},
		{"snapping prevented", &fakeMotor{stable: true, prevented: true}, true},
		{"unstable", &fakeMotor{stable: false}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFallSensor(testSettings(ModeMotor, ModeMotor), nil)
			f.Evaluate(tt.motor)
			if f.IsOverEdge() != tt.want {
				t.Fatalf("IsOverEdge() = %t, want %t", f.IsOverEdge(), tt.want)
			}
		})
	}
}

func TestCastGround(t *testing.T) {
	w := physics.NewWorld(floorGrid())
	s := NewGroundSensor(testSettings(ModeCast, ModeCast), w)

	s.Evaluate(&fakeMotor{pos: mgl64.Vec3{0.5, 0, 0.5}})
	if !s.Grounded() {
		t.Fatalf("standing on the floor should be grounded")
	}
	if s.Info().SlopeAngle != 0 || !s.Info().Walkable {
		t.Fatalf("info = %+v", s.Info())
	}

	s.Evaluate(&fakeMotor{pos: mgl64.Vec3{0.5, 0.5, 0.5}})
	if s.Grounded() || s.Info().FoundAnyGround {
		t.Fatalf("half a block above the floor should be airborne")
	}
}

func TestCastGround_IgnoresTriggers(t *testing.T) {
	g := physics.NewGrid()
	g.Set(0, -1, 0, physics.LayerTrigger)
	s := NewGroundSensor(testSettings(ModeCast, ModeCast), physics.NewWorld(g))

	s.Evaluate(&fakeMotor{pos: mgl64.Vec3{0.5, 0, 0.5}})
	if s.Grounded() {
		t.Fatalf("trigger volume reported as ground")
	}
}

func TestCastGround_SteepSlope(t *testing.T) {
	g := physics.NewGrid()
	g.SetSlope(0, -1, 0, mgl64.Vec3{0, 1, 1.5})
	s := NewGroundSensor(testSettings(ModeCast, ModeCast), physics.NewWorld(g))

	s.Evaluate(&fakeMotor{pos: mgl64.Vec3{0.5, 0, 0.5}})
	info := s.Info()
	if !info.FoundAnyGround || info.Walkable {
		t.Fatalf("info = %+v, want found ground that is not walkable", info)
	}
}

func TestCastFall(t *testing.T) {
	g := floorGrid()
	f := NewFallSensor(testSettings(ModeCast, ModeCast), physics.NewWorld(g))

	f.Evaluate(&fakeMotor{pos: mgl64.Vec3{0.5, 0, 0.5}})
	if f.IsOverEdge() {
		t.Fatalf("over edge on solid floor")
	}

	f.Evaluate(&fakeMotor{pos: mgl64.Vec3{0.5, 0.8, 0.5}})
	if f.IsOverEdge() {
		t.Fatalf("over edge with floor within ray distance")
	}

	f.Evaluate(&fakeMotor{pos: mgl64.Vec3{10.5, 0, 0.5}})
	if !f.IsOverEdge() {
		t.Fatalf("no edge reported past the end of the floor")
	}
}

func TestNilCasterIsSafe(t *testing.T) {
	s := NewGroundSensor(testSettings(ModeCast, ModeCast), nil)
	f := NewFallSensor(testSettings(ModeCast, ModeCast), nil)
	m := &fakeMotor{stable: true, anyGround: true, normal: physics.Up}

	s.Evaluate(m)
	f.Evaluate(m)

	if s.Grounded() {
		t.Fatalf("cast ground without a caster reported grounded")
	}
	if f.IsOverEdge() {
		t.Fatalf("cast fall without a caster reported an edge")
	}
}

func TestSensorsReadTheMotorTheyAreGiven(t *testing.T) {
	g := NewGroundSensor(testSettings(ModeMotor, ModeMotor), nil)
	f := NewFallSensor(testSettings(ModeMotor, ModeMotor), nil)

	g.Evaluate(&fakeMotor{stable: true, anyGround: true, normal: physics.Up})
	f.Evaluate(&fakeMotor{stable: true, anyGround: true, normal: physics.Up})
	if !g.Grounded() || f.IsOverEdge() {
		t.Fatalf("grounded = %t overEdge = %t on a stable motor", g.Grounded(), f.IsOverEdge())
	}

	var m *fakeMotor
	defer func() {
		if recover() == nil {
			t.Fatalf("a nil motor was silently treated as airborne")
		}
	}()
	g.Evaluate(m)
}
