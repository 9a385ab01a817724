package locomotion

import (
	"fmt"
	"strings"

	"github.com/Versifine/stride/internal/physics"
	"github.com/Versifine/stride/internal/sensor"
	"github.com/go-gl/mathgl/mgl64"
)

// RollTrigger selects what turns a hard landing into a roll.
type RollTrigger string

const (
	RollOnMovement RollTrigger = "movement"
	RollOnButton   RollTrigger = "button"
)

// Config is the tuning of one character archetype. It is read-only once a
// body is built and shared by pointer across all states.
type Config struct {
	WalkSpeed          float64 `yaml:"walk_speed"`
	RunSpeed           float64 `yaml:"run_speed"`
	SprintSpeed        float64 `yaml:"sprint_speed"`
	WalkAcceleration   float64 `yaml:"walk_acceleration"`
	RunAcceleration    float64 `yaml:"run_acceleration"`
	SprintAcceleration float64 `yaml:"sprint_acceleration"`

	LightStopDeceleration  float64 `yaml:"light_stop_deceleration"`
	MediumStopDeceleration float64 `yaml:"medium_stop_deceleration"`
	HardStopDeceleration   float64 `yaml:"hard_stop_deceleration"`
	StopSpeedThreshold     float64 `yaml:"stop_speed_threshold"`
	WalkInputThreshold     float64 `yaml:"walk_input_threshold"`

	AirControl float64 `yaml:"air_control"`
	AirDrag    float64 `yaml:"air_drag"`

	Gravity           float64 `yaml:"gravity"`
	JumpHeight        float64 `yaml:"jump_height"`
	JumpDuration      float64 `yaml:"jump_duration"`
	CoyoteTime        float64 `yaml:"coyote_time"`
	JumpBufferTime    float64 `yaml:"jump_buffer_time"`
	VariableJump      bool    `yaml:"variable_jump"`
	JumpCutMultiplier float64 `yaml:"jump_cut_multiplier"`

	MaxSlopeAngle            float64 `yaml:"max_slope_angle"`
	SlideExitHysteresis      float64 `yaml:"slide_exit_hysteresis"`
	SlideMinDwell            float64 `yaml:"slide_min_dwell"`
	SlideAcceleration        float64 `yaml:"slide_acceleration"`
	SlideMaxSpeed            float64 `yaml:"slide_max_speed"`
	SlideTurnSpeed           float64 `yaml:"slide_turn_speed"`
	SlideJumpEnabled         bool    `yaml:"slide_jump_enabled"`
	SlideJumpForceMultiplier float64 `yaml:"slide_jump_force_multiplier"`

	SoftLandingThreshold float64 `yaml:"soft_landing_threshold"`
	HardLandingThreshold float64 `yaml:"hard_landing_threshold"`
	SoftLandingRecovery  float64 `yaml:"soft_landing_recovery"`
	HardLandingRecovery  float64 `yaml:"hard_landing_recovery"`

	RollEnabled       bool        `yaml:"roll_enabled"`
	RollTrigger       RollTrigger `yaml:"roll_trigger"`
	RollSpeedModifier float64     `yaml:"roll_speed_modifier"`
	RollDuration      float64     `yaml:"roll_duration"`
	DashRollEnabled   bool        `yaml:"dash_roll_enabled"`

	GroundDetection      sensor.Mode `yaml:"ground_detection"`
	FallDetection        sensor.Mode `yaml:"fall_detection"`
	GroundCheckDistance  float64     `yaml:"ground_check_distance"`
	GroundCheckRadius    float64     `yaml:"ground_check_radius"`
	FallRayDistance      float64     `yaml:"fall_ray_distance"`
	CeilingCheckDistance float64     `yaml:"ceiling_check_distance"`
	GroundLayers         []string    `yaml:"ground_layers"`
	FallGuardTicks       int         `yaml:"fall_guard_ticks"`
}

func DefaultConfig() Config {
	return Config{
		WalkSpeed:          2,
		RunSpeed:           5,
		SprintSpeed:        8,
		WalkAcceleration:   20,
		RunAcceleration:    25,
		SprintAcceleration: 30,

		LightStopDeceleration:  15,
		MediumStopDeceleration: 22,
		HardStopDeceleration:   30,
		StopSpeedThreshold:     0.05,
		WalkInputThreshold:     0.5,

		AirControl: 5,
		AirDrag:    0,

		Gravity:           20,
		JumpHeight:        2,
		JumpDuration:      0,
		CoyoteTime:        0.15,
		JumpBufferTime:    0.15,
		VariableJump:      true,
		JumpCutMultiplier: 0.5,

		MaxSlopeAngle:            45,
		SlideExitHysteresis:      5,
		SlideMinDwell:            0.1,
		SlideAcceleration:        12,
		SlideMaxSpeed:            12,
		SlideTurnSpeed:           360,
		SlideJumpEnabled:         true,
		SlideJumpForceMultiplier: 0.6,

		SoftLandingThreshold: 4,
		HardLandingThreshold: 8,
		SoftLandingRecovery:  0.1,
		HardLandingRecovery:  0.5,

		RollEnabled:       true,
		RollTrigger:       RollOnMovement,
		RollSpeedModifier: 1.2,
		RollDuration:      0.6,
		DashRollEnabled:   true,

		GroundDetection:      sensor.ModeMotor,
		FallDetection:        sensor.ModeMotor,
		GroundCheckDistance:  0.1,
		GroundCheckRadius:    0.3,
		FallRayDistance:      1.0,
		CeilingCheckDistance: 0.1,
		GroundLayers:         []string{"ground"},
		FallGuardTicks:       3,
	}
}

// Issue is one configuration problem found by Validate.
type Issue struct {
	Field   string
	Problem string
	Value   any
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s (got %v)", i.Field, i.Problem, i.Value)
}

type issues []Issue

func (is *issues) add(field, problem string, value any) {
	*is = append(*is, Issue{Field: field, Problem: problem, Value: value})
}

func (is *issues) positive(field string, v float64) {
	if v <= 0 {
		is.add(field, "must be positive", v)
	}
}

func (is *issues) nonNegative(field string, v float64) {
	if v < 0 {
		is.add(field, "must not be negative", v)
	}
}

// Validate reports every invalid or suspicious value. It never fails; the
// caller decides whether to log, report or Sanitize.
func (c Config) Validate() []Issue {
	var is issues

	is.positive("walk_speed", c.WalkSpeed)
	is.positive("run_speed", c.RunSpeed)
	is.positive("sprint_speed", c.SprintSpeed)
	if c.WalkSpeed > c.RunSpeed || c.RunSpeed > c.SprintSpeed {
		is.add("run_speed", "speeds should satisfy walk <= run <= sprint",
			fmt.Sprintf("%g/%g/%g", c.WalkSpeed, c.RunSpeed, c.SprintSpeed))
	}
	is.positive("walk_acceleration", c.WalkAcceleration)
	is.positive("run_acceleration", c.RunAcceleration)
	is.positive("sprint_acceleration", c.SprintAcceleration)
	is.positive("light_stop_deceleration", c.LightStopDeceleration)
	is.positive("medium_stop_deceleration", c.MediumStopDeceleration)
	is.positive("hard_stop_deceleration", c.HardStopDeceleration)
	is.nonNegative("stop_speed_threshold", c.StopSpeedThreshold)
	if c.WalkInputThreshold < 0 || c.WalkInputThreshold > 1 {
		is.add("walk_input_threshold", "must be within [0, 1]", c.WalkInputThreshold)
	}

	is.nonNegative("air_control", c.AirControl)
	is.nonNegative("air_drag", c.AirDrag)

	if c.Gravity <= 0 {
		is.add("gravity", "non-positive gravity disables gravity", c.Gravity)
	}
	is.positive("jump_height", c.JumpHeight)
	is.nonNegative("jump_duration", c.JumpDuration)
	is.nonNegative("coyote_time", c.CoyoteTime)
	is.nonNegative("jump_buffer_time", c.JumpBufferTime)
	if c.JumpCutMultiplier < 0 || c.JumpCutMultiplier > 1 {
		is.add("jump_cut_multiplier", "must be within [0, 1]", c.JumpCutMultiplier)
	}

	if c.MaxSlopeAngle < 0 || c.MaxSlopeAngle > 90 {
		is.add("max_slope_angle", "must be within [0, 90] degrees", c.MaxSlopeAngle)
	}
	if c.SlideExitHysteresis < 0 || c.SlideExitHysteresis > c.MaxSlopeAngle {
		is.add("slide_exit_hysteresis", "must be within [0, max_slope_angle]", c.SlideExitHysteresis)
	}
	is.nonNegative("slide_min_dwell", c.SlideMinDwell)
	is.nonNegative("slide_acceleration", c.SlideAcceleration)
	is.nonNegative("slide_max_speed", c.SlideMaxSpeed)
	is.nonNegative("slide_turn_speed", c.SlideTurnSpeed)
	if c.SlideJumpForceMultiplier < 0 {
		is.add("slide_jump_force_multiplier", "must not be negative", c.SlideJumpForceMultiplier)
	}

	is.nonNegative("soft_landing_threshold", c.SoftLandingThreshold)
	is.nonNegative("hard_landing_threshold", c.HardLandingThreshold)
	if c.SoftLandingThreshold > c.HardLandingThreshold {
		is.add("soft_landing_threshold", "must not exceed hard_landing_threshold", c.SoftLandingThreshold)
	}
	is.nonNegative("soft_landing_recovery", c.SoftLandingRecovery)
	is.nonNegative("hard_landing_recovery", c.HardLandingRecovery)

	if c.RollTrigger != RollOnMovement && c.RollTrigger != RollOnButton {
		is.add("roll_trigger", "must be movement or button", c.RollTrigger)
	}
	is.positive("roll_speed_modifier", c.RollSpeedModifier)
	is.positive("roll_duration", c.RollDuration)

	if _, ok := sensor.ParseMode(string(c.GroundDetection)); !ok {
		is.add("ground_detection", "must be motor or cast", c.GroundDetection)
	}
	if _, ok := sensor.ParseMode(string(c.FallDetection)); !ok {
		is.add("fall_detection", "must be motor or cast", c.FallDetection)
	}
	is.nonNegative("ground_check_distance", c.GroundCheckDistance)
	is.positive("ground_check_radius", c.GroundCheckRadius)
	is.positive("fall_ray_distance", c.FallRayDistance)
	is.nonNegative("ceiling_check_distance", c.CeilingCheckDistance)
	mask, unknown := physics.ParseLayers(c.GroundLayers)
	if len(unknown) > 0 {
		is.add("ground_layers", "unknown layer names", strings.Join(unknown, ","))
	}
	if mask == 0 {
		is.add("ground_layers", "no usable layer, falling back to ground", c.GroundLayers)
	}
	if c.FallGuardTicks < 1 {
		is.add("fall_guard_ticks", "must be at least 1", c.FallGuardTicks)
	}
	return is
}

// Sanitize returns a copy with every invalid value replaced by a defined one.
// Non-positive gravity is kept at zero and means no gravity is applied.
func (c Config) Sanitize() Config {
	out := c
	out.GroundLayers = append([]string(nil), c.GroundLayers...)

	clampMin := func(v *float64, lo float64) {
		if *v < lo {
			*v = lo
		}
	}
	for _, v := range []*float64{
		&out.WalkSpeed, &out.RunSpeed, &out.SprintSpeed,
		&out.WalkAcceleration, &out.RunAcceleration, &out.SprintAcceleration,
		&out.LightStopDeceleration, &out.MediumStopDeceleration, &out.HardStopDeceleration,
		&out.StopSpeedThreshold, &out.AirControl, &out.AirDrag, &out.Gravity,
		&out.JumpHeight, &out.JumpDuration, &out.CoyoteTime, &out.JumpBufferTime,
		&out.SlideMinDwell, &out.SlideAcceleration, &out.SlideMaxSpeed, &out.SlideTurnSpeed,
		&out.SlideJumpForceMultiplier, &out.SoftLandingThreshold, &out.HardLandingThreshold,
		&out.SoftLandingRecovery, &out.HardLandingRecovery, &out.RollSpeedModifier,
		&out.RollDuration, &out.GroundCheckDistance, &out.GroundCheckRadius,
		&out.FallRayDistance, &out.CeilingCheckDistance,
	} {
		clampMin(v, 0)
	}

	out.WalkInputThreshold = mgl64.Clamp(out.WalkInputThreshold, 0, 1)
	out.JumpCutMultiplier = mgl64.Clamp(out.JumpCutMultiplier, 0, 1)
	out.MaxSlopeAngle = mgl64.Clamp(out.MaxSlopeAngle, 0, 90)
	out.SlideExitHysteresis = mgl64.Clamp(out.SlideExitHysteresis, 0, out.MaxSlopeAngle)
	if out.SoftLandingThreshold > out.HardLandingThreshold {
		out.SoftLandingThreshold, out.HardLandingThreshold = out.HardLandingThreshold, out.SoftLandingThreshold
	}
	if out.RollTrigger != RollOnButton {
		out.RollTrigger = RollOnMovement
	}
	out.GroundDetection, _ = sensor.ParseMode(string(out.GroundDetection))
	out.FallDetection, _ = sensor.ParseMode(string(out.FallDetection))
	if out.FallGuardTicks < 1 {
		out.FallGuardTicks = 1
	}
	return out
}

// GroundMask resolves GroundLayers, defaulting to the ground layer.
func (c *Config) GroundMask() physics.LayerMask {
	mask, _ := physics.ParseLayers(c.GroundLayers)
	if mask == 0 {
		return physics.LayerMask(physics.LayerGround)
	}
	return mask
}

// SensorSettings maps the sensing fields onto sensor.Settings.
func (c *Config) SensorSettings() sensor.Settings {
	return sensor.Settings{
		GroundMode:    c.GroundDetection,
		FallMode:      c.FallDetection,
		CheckDistance: c.GroundCheckDistance,
		CheckRadius:   c.GroundCheckRadius,
		RayDistance:   c.FallRayDistance,
		MaxSlopeAngle: c.MaxSlopeAngle,
		Mask:          c.GroundMask(),
	}
}

// StopDeceleration returns the deceleration of a stopping tier.
func (c *Config) StopDeceleration(id StateID) float64 {
	switch id {
	case StateLightStop:
		return c.LightStopDeceleration
	case StateMediumStop:
		return c.MediumStopDeceleration
	case StateHardStop:
		return c.HardStopDeceleration
	default:
		return 0
	}
}

func (c *Config) tierSpeed(id StateID) (speed, accel float64) {
	switch id {
	case StateWalk:
		return c.WalkSpeed, c.WalkAcceleration
	case StateSprint:
		return c.SprintSpeed, c.SprintAcceleration
	default:
		return c.RunSpeed, c.RunAcceleration
	}
}
