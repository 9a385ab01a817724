package event

const (
	EventStateTransition  = "state.transition"
	EventJump             = "locomotion.jump"
	EventLanding          = "locomotion.landing"
	EventConfigIssue      = "config.issue"
	EventAnimationPlay    = "animation.play"
	EventAnimationParam   = "animation.param"
	EventAnimationTrigger = "animation.trigger"
)

// TransitionEvent mirrors one state machine transition. States are carried
// by name so subscribers do not depend on the locomotion package.
type TransitionEvent struct {
	BodyID string
	From   string
	To     string
	Reason string
	Tick   uint64
	Time   float64
	Dwell  float64
}

type JumpEvent struct {
	BodyID   string
	Tick     uint64
	Velocity float64
}

type LandingEvent struct {
	BodyID string
	Tick   uint64
	Kind   string
	Speed  float64
	Impact float64
}

type IssueEvent struct {
	Archetype string
	Field     string
	Problem   string
	Value     any
}

// AnimationEvent is a play, parameter or trigger request for an animation
// layer. Value is only meaningful for parameters.
type AnimationEvent struct {
	BodyID string
	Name   string
	Value  float64
}
