package animation

import "github.com/Versifine/stride/internal/event"

// Parameter names set on every tick by Bridge.
const (
	ParamSpeed            = "Speed"
	ParamTargetSpeed      = "TargetSpeed"
	ParamVerticalVelocity = "VerticalVelocity"
	ParamLandingImpact    = "LandingImpact"
	ParamGrounded         = "Grounded"

	TriggerJump = "Jump"
	TriggerLand = "Land"
)

// Sink receives animation requests. Implementations must not call back into
// the locomotion core.
type Sink interface {
	PlayState(name string)
	SetFloat(name string, v float64)
	Trigger(name string)
}

// Nop discards everything.
type Nop struct{}

func (Nop) PlayState(string) {}
func (Nop) SetFloat(string, float64) {}
func (Nop) Trigger(string) {}

// Tee fans every request out to sinks in order. Nil sinks are skipped.
func Tee(sinks ...Sink) Sink {
	out := make(tee, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

type tee []Sink

func (t tee) PlayState(name string) {
	for _, s := range t {
		s.PlayState(name)
	}
}

func (t tee) SetFloat(name string, v float64) {
	for _, s := range t {
		s.SetFloat(name, v)
	}
}

func (t tee) Trigger(name string) {
	for _, s := range t {
		s.Trigger(name)
	}
}

// BusSink publishes animation requests on an event bus.
type BusSink struct {
	bus    *event.Bus
	bodyID string
}

func NewBusSink(bus *event.Bus, bodyID string) *BusSink {
	return &BusSink{bus: bus, bodyID: bodyID}
}

func (s *BusSink) PlayState(name string) {
	s.publish(event.EventAnimationPlay, name, 0)
}

func (s *BusSink) SetFloat(name string, v float64) {
	s.publish(event.EventAnimationParam, name, v)
}

func (s *BusSink) Trigger(name string) {
	s.publish(event.EventAnimationTrigger, name, 0)
}

func (s *BusSink) publish(eventName, name string, v float64) {
	if s.bus == nil || !s.bus.HasSubscribers(eventName) {
		return
	}
	s.bus.Publish(eventName, &event.AnimationEvent{BodyID: s.bodyID, Name: name, Value: v})
}
