package animation

import "github.com/Versifine/stride/internal/locomotion"

// Bridge turns locomotion transitions and per-tick context values into sink
// requests.
type Bridge struct {
	sink Sink
	cue  func(locomotion.StateID) string
}

// NewBridge plays the cue of every entered state. cue resolves a state id
// to its clip name; nil uses the state name. A nil sink discards everything.
func NewBridge(sink Sink, cue func(locomotion.StateID) string) *Bridge {
	if sink == nil {
		sink = Nop{}
	}
	if cue == nil {
		cue = locomotion.StateID.String
	}
	return &Bridge{sink: sink, cue: cue}
}

func (b *Bridge) OnTransition(ctx *locomotion.Context, t locomotion.Transition) {
	b.sink.PlayState(b.cue(t.To))
	if t.Reason == locomotion.ReasonForced {
		return
	}
	if t.From == locomotion.StateFalling {
		b.sink.SetFloat(ParamLandingImpact, ctx.LandingImpact)
		b.sink.Trigger(TriggerLand)
	}
	if t.To == locomotion.StateJumping {
		b.sink.Trigger(TriggerJump)
	}
}

// Sync pushes the continuous parameters for this tick.
func (b *Bridge) Sync(ctx *locomotion.Context) {
	b.sink.SetFloat(ParamSpeed, ctx.HorizontalSpeed())
	b.sink.SetFloat(ParamTargetSpeed, ctx.TargetSpeed)
	b.sink.SetFloat(ParamVerticalVelocity, ctx.VerticalVelocity)
	b.sink.SetFloat(ParamLandingImpact, ctx.LandingImpact)
	grounded := 0.0
	if ctx.Grounded {
		grounded = 1
	}
	b.sink.SetFloat(ParamGrounded, grounded)
}
