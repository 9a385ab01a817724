package animation

import "sync"

// ClipPlayer tracks the clip currently playing and how far into it it is.
// Clips without a configured length loop forever and never finish.
type ClipPlayer struct {
	mu      sync.RWMutex
	lengths map[string]float64
	current string
	elapsed float64
	params  map[string]float64
}

func NewClipPlayer(lengths map[string]float64) *ClipPlayer {
	p := &ClipPlayer{
		lengths: make(map[string]float64, len(lengths)),
		params:  make(map[string]float64),
	}
	for name, l := range lengths {
		if l > 0 {
			p.lengths[name] = l
		}
	}
	return p
}

// PlayState restarts the clip, even when it is already playing.
func (p *ClipPlayer) PlayState(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = name
	p.elapsed = 0
}

func (p *ClipPlayer) SetFloat(name string, v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.params[name] = v
}

func (p *ClipPlayer) Trigger(string) {}

func (p *ClipPlayer) Advance(dt float64) {
	if dt <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.elapsed += dt
}

// Finished reports whether cue is the current clip and has played through.
func (p *ClipPlayer) Finished(cue string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	l, ok := p.lengths[cue]
	return ok && p.current == cue && p.elapsed >= l
}

func (p *ClipPlayer) Current() (string, float64) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current, p.elapsed
}

func (p *ClipPlayer) Float(name string) float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.params[name]
}
