package locomotion

// CommandKind names a one-shot motion intent.
type CommandKind uint8

const (
	// CommandJump sets vertical velocity to Value.
	CommandJump CommandKind = iota + 1
	// CommandJumpCut scales positive vertical velocity by Value.
	CommandJumpCut
	// CommandResetVertical zeroes vertical velocity.
	CommandResetVertical
)

func (k CommandKind) String() string {
	switch k {
	case CommandJump:
		return "jump"
	case CommandJumpCut:
		return "jump_cut"
	case CommandResetVertical:
		return "reset_vertical"
	default:
		return "unknown"
	}
}

type Command struct {
	Kind  CommandKind
	Value float64
}

// Commands is the per-tick intent queue. It holds at most one command of
// each kind; Drain visits commands in push order and Reset empties the queue.
// The driver calls Reset at the end of every physics tick, drained or not.
type Commands struct {
	queue []Command
	seen  uint8
}

// Push queues a command. A second command of a kind already queued this tick
// is dropped and Push reports false.
func (c *Commands) Push(kind CommandKind, value float64) bool {
	bit := uint8(1) << kind
	if c.seen&bit != 0 {
		return false
	}
	c.seen |= bit
	c.queue = append(c.queue, Command{Kind: kind, Value: value})
	return true
}

// Has reports whether a command of kind was pushed since the last Reset.
func (c *Commands) Has(kind CommandKind) bool {
	return c.seen&(uint8(1)<<kind) != 0
}

func (c *Commands) Len() int { return len(c.queue) }

// Peek returns the value of the queued command of kind without draining it.
func (c *Commands) Peek(kind CommandKind) (float64, bool) {
	for _, cmd := range c.queue {
		if cmd.Kind == kind {
			return cmd.Value, true
		}
	}
	return 0, false
}

// Drain visits every queued command in push order and empties the queue.
// Kinds already drained stay blocked until Reset.
func (c *Commands) Drain(fn func(Command)) {
	for _, cmd := range c.queue {
		fn(cmd)
	}
	c.queue = c.queue[:0]
}

func (c *Commands) Reset() {
	c.queue = c.queue[:0]
	c.seen = 0
}
