package debug

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Versifine/stride/internal/body"
	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/term"
)

const (
	defaultFrameInterval = time.Second / 60
	defaultMovePulse     = 180 * time.Millisecond
	yawStep              = 15.0
)

// ControlledBody is the part of a body the console drives.
type ControlledBody interface {
	Advance(in body.Input, cam body.Camera, dt float64) int
	Snapshot() body.Snapshot
	Respawn(pos mgl64.Vec3)
	ForceState(name string) bool
}

type Console struct {
	body  ControlledBody
	spawn mgl64.Vec3
	frame time.Duration
	pulse time.Duration
	out   io.Writer

	mu            sync.Mutex
	yaw           float64
	sprint        bool
	jumpPressed   bool
	dashPressed   bool
	walkToggle    bool
	forwardUntil  time.Time
	backwardUntil time.Time
	leftUntil     time.Time
	rightUntil    time.Time
	jumpUntil     time.Time
	commandMode   bool
	commandBuf    []rune
	statusWidth   int
}

func NewConsole(b ControlledBody, spawn mgl64.Vec3, frame time.Duration) *Console {
	if frame <= 0 {
		frame = defaultFrameInterval
	}
	return &Console{
		body:  b,
		spawn: spawn,
		frame: frame,
		pulse: defaultMovePulse,
		out:   os.Stdout,
	}
}

// Start puts the terminal in raw mode, drives the body at the frame rate
// and reads keys until ctx is done.
func (c *Console) Start(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("console is nil")
	}
	if c.body == nil {
		return fmt.Errorf("console body is nil")
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("set terminal raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
		fmt.Fprint(c.out, "\r\n")
	}()

	fmt.Fprint(c.out, "[debug] console started (W/A/S/D pulse, Space jump, R dash, [ walk, ] sprint, arrows turn, :help)\r\n")
	c.renderStatusLine()

	go c.frameLoop(ctx)

	reader := bufio.NewReader(os.Stdin)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		b, err := reader.ReadByte()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read console input: %w", err)
		}
		c.handleKey(reader, b)
	}
}

func (c *Console) frameLoop(ctx context.Context) {
	ticker := time.NewTicker(c.frame)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			in, cam := c.takeInput(now)
			c.body.Advance(in, cam, dt)
			c.renderStatusLine()
		}
	}
}

func (c *Console) handleKey(reader *bufio.Reader, b byte) {
	if c.isCommandMode() {
		c.handleCommandByte(b)
		return
	}

	now := time.Now()
	switch b {
	case ':':
		c.enterCommandMode()
		return
	case 'w', 'W':
		c.pulseForward(now)
	case 's', 'S':
		c.pulseBackward(now)
	case 'a', 'A':
		c.pulseLeft(now)
	case 'd', 'D':
		c.pulseRight(now)
	case ' ':
		c.pressJump(now)
	case 'r', 'R':
		c.pressDash()
	case '[':
		c.pressWalkToggle()
	case ']':
		c.toggleSprint()
	case 'x', 'X':
		c.clearInput()
	case 27: // ESC + arrow sequence
		next, err := reader.ReadByte()
		if err != nil || next != '[' {
			return
		}
		arrow, err := reader.ReadByte()
		if err != nil {
			return
		}
		switch arrow {
		case 'D': // left
			c.turn(-yawStep)
		case 'C': // right
			c.turn(yawStep)
		}
	}
	c.renderStatusLine()
}

func (c *Console) enterCommandMode() {
	c.mu.Lock()
	c.commandMode = true
	c.commandBuf = c.commandBuf[:0]
	c.mu.Unlock()
	fmt.Fprint(c.out, "\r\n:")
}

func (c *Console) handleCommandByte(b byte) {
	switch b {
	case 13, 10: // Enter
		c.mu.Lock()
		cmd := strings.TrimSpace(string(c.commandBuf))
		c.commandMode = false
		c.commandBuf = c.commandBuf[:0]
		c.mu.Unlock()

		fmt.Fprint(c.out, "\r\n")
		if cmd != "" {
			c.executeCommand(cmd)
		}
		c.renderStatusLine()
		return
	case 27: // ESC cancel command mode
		c.mu.Lock()
		c.commandMode = false
		c.commandBuf = c.commandBuf[:0]
		c.mu.Unlock()
		fmt.Fprint(c.out, "\r\n[debug] command cancelled\r\n")
		c.renderStatusLine()
		return
	case 8, 127: // Backspace
		c.mu.Lock()
		if len(c.commandBuf) > 0 {
			c.commandBuf = c.commandBuf[:len(c.commandBuf)-1]
		}
		buf := string(c.commandBuf)
		c.mu.Unlock()
		fmt.Fprintf(c.out, "\r:%s \r:%s", buf, buf)
		return
	default:
		if b < 32 || b > 126 {
			return
		}
		c.mu.Lock()
		c.commandBuf = append(c.commandBuf, rune(b))
		buf := string(c.commandBuf)
		c.mu.Unlock()
		fmt.Fprintf(c.out, "\r:%s", buf)
	}
}

func (c *Console) executeCommand(cmd string) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return
	}

	switch parts[0] {
	case "help":
		c.printHelp()
	case "state":
		s := c.body.Snapshot()
		fmt.Fprintf(c.out, "[debug] %s motion=%s pos=(%.3f,%.3f,%.3f) vel=(%.3f,%.3f,%.3f) ground=%t slope=%.1f edge=%t\r\n",
			s.State, s.Motion,
			s.Position[0], s.Position[1], s.Position[2],
			s.Velocity[0], s.Velocity[1], s.Velocity[2],
			s.Grounded, s.SlopeAngle, s.OverEdge,
		)
	case "snap":
		data, err := json.Marshal(c.body.Snapshot())
		if err != nil {
			fmt.Fprintf(c.out, "[debug] snapshot failed: %v\r\n", err)
			return
		}
		fmt.Fprintf(c.out, "[debug] %s\r\n", data)
	case "tp":
		pos, ok := parseVec(parts[1:])
		if !ok {
			fmt.Fprint(c.out, "[debug] usage: :tp <x> <y> <z>\r\n")
			return
		}
		c.body.Respawn(pos)
		fmt.Fprintf(c.out, "[debug] teleported to (%.3f, %.3f, %.3f)\r\n", pos.X(), pos.Y(), pos.Z())
	case "respawn":
		c.body.Respawn(c.spawn)
		fmt.Fprint(c.out, "[debug] respawned\r\n")
	case "force":
		if len(parts) != 2 {
			fmt.Fprint(c.out, "[debug] usage: :force <state>\r\n")
			return
		}
		if !c.body.ForceState(parts[1]) {
			fmt.Fprintf(c.out, "[debug] unknown state: %s\r\n", parts[1])
			return
		}
		slog.Debug("Forced state from console", "state", parts[1])
		fmt.Fprintf(c.out, "[debug] forced %s\r\n", parts[1])
	default:
		fmt.Fprintf(c.out, "[debug] unknown command: %s\r\n", parts[0])
	}
}

func parseVec(args []string) (mgl64.Vec3, bool) {
	if len(args) != 3 {
		return mgl64.Vec3{}, false
	}
	var v mgl64.Vec3
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return mgl64.Vec3{}, false
		}
		v[i] = f
	}
	return v, true
}

func (c *Console) printHelp() {
	fmt.Fprint(c.out, "[debug] keys:\r\n")
	fmt.Fprint(c.out, "  W/S/A/D: pulse movement (~180ms)\r\n")
	fmt.Fprint(c.out, "  Space: jump (held for one pulse)\r\n")
	fmt.Fprint(c.out, "  R: dash\r\n")
	fmt.Fprint(c.out, "  [: toggle walk\r\n")
	fmt.Fprint(c.out, "  ]: toggle sprint\r\n")
	fmt.Fprint(c.out, "  Arrow Left/Right: turn camera\r\n")
	fmt.Fprint(c.out, "  X: clear all input\r\n")
	fmt.Fprint(c.out, "  : enter command mode\r\n")
	fmt.Fprint(c.out, "[debug] commands:\r\n")
	fmt.Fprint(c.out, "  :tp <x> <y> <z>\r\n")
	fmt.Fprint(c.out, "  :respawn\r\n")
	fmt.Fprint(c.out, "  :force <state>\r\n")
	fmt.Fprint(c.out, "  :state\r\n")
	fmt.Fprint(c.out, "  :snap\r\n")
	fmt.Fprint(c.out, "  :help\r\n")
}

func (c *Console) renderStatusLine() {
	c.mu.Lock()
	if c.commandMode {
		c.mu.Unlock()
		return
	}
	yaw := c.yaw
	sprint := c.sprint
	width := c.statusWidth
	c.mu.Unlock()

	s := c.body.Snapshot()
	line := fmt.Sprintf(
		"[%-12s SPR:%s WALK:%s | YAW:%.0f | X:%.2f Y:%.2f Z:%.2f SPD:%.2f ground:%t]",
		s.State,
		boolLabel(sprint),
		boolLabel(s.WalkToggled),
		yaw,
		s.Position[0],
		s.Position[1],
		s.Position[2],
		math.Hypot(s.Velocity[0], s.Velocity[2]),
		s.Grounded,
	)

	padding := ""
	if width > len(line) {
		padding = strings.Repeat(" ", width-len(line))
	}
	fmt.Fprintf(c.out, "\r%s%s", line, padding)

	c.mu.Lock()
	if len(line) > c.statusWidth {
		c.statusWidth = len(line)
	}
	c.mu.Unlock()
}

// takeInput builds the frame's input and consumes one-shot presses.
func (c *Console) takeInput(now time.Time) (body.Input, body.Camera) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var in body.Input
	if now.Before(c.forwardUntil) {
		in.Move[1]++
	}
	if now.Before(c.backwardUntil) {
		in.Move[1]--
	}
	if now.Before(c.rightUntil) {
		in.Move[0]++
	}
	if now.Before(c.leftUntil) {
		in.Move[0]--
	}
	in.JumpPressed = c.jumpPressed
	in.JumpHeld = c.jumpPressed || now.Before(c.jumpUntil)
	in.DashPressed = c.dashPressed
	in.WalkTogglePressed = c.walkToggle
	in.SprintHeld = c.sprint

	c.jumpPressed = false
	c.dashPressed = false
	c.walkToggle = false

	rad := mgl64.DegToRad(c.yaw)
	cam := body.Camera{Forward: mgl64.Vec3{math.Sin(rad), 0, math.Cos(rad)}}
	return in, cam
}

func (c *Console) isCommandMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.commandMode
}

func boolLabel(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func normalizeYaw(yaw float64) float64 {
	for yaw <= -180 {
		yaw += 360
	}
	for yaw > 180 {
		yaw -= 360
	}
	return yaw
}

func (c *Console) turn(delta float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.yaw = normalizeYaw(c.yaw + delta)
}

func (c *Console) pulseForward(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.forwardUntil = now.Add(c.pulse)
	c.backwardUntil = time.Time{}
}

func (c *Console) pulseBackward(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.backwardUntil = now.Add(c.pulse)
	c.forwardUntil = time.Time{}
}

func (c *Console) pulseLeft(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.leftUntil = now.Add(c.pulse)
	c.rightUntil = time.Time{}
}

func (c *Console) pulseRight(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rightUntil = now.Add(c.pulse)
	c.leftUntil = time.Time{}
}

func (c *Console) pressJump(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.jumpPressed = true
	c.jumpUntil = now.Add(c.pulse)
}

func (c *Console) pressDash() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dashPressed = true
}

func (c *Console) pressWalkToggle() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.walkToggle = true
}

func (c *Console) toggleSprint() {
	c.mu.Lock()
	c.sprint = !c.sprint
	enabled := c.sprint
	c.mu.Unlock()
	slog.Debug("Sprint toggled", "enabled", enabled)
}

func (c *Console) clearInput() {
	c.mu.Lock()
	c.sprint = false
	c.jumpPressed = false
	c.dashPressed = false
	c.walkToggle = false
	c.forwardUntil = time.Time{}
	c.backwardUntil = time.Time{}
	c.leftUntil = time.Time{}
	c.rightUntil = time.Time{}
	c.jumpUntil = time.Time{}
	c.mu.Unlock()
}
