// Package narrator turns processor events into a readable play-by-play.
package narrator

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/lox/monopolyforbots/internal/bot"
	"github.com/lox/monopolyforbots/internal/game"
)

// Palette is the per-seat color order. Seats past the end use Fallback.
var Palette = []lipgloss.Color{
	"#1d4ed8", "#10b981", "#f59e0b", "#dc2626",
	"#8b5cf6", "#ec4899", "#06b6d4", "#eab308",
}

// Fallback colors seats beyond the palette.
const Fallback = lipgloss.Color("#6b7280")

// ColorFor returns the palette color of a seat.
func ColorFor(seat int) lipgloss.Color {
	if seat < 0 || seat >= len(Palette) {
		return Fallback
	}
	return Palette[seat]
}

// Narrator is a bot.Observer that logs one line per meaningful event.
type Narrator struct {
	game     *game.Game
	logger   *log.Logger
	renderer *lipgloss.Renderer
	verbose  bool
}

// Option configures a Narrator.
type Option func(*Narrator)

// WithoutColor forces plain output, for files and tests.
func WithoutColor() Option {
	return func(n *Narrator) {
		n.renderer.SetColorProfile(termenv.Ascii)
		n.logger.SetColorProfile(termenv.Ascii)
	}
}

// WithVerbose also reports waits, dropped decisions and policy reasoning.
func WithVerbose() Option {
	return func(n *Narrator) {
		n.verbose = true
		n.logger.SetLevel(log.DebugLevel)
	}
}

// New writes narration for g to w.
func New(w io.Writer, g *game.Game, opts ...Option) *Narrator {
	n := &Narrator{
		game:     g,
		renderer: lipgloss.NewRenderer(w),
		logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: false,
			Prefix:          "GAME",
		}),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

var _ bot.Observer = (*Narrator)(nil)

// Observe implements bot.Observer.
func (n *Narrator) Observe(e bot.Event) {
	switch e.Kind {
	case bot.EventMoved:
		n.moved(e)
	case bot.EventExecuted:
		n.executed(e)
	case bot.EventTurnEnded:
		if n.verbose {
			next := n.game.Current()
			n.logger.Debug("turn passes", "to", n.name(next.Index), "round", n.game.Round())
		}
	case bot.EventDropped:
		if n.verbose && e.Decision != nil {
			n.logger.Debug("dropped", "player", n.name(e.Player), "decision", e.Decision.Type)
		}
	case bot.EventWaiting:
		if n.verbose && e.Decision != nil {
			n.logger.Debug("thinking", "player", n.name(e.Player), "next", e.Decision.Type, "delay", e.Decision.Delay)
		}
	case bot.EventFinished:
		if e.Winner == "" {
			n.logger.Info("game over with no winner")
			return
		}
		n.logger.Info("game over", "winner", e.Winner, "round", e.Round)
	}
}

func (n *Narrator) moved(e bot.Event) {
	m := e.Move
	if m == nil {
		return
	}
	var parts []string
	if m.PassedGo {
		parts = append(parts, fmt.Sprintf("collected %d salary", m.Salary))
	}
	switch {
	case m.Rent > 0:
		parts = append(parts, fmt.Sprintf("paid %d rent to %s", m.Rent, n.name(m.RentTo)))
	case m.Tax > 0:
		parts = append(parts, fmt.Sprintf("paid %d tax", m.Tax))
	case m.ChanceDelta != 0:
		parts = append(parts, fmt.Sprintf("drew chance %+d", m.ChanceDelta))
	case m.ReverseFine > 0 || m.BackSteps > 0:
		parts = append(parts, fmt.Sprintf("reversed %d blocks and paid %d", m.BackSteps, m.ReverseFine))
	case m.Jailed:
		parts = append(parts, "went to jail")
	}
	if m.Bankrupt {
		parts = append(parts, "went bankrupt")
	}

	kv := []any{
		"player", n.name(m.Player),
		"dice", fmt.Sprintf("%d+%d", e.Dice[0], e.Dice[1]),
		"to", n.game.Block(m.To).Name,
	}
	if len(parts) > 0 {
		kv = append(kv, "note", strings.Join(parts, ", "))
	}
	n.logger.Info("rolled", kv...)
}

func (n *Narrator) executed(e bot.Event) {
	d := e.Decision
	if d == nil {
		return
	}
	if n.verbose && d.Policy != nil {
		n.logger.Debug("policy", "player", n.name(e.Player), "decision", d.Type, "why", d.Policy.Explanation)
	}
	if !e.OK {
		if d.Type == bot.Buy || d.Type == bot.Upgrade {
			n.logger.Warn("action refused", "player", n.name(e.Player), "decision", d.Type)
		}
		return
	}

	switch d.Type {
	case bot.Buy:
		b := n.game.Block(d.Target)
		n.logger.Info("bought", "player", n.name(e.Player), "block", b.Name, "price", b.Price)
	case bot.Upgrade:
		b := n.game.Block(d.Target)
		n.logger.Info("upgraded", "player", n.name(e.Player), "block", b.Name, "level", b.Level())
	case bot.EndTurn:
		if n.verbose {
			n.logger.Debug("ends turn", "player", n.name(e.Player))
		}
	}
}

// name renders a seat's name in its color.
func (n *Narrator) name(seat int) string {
	if seat < 0 || seat >= len(n.game.Players()) {
		return "bank"
	}
	p := n.game.Player(seat)
	return n.renderer.NewStyle().Foreground(ColorFor(seat)).Bold(true).Render(p.Name)
}
