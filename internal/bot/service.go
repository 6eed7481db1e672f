package bot

import (
	"sort"

	"github.com/lox/monopolyforbots/internal/fuzzy"
	"github.com/lox/monopolyforbots/internal/game"
)

// Base priorities. Higher runs first.
const (
	PriorityRoll         = 10
	PriorityBuy          = 8
	PriorityUpgrade      = 6
	PriorityEndTurn      = 5
	PriorityEndTurnAlone = 3
	PriorityEndTurnAfter = 1
	PrioritySkip         = 1
)

// Context is what the service knows when deciding.
type Context struct {
	Game   *game.Game
	Player *game.Player
	Block  *game.Block // block the player stands on, for modal decisions

	HasRolled bool
	Typing    bool // a human is typing in chat
	Animating bool // a move is still being animated
	FromMove  bool // the modal opened because the player just moved
}

// Service turns game situations into bot decisions. It holds no game
// state and may be shared.
type Service struct {
	Delays Delays
	Policy fuzzy.Policy
}

// NewService returns a service using delays.
func NewService(delays Delays) *Service {
	return &Service{Delays: delays}
}

// EvaluateTurnStart decides how a bot opens (or closes) its turn.
func (s *Service) EvaluateTurnStart(c Context) Decision {
	switch {
	case c.Game == nil || c.Player == nil:
		return simple(None, "incomplete context", 0, 0)
	case !c.Player.IsBot():
		return simple(None, "not a bot", 0, 0)
	case c.HasRolled:
		return simple(EndTurn, "already rolled", PriorityEndTurn, s.Delays.EndTurn)
	case c.Typing || c.Animating:
		return simple(Skip, "waiting for the table", PrioritySkip, s.Delays.Skip)
	default:
		return simple(Roll, "ready to roll", PriorityRoll, s.Delays.AutoRoll)
	}
}

// EvaluateModal lists what a bot does on the block it stands on, highest
// priority first. The list always ends with EndTurn unless the context is
// unusable, in which case it holds a single None.
func (s *Service) EvaluateModal(c Context) []Decision {
	if c.Game == nil || c.Player == nil || c.Block == nil {
		return []Decision{simple(None, "modal without context", 0, 0)}
	}
	if !c.Player.IsBot() {
		return []Decision{simple(None, "not a bot", 0, 0)}
	}

	p, b := c.Player, c.Block
	var out []Decision

	if b.Purchasable() && p.Cash >= b.Price {
		policy := s.Policy.Evaluate(float64(p.Cash))
		d := simple(Buy, "block for sale", adjust(PriorityBuy, policy.Action, 4, 3), s.Delays.Purchase)
		d.Target = b.Index()
		d.Policy = &policy
		out = append(out, d)
	}

	if b.Owner == p.Index && c.Game.CanUpgrade(p, b) {
		policy := s.Policy.Evaluate(float64(p.Cash))
		d := simple(Upgrade, "own block can grow", adjust(PriorityUpgrade, policy.Action, 3, 2), s.Delays.Upgrade)
		d.Target = b.Index()
		d.Policy = &policy
		out = append(out, d)
	}

	if len(out) == 0 {
		out = append(out, simple(EndTurn, "nothing to do", PriorityEndTurnAlone, s.Delays.ModalEndTurn))
	} else {
		out = append(out, simple(EndTurn, "done with actions", PriorityEndTurnAfter, s.Delays.ModalEndTurn))
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority > out[j].Priority })
	return out
}

// adjust raises base by bonus when the policy says Buy and drops it to
// floor when it says Sell.
func adjust(base int, action fuzzy.Action, bonus, floor int) int {
	switch action {
	case fuzzy.Buy:
		return base + bonus
	case fuzzy.Sell:
		return floor
	default:
		return base
	}
}
