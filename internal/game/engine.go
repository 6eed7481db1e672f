package game

import (
	"fmt"
	rand "math/rand/v2"

	"github.com/rs/zerolog"

	"github.com/lox/monopolyforbots/internal/dice"
	"github.com/lox/monopolyforbots/internal/randutil"
)

// Game is the turn state machine of a single session. It is not safe for
// concurrent use: callers serialize every operation.
type Game struct {
	blocks   []*Block
	players  []*Player
	current  int
	round    int
	finished bool
	passedGo bool

	rules  Rules
	dice   dice.Source
	rng    *rand.Rand
	logger zerolog.Logger
}

// Option configures a Game.
type Option func(*Game)

// WithRules replaces the default rules. Nil policies fall back to defaults.
func WithRules(r Rules) Option {
	return func(g *Game) { g.rules = r.withDefaults() }
}

// WithDice sets the dice source.
func WithDice(src dice.Source) Option {
	return func(g *Game) { g.dice = src }
}

// WithRand sets the generator used by landing policies, and by the dice
// when no dice source is given.
func WithRand(rng *rand.Rand) Option {
	return func(g *Game) { g.rng = rng }
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(g *Game) { g.logger = logger.With().Str("component", "game").Logger() }
}

// New starts a game. Players get the starting cash and are placed on the
// first Go block. It panics when either list is empty.
func New(players []*Player, board []*Block, opts ...Option) *Game {
	if len(board) == 0 {
		panic("game: board must have at least one block")
	}
	if len(players) == 0 {
		panic("game: at least one player is required")
	}

	g := newGame(players, board, opts)

	start := g.firstOf(Go)
	if start < 0 {
		start = 0
	}
	for _, p := range g.players {
		p.Cash = g.rules.StartingCash
		p.Position = start
	}

	g.logger.Debug().
		Int("players", len(players)).
		Int("blocks", len(board)).
		Msg("game created")
	return g
}

func newGame(players []*Player, board []*Block, opts []Option) *Game {
	g := &Game{
		blocks:  board,
		players: players,
		rules:   DefaultRules(),
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = randutil.NewUnseeded()
	}
	if g.dice == nil {
		g.dice = dice.NewRandom(g.rng)
	}
	for i, b := range g.blocks {
		b.index = i
	}
	for i, p := range g.players {
		if p == nil {
			panic(fmt.Sprintf("game: player %d is nil", i))
		}
		p.Index = i
	}
	return g
}

// Blocks returns the board in order. Callers must not mutate it.
func (g *Game) Blocks() []*Block { return g.blocks }

// Block returns the block at board index idx.
func (g *Game) Block(idx int) *Block {
	return g.blocks[idx]
}

// BoardSize is the number of blocks.
func (g *Game) BoardSize() int { return len(g.blocks) }

// Players returns the players in turn order. Callers must not mutate it.
func (g *Game) Players() []*Player { return g.players }

// Player returns the player at index idx.
func (g *Game) Player(idx int) *Player {
	return g.players[idx]
}

// PlayerByID looks a player up by stable id.
func (g *Game) PlayerByID(id string) (*Player, bool) {
	for _, p := range g.players {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// Current returns the player whose turn it is.
func (g *Game) Current() *Player { return g.players[g.current] }

// CurrentIndex returns the index of the current player.
func (g *Game) CurrentIndex() int { return g.current }

// Round counts completed laps of the turn order.
func (g *Game) Round() int { return g.round }

// Finished reports whether the game has ended.
func (g *Game) Finished() bool { return g.finished }

// PassedGo reports whether the last move crossed or landed on Go.
func (g *Game) PassedGo() bool { return g.passedGo }

// Rules returns the rules in effect.
func (g *Game) Rules() Rules { return g.rules }

// BlockUnder returns the block p stands on.
func (g *Game) BlockUnder(p *Player) *Block {
	return g.blocks[p.Position]
}

// OwnerOf returns the owner of b, or nil when the bank holds it.
func (g *Game) OwnerOf(b *Block) *Player {
	if !b.Owned() || b.Owner >= len(g.players) {
		return nil
	}
	return g.players[b.Owner]
}

// Solvent returns the players that are not bankrupt.
func (g *Game) Solvent() []*Player {
	var out []*Player
	for _, p := range g.players {
		if !p.Bankrupt {
			out = append(out, p)
		}
	}
	return out
}

// Winner returns the sole solvent player, or the solvent player with the
// highest asset score when several remain. Ties go to the earlier seat.
func (g *Game) Winner() *Player {
	var best *Player
	for _, p := range g.Solvent() {
		if best == nil || p.AssetScore(g.blocks) > best.AssetScore(g.blocks) {
			best = p
		}
	}
	return best
}

// RollDice rolls the dice without touching game state.
func (g *Game) RollDice() (d1, d2, total int) {
	return dice.Roll(g.dice)
}

// NextTurn hands play to the next eligible player. Bankrupt players are
// passed over, and a player with skips left loses this turn and one skip.
// The round counter increments whenever the order wraps to the first seat.
// After one full lap without an eligible player the scan stops on the
// first solvent seat.
func (g *Game) NextTurn() {
	if g.finished {
		return
	}
	g.passedGo = false

	n := len(g.players)
	for i := 0; i < n; i++ {
		g.current = (g.current + 1) % n
		if g.current == 0 {
			g.round++
		}

		p := g.players[g.current]
		if p.Bankrupt {
			continue
		}
		if p.SkipTurns > 0 {
			p.SkipTurns--
			if p.InJail {
				p.JailTurns++
			}
			g.logger.Debug().Str("player", p.Name).Int("skips_left", p.SkipTurns).Msg("turn skipped")
			continue
		}
		if p.InJail {
			p.InJail = false
			p.JailTurns = 0
			g.logger.Debug().Str("player", p.Name).Msg("released from jail")
		}
		return
	}

	// Skips were spent above, so this scan only has to avoid a bankrupt seat.
	for i := 0; i < n && g.players[g.current].Bankrupt; i++ {
		g.current = (g.current + 1) % n
		if g.current == 0 {
			g.round++
		}
	}
}

// Finish ends the game. Later NextTurn calls do nothing.
func (g *Game) Finish() {
	if g.finished {
		return
	}
	g.finished = true
	ev := g.logger.Info().Int("round", g.round)
	if w := g.Winner(); w != nil {
		ev = ev.Str("winner", w.Name)
	}
	ev.Msg("game finished")
}

func (g *Game) firstOf(c Category) int {
	for i, b := range g.blocks {
		if b.Category == c {
			return i
		}
	}
	return -1
}

// check panics unless p is a player of this game.
func (g *Game) check(p *Player) {
	if p == nil {
		panic("game: nil player")
	}
	if p.Index < 0 || p.Index >= len(g.players) || g.players[p.Index] != p {
		panic(fmt.Sprintf("game: player %q does not belong to this game", p.Name))
	}
}

func (g *Game) checkBlock(b *Block) {
	if b == nil {
		panic("game: nil block")
	}
	if b.index < 0 || b.index >= len(g.blocks) || g.blocks[b.index] != b {
		panic(fmt.Sprintf("game: block %q does not belong to this game", b.Name))
	}
}
