package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/lox/monopolyforbots/internal/bot"
	"github.com/lox/monopolyforbots/internal/game"
	"github.com/lox/monopolyforbots/internal/store"
)

// Errors returned for human actions that the game state does not allow.
var (
	ErrBotsPlaying = errors.New("bots are playing")
	ErrNotYourTurn = errors.New("current player is a bot")
	ErrFinished    = errors.New("game is finished")
	ErrNotRolled   = errors.New("roll before ending the turn")
	ErrRolled      = errors.New("already rolled this turn")
	ErrNoBlock     = errors.New("no such block")
)

// ActionResult is the reply to a human action.
type ActionResult struct {
	OK    bool             `json:"ok"`
	Dice  *[2]int          `json:"dice,omitempty"`
	Move  *game.MoveResult `json:"move,omitempty"`
	State *game.Snapshot   `json:"state"`
}

// Session is one live game. Human actions and bot turns are serialized by
// mu; readers use the last published snapshot and never wait on a bot.
type Session struct {
	ID    string
	Board string

	mu        sync.Mutex
	game      *game.Game
	proc      *bot.Processor
	rolled    bool
	maxRounds int

	view    atomic.Pointer[game.Snapshot]
	running atomic.Bool

	hub    *hub
	store  store.Store
	logger zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newSession(id, board string, g *game.Game, rolled bool, m *GameManager) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	logger := m.logger.With().Str("game_id", id).Logger()
	s := &Session{
		ID:        id,
		Board:     board,
		game:      g,
		rolled:    rolled,
		maxRounds: m.cfg.Game.MaxRounds,
		hub:       newHub(logger),
		store:     m.store,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
	}
	s.proc = bot.NewProcessor(g, bot.NewService(m.delays),
		bot.WithClock(m.clock),
		bot.WithObserver(s),
		bot.WithLogger(logger),
	)
	s.mu.Lock()
	s.refreshLocked()
	s.mu.Unlock()
	return s
}

// State returns the latest published snapshot.
func (s *Session) State() *game.Snapshot { return s.view.Load() }

// BotsPlaying reports whether a background bot run holds the game.
func (s *Session) BotsPlaying() bool { return s.running.Load() }

// Roll rolls and moves the current human player once per turn.
func (s *Session) Roll(ctx context.Context) (ActionResult, error) {
	return s.act(ctx, func(p *game.Player) (ActionResult, error) {
		if s.rolled {
			return ActionResult{}, ErrRolled
		}
		d1, d2, total := s.game.RollDice()
		res := s.game.MoveCurrentPlayer(total)
		s.rolled = s.game.Current() == p
		return ActionResult{OK: true, Dice: &[2]int{d1, d2}, Move: &res}, nil
	})
}

// Buy buys the block under the current human player.
func (s *Session) Buy(ctx context.Context) (ActionResult, error) {
	return s.act(ctx, func(p *game.Player) (ActionResult, error) {
		if !s.rolled {
			return ActionResult{}, ErrNotRolled
		}
		return ActionResult{OK: s.game.TryBuyProperty(p, s.game.BlockUnder(p))}, nil
	})
}

// Upgrade builds on one of the current player's blocks.
func (s *Session) Upgrade(ctx context.Context, block int) (ActionResult, error) {
	return s.act(ctx, func(p *game.Player) (ActionResult, error) {
		b, err := s.blockLocked(block)
		if err != nil {
			return ActionResult{}, err
		}
		return ActionResult{OK: s.game.Upgrade(p, b)}, nil
	})
}

// Sell returns one of the current player's blocks to the bank.
func (s *Session) Sell(ctx context.Context, block int) (ActionResult, error) {
	return s.act(ctx, func(p *game.Player) (ActionResult, error) {
		b, err := s.blockLocked(block)
		if err != nil {
			return ActionResult{}, err
		}
		return ActionResult{OK: s.game.SellProperty(p, b)}, nil
	})
}

// UseJailCard spends a card to leave jail.
func (s *Session) UseJailCard(ctx context.Context) (ActionResult, error) {
	return s.act(ctx, func(p *game.Player) (ActionResult, error) {
		return ActionResult{OK: s.game.UseJailCard(p)}, nil
	})
}

// EndTurn passes play on. Bots that follow run in the background.
func (s *Session) EndTurn(ctx context.Context) (ActionResult, error) {
	return s.act(ctx, func(p *game.Player) (ActionResult, error) {
		if !s.rolled {
			return ActionResult{}, ErrNotRolled
		}
		s.game.NextTurn()
		s.rolled = false
		return ActionResult{OK: true}, nil
	})
}

func (s *Session) blockLocked(idx int) (*game.Block, error) {
	if idx < 0 || idx >= s.game.BoardSize() {
		return nil, fmt.Errorf("%w: %d", ErrNoBlock, idx)
	}
	return s.game.Block(idx), nil
}

func (s *Session) act(ctx context.Context, fn func(p *game.Player) (ActionResult, error)) (ActionResult, error) {
	if s.running.Load() {
		return ActionResult{}, ErrBotsPlaying
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running.Load() {
		return ActionResult{}, ErrBotsPlaying
	}
	if s.game.Finished() {
		return ActionResult{}, ErrFinished
	}
	p := s.game.Current()
	if p.IsBot() {
		return ActionResult{}, ErrNotYourTurn
	}

	res, err := fn(p)
	if err != nil {
		return res, err
	}
	err = s.settleLocked(ctx)
	res.State = s.view.Load()
	s.publish(MessageTypeAction, res)
	return res, err
}

// settleLocked applies the round cap, publishes and saves the state, and
// hands the game to the bots when one is next.
func (s *Session) settleLocked(ctx context.Context) error {
	if s.maxRounds > 0 && !s.game.Finished() && s.game.Round() >= s.maxRounds {
		s.game.Finish()
	}
	s.refreshLocked()
	err := s.saveLocked(ctx)
	s.startBotsLocked()
	return err
}

func (s *Session) refreshLocked() {
	snap := s.game.Snapshot()
	snap.Board = s.Board
	snap.Rolled = s.rolled
	s.view.Store(snap)
	s.publish(MessageTypeState, snap)
}

func (s *Session) saveLocked(ctx context.Context) error {
	if err := s.store.Save(ctx, s.ID, s.view.Load()); err != nil {
		s.logger.Error().Err(err).Msg("failed to save game")
		return fmt.Errorf("save game %s: %w", s.ID, err)
	}
	return nil
}

func (s *Session) startBotsLocked() {
	if s.ctx.Err() != nil || s.game.Finished() || !s.game.Current().IsBot() {
		return
	}
	if !s.running.CompareAndSwap(false, true) {
		return
	}
	s.wg.Add(1)
	go s.runBots()
}

// runBots plays bot turns until a human holds the turn, the game ends or
// the session closes.
func (s *Session) runBots() {
	defer s.wg.Done()
	for {
		s.mu.Lock()
		if s.ctx.Err() != nil || s.game.Finished() || !s.game.Current().IsBot() {
			s.running.Store(false)
			s.mu.Unlock()
			return
		}

		current, round := s.game.CurrentIndex(), s.game.Round()
		err := s.proc.PlayTurn(s.ctx)
		if err == nil && s.maxRounds > 0 && !s.game.Finished() && s.game.Round() >= s.maxRounds {
			s.game.Finish()
			s.refreshLocked()
			_ = s.saveLocked(s.ctx)
		}
		stalled := err == nil && !s.game.Finished() &&
			s.game.CurrentIndex() == current && s.game.Round() == round

		if err != nil || stalled {
			s.running.Store(false)
			s.mu.Unlock()
			switch {
			case stalled:
				s.logger.Error().Msg("bot turn did not advance")
			case !errors.Is(err, context.Canceled) && !errors.Is(err, bot.ErrCanceled):
				s.logger.Error().Err(err).Msg("bot turn failed")
			}
			return
		}
		s.mu.Unlock()
	}
}

// Observe implements bot.Observer. It runs on the bot goroutine with mu
// held.
func (s *Session) Observe(e bot.Event) {
	s.publish(MessageTypeEvent, e)

	switch e.Kind {
	case bot.EventMoved:
		s.refreshLocked()
	case bot.EventExecuted:
		if e.OK && e.Decision != nil && (e.Decision.Type == bot.Buy || e.Decision.Type == bot.Upgrade) {
			s.refreshLocked()
		}
	case bot.EventTurnEnded, bot.EventFinished:
		s.rolled = false
		s.refreshLocked()
		_ = s.saveLocked(s.ctx)
	}
}

// Spectate attaches a websocket and sends it the current state.
func (s *Session) Spectate(c *Connection) {
	s.hub.add(c)
	if msg, err := NewMessage(MessageTypeState, s.ID, s.State()); err == nil {
		_ = c.SendMessage(msg)
	}
}

func (s *Session) publish(t MessageType, data any) {
	if s.hub.size() == 0 {
		return
	}
	msg, err := NewMessage(t, s.ID, data)
	if err != nil {
		s.logger.Error().Err(err).Str("type", string(t)).Msg("failed to encode message")
		return
	}
	s.hub.broadcast(msg)
}

// Close stops background bots and disconnects spectators.
func (s *Session) Close() {
	s.cancel()
	s.proc.Cancel()
	s.wg.Wait()
	s.publish(MessageTypeClosed, nil)
	s.hub.close()
}

// Summary is the listing view of a game.
type Summary struct {
	ID          string          `json:"id"`
	Board       string          `json:"board"`
	Round       int             `json:"round"`
	Current     string          `json:"current"`
	Finished    bool            `json:"finished"`
	BotsPlaying bool            `json:"bots_playing"`
	Spectators  int             `json:"spectators"`
	Players     []PlayerSummary `json:"players"`
	Winner      string          `json:"winner,omitempty"`
}

// PlayerSummary is one player in a Summary.
type PlayerSummary struct {
	Name     string          `json:"name"`
	Kind     game.PlayerKind `json:"kind"`
	Cash     int             `json:"cash"`
	Bankrupt bool            `json:"bankrupt"`
}

func summarize(id string, snap *game.Snapshot) Summary {
	sum := Summary{
		ID:       id,
		Board:    snap.Board,
		Round:    snap.Round,
		Finished: snap.Finished,
		Players:  make([]PlayerSummary, len(snap.Players)),
	}
	for i, p := range snap.Players {
		sum.Players[i] = PlayerSummary{Name: p.Name, Kind: p.Kind, Cash: p.Cash, Bankrupt: p.Bankrupt}
	}
	if snap.Current >= 0 && snap.Current < len(snap.Players) {
		sum.Current = snap.Players[snap.Current].Name
	}
	if snap.Finished {
		if g, err := game.Restore(snap); err == nil {
			if w := g.Winner(); w != nil {
				sum.Winner = w.Name
			}
		}
	}
	return sum
}

// Summary describes the session for listings.
func (s *Session) Summary() Summary {
	sum := summarize(s.ID, s.State())
	sum.BotsPlaying = s.BotsPlaying()
	sum.Spectators = s.hub.size()
	return sum
}
