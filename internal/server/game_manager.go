package server

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"

	"github.com/lox/monopolyforbots/internal/bot"
	"github.com/lox/monopolyforbots/internal/config"
	"github.com/lox/monopolyforbots/internal/game"
	"github.com/lox/monopolyforbots/internal/gameid"
	"github.com/lox/monopolyforbots/internal/randutil"
	"github.com/lox/monopolyforbots/internal/store"
)

// MaxPlayers bounds the seats of a hosted game.
const MaxPlayers = 8

// ErrInvalidRequest marks malformed create requests.
var ErrInvalidRequest = errors.New("invalid request")

// PlayerSpec seats one player in a new game.
type PlayerSpec struct {
	Name string          `json:"name"`
	Kind game.PlayerKind `json:"kind"`
}

// CreateRequest describes a new game. An empty player list seats one human
// followed by the configured bots.
type CreateRequest struct {
	Board   string       `json:"board,omitempty"`
	Players []PlayerSpec `json:"players,omitempty"`
	Seed    *int64       `json:"seed,omitempty"`
}

// GameManager owns live sessions and loads stored games on demand.
type GameManager struct {
	cfg    *config.Config
	store  store.Store
	clock  quartz.Clock
	delays bot.Delays
	logger zerolog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewGameManager constructs an empty game manager.
func NewGameManager(cfg *config.Config, st store.Store, clock quartz.Clock, delays bot.Delays, logger zerolog.Logger) *GameManager {
	return &GameManager{
		cfg:      cfg,
		store:    st,
		clock:    clock,
		delays:   delays,
		logger:   logger.With().Str("component", "game_manager").Logger(),
		sessions: make(map[string]*Session),
	}
}

// Create starts a game and saves its first snapshot. When the first seat is
// a bot, bots start playing at once.
func (gm *GameManager) Create(ctx context.Context, req CreateRequest) (*Session, error) {
	defs, err := gm.cfg.Board(req.Board)
	if err != nil {
		return nil, err
	}
	rules, err := gm.cfg.Rules(req.Board)
	if err != nil {
		return nil, err
	}

	specs := req.Players
	if len(specs) == 0 {
		specs = append(specs, PlayerSpec{Name: "Player", Kind: game.Human})
		for _, name := range gm.cfg.BotNames() {
			specs = append(specs, PlayerSpec{Name: name, Kind: game.Bot})
		}
	}
	if len(specs) > MaxPlayers {
		return nil, fmt.Errorf("%w: at most %d players", ErrInvalidRequest, MaxPlayers)
	}
	players := make([]*game.Player, len(specs))
	for i, spec := range specs {
		if spec.Name == "" {
			return nil, fmt.Errorf("%w: player %d has no name", ErrInvalidRequest, i+1)
		}
		players[i] = game.NewPlayer(spec.Name, spec.Kind)
	}

	rng := randutil.NewUnseeded()
	if req.Seed != nil {
		rng = randutil.New(*req.Seed)
	}
	g := game.New(players, game.NewBoard(defs),
		game.WithRules(rules),
		game.WithRand(rng),
		game.WithLogger(gm.logger),
	)

	key := req.Board
	if key == "" {
		key = gm.cfg.Game.Board
	}
	s := newSession(gameid.New(), key, g, false, gm)

	gm.mu.Lock()
	gm.sessions[s.ID] = s
	gm.mu.Unlock()

	gm.logger.Info().
		Str("game_id", s.ID).
		Str("board", key).
		Int("players", len(players)).
		Msg("game created")

	s.mu.Lock()
	err = s.settleLocked(ctx)
	s.mu.Unlock()
	return s, err
}

// Get returns a live session, restoring it from the store if needed.
func (gm *GameManager) Get(ctx context.Context, id string) (*Session, error) {
	gm.mu.RLock()
	s, ok := gm.sessions[id]
	gm.mu.RUnlock()
	if ok {
		return s, nil
	}

	snap, err := gm.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	rules, err := gm.cfg.Rules(snap.Board)
	if errors.Is(err, config.ErrUnknownBoard) {
		rules, err = gm.cfg.Rules("")
	}
	if err != nil {
		return nil, err
	}
	g, err := game.Restore(snap,
		game.WithRules(rules),
		game.WithRand(randutil.NewUnseeded()),
		game.WithLogger(gm.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("restore game %s: %w", id, err)
	}

	gm.mu.Lock()
	if existing, ok := gm.sessions[id]; ok {
		gm.mu.Unlock()
		return existing, nil
	}
	rolled := snap.Rolled && !g.Finished() && !g.Current().IsBot()
	s = newSession(id, snap.Board, g, rolled, gm)
	gm.sessions[id] = s
	gm.mu.Unlock()

	gm.logger.Info().Str("game_id", id).Int("round", g.Round()).Msg("game restored")

	s.mu.Lock()
	s.startBotsLocked()
	s.mu.Unlock()
	return s, nil
}

// List summarizes live and stored games, ordered by id.
func (gm *GameManager) List(ctx context.Context) ([]Summary, error) {
	ids, err := gm.store.List(ctx)
	if err != nil {
		return nil, err
	}

	gm.mu.RLock()
	live := make(map[string]*Session, len(gm.sessions))
	for id, s := range gm.sessions {
		live[id] = s
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	gm.mu.RUnlock()
	slices.Sort(ids)

	out := make([]Summary, 0, len(ids))
	for _, id := range ids {
		if s, ok := live[id]; ok {
			out = append(out, s.Summary())
			continue
		}
		snap, err := gm.store.Load(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, summarize(id, snap))
	}
	return out, nil
}

// Delete closes a game and removes it from the store.
func (gm *GameManager) Delete(ctx context.Context, id string) error {
	gm.mu.Lock()
	s, ok := gm.sessions[id]
	delete(gm.sessions, id)
	gm.mu.Unlock()

	if ok {
		s.Close()
	}
	err := gm.store.Delete(ctx, id)
	if ok && errors.Is(err, store.ErrNotFound) {
		return nil
	}
	return err
}

// CloseAll stops every live session.
func (gm *GameManager) CloseAll() {
	gm.mu.Lock()
	sessions := gm.sessions
	gm.sessions = make(map[string]*Session)
	gm.mu.Unlock()

	var wg sync.WaitGroup
	for _, s := range sessions {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Close()
		}()
	}
	wg.Wait()
}
