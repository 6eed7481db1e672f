package simulator

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/monopolyforbots/internal/bot"
	"github.com/lox/monopolyforbots/internal/game"
	"github.com/lox/monopolyforbots/internal/randutil"
	"github.com/lox/monopolyforbots/internal/statistics"
)

// Config holds configuration for running simulations
type Config struct {
	Games     int
	Seats     int
	Board     []game.BlockDef
	Rules     game.Rules
	Seed      int64
	MaxRounds int // 0 means no cap
	Workers   int
	Timeout   time.Duration // per game, 0 means none
	Logger    *log.Logger

	// Observer, when set, receives every event of every game. It is called
	// from worker goroutines.
	Observer bot.Observer

	// Progress, when set, is called after each game with the number of
	// games completed so far. Calls are serialized.
	Progress func(done, total int)
}

// Simulator plays all-bot games with delays disabled.
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Seats < 2 {
		config.Seats = 2
	}
	if config.Workers <= 0 {
		config.Workers = 1
	}
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	return &Simulator{config: config}
}

// Run plays Config.Games games and aggregates the results. Game i is seeded
// with randutil.Derive(Seed, i), so results do not depend on worker count.
func (s *Simulator) Run(ctx context.Context) (*statistics.Statistics, error) {
	if s.config.Games <= 0 {
		return nil, fmt.Errorf("games must be positive, got %d", s.config.Games)
	}
	if len(s.config.Board) == 0 {
		return nil, fmt.Errorf("board has no blocks")
	}

	results := make([]statistics.GameResult, s.config.Games)
	var (
		mu   sync.Mutex
		done int
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)

	for i := 0; i < s.config.Games; i++ {
		seed := randutil.Derive(s.config.Seed, i)
		g.Go(func() error {
			r, err := s.playGameWithTimeout(ctx, seed)
			if err != nil {
				return fmt.Errorf("game %d (seed %d): %w", i+1, seed, err)
			}
			results[i] = r
			if s.config.Progress != nil {
				mu.Lock()
				done++
				s.config.Progress(done, s.config.Games)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := &statistics.Statistics{}
	for _, r := range results {
		stats.Add(r)
	}
	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}
	return stats, nil
}

func (s *Simulator) playGameWithTimeout(ctx context.Context, seed int64) (statistics.GameResult, error) {
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}
	r, err := s.PlayGame(ctx, seed)
	if err != nil && ctx.Err() == context.DeadlineExceeded {
		return r, fmt.Errorf("timed out after %v", s.config.Timeout)
	}
	return r, err
}

// tally counts what bots did during one game.
type tally struct {
	purchases    int
	upgrades     int
	bankruptcies int
	next         bot.Observer
}

func (t *tally) Observe(e bot.Event) {
	switch e.Kind {
	case bot.EventExecuted:
		if e.OK && e.Decision != nil {
			switch e.Decision.Type {
			case bot.Buy:
				t.purchases++
			case bot.Upgrade:
				t.upgrades++
			}
		}
	case bot.EventMoved:
		if e.Move != nil && e.Move.Bankrupt {
			t.bankruptcies++
		}
	}
	if t.next != nil {
		t.next.Observe(e)
	}
}

// PlayGame plays one game from seed to completion or the round cap.
func (s *Simulator) PlayGame(ctx context.Context, seed int64) (statistics.GameResult, error) {
	players := make([]*game.Player, s.config.Seats)
	for i := range players {
		players[i] = game.NewPlayer(fmt.Sprintf("Bot %d", i+1), game.Bot)
	}
	g := game.New(players, game.NewBoard(s.config.Board),
		game.WithRules(s.config.Rules),
		game.WithRand(randutil.New(seed)),
	)

	t := &tally{next: s.config.Observer}
	proc := bot.NewProcessor(g, bot.NewService(bot.NoDelays()), bot.WithObserver(t))

	if err := bot.RunGame(ctx, proc, s.config.MaxRounds); err != nil {
		s.config.Logger.Error("Failed to play game", "error", err, "seed", seed)
		return statistics.GameResult{}, err
	}

	r := statistics.GameResult{
		Seed:         seed,
		Seats:        s.config.Seats,
		Rounds:       g.Round(),
		Finished:     g.Finished(),
		Winner:       -1,
		Purchases:    t.purchases,
		Upgrades:     t.upgrades,
		Bankruptcies: t.bankruptcies,
	}
	if g.Finished() {
		if w := g.Winner(); w != nil {
			r.Winner = w.Index
			r.WinnerAssets = w.AssetScore(g.Blocks())
		}
	}
	s.config.Logger.Debug("Game complete", "seed", seed, "rounds", r.Rounds, "finished", r.Finished, "winner", r.Winner)
	return r, nil
}

// PrintSummary writes a summary of simulation results.
func PrintSummary(w io.Writer, stats *statistics.Statistics) {
	low, high := stats.ConfidenceInterval95()

	fmt.Fprintf(w, "\n=== FINAL RESULTS ===\n")
	fmt.Fprintf(w, "Games played: %d (%d finished, %d hit the round cap)\n", stats.Games, stats.Finished, stats.Capped)

	fmt.Fprintf(w, "\n=== GAME LENGTH ===\n")
	fmt.Fprintf(w, "Mean: %.2f rounds\n", stats.Mean())
	fmt.Fprintf(w, "Median: %.2f rounds\n", stats.Median())
	fmt.Fprintf(w, "Std Dev: %.2f rounds\n", stats.StdDev())
	fmt.Fprintf(w, "95%% CI: [%.2f, %.2f] rounds\n", low, high)
	fmt.Fprintf(w, "Percentiles: P5=%.1f, P25=%.1f, P75=%.1f, P95=%.1f\n",
		stats.Percentile(0.05), stats.Percentile(0.25), stats.Percentile(0.75), stats.Percentile(0.95))

	fmt.Fprintf(w, "\n=== ACTIVITY ===\n")
	perGame := func(n int) float64 { return float64(n) / float64(stats.Games) }
	fmt.Fprintf(w, "Purchases: %d (%.2f/game)\n", stats.Purchases, perGame(stats.Purchases))
	fmt.Fprintf(w, "Upgrades: %d (%.2f/game)\n", stats.Upgrades, perGame(stats.Upgrades))
	fmt.Fprintf(w, "Bankruptcies: %d (%.2f/game)\n", stats.Bankruptcies, perGame(stats.Bankruptcies))
	fmt.Fprintf(w, "Richest winner: %d\n", stats.MaxWinnerAssets)

	fmt.Fprintf(w, "\n=== SEAT ANALYSIS ===\n")
	for seat, ss := range stats.Seats {
		fmt.Fprintf(w, "Seat %d: %d games, %d wins (%.1f%%)\n", seat+1, ss.Games, ss.Wins, stats.WinRate(seat)*100)
	}
}
