package main

import (
	"fmt"
	rand "math/rand/v2"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/lox/monopolyforbots/cmd/monopolyforbots/shared"
	"github.com/lox/monopolyforbots/internal/bot"
	"github.com/lox/monopolyforbots/internal/game"
	"github.com/lox/monopolyforbots/internal/narrator"
	"github.com/lox/monopolyforbots/internal/randutil"
)

// PlayCmd narrates one all-bot game.
type PlayCmd struct {
	Board     string   `kong:"help='Board key (default from config)'"`
	Bots      []string `kong:"help='Bot names, overriding the config'"`
	Seed      *int64   `kong:"help='Deterministic RNG seed (optional)'"`
	MaxRounds int      `kong:"name='max-rounds',help='Round cap, 0 uses the config'"`
	Speed     float64  `kong:"default='1',help='Delay multiplier, 0 plays instantly'"`
	Verbose   bool     `kong:"help='Show waits, dropped decisions and policy reasoning'"`
	NoColor   bool     `kong:"name='no-color',help='Disable colored output'"`
}

func (c *PlayCmd) Run(globals *Globals) error {
	logger := shared.SetupLogger(globals.Debug, globals.LogJSON)
	cfg, err := globals.LoadConfig()
	if err != nil {
		return err
	}

	defs, err := cfg.Board(c.Board)
	if err != nil {
		return err
	}
	rules, err := cfg.Rules(c.Board)
	if err != nil {
		return err
	}

	names := c.Bots
	if len(names) == 0 {
		names = cfg.BotNames()
	}
	if len(names) < 2 {
		return fmt.Errorf("need at least two bots, got %d", len(names))
	}
	players := make([]*game.Player, len(names))
	for i, name := range names {
		players[i] = game.NewPlayer(name, game.Bot)
	}

	var rng *rand.Rand
	if c.Seed != nil {
		logger.Info().Int64("seed", *c.Seed).Msg("Using deterministic seed")
		rng = randutil.New(*c.Seed)
	} else {
		rng = randutil.NewUnseeded()
	}

	g := game.New(players, game.NewBoard(defs),
		game.WithRules(rules),
		game.WithRand(rng),
		game.WithLogger(logger),
	)

	var opts []narrator.Option
	renderer := lipgloss.NewRenderer(os.Stdout)
	if c.NoColor {
		opts = append(opts, narrator.WithoutColor())
		renderer.SetColorProfile(termenv.Ascii)
	}
	if c.Verbose {
		opts = append(opts, narrator.WithVerbose())
	}
	n := narrator.New(os.Stdout, g, opts...)

	proc := bot.NewProcessor(g,
		bot.NewService(bot.DefaultDelays().Scale(c.Speed)),
		bot.WithObserver(n),
		bot.WithLogger(logger),
	)

	maxRounds := c.MaxRounds
	if maxRounds == 0 {
		maxRounds = cfg.Game.MaxRounds
	}

	ctx, cancel := shared.SignalContext(logger)
	defer cancel()

	fmt.Fprintf(os.Stdout, "%s, %d players\n", cfg.BoardName(c.Board), len(players))
	err = bot.RunGame(ctx, proc, maxRounds)
	if err != nil && ctx.Err() == nil {
		return err
	}

	if !g.Finished() && err == nil {
		g.Finish()
		ev := bot.Event{Kind: bot.EventFinished, Round: g.Round(), Player: g.CurrentIndex()}
		if w := g.Winner(); w != nil {
			ev.Winner = w.Name
		}
		n.Observe(ev)
	}

	fmt.Fprintln(os.Stdout)
	fmt.Fprint(os.Stdout, narrator.RenderStandings(renderer, g))
	return nil
}
