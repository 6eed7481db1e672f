package narrator

import (
	"bytes"
	"regexp"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/monopolyforbots/internal/bot"
	"github.com/lox/monopolyforbots/internal/fuzzy"
	"github.com/lox/monopolyforbots/internal/game"
	"github.com/lox/monopolyforbots/internal/randutil"
)

var ansi = regexp.MustCompile("\x1b\\[[0-9;]*m")

func plain(b *bytes.Buffer) string { return ansi.ReplaceAllString(b.String(), "") }

func testGame(t *testing.T) *game.Game {
	t.Helper()
	board := game.NewBoard([]game.BlockDef{
		{Position: 0, Name: "Início", Category: game.Go},
		{Position: 1, Name: "Avenida", Category: game.Property, Price: 200, BaseRent: 10, Building: game.House, BuildingCosts: [4]int{100, 100, 150, 200}},
		{Position: 2, Name: "Imposto", Category: game.Tax, BaseRent: 50},
		{Position: 3, Name: "Rua", Category: game.Property, Price: 100, BaseRent: 5, Building: game.Hotel, BuildingCosts: [4]int{50, 50, 50, 50}},
	})
	players := []*game.Player{game.NewPlayer("Ana", game.Bot), game.NewPlayer("Beto", game.Bot)}
	return game.New(players, board, game.WithRand(randutil.New(3)))
}

func TestColorFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, lipgloss.Color("#1d4ed8"), ColorFor(0))
	assert.Equal(t, lipgloss.Color("#eab308"), ColorFor(7))
	assert.Equal(t, Fallback, ColorFor(8))
	assert.Equal(t, Fallback, ColorFor(-1))
}

func TestNarratesMove(t *testing.T) {
	t.Parallel()

	g := testGame(t)
	var buf bytes.Buffer
	n := New(&buf, g, WithoutColor())

	n.Observe(bot.Event{
		Kind: bot.EventMoved,
		Dice: [2]int{2, 1},
		Move: &game.MoveResult{Player: 0, From: 0, To: 1, Steps: 3, PassedGo: true, Salary: 200, Rent: 10, RentTo: 1},
	})

	out := plain(&buf)
	assert.Contains(t, out, "rolled")
	assert.Contains(t, out, "player=Ana")
	assert.Contains(t, out, "dice=2+1")
	assert.Contains(t, out, "to=Avenida")
	assert.Contains(t, out, "collected 200 salary, paid 10 rent to Beto")
}

func TestNarratesLandingOutcomes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		move game.MoveResult
		want string
	}{
		{"tax", game.MoveResult{To: 2, Tax: 150, RentTo: game.NoOwner}, "paid 150 tax"},
		{"chance", game.MoveResult{To: 2, ChanceDelta: 80, RentTo: game.NoOwner}, "drew chance +80"},
		{"reverse", game.MoveResult{To: 2, ReverseFine: 100, BackSteps: 3, RentTo: game.NoOwner}, "reversed 3 blocks and paid 100"},
		{"jail", game.MoveResult{To: 2, Jailed: true, RentTo: game.NoOwner}, "went to jail"},
		{"bankrupt", game.MoveResult{To: 2, Tax: 150, Bankrupt: true, RentTo: game.NoOwner}, "paid 150 tax, went bankrupt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			n := New(&buf, testGame(t), WithoutColor())
			move := tt.move
			n.Observe(bot.Event{Kind: bot.EventMoved, Move: &move})
			assert.Contains(t, plain(&buf), tt.want)
		})
	}
}

func TestNarratesPurchaseAndUpgrade(t *testing.T) {
	t.Parallel()

	g := testGame(t)
	ana := g.Player(0)
	require.True(t, g.TryBuyProperty(ana, g.Block(1)))
	require.True(t, g.Upgrade(ana, g.Block(1)))

	var buf bytes.Buffer
	n := New(&buf, g, WithoutColor())
	n.Observe(bot.Event{Kind: bot.EventExecuted, Player: 0, OK: true, Decision: &bot.Decision{Type: bot.Buy, Target: 1}})
	n.Observe(bot.Event{Kind: bot.EventExecuted, Player: 0, OK: true, Decision: &bot.Decision{Type: bot.Upgrade, Target: 1}})
	n.Observe(bot.Event{Kind: bot.EventExecuted, Player: 1, OK: false, Decision: &bot.Decision{Type: bot.Buy, Target: 3}})

	out := plain(&buf)
	assert.Contains(t, out, "bought")
	assert.Contains(t, out, "block=Avenida")
	assert.Contains(t, out, "price=200")
	assert.Contains(t, out, "upgraded")
	assert.Contains(t, out, "level=1")
	assert.Contains(t, out, "action refused")
}

func TestQuietEventsNeedVerbose(t *testing.T) {
	t.Parallel()

	g := testGame(t)
	policy := fuzzy.Policy{}.Evaluate(2400)
	events := []bot.Event{
		{Kind: bot.EventWaiting, Decision: &bot.Decision{Type: bot.Roll, Delay: time.Second}},
		{Kind: bot.EventDropped, Decision: &bot.Decision{Type: bot.EndTurn}},
		{Kind: bot.EventTurnEnded},
		{Kind: bot.EventExecuted, OK: true, Decision: &bot.Decision{Type: bot.Buy, Target: 1, Policy: &policy}},
	}

	var quiet bytes.Buffer
	q := New(&quiet, g, WithoutColor())
	for _, e := range events[:3] {
		q.Observe(e)
	}
	assert.Empty(t, quiet.String())

	var loud bytes.Buffer
	v := New(&loud, g, WithoutColor(), WithVerbose())
	for _, e := range events {
		v.Observe(e)
	}
	out := plain(&loud)
	assert.Contains(t, out, "thinking")
	assert.Contains(t, out, "dropped")
	assert.Contains(t, out, "turn passes")
	assert.Contains(t, out, "decision: buy")
}

func TestNarratesFinish(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	n := New(&buf, testGame(t), WithoutColor())
	n.Observe(bot.Event{Kind: bot.EventFinished, Winner: "Beto", Round: 12})
	n.Observe(bot.Event{Kind: bot.EventFinished})

	out := plain(&buf)
	assert.Contains(t, out, "winner=Beto")
	assert.Contains(t, out, "game over with no winner")
}

func TestStandings(t *testing.T) {
	t.Parallel()

	g := testGame(t)
	beto := g.Player(1)
	require.True(t, g.TryBuyProperty(beto, g.Block(3)))
	g.Player(0).Cash = 1000

	rows := Standings(g)
	require.Len(t, rows, 2)
	assert.Equal(t, "Beto", rows[0].Name)
	assert.Equal(t, 1, rows[0].Owned)
	assert.Equal(t, "Ana", rows[1].Name)

	r := lipgloss.NewRenderer(&bytes.Buffer{})
	r.SetColorProfile(termenv.Ascii)
	out := RenderStandings(r, g)
	assert.Contains(t, out, "Round 0")
	assert.Contains(t, out, "1. Beto")
}
