package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/monopolyforbots/internal/dice"
)

func TestNewSetsStartingState(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, 3)

	assert.Equal(t, 0, g.CurrentIndex())
	assert.Equal(t, 0, g.Round())
	assert.False(t, g.Finished())
	for i, p := range g.Players() {
		assert.Equal(t, i, p.Index)
		assert.Equal(t, 1500, p.Cash)
		assert.Equal(t, 0, p.Position)
		assert.NotEmpty(t, p.ID)
	}
}

func TestNewPanicsOnEmptyInput(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { New(nil, NewBoard(testDefs())) })
	assert.Panics(t, func() { New([]*Player{NewPlayer("A", Human)}, nil) })
}

func TestRollDiceUsesSource(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, 2, WithDice(dice.NewSequence(3, 4, 6, 6)))

	d1, d2, total := g.RollDice()
	assert.Equal(t, []int{3, 4, 7}, []int{d1, d2, total})
	d1, d2, total = g.RollDice()
	assert.Equal(t, []int{6, 6, 12}, []int{d1, d2, total})
	assert.Equal(t, 0, g.Current().Position, "rolling does not move")
}

func TestNextTurnWrapsAndCountsRounds(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, 3)

	g.NextTurn()
	assert.Equal(t, 1, g.CurrentIndex())
	g.NextTurn()
	assert.Equal(t, 2, g.CurrentIndex())
	assert.Equal(t, 0, g.Round())
	g.NextTurn()
	assert.Equal(t, 0, g.CurrentIndex())
	assert.Equal(t, 1, g.Round())
}

func TestNextTurnSkipsBankrupt(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, 3)
	g.Player(1).Bankrupt = true

	g.NextTurn()
	assert.Equal(t, 2, g.CurrentIndex())
}

func TestSkipTurnsConsumedOnePerCall(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, 2)
	a, b := g.Player(0), g.Player(1)
	g.SendToJail(b, 2)

	g.NextTurn()
	assert.Same(t, a, g.Current(), "first skip")
	assert.Equal(t, 1, b.SkipTurns)

	g.NextTurn()
	assert.Same(t, a, g.Current(), "second skip")
	assert.Equal(t, 0, b.SkipTurns)
	assert.Equal(t, 2, b.JailTurns)

	g.NextTurn()
	assert.Same(t, b, g.Current(), "eligible again")
	assert.False(t, b.InJail)
	assert.Equal(t, 0, b.JailTurns)
}

func TestNextTurnStopsAfterOneLap(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, 3)
	for _, p := range g.Players() {
		p.SkipTurns = 5
	}

	g.NextTurn()
	assert.Equal(t, 0, g.CurrentIndex())
	assert.Equal(t, 1, g.Round())
	for _, p := range g.Players() {
		assert.Equal(t, 4, p.SkipTurns)
	}
}

func TestNextTurnAfterLapNeverStopsOnBankruptSeat(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, 3)
	a, b, c := g.Player(0), g.Player(1), g.Player(2)
	a.Cash = 10
	g.SendToJail(b, 1)
	g.SendToJail(c, 1)

	res := g.MoveCurrentPlayer(2) // Imposto, fixed 150
	require.True(t, res.Bankrupt)
	require.False(t, g.Finished())

	assert.True(t, a.Bankrupt)
	assert.False(t, g.Current().Bankrupt)
	assert.Equal(t, 1, g.CurrentIndex())
	assert.Equal(t, 1, g.Round())
	assert.Zero(t, b.SkipTurns)
	assert.Zero(t, c.SkipTurns)
}

func TestFinishFreezesTurns(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, 2)
	g.Finish()
	g.NextTurn()

	assert.True(t, g.Finished())
	assert.Equal(t, 0, g.CurrentIndex())

	res := g.MoveCurrentPlayer(3)
	assert.True(t, res.Finished)
	assert.Equal(t, 0, g.Current().Position)
}

func TestWinnerByAssetScore(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, 3)
	a, b, c := g.Player(0), g.Player(1), g.Player(2)
	require.True(t, g.TryBuyProperty(b, g.Block(1)))
	c.Bankrupt = true
	c.Cash = 10000

	assert.Same(t, a, g.Winner(), "ties keep the earlier seat")

	b.Cash++
	assert.Same(t, b, g.Winner())
}

func TestPlayerByID(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, 2)
	p, ok := g.PlayerByID(g.Player(1).ID)
	require.True(t, ok)
	assert.Same(t, g.Player(1), p)

	_, ok = g.PlayerByID("nope")
	assert.False(t, ok)
}

func TestForeignPlayerPanics(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, 2)
	other := newTestGame(t, 2)

	assert.Panics(t, func() { g.TryBuyProperty(other.Player(0), g.Block(1)) })
	assert.Panics(t, func() { g.TryBuyProperty(g.Player(0), other.Block(1)) })
	assert.Panics(t, func() { g.PayBank(nil, 10) })
}
