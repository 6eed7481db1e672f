package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/monopolyforbots/internal/randutil"
)

func TestMoveIsCircular(t *testing.T) {
	t.Parallel()

	defs := []BlockDef{{Position: 0, Name: "Início", Category: Go}}
	for i := 1; i < 7; i++ {
		defs = append(defs, BlockDef{Position: i, Name: "Parada", Category: FreeParking})
	}
	g := New([]*Player{NewPlayer("A", Human)}, NewBoard(defs))
	p := g.Current()

	rng := randutil.New(11)
	for i := 0; i < 200; i++ {
		from := p.Position
		steps := rng.IntN(30)
		res := g.MoveCurrentPlayer(steps)
		require.Equal(t, (from+steps)%7, p.Position, "from %d steps %d", from, steps)
		assert.Equal(t, p.Position, res.To)
	}
}

func TestMovePaysSalaryOnce(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		from   int
		steps  int
		to     int
		salary bool
	}{
		{"wraps past go", 8, 3, 1, true},
		{"lands on go", 9, 1, 0, true},
		{"full lap", 0, 10, 0, true},
		{"two laps", 1, 20, 1, true},
		{"no move", 0, 0, 0, false},
		{"short of go", 1, 8, 9, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t, 2)
			p := g.Current()
			p.Position = tt.from

			res := g.MoveCurrentPlayer(tt.steps)

			assert.Equal(t, tt.to, p.Position)
			assert.Equal(t, tt.salary, res.PassedGo)
			assert.Equal(t, tt.salary, g.PassedGo())
			if tt.salary {
				assert.Equal(t, 1700, p.Cash)
				assert.Equal(t, 200, res.Salary)
			} else {
				assert.Equal(t, 1500, p.Cash)
			}
		})
	}
}

func TestMoveNegativeStepsPanics(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, 2)
	assert.Panics(t, func() { g.MoveCurrentPlayer(-1) })
}

func TestBuyThenPayRent(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, 2)
	a, b := g.Player(0), g.Player(1)

	res := g.MoveCurrentPlayer(1)
	block := g.Block(res.To)
	require.Equal(t, Property, res.Landing)
	require.True(t, g.TryBuyProperty(a, block))
	assert.Equal(t, 1300, a.Cash)
	assert.Equal(t, a.Index, block.Owner)
	assert.Same(t, a, g.OwnerOf(block))
	assert.Equal(t, []int{1}, a.Owned)
	assert.Equal(t, 0, a.LastPurchaseRound)

	g.NextTurn()
	res = g.MoveCurrentPlayer(1)

	assert.Equal(t, 10, res.Rent)
	assert.Equal(t, a.Index, res.RentTo)
	assert.Equal(t, 1490, b.Cash)
	assert.Equal(t, 1310, a.Cash)
}

func TestNoRentForOwnerOrMortgage(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, 2)
	a, b := g.Player(0), g.Player(1)
	block := g.Block(1)
	require.True(t, g.TryBuyProperty(a, block))

	res := g.MoveCurrentPlayer(1)
	assert.Zero(t, res.Rent, "owner visiting")
	assert.Equal(t, 1300, a.Cash)

	block.Mortgaged = true
	g.NextTurn()
	res = g.MoveCurrentPlayer(1)
	assert.Zero(t, res.Rent, "mortgaged")
	assert.Equal(t, 1500, b.Cash)
}

func TestUpgradedRent(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, 2)
	a, b := g.Player(0), g.Player(1)
	block := g.Block(1)

	g.MoveCurrentPlayer(1)
	require.True(t, g.TryBuyProperty(a, block))
	require.True(t, g.Upgrade(a, block))
	assert.Equal(t, 1200, a.Cash)
	assert.Equal(t, 16, block.Rent())

	g.NextTurn()
	res := g.MoveCurrentPlayer(1)
	assert.Equal(t, 16, res.Rent)
	assert.Equal(t, 1484, b.Cash)
}

func TestFixedTax(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, 2)
	res := g.MoveCurrentPlayer(2)

	assert.Equal(t, Tax, res.Landing)
	assert.Equal(t, 150, res.Tax)
	assert.Equal(t, 1350, g.Current().Cash)
}

func TestPercentTaxRoundsHalfToEven(t *testing.T) {
	t.Parallel()

	tests := []struct {
		cash int
		want int
	}{
		{1500, 75},
		{1010, 50}, // 50.5
		{1030, 52}, // 51.5
		{0, 0},
	}

	for _, tt := range tests {
		g := newTestGame(t, 2, rulesWith(func(r *Rules) {
			r.Tax = PercentTax{Percents: []int{5}}
		}))
		p := g.Current()
		p.Cash = tt.cash

		res := g.MoveCurrentPlayer(2)
		assert.Equal(t, tt.want, res.Tax, "cash %d", tt.cash)
		assert.Equal(t, tt.cash-tt.want, p.Cash)
	}
}

func TestPercentTaxDrawsFromSet(t *testing.T) {
	t.Parallel()

	rng := randutil.New(3)
	p := &Player{Cash: 1000}
	allowed := map[int]bool{50: true, 100: true, 150: true, 200: true, 250: true, 300: true}
	for i := 0; i < 100; i++ {
		assert.True(t, allowed[PercentTax{}.Tax(nil, p, rng)])
	}
}

func TestGoToJailRelocates(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, 2)
	p := g.Current()
	res := g.MoveCurrentPlayer(7)

	assert.True(t, res.Jailed)
	assert.Equal(t, 5, res.To)
	assert.Equal(t, 5, p.Position)
	assert.True(t, p.InJail)
	assert.Equal(t, 1, p.SkipTurns)
	assert.Equal(t, 0, p.JailTurns)
}

func TestGoToJailWithoutRelocation(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, 2, rulesWith(func(r *Rules) {
		r.JailRelocation = false
		r.JailTurns = 3
	}))
	p := g.Current()
	g.MoveCurrentPlayer(7)

	assert.Equal(t, 7, p.Position)
	assert.True(t, p.InJail)
	assert.Equal(t, 3, p.SkipTurns)
}

func TestChanceDelta(t *testing.T) {
	t.Parallel()

	for _, delta := range []int{300, -100, 0} {
		g := newTestGame(t, 2, rulesWith(func(r *Rules) { r.Chance = stubBonus(delta) }))
		res := g.MoveCurrentPlayer(4)
		assert.Equal(t, delta, res.ChanceDelta)
		assert.Equal(t, 1500+delta, g.Current().Cash)
	}
}

func TestRandomBonusDrawsFromSet(t *testing.T) {
	t.Parallel()

	rng := randutil.New(5)
	seen := map[int]bool{}
	for i := 0; i < 500; i++ {
		v := RandomBonus{}.Bonus(nil, nil, rng)
		assert.Contains(t, DefaultChanceAmounts, v)
		seen[v] = true
	}
	assert.Len(t, seen, len(DefaultChanceAmounts))
}

func TestReverseFine(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, 2, rulesWith(func(r *Rules) { r.Reverse = stubSetback{fine: 200} }))
	res := g.MoveCurrentPlayer(8)

	assert.Equal(t, 200, res.ReverseFine)
	assert.Zero(t, res.BackSteps)
	assert.Equal(t, 1300, g.Current().Cash)
	assert.Equal(t, 8, res.To)
}

func TestReverseWalkDoesNotResolve(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, 2, rulesWith(func(r *Rules) { r.Reverse = stubSetback{steps: 1} }))
	p := g.Current()
	res := g.MoveCurrentPlayer(8)

	assert.Equal(t, 1, res.BackSteps)
	assert.Equal(t, 7, p.Position)
	assert.False(t, p.InJail, "GoToJail reached backwards is not resolved")
}

func TestReverseWalkPastGoPaysNothing(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, 2, rulesWith(func(r *Rules) { r.Reverse = stubSetback{steps: 9} }))
	p := g.Current()
	g.MoveCurrentPlayer(8)

	assert.Equal(t, 9, p.Position)
	assert.Equal(t, 1500, p.Cash)
}

func TestRandomSetbackShape(t *testing.T) {
	t.Parallel()

	rng := randutil.New(9)
	policy := DefaultSetback()
	var fines, walks int
	for i := 0; i < 400; i++ {
		fine, steps := policy.Setback(nil, nil, rng)
		if steps > 0 {
			walks++
			assert.Zero(t, fine)
			assert.GreaterOrEqual(t, steps, 2)
			assert.LessOrEqual(t, steps, 6)
			continue
		}
		fines++
		assert.Contains(t, []int{100, 200}, fine)
	}
	assert.Positive(t, fines)
	assert.Positive(t, walks)
}

func TestBankruptcyOnLanding(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, 3)
	p := g.Current()
	require.True(t, g.TryBuyProperty(p, g.Block(1)))
	require.True(t, g.TryBuyProperty(p, g.Block(3)))
	p.Cash = 100

	res := g.MoveCurrentPlayer(2)

	assert.True(t, res.Bankrupt)
	assert.False(t, res.Finished)
	assert.True(t, p.Bankrupt)
	assert.Empty(t, p.Owned)
	assert.False(t, g.Block(1).Owned())
	assert.False(t, g.Block(3).Owned())
	assert.Equal(t, 1, g.CurrentIndex(), "play moved on")
}

func TestBankruptcyFinishesTwoPlayerGame(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, 2)
	a, b := g.Player(0), g.Player(1)
	require.True(t, g.TryBuyProperty(a, g.Block(1)))

	g.NextTurn()
	b.Cash = 5
	res := g.MoveCurrentPlayer(1)

	assert.True(t, res.Bankrupt)
	assert.True(t, res.Finished)
	assert.True(t, g.Finished())
	assert.Same(t, a, g.Winner())
	assert.Equal(t, 1300+10, a.Cash)
}

func TestBankruptPlayerDoesNotMove(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, 3)
	p := g.Current()
	p.Bankrupt = true

	res := g.MoveCurrentPlayer(4)
	assert.Equal(t, 0, p.Position)
	assert.Equal(t, 0, res.To)
}
