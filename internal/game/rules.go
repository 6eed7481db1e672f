package game

import (
	"math"
	rand "math/rand/v2"

	"github.com/lox/monopolyforbots/internal/randutil"
)

// Rules are the per-board knobs of a game. Board data disagrees on tax and
// jail behavior, so both are policies rather than constants.
type Rules struct {
	StartingCash      int
	GoSalary          int
	JailTurns         int  // turns skipped after being sent to jail
	JailRelocation    bool // move jailed players onto the Jail block when the board has one
	OneBuildPerRound  bool
	SellRefundPercent int

	Tax     TaxPolicy
	Chance  ChancePolicy
	Reverse ReversePolicy
}

// DefaultRules mirrors the classic board: 1500 starting cash, 200 salary,
// fixed taxes, one build per round and one skipped turn in jail.
func DefaultRules() Rules {
	return Rules{
		StartingCash:      1500,
		GoSalary:          200,
		JailTurns:         1,
		JailRelocation:    true,
		OneBuildPerRound:  true,
		SellRefundPercent: 50,
		Tax:               FixedTax{Default: 150},
		Chance:            RandomBonus{Amounts: DefaultChanceAmounts},
		Reverse:           DefaultSetback(),
	}
}

func (r Rules) withDefaults() Rules {
	d := DefaultRules()
	if r.Tax == nil {
		r.Tax = d.Tax
	}
	if r.Chance == nil {
		r.Chance = d.Chance
	}
	if r.Reverse == nil {
		r.Reverse = d.Reverse
	}
	if r.JailTurns < 0 {
		r.JailTurns = 0
	}
	return r
}

// TaxPolicy decides what a player landing on a Tax block owes the bank.
type TaxPolicy interface {
	Tax(b *Block, p *Player, rng *rand.Rand) int
}

// FixedTax charges the block's configured amount, or Default when the block
// carries none.
type FixedTax struct {
	Default int
}

func (t FixedTax) Tax(b *Block, _ *Player, _ *rand.Rand) int {
	if b.BaseRent > 0 {
		return b.BaseRent
	}
	return t.Default
}

// DefaultTaxPercents are the percentages PercentTax draws from.
var DefaultTaxPercents = []int{5, 10, 15, 20, 25, 30}

// PercentTax charges a randomly drawn percentage of the player's current
// cash, rounded half to even.
type PercentTax struct {
	Percents []int
}

func (t PercentTax) Tax(_ *Block, p *Player, rng *rand.Rand) int {
	if p.Cash <= 0 {
		return 0
	}
	percents := t.Percents
	if len(percents) == 0 {
		percents = DefaultTaxPercents
	}
	pct := randutil.Pick(rng, percents)
	return int(math.RoundToEven(float64(p.Cash) * float64(pct) / 100))
}

// ChancePolicy decides the cash delta for a Chance block. Positive values
// are paid by the bank, negative values are owed to it.
type ChancePolicy interface {
	Bonus(b *Block, p *Player, rng *rand.Rand) int
}

// DefaultChanceAmounts are the bonuses RandomBonus draws from.
var DefaultChanceAmounts = []int{50, 100, 150, 200, 300, 350, 400, 500, 600, 700}

// RandomBonus draws a bonus from Amounts.
type RandomBonus struct {
	Amounts []int
}

func (c RandomBonus) Bonus(_ *Block, _ *Player, rng *rand.Rand) int {
	if len(c.Amounts) == 0 {
		return randutil.Pick(rng, DefaultChanceAmounts)
	}
	return randutil.Pick(rng, c.Amounts)
}

// FixedBonus pays the block's configured amount, or Default when the block
// carries none.
type FixedBonus struct {
	Default int
}

func (c FixedBonus) Bonus(b *Block, _ *Player, _ *rand.Rand) int {
	if b.BaseRent != 0 {
		return b.BaseRent
	}
	return c.Default
}

// ReversePolicy decides the penalty for a Reverse block: either a fine or a
// number of steps to walk back. Exactly one of the results is non-zero.
type ReversePolicy interface {
	Setback(b *Block, p *Player, rng *rand.Rand) (fine, steps int)
}

// RandomSetback flips a coin between a fine drawn from Fines and a backward
// walk of MinSteps..MaxSteps.
type RandomSetback struct {
	Fines    []int
	MinSteps int
	MaxSteps int
}

// DefaultSetback returns the classic 100/200 fine or 2..6 steps back.
func DefaultSetback() RandomSetback {
	return RandomSetback{Fines: []int{100, 200}, MinSteps: 2, MaxSteps: 6}
}

func (r RandomSetback) Setback(_ *Block, _ *Player, rng *rand.Rand) (int, int) {
	if rng.Float64() < 0.5 && len(r.Fines) > 0 {
		return randutil.Pick(rng, r.Fines), 0
	}
	lo, hi := r.MinSteps, r.MaxSteps
	if lo <= 0 {
		lo = 1
	}
	return 0, randutil.Between(rng, lo, max(lo, hi))
}
