// Package fuzzy recommends buying, selling or waiting from a player's cash
// balance using three piecewise-linear membership functions and one rule per
// action.
package fuzzy

import (
	"fmt"
	"strings"
)

// MaxBalance is the top of the balance universe. Balances above it score as
// if they were MaxBalance.
const MaxBalance = 3000.0

// Action is the crisp recommendation.
type Action int

const (
	Buy Action = iota
	Sell
	Wait
)

func (a Action) String() string {
	switch a {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	case Wait:
		return "wait"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Action) UnmarshalText(b []byte) error {
	switch string(b) {
	case "buy":
		*a = Buy
	case "sell":
		*a = Sell
	case "wait":
		*a = Wait
	default:
		return fmt.Errorf("unknown fuzzy action %q", b)
	}
	return nil
}

// Scores holds the firing strength of each rule, each in [0, 1].
type Scores struct {
	Buy  float64 `json:"buy"`
	Sell float64 `json:"sell"`
	Wait float64 `json:"wait"`
}

// Result is the outcome of one evaluation.
type Result struct {
	Action      Action  `json:"action"`
	Scores      Scores  `json:"scores"`
	X           float64 `json:"normalized_balance"`
	Balance     float64 `json:"balance"`
	Explanation string  `json:"explanation"`
}

// Policy evaluates balances. The zero value is ready to use and, having no
// state, may be shared between goroutines.
type Policy struct{}

// Evaluate scores balance and picks the action with the highest score. Ties
// prefer Buy, then Sell.
func (Policy) Evaluate(balance float64) Result {
	x := Normalize(balance)
	s := Scores{
		Buy:  clamp01(High(x)),
		Sell: clamp01(Low(x)),
		Wait: clamp01(Average(x)),
	}
	action := argmax(s)
	return Result{
		Action:      action,
		Scores:      s,
		X:           x,
		Balance:     balance,
		Explanation: explain(balance, x, s, action),
	}
}

// ApplyTaxAndDecide evaluates the balance left after paying tax. Negative
// taxes count as zero.
func (p Policy) ApplyTaxAndDecide(balance, tax float64) Result {
	return p.Evaluate(max(0, balance-max(0, tax)))
}

// ApplyBonusAndDecide evaluates the balance after receiving bonus, capped at
// MaxBalance. Negative bonuses count as zero.
func (p Policy) ApplyBonusAndDecide(balance, bonus float64) Result {
	return p.Evaluate(min(MaxBalance, balance+max(0, bonus)))
}

// Normalize maps a balance onto x in [0, 100].
func Normalize(balance float64) float64 {
	return min(100, max(0, balance/MaxBalance*100))
}

// Low is 1 up to x=25 and falls to 0 at x=50.
func Low(x float64) float64 {
	switch {
	case x <= 25:
		return 1
	case x >= 50:
		return 0
	default:
		return (50 - x) / 25
	}
}

// Average rises from x=25 to a peak at x=50, then falls to 0 at x=75.
func Average(x float64) float64 {
	switch {
	case x <= 25 || x >= 75:
		return 0
	case x <= 50:
		return (x - 25) / 25
	default:
		return (75 - x) / 25
	}
}

// High is 0 up to x=50 and reaches 1 at x=75.
func High(x float64) float64 {
	switch {
	case x <= 50:
		return 0
	case x >= 75:
		return 1
	default:
		return (x - 50) / 25
	}
}

func argmax(s Scores) Action {
	switch {
	case s.Buy >= s.Sell && s.Buy >= s.Wait:
		return Buy
	case s.Sell >= s.Wait:
		return Sell
	default:
		return Wait
	}
}

func clamp01(v float64) float64 {
	return min(1, max(0, v))
}

func explain(balance, x float64, s Scores, a Action) string {
	return fmt.Sprintf("balance=%.2f (x=%.2f of 100). scores: buy=%.3f, sell=%.3f, wait=%.3f. decision: %s by highest membership.",
		balance, x, s.Buy, s.Sell, s.Wait, strings.ToUpper(a.String()))
}
