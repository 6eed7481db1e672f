package main

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/monopolyforbots/internal/fuzzy"
)

// FuzzyCmd evaluates the buy/sell/wait policy for a balance.
type FuzzyCmd struct {
	Balance float64  `arg:"" help:"Cash balance"`
	Tax     *float64 `kong:"xor='adjust',help='Evaluate the balance after paying this tax'"`
	Bonus   *float64 `kong:"xor='adjust',help='Evaluate the balance after receiving this bonus'"`
	JSON    bool     `kong:"name='json',help='Print the result as JSON'"`
}

func (c *FuzzyCmd) Run() error {
	for _, v := range []*float64{&c.Balance, c.Tax, c.Bonus} {
		if v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0)) {
			return fmt.Errorf("amounts must be finite, got %v", *v)
		}
	}

	var p fuzzy.Policy
	var res fuzzy.Result
	switch {
	case c.Tax != nil:
		res = p.ApplyTaxAndDecide(c.Balance, *c.Tax)
	case c.Bonus != nil:
		res = p.ApplyBonusAndDecide(c.Balance, *c.Bonus)
	default:
		res = p.Evaluate(c.Balance)
	}

	if c.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	r := lipgloss.NewRenderer(os.Stdout)
	bold := r.NewStyle().Bold(true)
	fmt.Printf("%s %s\n", bold.Render("Decision:"), bold.Foreground(lipgloss.Color("#7D56F4")).Render(res.Action.String()))
	fmt.Printf("Balance %.2f (x=%.2f)\n", res.Balance, res.X)
	fmt.Printf("  buy  %.3f\n  sell %.3f\n  wait %.3f\n", res.Scores.Buy, res.Scores.Sell, res.Scores.Wait)
	return nil
}
