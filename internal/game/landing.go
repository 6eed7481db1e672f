package game

import "fmt"

// MoveResult describes everything a single move did. Fields that do not
// apply are zero; Rent and RentTo only matter when Rent > 0.
type MoveResult struct {
	Player   int
	From     int
	To       int
	Steps    int
	PassedGo bool
	Salary   int

	Block   int // index of the block that was resolved
	Landing Category

	Rent        int
	RentTo      int
	Tax         int
	ChanceDelta int
	ReverseFine int
	BackSteps   int
	Jailed      bool

	Bankrupt bool
	Finished bool
}

// MoveCurrentPlayer walks the current player steps blocks forward, credits
// salary once if any block passed on the way (destination included) is Go,
// then resolves the destination block. A player left with negative cash goes
// bankrupt.
func (g *Game) MoveCurrentPlayer(steps int) MoveResult {
	if steps < 0 {
		panic(fmt.Sprintf("game: negative step count %d", steps))
	}

	p := g.Current()
	res := MoveResult{Player: p.Index, From: p.Position, To: p.Position, Steps: steps, RentTo: NoOwner}
	if g.finished || p.Bankrupt {
		res.Finished = g.finished
		return res
	}

	g.passedGo = false
	pos := p.Position
	for i := 0; i < steps; i++ {
		pos = (pos + 1) % len(g.blocks)
		if g.blocks[pos].Category == Go {
			g.passedGo = true
		}
	}
	if g.passedGo {
		g.credit(p, g.rules.GoSalary)
		res.PassedGo = true
		res.Salary = g.rules.GoSalary
	}
	p.Position = pos
	res.To = pos

	g.logger.Debug().
		Str("player", p.Name).
		Int("from", res.From).
		Int("to", pos).
		Bool("passed_go", res.PassedGo).
		Msg("moved")

	g.resolveLanding(p, &res)

	res.Bankrupt = g.settle(p)
	res.Finished = g.finished
	return res
}

// resolveLanding applies the effect of the block p stopped on. Only the
// destination is resolved, never the blocks passed on the way.
func (g *Game) resolveLanding(p *Player, res *MoveResult) {
	b := g.blocks[p.Position]
	res.Block = b.index
	res.Landing = b.Category

	switch b.Category {
	case Property, Company:
		if !b.Owned() || b.Owner == p.Index || b.Mortgaged {
			return
		}
		owner := g.players[b.Owner]
		rent := b.Rent()
		g.transfer(p, owner, rent)
		res.Rent = rent
		res.RentTo = owner.Index

	case Tax:
		amount := g.rules.Tax.Tax(b, p, g.rng)
		g.payBank(p, amount)
		res.Tax = amount

	case GoToJail:
		g.SendToJail(p, g.rules.JailTurns)
		res.Jailed = true
		res.To = p.Position

	case Chance:
		delta := g.rules.Chance.Bonus(b, p, g.rng)
		if delta >= 0 {
			g.credit(p, delta)
		} else {
			g.payBank(p, -delta)
		}
		res.ChanceDelta = delta

	case Reverse:
		fine, steps := g.rules.Reverse.Setback(b, p, g.rng)
		if steps > 0 {
			g.walkBack(p, steps)
			res.BackSteps = steps
			res.To = p.Position
		} else {
			g.payBank(p, fine)
			res.ReverseFine = fine
		}

	case Go, Jail, FreeParking:
	}

	if res.Rent > 0 || res.Tax > 0 || res.ChanceDelta != 0 || res.ReverseFine > 0 || res.Jailed || res.BackSteps > 0 {
		g.logger.Debug().
			Str("player", p.Name).
			Str("block", b.Name).
			Stringer("category", b.Category).
			Int("cash", p.Cash).
			Msg("landing resolved")
	}
}

// walkBack moves p backwards without paying salary or resolving the block
// it ends on.
func (g *Game) walkBack(p *Player, steps int) {
	n := len(g.blocks)
	p.Position = ((p.Position-steps)%n + n) % n
}
