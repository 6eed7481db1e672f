package game

// TryBuyProperty sells an unowned, unmortgaged Property or Company to p at
// its price. It returns false and changes nothing otherwise.
func (g *Game) TryBuyProperty(p *Player, b *Block) bool {
	g.check(p)
	g.checkBlock(b)

	if p.Bankrupt || !b.Purchasable() || p.Cash < b.Price {
		return false
	}

	p.Cash -= b.Price
	b.Owner = p.Index
	p.addOwned(b.index)
	p.LastPurchaseRound = g.round

	g.logger.Debug().
		Str("player", p.Name).
		Str("block", b.Name).
		Int("price", b.Price).
		Int("cash", p.Cash).
		Msg("property bought")
	return true
}

// Upgrade builds the next level of b for p. With OneBuildPerRound set, a
// player may build once per round.
func (g *Game) Upgrade(p *Player, b *Block) bool {
	g.check(p)
	g.checkBlock(b)

	if g.rules.OneBuildPerRound && p.LastBuildRound == g.round {
		return false
	}
	if !b.Upgrade(p) {
		return false
	}
	p.LastBuildRound = g.round

	g.logger.Debug().
		Str("player", p.Name).
		Str("block", b.Name).
		Int("level", b.Level()).
		Int("cash", p.Cash).
		Msg("block upgraded")
	return true
}

// CanUpgrade reports whether Upgrade would succeed.
func (g *Game) CanUpgrade(p *Player, b *Block) bool {
	if g.rules.OneBuildPerRound && p.LastBuildRound == g.round {
		return false
	}
	return b.CanUpgrade(p)
}

// SellProperty returns b to the bank and refunds part of its price to the
// owner. Building levels stay with the block.
func (g *Game) SellProperty(p *Player, b *Block) bool {
	g.check(p)
	g.checkBlock(b)

	if p.Bankrupt || b.Owner != p.Index {
		return false
	}
	refund := b.Price * g.rules.SellRefundPercent / 100
	p.Cash += refund
	b.release()
	p.removeOwned(b.index)

	g.logger.Debug().
		Str("player", p.Name).
		Str("block", b.Name).
		Int("refund", refund).
		Msg("property sold")
	return true
}

// Transfer moves amount from one player to another. Non-positive amounts do
// nothing. A payer left with negative cash goes bankrupt.
func (g *Game) Transfer(from, to *Player, amount int) {
	g.check(from)
	g.check(to)
	if amount <= 0 {
		return
	}
	g.transfer(from, to, amount)
	g.settle(from)
}

// PayBank debits amount from p. Non-positive amounts do nothing.
func (g *Game) PayBank(p *Player, amount int) {
	g.check(p)
	if amount <= 0 {
		return
	}
	g.payBank(p, amount)
	g.settle(p)
}

// Credit pays p amount from the bank. Non-positive amounts do nothing.
func (g *Game) Credit(p *Player, amount int) {
	g.check(p)
	g.credit(p, amount)
}

func (g *Game) transfer(from, to *Player, amount int) {
	if amount <= 0 {
		return
	}
	from.Cash -= amount
	to.Cash += amount
}

func (g *Game) payBank(p *Player, amount int) {
	if amount > 0 {
		p.Cash -= amount
	}
}

func (g *Game) credit(p *Player, amount int) {
	if amount > 0 {
		p.Cash += amount
	}
}

// settle bankrupts p if a debit left it with negative cash and reports
// whether it did.
func (g *Game) settle(p *Player) bool {
	if p.Cash >= 0 || p.Bankrupt {
		return false
	}
	g.declareBankrupt(p)
	return true
}

// declareBankrupt returns every block p owns to the bank. The game ends when
// at most one solvent player remains; otherwise play moves on if p held the
// turn.
func (g *Game) declareBankrupt(p *Player) {
	wasCurrent := g.current == p.Index

	p.Bankrupt = true
	for _, idx := range p.Owned {
		g.blocks[idx].release()
	}
	p.Owned = nil

	g.logger.Info().
		Str("player", p.Name).
		Int("cash", p.Cash).
		Int("round", g.round).
		Msg("player bankrupt")

	switch {
	case len(g.Solvent()) <= 1:
		g.Finish()
	case wasCurrent:
		g.NextTurn()
	}
}
