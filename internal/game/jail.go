package game

// SendToJail locks p up for turns skipped turns. When the rules relocate
// prisoners and the board has a Jail block, p is moved onto it.
func (g *Game) SendToJail(p *Player, turns int) {
	g.check(p)

	p.InJail = true
	p.JailTurns = 0
	p.SkipTurns = max(turns, 0)

	if g.rules.JailRelocation {
		if idx := g.firstOf(Jail); idx >= 0 {
			p.Position = idx
		}
	}

	g.logger.Debug().
		Str("player", p.Name).
		Int("skip_turns", p.SkipTurns).
		Int("position", p.Position).
		Msg("sent to jail")
}

// GrantJailCard gives p a get-out-of-jail card.
func (g *Game) GrantJailCard(p *Player) {
	g.check(p)
	p.JailCards++
}

// UseJailCard spends one of p's cards to leave jail at once, forfeiting any
// remaining skips. It returns false when p is free or has no card.
func (g *Game) UseJailCard(p *Player) bool {
	g.check(p)
	if !p.InJail || p.JailCards == 0 {
		return false
	}
	p.JailCards--
	p.InJail = false
	p.JailTurns = 0
	p.SkipTurns = 0
	return true
}
