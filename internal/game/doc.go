// Package game implements the rules engine for a turn-based property
// trading board game.
//
// The main type is Game, which owns the board and the players of a single
// session and exposes the operations a turn is made of: moving the current
// player, buying and upgrading blocks, paying rent and taxes, jailing and
// advancing the turn.
//
// # Basic Usage
//
//	board := game.NewBoard(defs)
//	players := []*game.Player{
//	    game.NewPlayer("Alice", game.Human),
//	    game.NewPlayer("Bot 1", game.Bot),
//	}
//	g := game.New(players, board)
//	_, _, total := g.RollDice()
//	res := g.MoveCurrentPlayer(total)
//	if b := g.Block(res.To); b.Purchasable() {
//	    g.TryBuyProperty(g.Current(), b)
//	}
//	g.NextTurn()
//
// # Deterministic Testing
//
// Inject a scripted dice source and a seeded generator:
//
//	g := game.New(players, board,
//	    game.WithDice(dice.Totals(4, 7, 2)),
//	    game.WithRand(randutil.New(42)),
//	)
//
// # Rules
//
// Tax, Chance and Reverse blocks are resolved through policies carried by
// Rules, so boards that charge a percentage of cash and boards that charge a
// fixed amount share the same engine.
//
// Game is not safe for concurrent use. Servers serialize access per session.
package game
