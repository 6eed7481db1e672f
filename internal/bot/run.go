package bot

import (
	"context"
	"errors"
)

var (
	// ErrHumanTurn is returned by RunGame when a human holds the turn.
	ErrHumanTurn = errors.New("bot: current player is not a bot")

	// ErrStalled is returned by RunGame when a turn ends without the game
	// moving on.
	ErrStalled = errors.New("bot: turn did not advance")
)

// RunGame plays bot turns until the game finishes or maxRounds rounds have
// been completed. A maxRounds of zero means no cap.
func RunGame(ctx context.Context, p *Processor, maxRounds int) error {
	g := p.Game()
	for !g.Finished() {
		if maxRounds > 0 && g.Round() >= maxRounds {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !g.Current().IsBot() {
			return ErrHumanTurn
		}

		before := p.current()
		if err := p.PlayTurn(ctx); err != nil {
			return err
		}
		if !g.Finished() && p.current() == before {
			return ErrStalled
		}
	}
	return nil
}
