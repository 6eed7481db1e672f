package bot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/monopolyforbots/internal/game"
)

func TestEvaluateTurnStart(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, nil, game.Bot, game.Human)
	svc := NewService(DefaultDelays())

	tests := []struct {
		name     string
		ctx      Context
		want     DecisionType
		priority int
		delay    time.Duration
	}{
		{"no game", Context{Player: g.Player(0)}, None, 0, 0},
		{"no player", Context{Game: g}, None, 0, 0},
		{"human", Context{Game: g, Player: g.Player(1)}, None, 0, 0},
		{"already rolled", Context{Game: g, Player: g.Player(0), HasRolled: true, Typing: true}, EndTurn, 5, 400 * time.Millisecond},
		{"typing", Context{Game: g, Player: g.Player(0), Typing: true}, Skip, 1, 350 * time.Millisecond},
		{"animating", Context{Game: g, Player: g.Player(0), Animating: true}, Skip, 1, 350 * time.Millisecond},
		{"ready", Context{Game: g, Player: g.Player(0)}, Roll, 10, 1200 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := svc.EvaluateTurnStart(tt.ctx)
			assert.Equal(t, tt.want, d.Type)
			assert.Equal(t, tt.priority, d.Priority)
			assert.Equal(t, tt.delay, d.Delay)
			assert.Equal(t, NoTarget, d.Target)
		})
	}
}

func TestEvaluateModalBuyFollowsPolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cash     int
		priority int
	}{
		{"rich buys eagerly", 3000, 12},
		{"middling waits", 1500, 8},
		{"poor sells", 300, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t, nil, game.Bot, game.Bot)
			p := g.Player(0)
			p.Cash = tt.cash
			p.Position = 1

			ds := NewService(NoDelays()).EvaluateModal(Context{Game: g, Player: p, Block: g.Block(1), FromMove: true})

			require.Len(t, ds, 2)
			assert.Equal(t, Buy, ds[0].Type)
			assert.Equal(t, tt.priority, ds[0].Priority)
			assert.Equal(t, 1, ds[0].Target)
			require.NotNil(t, ds[0].Policy)
			assert.Equal(t, EndTurn, ds[1].Type)
			assert.Equal(t, PriorityEndTurnAfter, ds[1].Priority)
		})
	}
}

func TestEvaluateModalNothingToDo(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, nil, game.Bot, game.Bot)
	p := g.Player(0)
	svc := NewService(DefaultDelays())

	p.Cash = 150
	ds := svc.EvaluateModal(Context{Game: g, Player: p, Block: g.Block(1)})
	require.Len(t, ds, 1, "cannot afford")
	assert.Equal(t, EndTurn, ds[0].Type)
	assert.Equal(t, PriorityEndTurnAlone, ds[0].Priority)
	assert.Equal(t, 500*time.Millisecond, ds[0].Delay)

	ds = svc.EvaluateModal(Context{Game: g, Player: p, Block: g.Block(2)})
	require.Len(t, ds, 1, "not for sale")
	assert.Equal(t, EndTurn, ds[0].Type)

	require.True(t, g.TryBuyProperty(g.Player(1), g.Block(3)))
	ds = svc.EvaluateModal(Context{Game: g, Player: p, Block: g.Block(3)})
	require.Len(t, ds, 1, "owned by someone else")
	assert.Equal(t, EndTurn, ds[0].Type)
}

func TestEvaluateModalUpgrade(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, nil, game.Bot, game.Bot)
	p := g.Player(0)
	b := g.Block(3)
	require.True(t, g.TryBuyProperty(p, b))
	p.Position = 3
	p.Cash = 2500

	ds := NewService(NoDelays()).EvaluateModal(Context{Game: g, Player: p, Block: b})

	require.Len(t, ds, 2)
	assert.Equal(t, Upgrade, ds[0].Type)
	assert.Equal(t, PriorityUpgrade+3, ds[0].Priority)
	assert.Equal(t, EndTurn, ds[1].Type)

	p.Position = 0
	ds = NewService(NoDelays()).EvaluateModal(Context{Game: g, Player: p, Block: b})
	require.Len(t, ds, 1, "must stand on the block")
}

func TestEvaluateModalWithoutContext(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, nil, game.Bot, game.Human)
	svc := NewService(NoDelays())

	ds := svc.EvaluateModal(Context{Game: g, Player: g.Player(0)})
	require.Len(t, ds, 1)
	assert.Equal(t, None, ds[0].Type)

	ds = svc.EvaluateModal(Context{Game: g, Player: g.Player(1), Block: g.Block(1)})
	require.Len(t, ds, 1)
	assert.Equal(t, None, ds[0].Type)
}

func TestDelaysScale(t *testing.T) {
	t.Parallel()

	d := DefaultDelays().Scale(0.5)
	assert.Equal(t, 600*time.Millisecond, d.AutoRoll)
	assert.Equal(t, 175*time.Millisecond, d.Skip)
	assert.Equal(t, NoDelays(), DefaultDelays().Scale(0))
}
