package bot

import (
	"sync"
	"testing"

	"github.com/lox/monopolyforbots/internal/dice"
	"github.com/lox/monopolyforbots/internal/game"
	"github.com/lox/monopolyforbots/internal/randutil"
)

func testBoard() []*game.Block {
	return game.NewBoard([]game.BlockDef{
		{Position: 0, Name: "Início", Category: game.Go},
		{Position: 1, Name: "Avenida", Category: game.Property, Price: 200, BaseRent: 10, Building: game.House, BuildingCosts: [4]int{100, 100, 150, 200}},
		{Position: 2, Name: "Parada", Category: game.FreeParking},
		{Position: 3, Name: "Rua", Category: game.Property, Price: 100, BaseRent: 5, Building: game.Hotel, BuildingCosts: [4]int{50, 50, 50, 50}},
		{Position: 4, Name: "Imposto", Category: game.Tax, BaseRent: 50},
		{Position: 5, Name: "Parada", Category: game.FreeParking},
	})
}

// newTestGame seats the given kinds in order and scripts the dice totals.
func newTestGame(t *testing.T, totals []int, kinds ...game.PlayerKind) *game.Game {
	t.Helper()
	players := make([]*game.Player, len(kinds))
	for i, k := range kinds {
		players[i] = game.NewPlayer(string(rune('A'+i)), k)
	}
	opts := []game.Option{game.WithRand(randutil.New(1))}
	if len(totals) > 0 {
		opts = append(opts, game.WithDice(dice.Totals(totals...)))
	}
	return game.New(players, testBoard(), opts...)
}

// recorder collects events and optionally forwards them.
type recorder struct {
	mu     sync.Mutex
	events []Event
	ch     chan Event
}

func newRecorder() *recorder {
	return &recorder{ch: make(chan Event, 256)}
}

func (r *recorder) Observe(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
	r.ch <- e
}

func (r *recorder) kinds() []EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]EventKind, len(r.events))
	for i, e := range r.events {
		out[i] = e.Kind
	}
	return out
}

func (r *recorder) count(kind EventKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// busyFor reports busy for the first n checks.
type busyFor struct {
	mu    sync.Mutex
	n     int
	calls int
}

func (b *busyFor) Typing() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	return b.n < 0 || b.calls <= b.n
}

func (b *busyFor) Animating() bool { return false }
