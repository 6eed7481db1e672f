package game

import (
	rand "math/rand/v2"
	"testing"

	"github.com/lox/monopolyforbots/internal/randutil"
)

// testDefs is a ten block loop:
//
//	0 Go, 1 Avenida (house), 2 Tax, 3 Rua (house), 4 Chance,
//	5 Jail, 6 Fábrica (company), 7 GoToJail, 8 Reverse, 9 FreeParking
func testDefs() []BlockDef {
	return []BlockDef{
		{Position: 0, Name: "Início", Category: Go},
		{Position: 1, Name: "Avenida", Category: Property, Price: 200, BaseRent: 10, Building: House, BuildingCosts: [4]int{100, 100, 150, 200}},
		{Position: 2, Name: "Imposto", Category: Tax},
		{Position: 3, Name: "Rua", Category: Property, Price: 100, BaseRent: 6, Building: Hotel, BuildingCosts: [4]int{50, 50, 50, 50}},
		{Position: 4, Name: "Sorte", Category: Chance},
		{Position: 5, Name: "Prisão", Category: Jail},
		{Position: 6, Name: "Fábrica", Category: Company, Price: 150, BaseRent: 20, Building: CompanyBuilding, BuildingCosts: [4]int{80, 80, 80, 80}},
		{Position: 7, Name: "Vá para a prisão", Category: GoToJail},
		{Position: 8, Name: "Volta", Category: Reverse},
		{Position: 9, Name: "Parada livre", Category: FreeParking},
	}
}

func newTestGame(t *testing.T, n int, opts ...Option) *Game {
	t.Helper()
	players := make([]*Player, n)
	for i := range players {
		players[i] = NewPlayer(string(rune('A'+i)), Human)
	}
	opts = append([]Option{WithRand(randutil.New(7))}, opts...)
	return New(players, NewBoard(testDefs()), opts...)
}

// stubSetback always returns the same penalty.
type stubSetback struct{ fine, steps int }

func (s stubSetback) Setback(*Block, *Player, *rand.Rand) (int, int) { return s.fine, s.steps }

// stubBonus always returns the same delta.
type stubBonus int

func (s stubBonus) Bonus(*Block, *Player, *rand.Rand) int { return int(s) }

func rulesWith(mutate func(*Rules)) Option {
	r := DefaultRules()
	mutate(&r)
	return WithRules(r)
}
