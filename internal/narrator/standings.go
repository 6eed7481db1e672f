package narrator

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/monopolyforbots/internal/game"
)

// Standing is one row of the final table.
type Standing struct {
	Seat     int
	Name     string
	Cash     int
	Assets   int
	Owned    int
	Bankrupt bool
}

// Standings ranks players by asset score, bankrupt players last.
func Standings(g *game.Game) []Standing {
	rows := make([]Standing, 0, len(g.Players()))
	for _, p := range g.Players() {
		rows = append(rows, Standing{
			Seat:     p.Index,
			Name:     p.Name,
			Cash:     p.Cash,
			Assets:   p.AssetScore(g.Blocks()),
			Owned:    len(p.Owned),
			Bankrupt: p.Bankrupt,
		})
	}
	slices.SortStableFunc(rows, func(a, b Standing) int {
		if a.Bankrupt != b.Bankrupt {
			if a.Bankrupt {
				return 1
			}
			return -1
		}
		return cmp.Compare(b.Assets, a.Assets)
	})
	return rows
}

// RenderStandings formats Standings for a terminal using r.
func RenderStandings(r *lipgloss.Renderer, g *game.Game) string {
	header := r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA")).Background(lipgloss.Color("#7D56F4")).Padding(0, 1)
	muted := r.NewStyle().Foreground(Fallback)

	var sb strings.Builder
	sb.WriteString(header.Render(fmt.Sprintf("Round %d", g.Round())))
	sb.WriteString("\n")
	for i, row := range Standings(g) {
		name := r.NewStyle().Foreground(ColorFor(row.Seat)).Bold(true).Width(12).Render(row.Name)
		line := fmt.Sprintf("%d. %s cash %5d  assets %5d  blocks %2d", i+1, name, row.Cash, row.Assets, row.Owned)
		if row.Bankrupt {
			line = muted.Render(line + "  bankrupt")
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}
