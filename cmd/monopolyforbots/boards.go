package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// BoardsCmd lists the configured board templates.
type BoardsCmd struct {
	Blocks bool `kong:"help='Also list each board block'"`
}

func (c *BoardsCmd) Run(globals *Globals) error {
	cfg, err := globals.LoadConfig()
	if err != nil {
		return err
	}

	r := lipgloss.NewRenderer(os.Stdout)
	title := r.NewStyle().Bold(true)
	muted := r.NewStyle().Foreground(lipgloss.Color("#6b7280"))

	for _, key := range cfg.Keys() {
		defs, err := cfg.Board(key)
		if err != nil {
			return err
		}
		line := fmt.Sprintf("%s %s (%d blocks)", title.Render(key), cfg.BoardName(key), len(defs))
		if key == cfg.Game.Board {
			line += muted.Render(" default")
		}
		fmt.Println(line)
		if !c.Blocks {
			continue
		}
		for _, d := range defs {
			detail := d.Category.String()
			if d.Price > 0 {
				detail = fmt.Sprintf("%s, price %d, rent %d", detail, d.Price, d.BaseRent)
			}
			fmt.Printf("  %2d %-24s %s\n", d.Position, d.Name, muted.Render(detail))
		}
	}
	return nil
}
