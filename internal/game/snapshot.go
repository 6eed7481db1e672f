package game

import (
	"fmt"
	"slices"
)

// SnapshotVersion is bumped whenever Snapshot changes shape.
const SnapshotVersion = 1

// Snapshot is a storage-neutral copy of a game. Ownership is recorded by
// stable player id so it survives reordering by a store.
type Snapshot struct {
	Version  int           `json:"version"`
	Board    string        `json:"board,omitempty"` // template key, set by the caller
	Current  int           `json:"current_player_index"`
	Round    int           `json:"round_count"`
	Finished bool          `json:"is_finished"`
	PassedGo bool          `json:"passed_go_this_move"`
	Players  []PlayerState `json:"players"`
	Blocks   []BlockState  `json:"blocks"`

	// Rolled records that the current player already rolled this turn. The
	// engine does not track it; drivers that gate rolls set and read it.
	Rolled bool `json:"rolled_this_turn,omitempty"`
}

// PlayerState is the persisted form of a Player.
type PlayerState struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Kind              PlayerKind `json:"kind"`
	Cash              int        `json:"cash"`
	Position          int        `json:"position"`
	InJail            bool       `json:"in_jail"`
	JailTurns         int        `json:"jail_turns"`
	SkipTurns         int        `json:"skip_turns"`
	JailCards         int        `json:"get_out_of_jail_cards"`
	Bankrupt          bool       `json:"is_bankrupt"`
	Owned             []int      `json:"owned_blocks"`
	LastPurchaseRound int        `json:"last_purchase_round"`
	LastBuildRound    int        `json:"last_build_round"`
}

// BlockState is the persisted form of a Block.
type BlockState struct {
	Def         BlockDef `json:"def"`
	DisplayName string   `json:"display_name"`
	Owner       string   `json:"owner,omitempty"`
	Mortgaged   bool     `json:"is_mortgaged"`
	Level       int      `json:"building_level"`
}

// Snapshot copies the full game state.
func (g *Game) Snapshot() *Snapshot {
	s := &Snapshot{
		Version:  SnapshotVersion,
		Current:  g.current,
		Round:    g.round,
		Finished: g.finished,
		PassedGo: g.passedGo,
		Players:  make([]PlayerState, len(g.players)),
		Blocks:   make([]BlockState, len(g.blocks)),
	}
	for i, p := range g.players {
		s.Players[i] = PlayerState{
			ID:                p.ID,
			Name:              p.Name,
			Kind:              p.Kind,
			Cash:              p.Cash,
			Position:          p.Position,
			InJail:            p.InJail,
			JailTurns:         p.JailTurns,
			SkipTurns:         p.SkipTurns,
			JailCards:         p.JailCards,
			Bankrupt:          p.Bankrupt,
			Owned:             slices.Clone(p.Owned),
			LastPurchaseRound: p.LastPurchaseRound,
			LastBuildRound:    p.LastBuildRound,
		}
	}
	for i, b := range g.blocks {
		st := BlockState{
			Def:         b.Def(),
			DisplayName: b.Name,
			Mortgaged:   b.Mortgaged,
			Level:       b.Level(),
		}
		if owner := g.OwnerOf(b); owner != nil {
			st.Owner = owner.ID
		}
		s.Blocks[i] = st
	}
	return s
}

// Restore rebuilds a game from a snapshot. Unlike New it keeps every
// player's cash and position. Options apply as for New.
func Restore(s *Snapshot, opts ...Option) (*Game, error) {
	if s == nil {
		return nil, fmt.Errorf("nil snapshot")
	}
	if s.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", s.Version)
	}
	if len(s.Players) == 0 || len(s.Blocks) == 0 {
		return nil, fmt.Errorf("snapshot has %d players and %d blocks", len(s.Players), len(s.Blocks))
	}
	if s.Current < 0 || s.Current >= len(s.Players) {
		return nil, fmt.Errorf("current player index %d out of range", s.Current)
	}

	players := make([]*Player, len(s.Players))
	byID := make(map[string]int, len(s.Players))
	for i, ps := range s.Players {
		if _, dup := byID[ps.ID]; dup {
			return nil, fmt.Errorf("duplicate player id %q", ps.ID)
		}
		if ps.Position < 0 || ps.Position >= len(s.Blocks) {
			return nil, fmt.Errorf("player %q position %d out of range", ps.Name, ps.Position)
		}
		byID[ps.ID] = i
		players[i] = &Player{
			ID:                ps.ID,
			Name:              ps.Name,
			Kind:              ps.Kind,
			Cash:              ps.Cash,
			Position:          ps.Position,
			InJail:            ps.InJail,
			JailTurns:         ps.JailTurns,
			SkipTurns:         ps.SkipTurns,
			JailCards:         ps.JailCards,
			Bankrupt:          ps.Bankrupt,
			LastPurchaseRound: ps.LastPurchaseRound,
			LastBuildRound:    ps.LastBuildRound,
		}
	}

	board := make([]*Block, len(s.Blocks))
	for i, bs := range s.Blocks {
		b := NewBlock(bs.Def)
		b.Mortgaged = bs.Mortgaged
		if bs.DisplayName != "" {
			b.Name = bs.DisplayName
		}
		if bs.Level < 0 || bs.Level > MaxBuildingLevel {
			return nil, fmt.Errorf("block %q level %d out of range", b.Name, bs.Level)
		}
		if b.Estate != nil {
			b.Estate.Level = bs.Level
		} else if bs.Level > 0 {
			return nil, fmt.Errorf("block %q cannot carry buildings", b.Name)
		}
		if bs.Owner != "" {
			idx, ok := byID[bs.Owner]
			if !ok {
				return nil, fmt.Errorf("block %q owned by unknown player %q", b.Name, bs.Owner)
			}
			b.Owner = idx
			players[idx].addOwned(i)
		}
		board[i] = b
	}

	for i, ps := range s.Players {
		if !slices.Equal(players[i].Owned, sortedCopy(ps.Owned)) {
			return nil, fmt.Errorf("player %q owned blocks %v disagree with block owners %v", ps.Name, ps.Owned, players[i].Owned)
		}
	}

	g := newGame(players, board, opts)
	g.current = s.Current
	g.round = s.Round
	g.finished = s.Finished
	g.passedGo = s.PassedGo
	return g, nil
}

func sortedCopy(in []int) []int {
	out := slices.Clone(in)
	slices.Sort(out)
	return out
}
