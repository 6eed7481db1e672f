package game

import (
	"slices"

	"github.com/google/uuid"
)

// PlayerKind says who drives a player.
type PlayerKind int

const (
	Human PlayerKind = iota
	Bot
)

func (k PlayerKind) String() string {
	if k == Bot {
		return "bot"
	}
	return "human"
}

// MarshalText implements encoding.TextMarshaler.
func (k PlayerKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *PlayerKind) UnmarshalText(b []byte) error {
	if string(b) == "bot" {
		*k = Bot
	} else {
		*k = Human
	}
	return nil
}

// Player is the mutable state of one participant. Only the engine mutates
// it once a game has started.
type Player struct {
	ID    string
	Index int // slot in the game's player list
	Name  string
	Kind  PlayerKind

	Cash      int
	Position  int
	InJail    bool
	JailTurns int
	SkipTurns int
	JailCards int
	Bankrupt  bool

	// Owned holds board indices of owned blocks, ascending. Blocks point
	// back through Block.Owner.
	Owned []int

	LastPurchaseRound int
	LastBuildRound    int
}

// NewPlayer creates a player with a fresh id. Cash and position are set
// when the player joins a game.
func NewPlayer(name string, kind PlayerKind) *Player {
	return &Player{
		ID:                uuid.NewString(),
		Name:              name,
		Kind:              kind,
		LastPurchaseRound: -1,
		LastBuildRound:    -1,
	}
}

// IsBot reports whether decisions for this player come from the bot service.
func (p *Player) IsBot() bool {
	return p.Kind == Bot
}

// Owns reports whether the block at board index idx belongs to p.
func (p *Player) Owns(idx int) bool {
	_, found := slices.BinarySearch(p.Owned, idx)
	return found
}

// AssetScore is cash plus the value of everything owned.
func (p *Player) AssetScore(board []*Block) int {
	score := p.Cash
	for _, idx := range p.Owned {
		if idx >= 0 && idx < len(board) {
			score += board[idx].Value()
		}
	}
	return score
}

func (p *Player) addOwned(idx int) {
	pos, found := slices.BinarySearch(p.Owned, idx)
	if !found {
		p.Owned = slices.Insert(p.Owned, pos, idx)
	}
}

func (p *Player) removeOwned(idx int) {
	if pos, found := slices.BinarySearch(p.Owned, idx); found {
		p.Owned = slices.Delete(p.Owned, pos, pos+1)
	}
}
