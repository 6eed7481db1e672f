package bot

import (
	"fmt"

	"github.com/lox/monopolyforbots/internal/game"
)

// EventKind classifies processor events.
type EventKind int

const (
	EventQueued EventKind = iota
	EventWaiting
	EventExecuted
	EventDropped
	EventMoved
	EventTurnEnded
	EventFinished
)

var eventNames = [...]string{
	EventQueued:    "queued",
	EventWaiting:   "waiting",
	EventExecuted:  "executed",
	EventDropped:   "dropped",
	EventMoved:     "moved",
	EventTurnEnded: "turn_ended",
	EventFinished:  "finished",
}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventNames) {
		return fmt.Sprintf("event(%d)", int(k))
	}
	return eventNames[k]
}

// MarshalText implements encoding.TextMarshaler.
func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Event is something a processor did. Fields that do not apply to the kind
// are zero.
type Event struct {
	Kind       EventKind        `json:"kind"`
	Player     int              `json:"player"`
	PlayerName string           `json:"player_name"`
	Round      int              `json:"round"`
	Decision   *Decision        `json:"decision,omitempty"`
	OK         bool             `json:"ok"` // the executed action changed the game
	Dice       [2]int           `json:"dice"`
	Move       *game.MoveResult `json:"move,omitempty"`
	Winner     string           `json:"winner,omitempty"`
}

// Observer receives processor events synchronously, on the processor's
// goroutine.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// Observe implements Observer.
func (f ObserverFunc) Observe(e Event) { f(e) }
