package bot

import (
	"fmt"
	"time"

	"github.com/lox/monopolyforbots/internal/fuzzy"
)

// DecisionType is what a bot wants to do next.
type DecisionType int

const (
	None DecisionType = iota
	Roll
	Buy
	Upgrade
	EndTurn
	Skip
)

var decisionNames = [...]string{
	None:    "none",
	Roll:    "roll",
	Buy:     "buy",
	Upgrade: "upgrade",
	EndTurn: "end_turn",
	Skip:    "skip",
}

func (t DecisionType) String() string {
	if t < 0 || int(t) >= len(decisionNames) {
		return fmt.Sprintf("decision(%d)", int(t))
	}
	return decisionNames[t]
}

// MarshalText implements encoding.TextMarshaler.
func (t DecisionType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// NoTarget marks a decision that is not about a block.
const NoTarget = -1

// Decision is one step of a bot turn. Priority orders decisions produced
// together; Delay is the thinking time spent before executing it.
type Decision struct {
	Type       DecisionType  `json:"type"`
	Target     int           `json:"target"` // board index, NoTarget when unused
	Reason     string        `json:"reason"`
	Priority   int           `json:"priority"`
	Delay      time.Duration `json:"delay"`
	Cancelable bool          `json:"cancelable"`

	// Policy is the fuzzy evaluation that adjusted Priority, if any.
	Policy *fuzzy.Result `json:"policy,omitempty"`
}

func simple(t DecisionType, reason string, priority int, delay time.Duration) Decision {
	return Decision{
		Type:       t,
		Target:     NoTarget,
		Reason:     reason,
		Priority:   priority,
		Delay:      delay,
		Cancelable: true,
	}
}

// Delays is the simulated thinking time per decision.
type Delays struct {
	Thinking     time.Duration
	Purchase     time.Duration
	Upgrade      time.Duration
	AutoRoll     time.Duration
	EndTurn      time.Duration // ending a turn that had no pending actions
	ModalEndTurn time.Duration // ending a turn after buy/upgrade choices
	Skip         time.Duration
}

// DefaultDelays paces bots for a human audience.
func DefaultDelays() Delays {
	return Delays{
		Thinking:     1200 * time.Millisecond,
		Purchase:     1200 * time.Millisecond,
		Upgrade:      1100 * time.Millisecond,
		AutoRoll:     1200 * time.Millisecond,
		EndTurn:      400 * time.Millisecond,
		ModalEndTurn: 500 * time.Millisecond,
		Skip:         350 * time.Millisecond,
	}
}

// NoDelays makes bots act immediately.
func NoDelays() Delays {
	return Delays{}
}

// Scale multiplies every delay by f. Negative factors are treated as zero.
func (d Delays) Scale(f float64) Delays {
	if f <= 0 {
		return NoDelays()
	}
	s := func(v time.Duration) time.Duration { return time.Duration(float64(v) * f) }
	return Delays{
		Thinking:     s(d.Thinking),
		Purchase:     s(d.Purchase),
		Upgrade:      s(d.Upgrade),
		AutoRoll:     s(d.AutoRoll),
		EndTurn:      s(d.EndTurn),
		ModalEndTurn: s(d.ModalEndTurn),
		Skip:         s(d.Skip),
	}
}
