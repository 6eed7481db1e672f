// Package dice provides the two-die source used to move players around the
// board.
package dice

import (
	"fmt"
	rand "math/rand/v2"
	"sync"
)

// Faces is the number of faces on each die.
const Faces = 6

// Source produces two independent die faces, each in [1, Faces].
type Source interface {
	Roll() (int, int)
}

// Roll rolls src and returns both faces and their total.
func Roll(src Source) (d1, d2, total int) {
	d1, d2 = src.Roll()
	return d1, d2, d1 + d2
}

// IsDouble reports whether both faces match.
func IsDouble(d1, d2 int) bool {
	return d1 == d2
}

// Random rolls uniformly using a *rand.Rand. It is safe for concurrent use.
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom returns a Random backed by rng.
func NewRandom(rng *rand.Rand) *Random {
	return &Random{rng: rng}
}

// Roll implements Source.
func (r *Random) Roll() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.IntN(Faces) + 1, r.rng.IntN(Faces) + 1
}

// Sequence replays scripted faces pairwise, wrapping around when exhausted.
// It exists so tests and demos can force exact movement.
type Sequence struct {
	mu    sync.Mutex
	faces []int
	next  int
}

// NewSequence returns a Sequence over faces. It panics when faces is empty,
// has an odd length or contains a value outside [1, Faces].
func NewSequence(faces ...int) *Sequence {
	if len(faces) == 0 || len(faces)%2 != 0 {
		panic(fmt.Sprintf("dice: sequence needs an even, non-zero number of faces, got %d", len(faces)))
	}
	for _, f := range faces {
		if f < 1 || f > Faces {
			panic(fmt.Sprintf("dice: face %d out of range", f))
		}
	}
	return &Sequence{faces: append([]int(nil), faces...)}
}

// Totals builds a Sequence whose consecutive rolls sum to totals. Each total
// must be in [2, 2*Faces].
func Totals(totals ...int) *Sequence {
	faces := make([]int, 0, len(totals)*2)
	for _, t := range totals {
		d1 := min(Faces, t-1)
		faces = append(faces, d1, t-d1)
	}
	return NewSequence(faces...)
}

// Roll implements Source.
func (s *Sequence) Roll() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d1, d2 := s.faces[s.next], s.faces[s.next+1]
	s.next = (s.next + 2) % len(s.faces)
	return d1, d2
}
