package statistics

import (
	"fmt"
	"math"
	"sort"
)

// GameResult is the outcome of one simulated game.
type GameResult struct {
	Seed         int64 // RNG seed for this game (for replay)
	Seats        int   // players at the table
	Rounds       int   // rounds completed when the game stopped
	Finished     bool  // false when the round cap stopped the game
	Winner       int   // winning seat, -1 when capped or nobody survived
	WinnerAssets int   // winner's cash plus block values
	Purchases    int
	Upgrades     int
	Bankruptcies int
}

// SeatStats tracks results for one seat across games.
type SeatStats struct {
	Games int
	Wins  int
}

// Statistics aggregates simulation results. Rounds per game drive the
// distribution figures.
type Statistics struct {
	Games      int
	SumRounds  float64
	SumRounds2 float64   // sum of squares for variance
	Values     []float64 // rounds per game, for median and percentiles

	Finished int
	Capped   int

	Purchases    int
	Upgrades     int
	Bankruptcies int

	MaxWinnerAssets int
	Seats           []SeatStats
}

// Mean returns the average number of rounds per game.
func (s *Statistics) Mean() float64 {
	if s.Games == 0 {
		return 0
	}
	return s.SumRounds / float64(s.Games)
}

// Variance returns the sample variance of rounds per game.
func (s *Statistics) Variance() float64 {
	if s.Games < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumRounds2 - float64(s.Games)*mean*mean) / float64(s.Games-1)
}

// StdDev returns the sample standard deviation.
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean.
func (s *Statistics) StdError() float64 {
	if s.Games == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Games))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean.
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Add incorporates one game.
func (s *Statistics) Add(r GameResult) {
	rounds := float64(r.Rounds)
	s.Games++
	s.SumRounds += rounds
	s.SumRounds2 += rounds * rounds
	s.Values = append(s.Values, rounds)

	if r.Finished {
		s.Finished++
	} else {
		s.Capped++
	}
	s.Purchases += r.Purchases
	s.Upgrades += r.Upgrades
	s.Bankruptcies += r.Bankruptcies

	for len(s.Seats) < r.Seats {
		s.Seats = append(s.Seats, SeatStats{})
	}
	for seat := 0; seat < r.Seats; seat++ {
		s.Seats[seat].Games++
	}
	if r.Winner >= 0 && r.Winner < r.Seats {
		s.Seats[r.Winner].Wins++
		if r.WinnerAssets > s.MaxWinnerAssets {
			s.MaxWinnerAssets = r.WinnerAssets
		}
	}
}

// Merge folds other into s. Values keep their insertion order per source.
func (s *Statistics) Merge(other *Statistics) {
	s.Games += other.Games
	s.SumRounds += other.SumRounds
	s.SumRounds2 += other.SumRounds2
	s.Values = append(s.Values, other.Values...)
	s.Finished += other.Finished
	s.Capped += other.Capped
	s.Purchases += other.Purchases
	s.Upgrades += other.Upgrades
	s.Bankruptcies += other.Bankruptcies
	if other.MaxWinnerAssets > s.MaxWinnerAssets {
		s.MaxWinnerAssets = other.MaxWinnerAssets
	}
	for len(s.Seats) < len(other.Seats) {
		s.Seats = append(s.Seats, SeatStats{})
	}
	for i, seat := range other.Seats {
		s.Seats[i].Games += seat.Games
		s.Seats[i].Wins += seat.Wins
	}
}

// Median returns the median rounds per game.
func (s *Statistics) Median() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Percentile returns the value at the given percentile (0.0 to 1.0).
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// WinRate returns the fraction of games won from a seat.
func (s *Statistics) WinRate(seat int) float64 {
	if seat < 0 || seat >= len(s.Seats) || s.Seats[seat].Games == 0 {
		return 0
	}
	return float64(s.Seats[seat].Wins) / float64(s.Seats[seat].Games)
}

// Validate checks that the counters agree with each other.
func (s *Statistics) Validate() error {
	if s.Games <= 0 {
		return fmt.Errorf("invalid games count: %d", s.Games)
	}
	if len(s.Values) != s.Games {
		return fmt.Errorf("values array length (%d) does not match games count (%d)",
			len(s.Values), s.Games)
	}
	if s.Finished+s.Capped != s.Games {
		return fmt.Errorf("finished (%d) plus capped (%d) does not match games count (%d)",
			s.Finished, s.Capped, s.Games)
	}

	totalWins := 0
	for i, seat := range s.Seats {
		if seat.Wins > seat.Games {
			return fmt.Errorf("seat %d wins (%d) exceed its games (%d)", i, seat.Wins, seat.Games)
		}
		if seat.Games > s.Games {
			return fmt.Errorf("seat %d games (%d) exceed total games (%d)", i, seat.Games, s.Games)
		}
		totalWins += seat.Wins
	}
	if totalWins > s.Finished {
		return fmt.Errorf("total wins (%d) exceeds finished games (%d)", totalWins, s.Finished)
	}
	return nil
}
