package statistics

import (
	"fmt"
	"math"
	"sort"
)

// RoundSample is the outcome of a single blackjack round, measured in units
// of the round's initial bet
type RoundSample struct {
	NetUnits  float64 // Net result divided by the initial bet
	Net       int     // Net cash won or lost
	Wagered   int     // Everything escrowed, including doubles and insurance
	DealerUp  int     // Value of the dealer's up card (2-11)
	Won       bool
	Push      bool
	Natural   bool // Player natural blackjack
	Charlie   bool // Six card Charlie
	Busted    bool
	Doubled   bool
	Insured   bool
	Forfeited bool // Round aborted or quit
}

// UpCardStats tracks results against one dealer up card
type UpCardStats struct {
	Rounds   int
	SumUnits float64
}

// Statistics tracks blackjack simulation results
type Statistics struct {
	Rounds    int
	SumUnits  float64
	SumUnits2 float64   // Sum of squares for variance calculation
	Values    []float64 // Store all values for median/percentile calculation

	Wins       int
	Losses     int
	Pushes     int
	Naturals   int
	Charlies   int
	Busts      int
	Doubles    int
	Insured    int
	Forfeits   int
	NetCash    int
	TotalStake int

	// Split of every result between doubled and single stake rounds
	DoubledUnits float64
	SingleUnits  float64
	AllUnits     float64 // Total for sanity check

	// Index 2-11 by dealer up card value
	UpCardResults [12]UpCardStats
}

// Mean returns the mean result in bets per round
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.SumUnits / float64(s.Rounds)
}

// Variance returns the sample variance of all results
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumUnits2 - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
}

// StdDev returns the sample standard deviation of all results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// HouseEdge is the player's expected loss per unit staked
func (s *Statistics) HouseEdge() float64 {
	if s.TotalStake == 0 {
		return 0
	}
	return -float64(s.NetCash) / float64(s.TotalStake)
}

// Add incorporates a round into the statistics
func (s *Statistics) Add(r RoundSample) {
	units := r.NetUnits
	s.Rounds++
	s.SumUnits += units
	s.SumUnits2 += units * units
	s.Values = append(s.Values, units)
	s.NetCash += r.Net
	s.TotalStake += r.Wagered

	switch {
	case r.Won:
		s.Wins++
	case r.Push:
		s.Pushes++
	default:
		s.Losses++
	}
	if r.Natural {
		s.Naturals++
	}
	if r.Charlie {
		s.Charlies++
	}
	if r.Busted {
		s.Busts++
	}
	if r.Insured {
		s.Insured++
	}
	if r.Forfeited {
		s.Forfeits++
	}

	if r.Doubled {
		s.Doubles++
		s.DoubledUnits += units
	} else {
		s.SingleUnits += units
	}
	s.AllUnits += units

	if r.DealerUp >= 2 && r.DealerUp <= 11 {
		s.UpCardResults[r.DealerUp].Rounds++
		s.UpCardResults[r.DealerUp].SumUnits += units
	}
}

// Merge folds other into s
func (s *Statistics) Merge(other *Statistics) {
	s.Rounds += other.Rounds
	s.SumUnits += other.SumUnits
	s.SumUnits2 += other.SumUnits2
	s.Values = append(s.Values, other.Values...)
	s.Wins += other.Wins
	s.Losses += other.Losses
	s.Pushes += other.Pushes
	s.Naturals += other.Naturals
	s.Charlies += other.Charlies
	s.Busts += other.Busts
	s.Doubles += other.Doubles
	s.Insured += other.Insured
	s.Forfeits += other.Forfeits
	s.NetCash += other.NetCash
	s.TotalStake += other.TotalStake
	s.DoubledUnits += other.DoubledUnits
	s.SingleUnits += other.SingleUnits
	s.AllUnits += other.AllUnits
	for i := range s.UpCardResults {
		s.UpCardResults[i].Rounds += other.UpCardResults[i].Rounds
		s.UpCardResults[i].SumUnits += other.UpCardResults[i].SumUnits
	}
}

// Median returns the median value of all results
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
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

// UpCardMean returns the mean result against a dealer up card value (2-11)
func (s *Statistics) UpCardMean(value int) float64 {
	if value < 2 || value > 11 {
		return 0
	}
	uc := s.UpCardResults[value]
	if uc.Rounds == 0 {
		return 0
	}
	return uc.SumUnits / float64(uc.Rounds)
}

// WinRate returns the share of rounds won
func (s *Statistics) WinRate() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Rounds)
}

// IsLedgerBalanced checks if the accounting is consistent
func (s *Statistics) IsLedgerBalanced() bool {
	return math.Abs(s.AllUnits-s.DoubledUnits-s.SingleUnits) <= 1e-6
}

// Validate performs comprehensive validation of statistics data
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: all=%.6f, doubled=%.6f, single=%.6f",
			s.AllUnits, s.DoubledUnits, s.SingleUnits)
	}

	if s.Rounds <= 0 {
		return fmt.Errorf("invalid rounds count: %d", s.Rounds)
	}

	if len(s.Values) != s.Rounds {
		return fmt.Errorf("values array length (%d) does not match rounds count (%d)",
			len(s.Values), s.Rounds)
	}

	if s.Wins+s.Losses+s.Pushes != s.Rounds {
		return fmt.Errorf("wins+losses+pushes (%d) does not match rounds (%d)",
			s.Wins+s.Losses+s.Pushes, s.Rounds)
	}

	if s.Naturals+s.Charlies > s.Wins+s.Pushes {
		return fmt.Errorf("naturals and charlies (%d) exceed wins and pushes (%d)",
			s.Naturals+s.Charlies, s.Wins+s.Pushes)
	}

	upCardRounds := 0
	for v := 2; v <= 11; v++ {
		upCardRounds += s.UpCardResults[v].Rounds
	}
	if upCardRounds > s.Rounds {
		return fmt.Errorf("up card rounds total (%d) exceeds total rounds (%d)", upCardRounds, s.Rounds)
	}

	return nil
}
