package statistics

import (
	"math"
	"testing"
)

func TestStatistics_Empty(t *testing.T) {
	stats := &Statistics{}

	if stats.Mean() != 0 {
		t.Errorf("Expected mean of 0 for empty stats, got %f", stats.Mean())
	}
	if stats.Variance() != 0 {
		t.Errorf("Expected variance of 0 for empty stats, got %f", stats.Variance())
	}
	if stats.StdError() != 0 {
		t.Errorf("Expected stderr of 0 for empty stats, got %f", stats.StdError())
	}
	if stats.Median() != 0 {
		t.Errorf("Expected median of 0 for empty stats, got %f", stats.Median())
	}
	if stats.HouseEdge() != 0 {
		t.Errorf("Expected house edge of 0 for empty stats, got %f", stats.HouseEdge())
	}
	if err := stats.Validate(); err == nil {
		t.Error("Expected validation error for empty stats")
	}
}

func TestStatistics_SingleRound(t *testing.T) {
	stats := &Statistics{}
	stats.Add(RoundSample{NetUnits: 1.5, Net: 15, Wagered: 10, DealerUp: 10, Won: true, Natural: true})

	if stats.Rounds != 1 {
		t.Errorf("Expected 1 round, got %d", stats.Rounds)
	}
	if stats.Mean() != 1.5 {
		t.Errorf("Expected mean of 1.5, got %f", stats.Mean())
	}
	if stats.Variance() != 0 {
		t.Errorf("Expected variance of 0 for single value, got %f", stats.Variance())
	}
	if stats.Wins != 1 || stats.Naturals != 1 {
		t.Errorf("Expected 1 win and 1 natural, got %d and %d", stats.Wins, stats.Naturals)
	}
	if stats.UpCardResults[10].Rounds != 1 {
		t.Errorf("Expected 1 round against a ten, got %d", stats.UpCardResults[10].Rounds)
	}
	if err := stats.Validate(); err != nil {
		t.Errorf("Unexpected validation error: %v", err)
	}
}

func TestStatistics_MultipleRounds(t *testing.T) {
	stats := &Statistics{}

	rounds := []RoundSample{
		{NetUnits: 1, Net: 10, Wagered: 10, DealerUp: 6, Won: true},
		{NetUnits: -2, Net: -20, Wagered: 20, DealerUp: 10, Doubled: true},
		{NetUnits: 2, Net: 20, Wagered: 20, DealerUp: 10, Won: true, Doubled: true},
		{NetUnits: 0, Net: 0, Wagered: 10, DealerUp: 6, Push: true},
		{NetUnits: -1, Net: -10, Wagered: 10, DealerUp: 11, Busted: true},
	}
	for _, r := range rounds {
		stats.Add(r)
	}

	expectedMean := 0.0
	if math.Abs(stats.Mean()-expectedMean) > 1e-9 {
		t.Errorf("Expected mean of %f, got %f", expectedMean, stats.Mean())
	}
	if stats.Median() != 0 {
		t.Errorf("Expected median of 0, got %f", stats.Median())
	}
	if stats.Wins != 2 || stats.Losses != 2 || stats.Pushes != 1 {
		t.Errorf("Expected 2/2/1 wins/losses/pushes, got %d/%d/%d", stats.Wins, stats.Losses, stats.Pushes)
	}
	if stats.Doubles != 2 {
		t.Errorf("Expected 2 doubles, got %d", stats.Doubles)
	}
	if stats.Busts != 1 {
		t.Errorf("Expected 1 bust, got %d", stats.Busts)
	}
	if stats.NetCash != 0 || stats.TotalStake != 70 {
		t.Errorf("Expected net 0 over stake 70, got %d over %d", stats.NetCash, stats.TotalStake)
	}
	if math.Abs(stats.UpCardMean(6)-0.5) > 1e-9 {
		t.Errorf("Expected mean 0.5 against a six, got %f", stats.UpCardMean(6))
	}
	if stats.UpCardMean(1) != 0 || stats.UpCardMean(12) != 0 {
		t.Error("Expected 0 for invalid up card values")
	}
	if !stats.IsLedgerBalanced() {
		t.Error("Expected ledger to be balanced")
	}
	if math.Abs(stats.WinRate()-0.4) > 1e-9 {
		t.Errorf("Expected win rate 0.4, got %f", stats.WinRate())
	}
}

func TestStatistics_Percentiles(t *testing.T) {
	stats := &Statistics{}
	for i := 1; i <= 5; i++ {
		stats.Add(RoundSample{NetUnits: float64(i), Won: true})
	}

	tests := []struct {
		percentile float64
		expected   float64
	}{
		{0.0, 1.0},
		{0.25, 2.0},
		{0.5, 3.0},
		{0.75, 4.0},
		{1.0, 5.0},
	}

	for _, test := range tests {
		result := stats.Percentile(test.percentile)
		if math.Abs(result-test.expected) > 1e-9 {
			t.Errorf("Percentile %.2f: expected %f, got %f", test.percentile, test.expected, result)
		}
	}
}

func TestStatistics_ConfidenceInterval(t *testing.T) {
	stats := &Statistics{}
	for _, v := range []float64{1, -1, 2, -1, 0.5} {
		stats.Add(RoundSample{NetUnits: v})
	}

	low, high := stats.ConfidenceInterval95()
	mean := stats.Mean()

	if math.Abs((low+high)/2-mean) > 1e-9 {
		t.Errorf("Confidence interval not symmetric around mean. Low: %f, High: %f, Mean: %f", low, high, mean)
	}
	if high-low <= 0 {
		t.Errorf("Confidence interval should be positive width, got %f", high-low)
	}
}

func TestStatistics_HouseEdge(t *testing.T) {
	stats := &Statistics{}
	stats.Add(RoundSample{NetUnits: -1, Net: -10, Wagered: 10})
	stats.Add(RoundSample{NetUnits: 1, Net: 10, Wagered: 10, Won: true})
	stats.Add(RoundSample{NetUnits: -1, Net: -10, Wagered: 20, Doubled: true})

	if math.Abs(stats.HouseEdge()-0.25) > 1e-9 {
		t.Errorf("Expected house edge 0.25, got %f", stats.HouseEdge())
	}
}

func TestStatistics_Merge(t *testing.T) {
	a := &Statistics{}
	b := &Statistics{}
	a.Add(RoundSample{NetUnits: 1, Net: 10, Wagered: 10, DealerUp: 5, Won: true})
	b.Add(RoundSample{NetUnits: -2, Net: -20, Wagered: 20, DealerUp: 5, Doubled: true})
	b.Add(RoundSample{NetUnits: 3, Net: 30, Wagered: 20, DealerUp: 9, Won: true, Charlie: true})

	a.Merge(b)

	if a.Rounds != 3 {
		t.Errorf("Expected 3 rounds after merge, got %d", a.Rounds)
	}
	if len(a.Values) != 3 {
		t.Errorf("Expected 3 values after merge, got %d", len(a.Values))
	}
	if a.UpCardResults[5].Rounds != 2 {
		t.Errorf("Expected 2 rounds against a five, got %d", a.UpCardResults[5].Rounds)
	}
	if a.NetCash != 20 || a.Charlies != 1 || a.Doubles != 1 {
		t.Errorf("Unexpected merged totals: net=%d charlies=%d doubles=%d", a.NetCash, a.Charlies, a.Doubles)
	}
	if err := a.Validate(); err != nil {
		t.Errorf("Unexpected validation error: %v", err)
	}
}

func TestStatistics_ValidateCatchesMismatch(t *testing.T) {
	stats := &Statistics{}
	stats.Add(RoundSample{NetUnits: 1, Won: true})
	stats.Wins++

	if err := stats.Validate(); err == nil {
		t.Error("Expected validation error for inconsistent outcome counts")
	}

	stats = &Statistics{}
	stats.Add(RoundSample{NetUnits: 1, Won: true})
	stats.AllUnits += 5
	if err := stats.Validate(); err == nil {
		t.Error("Expected validation error for unbalanced ledger")
	}
}
