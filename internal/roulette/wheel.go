// Package roulette implements a European roulette table: a single zero wheel,
// a closed set of bet kinds and one payout table.
package roulette

import (
	rand "math/rand/v2"

	"github.com/coder/quartz"

	"github.com/lox/blackjack/internal/randutil"
)

// Pockets is the number of pockets on a European wheel
const Pockets = 37

// WheelOrder lists the pockets clockwise from zero
var WheelOrder = [Pockets]int{
	0, 32, 15, 19, 4, 21, 2, 25, 17, 34, 6, 27, 13, 36, 11, 30, 8, 23, 10,
	5, 24, 16, 33, 1, 20, 14, 31, 9, 22, 18, 29, 7, 28, 12, 35, 3, 26,
}

// Color of a pocket
type Color int

const (
	Green Color = iota
	Red
	Black
)

func (c Color) String() string {
	switch c {
	case Green:
		return "green"
	case Red:
		return "red"
	case Black:
		return "black"
	default:
		return "unknown"
	}
}

var redNumbers = [Pockets]bool{
	1: true, 3: true, 5: true, 7: true, 9: true, 12: true, 14: true, 16: true, 18: true,
	19: true, 21: true, 23: true, 25: true, 27: true, 30: true, 32: true, 34: true, 36: true,
}

// ColorOf returns the colour of number n
func ColorOf(n int) Color {
	switch {
	case n <= 0 || n >= Pockets:
		return Green
	case redNumbers[n]:
		return Red
	default:
		return Black
	}
}

// WheelIndex returns the clockwise position of n, or -1 if n is not a pocket
func WheelIndex(n int) int {
	for i, v := range WheelOrder {
		if v == n {
			return i
		}
	}
	return -1
}

// Spinner produces winning numbers
type Spinner interface {
	Spin() int
}

// Wheel is a random Spinner seeded from a clock on creation
type Wheel struct {
	rng *rand.Rand
}

// NewWheel seeds a wheel from clock; a nil clock uses the real one
func NewWheel(clock quartz.Clock) *Wheel {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Wheel{rng: randutil.New(clock.Now().UnixNano())}
}

// NewSeededWheel returns a wheel with a fixed seed
func NewSeededWheel(seed int64) *Wheel {
	return &Wheel{rng: randutil.New(seed)}
}

// Spin lands the ball on a pocket
func (w *Wheel) Spin() int {
	return WheelOrder[randutil.Between(w.rng, 0, Pockets-1)]
}
