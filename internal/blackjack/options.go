package blackjack

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/lox/blackjack/internal/deck"
)

// Option configures an Engine or a Session
type Option func(*options)

type options struct {
	logger      *log.Logger
	clock       quartz.Clock
	bus         EventBus
	shoe        *deck.Shoe
	keepHistory bool
}

func defaultOptions() options {
	return options{
		logger:      log.New(io.Discard),
		clock:       quartz.NewReal(),
		bus:         NewEventBus(),
		keepHistory: true,
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger
func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock sets the clock used for timestamps and shoe seeding
func WithClock(clock quartz.Clock) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithEventBus sets the bus events are published to
func WithEventBus(bus EventBus) Option {
	return func(o *options) {
		if bus != nil {
			o.bus = bus
		}
	}
}

// WithShoe makes a session deal from shoe instead of building its own
func WithShoe(shoe *deck.Shoe) Option {
	return func(o *options) { o.shoe = shoe }
}

// WithoutHistory stops a session from keeping every RoundResult
func WithoutHistory() Option {
	return func(o *options) { o.keepHistory = false }
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}
