// Package blink drives a single output line HIGH and LOW at a fixed interval.
package blink

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/hubertat/blinkit/drivers"
)

const DefaultInterval = time.Second

var (
	ErrInvalidInterval = errors.New("blink interval must not be negative")
	ErrInvalidCycles   = errors.New("blink cycles must not be negative")
	ErrNoOutput        = errors.New("no output to blink")
)

type Level bool

const (
	High Level = true
	Low  Level = false
)

func (l Level) String() string {
	if l {
		return "HIGH"
	}
	return "LOW"
}

type config struct {
	sleeper  Sleeper
	observer func(Level)
	cycles   int
}

type Option func(*config)

// WithSleeper replaces the timer based delay between level changes.
func WithSleeper(s Sleeper) Option {
	return func(c *config) {
		c.sleeper = s
	}
}

// WithObserver registers fn to be called after every successful write.
func WithObserver(fn func(Level)) Option {
	return func(c *config) {
		c.observer = fn
	}
}

// WithCycles stops Run after n full HIGH/LOW periods. Zero blinks forever.
func WithCycles(n int) Option {
	return func(c *config) {
		c.cycles = n
	}
}

// Run sets out HIGH, waits interval, sets it LOW, waits interval and repeats
// until ctx is done, the cycle limit is reached or a write fails.
// The line is left at whatever level was written last.
func Run(ctx context.Context, out drivers.DigitalOutput, interval time.Duration, opts ...Option) error {
	if out == nil {
		return ErrNoOutput
	}
	if interval < 0 {
		return errors.Wrapf(ErrInvalidInterval, "got %s", interval)
	}

	cfg := config{sleeper: TimerSleeper{}}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.cycles < 0 {
		return errors.Wrapf(ErrInvalidCycles, "got %d", cfg.cycles)
	}

	level := High
	for half := 0; cfg.cycles == 0 || half < 2*cfg.cycles; half++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := out.Set(bool(level)); err != nil {
			return errors.Wrapf(err, "failed to set output %s", level)
		}
		if cfg.observer != nil {
			cfg.observer(level)
		}

		if err := cfg.sleeper.Sleep(ctx, interval); err != nil {
			return err
		}

		level = !level
	}

	return nil
}
