package blink

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
)

var errWriteFailed = errors.New("write failed")

type fakeOutput struct {
	lock    sync.Mutex
	levels  []bool
	failAt  int
	current bool
}

func (fo *fakeOutput) Set(state bool) error {
	fo.lock.Lock()
	defer fo.lock.Unlock()

	if fo.failAt > 0 && len(fo.levels)+1 == fo.failAt {
		return errWriteFailed
	}
	fo.levels = append(fo.levels, state)
	fo.current = state
	return nil
}

func (fo *fakeOutput) GetState() (bool, error) {
	fo.lock.Lock()
	defer fo.lock.Unlock()

	return fo.current, nil
}

func (fo *fakeOutput) written() []bool {
	fo.lock.Lock()
	defer fo.lock.Unlock()

	return append([]bool(nil), fo.levels...)
}

func assertAlternating(t testing.TB, levels []bool, wantLen int) {
	t.Helper()

	if len(levels) != wantLen {
		t.Fatalf("got %d writes want %d", len(levels), wantLen)
	}
	for i, level := range levels {
		want := i%2 == 0
		if level != want {
			t.Errorf("write [%d] got %v want %v", i, level, want)
		}
	}
}

func TestRunAlternatesLevels(t *testing.T) {
	out := &fakeOutput{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var slept []time.Duration
	sleeper := SleeperFunc(func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		if len(slept) == 6 {
			cancel()
		}
		return ctx.Err()
	})

	err := Run(ctx, out, time.Second, WithSleeper(sleeper))
	if err != context.Canceled {
		t.Errorf("got err %v want %v", err, context.Canceled)
	}

	assertAlternating(t, out.written(), 6)
	for i, d := range slept {
		if d != time.Second {
			t.Errorf("sleep [%d] got %s want %s", i, d, time.Second)
		}
	}
}

func TestRunCycles(t *testing.T) {
	out := &fakeOutput{}
	sleeps := 0
	sleeper := SleeperFunc(func(ctx context.Context, d time.Duration) error {
		sleeps++
		return nil
	})

	err := Run(context.Background(), out, 250*time.Millisecond, WithSleeper(sleeper), WithCycles(3))
	if err != nil {
		t.Fatalf("Run returned err: %v", err)
	}

	assertAlternating(t, out.written(), 6)
	if sleeps != 6 {
		t.Errorf("got %d sleeps want 6", sleeps)
	}
}

func TestRunObserver(t *testing.T) {
	out := &fakeOutput{}
	var observed []Level

	err := Run(context.Background(), out, 0, WithCycles(2), WithObserver(func(l Level) {
		observed = append(observed, l)
	}))
	if err != nil {
		t.Fatalf("Run returned err: %v", err)
	}

	want := []Level{High, Low, High, Low}
	if len(observed) != len(want) {
		t.Fatalf("got %v want %v", observed, want)
	}
	for i := range want {
		if observed[i] != want[i] {
			t.Errorf("observed [%d] got %s want %s", i, observed[i], want[i])
		}
	}
}

func TestRunZeroInterval(t *testing.T) {
	out := &fakeOutput{}

	start := time.Now()
	err := Run(context.Background(), out, 0, WithCycles(500))
	if err != nil {
		t.Fatalf("Run returned err: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("zero interval took %s", elapsed)
	}

	assertAlternating(t, out.written(), 1000)
}

func TestRunZeroIntervalCancel(t *testing.T) {
	out := &fakeOutput{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	writes := 0
	err := Run(ctx, out, 0, WithObserver(func(Level) {
		writes++
		if writes == 10 {
			cancel()
		}
	}))
	if err != context.Canceled {
		t.Errorf("got err %v want %v", err, context.Canceled)
	}

	assertAlternating(t, out.written(), 10)
}

func TestRunNegativeInterval(t *testing.T) {
	out := &fakeOutput{}

	err := Run(context.Background(), out, -time.Millisecond)
	if errors.Cause(err) != ErrInvalidInterval {
		t.Errorf("got err %v want %v", err, ErrInvalidInterval)
	}
	if len(out.written()) != 0 {
		t.Error("negative interval should fail before any write")
	}
}

func TestRunNegativeCycles(t *testing.T) {
	out := &fakeOutput{}

	err := Run(context.Background(), out, 0, WithCycles(-1))
	if errors.Cause(err) != ErrInvalidCycles {
		t.Errorf("got err %v want %v", err, ErrInvalidCycles)
	}
	if len(out.written()) != 0 {
		t.Error("negative cycles should fail before any write")
	}
}

func TestRunNoOutput(t *testing.T) {
	err := Run(context.Background(), nil, time.Second)
	if err != ErrNoOutput {
		t.Errorf("got err %v want %v", err, ErrNoOutput)
	}
}

func TestRunPropagatesWriteError(t *testing.T) {
	out := &fakeOutput{failAt: 3}

	err := Run(context.Background(), out, 0)
	if errors.Cause(err) != errWriteFailed {
		t.Errorf("got err %v want %v", err, errWriteFailed)
	}

	assertAlternating(t, out.written(), 2)
}

func TestRunCancelledBeforeStart(t *testing.T) {
	out := &fakeOutput{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Run(ctx, out, time.Second)
	if err != context.Canceled {
		t.Errorf("got err %v want %v", err, context.Canceled)
	}
	if len(out.written()) != 0 {
		t.Error("cancelled context should not touch the output")
	}
}

func TestRunCancelMidSleepKeepsLevel(t *testing.T) {
	out := &fakeOutput{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	time.AfterFunc(20*time.Millisecond, cancel)

	err := Run(ctx, out, time.Hour)
	if err != context.Canceled {
		t.Errorf("got err %v want %v", err, context.Canceled)
	}

	assertAlternating(t, out.written(), 1)
	state, _ := out.GetState()
	if state != true {
		t.Error("output should stay at the last written level")
	}
}

func TestTimerSleeper(t *testing.T) {
	start := time.Now()
	err := TimerSleeper{}.Sleep(context.Background(), 20*time.Millisecond)
	if err != nil {
		t.Fatalf("Sleep returned err: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("Sleep returned after %s", elapsed)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err = TimerSleeper{}.Sleep(ctx, time.Hour)
	if err != context.DeadlineExceeded {
		t.Errorf("got err %v want %v", err, context.DeadlineExceeded)
	}
}

func TestLevelString(t *testing.T) {
	if High.String() != "HIGH" || Low.String() != "LOW" {
		t.Errorf("got %s/%s want HIGH/LOW", High, Low)
	}
}
