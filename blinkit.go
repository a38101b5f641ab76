package blinkit

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"

	"github.com/hubertat/blinkit/blink"
	"github.com/hubertat/blinkit/drivers"
)

const defaultWelcome = "Welcome to blinkit!"
const defaultDriverName = "gpio"

// Blinker is a single output line toggled at a fixed interval.
// It is configured from JSON; a non-nil driver section enables that driver.
type Blinker struct {
	Name       string
	DriverName string
	OutPin     uint16
	Interval   string
	Cycles     int
	Welcome    string

	Mcp23017   *drivers.McpIO
	Gpio       *drivers.GpIO
	FakeDriver *drivers.MockIoDriver

	ioDrivers map[string]drivers.IoDriver
	output    drivers.DigitalOutput
	sleeper   blink.Sleeper
	logger    *log.Logger

	state bool
	lock  sync.Mutex
}

func (bl *Blinker) getLogger() *log.Logger {
	if bl.logger == nil {
		bl.logger = log.NewWithOptions(os.Stderr, log.Options{
			Prefix: "Blinker: ",
			Level:  log.GetLevel(),
		})
	}
	return bl.logger
}

func (bl *Blinker) GetDriverName() string {
	if len(bl.DriverName) == 0 {
		return defaultDriverName
	}
	return bl.DriverName
}

// ParseInterval validates the configured interval, defaulting to one second.
func (bl *Blinker) ParseInterval() (time.Duration, error) {
	if len(bl.Interval) == 0 {
		return blink.DefaultInterval, nil
	}

	interval, err := time.ParseDuration(bl.Interval)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to parse interval %q", bl.Interval)
	}
	if interval < 0 {
		return 0, errors.Wrapf(blink.ErrInvalidInterval, "got %s", bl.Interval)
	}

	return interval, nil
}

func (bl *Blinker) InitDrivers(ctx context.Context) error {
	if _, known := drivers.MapAllIoDrivers()[bl.GetDriverName()]; !known {
		return errors.Wrapf(drivers.ErrUnknownDriver, "driver %s", bl.GetDriverName())
	}

	bl.ioDrivers = make(map[string]drivers.IoDriver)

	if bl.Gpio != nil {
		bl.ioDrivers[bl.Gpio.String()] = bl.Gpio
	}

	if bl.Mcp23017 != nil {
		bl.ioDrivers[bl.Mcp23017.String()] = bl.Mcp23017
	}

	if bl.FakeDriver != nil {
		bl.ioDrivers[bl.FakeDriver.String()] = bl.FakeDriver
	}

	driver, driverFound := bl.ioDrivers[bl.GetDriverName()]
	if !driverFound {
		return errors.Errorf("driver %s not configured", bl.GetDriverName())
	}

	err := driver.Setup(ctx, []uint16{bl.OutPin})
	if err != nil {
		return errors.Wrapf(err, "failed to setup %s driver", driver)
	}

	return nil
}

// InitOutput takes the configured line from its driver.
func (bl *Blinker) InitOutput() error {
	driver, driverFound := bl.ioDrivers[bl.GetDriverName()]
	if !driverFound {
		return errors.Errorf("InitOutput failed, driver %s not set up", bl.GetDriverName())
	}

	if !driver.IsReady() {
		return errors.New("InitOutput failed, driver not ready")
	}

	output, err := driver.GetOutput(bl.OutPin)
	if err != nil {
		return errors.Wrap(err, "InitOutput failed")
	}

	bl.output = output
	return nil
}

// Greet writes the welcome line once.
func (bl *Blinker) Greet(writer io.Writer) {
	welcome := bl.Welcome
	if len(welcome) == 0 {
		welcome = defaultWelcome
	}
	fmt.Fprintln(writer, welcome)
}

// Start blinks the output until ctx is done, Cycles full periods have passed
// or a write fails. Zero Cycles blinks forever.
func (bl *Blinker) Start(ctx context.Context) error {
	if bl.output == nil {
		return blink.ErrNoOutput
	}

	interval, err := bl.ParseInterval()
	if err != nil {
		return err
	}

	opts := []blink.Option{blink.WithObserver(bl.observe), blink.WithCycles(bl.Cycles)}
	if bl.sleeper != nil {
		opts = append(opts, blink.WithSleeper(bl.sleeper))
	}

	bl.getLogger().Info("starting blink", "name", bl.Name, "driver", bl.GetDriverName(), "pin", bl.OutPin, "interval", interval, "cycles", bl.Cycles)

	err = blink.Run(ctx, bl.output, interval, opts...)
	if err != nil && errors.Cause(err) != ctx.Err() {
		return errors.Wrapf(err, "blinking pin %d failed", bl.OutPin)
	}

	bl.getLogger().Info("blink stopped", "pin", bl.OutPin, "level", blink.Level(bl.State()))
	return nil
}

func (bl *Blinker) observe(level blink.Level) {
	bl.lock.Lock()
	bl.state = bool(level)
	bl.lock.Unlock()

	bl.getLogger().Debug("pin level changed", "pin", bl.OutPin, "level", level)
}

// State reports the level last written by Start.
func (bl *Blinker) State() bool {
	bl.lock.Lock()
	defer bl.lock.Unlock()

	return bl.state
}

// Close releases the drivers. It does not rewrite the output level.
func (bl *Blinker) Close() (err error) {
	for name, driver := range bl.ioDrivers {
		if driver == nil {
			continue
		}
		closeErr := driver.Close()
		if closeErr != nil {
			if err == nil {
				err = errors.Wrapf(closeErr, "failed to close %s driver", name)
			} else {
				err = errors.Wrap(err, closeErr.Error())
			}
		}
	}

	return
}

func (bl *Blinker) PrintIoStatus(writer io.Writer) {
	fmt.Fprintln(writer)
	fmt.Fprintln(writer, "=== active io drivers ===")
	for driverName, driver := range bl.ioDrivers {
		fmt.Fprintln(writer, "________")
		fmt.Fprintf(writer, "| driver: %s\n", driverName)
		pins := []string{}
		for _, outpin := range driver.GetAllIo() {
			pins = append(pins, fmt.Sprint(outpin))
		}
		fmt.Fprintf(writer, "| out pins: %s\n", strings.Join(pins, ", "))
		fmt.Fprintln(writer, "--------")
	}
	fmt.Fprintln(writer, "-----------------------------")
	fmt.Fprintln(writer)
}
