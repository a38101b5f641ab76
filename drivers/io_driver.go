package drivers

import (
	"context"

	"github.com/pkg/errors"
)

var (
	ErrPinOutOfRange  = errors.New("pin id out of range")
	ErrOutputNotFound = errors.New("output not found")
	ErrUnknownDriver  = errors.New("unknown io driver")
)

// IoDriver configures output lines on one piece of hardware and hands out
// handles to them. Setup may be called again with pins that are already
// configured; those keep their existing handle and level.
type IoDriver interface {
	Setup(ctx context.Context, outputs []uint16) error
	Close() error
	String() string
	IsReady() bool
	GetOutput(pin uint16) (DigitalOutput, error)
	GetAllIo() (outputs []uint16)
}

func MapAllIoDrivers() map[string]IoDriver {
	mapped := make(map[string]IoDriver)
	for _, driver := range availableDrivers() {
		mapped[driver.String()] = driver
	}
	return mapped
}

type DigitalOutput interface {
	GetState() (bool, error)
	Set(bool) error
}

func checkPinRange(pin uint16, driverName string) error {
	if pin > 255 {
		return errors.Wrapf(ErrPinOutOfRange, "%s takes uint8 pin, got %d", driverName, pin)
	}
	return nil
}

func containsPin(pins []uint16, pin uint16) bool {
	for _, p := range pins {
		if p == pin {
			return true
		}
	}
	return false
}
