//go:build !tinygo

package drivers

import (
	"context"

	"github.com/pkg/errors"
	"github.com/stianeikeland/go-rpio/v4"
)

const gpioDriverName = "gpio"

// GpIO drives Raspberry Pi BCM lines through /dev/gpiomem.
type GpIO struct {
	outputs []*GpOutput

	InvertOutputs bool

	isReady bool
}

type GpOutput struct {
	pin    uint8
	invert bool
}

func (gpo *GpOutput) Set(state bool) error {
	if gpo.invert {
		state = !state
	}
	if state {
		rpio.Pin(gpo.pin).High()
	} else {
		rpio.Pin(gpo.pin).Low()
	}

	return nil
}

func (gpo *GpOutput) GetState() (state bool, err error) {
	if gpo.invert {
		state = rpio.Pin(gpo.pin).Read() == rpio.Low
	} else {
		state = rpio.Pin(gpo.pin).Read() == rpio.High
	}

	return
}

func (gp *GpIO) Setup(ctx context.Context, outputs []uint16) error {
	for _, outPin := range outputs {
		if err := checkPinRange(outPin, gpioDriverName); err != nil {
			return err
		}
	}

	if !gp.isReady {
		err := rpio.Open()
		if err != nil {
			return errors.Wrapf(err, "failed to Setup gpio driver for pins: %v", outputs)
		}
	}

	configured := gp.GetAllIo()
	for _, outPin := range outputs {
		if containsPin(configured, outPin) {
			continue
		}
		rpio.Pin(outPin).Output()
		gp.outputs = append(gp.outputs, &GpOutput{pin: uint8(outPin), invert: gp.InvertOutputs})
		configured = append(configured, outPin)
	}

	gp.isReady = true
	return nil
}

func (gp *GpIO) String() string {
	return gpioDriverName
}

func (gp *GpIO) IsReady() bool {
	return gp.isReady
}

// Close unmaps gpio memory. Lines keep the level they were last driven to.
func (gp *GpIO) Close() error {
	if !gp.isReady {
		return nil
	}
	gp.isReady = false
	return rpio.Close()
}

func (gp *GpIO) GetOutput(id uint16) (DigitalOutput, error) {
	if err := checkPinRange(id, gpioDriverName); err != nil {
		return nil, err
	}
	for _, out := range gp.outputs {
		if out.pin == uint8(id) {
			return out, nil
		}
	}

	return nil, errors.Wrapf(ErrOutputNotFound, "GpIO Output (id: %d)", id)
}

func (gp *GpIO) GetAllIo() (outputs []uint16) {
	for _, output := range gp.outputs {
		outputs = append(outputs, uint16(output.pin))
	}

	return
}
