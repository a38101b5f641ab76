//go:build tinygo

package drivers

import (
	"context"
	"machine"

	"github.com/pkg/errors"
)

const machineDriverName = "machine"

// MachineIO drives microcontroller pins through the TinyGo machine package.
type MachineIO struct {
	outputs []*MachineOutput

	InvertOutputs bool

	isReady bool
}

type MachineOutput struct {
	pin    machine.Pin
	id     uint16
	invert bool
}

func (mo *MachineOutput) Set(state bool) error {
	if mo.invert {
		state = !state
	}
	mo.pin.Set(state)
	return nil
}

func (mo *MachineOutput) GetState() (bool, error) {
	if mo.invert {
		return !mo.pin.Get(), nil
	}
	return mo.pin.Get(), nil
}

func (mio *MachineIO) Setup(ctx context.Context, outputs []uint16) error {
	configured := mio.GetAllIo()
	for _, outPin := range outputs {
		if err := checkPinRange(outPin, machineDriverName); err != nil {
			return err
		}
		if containsPin(configured, outPin) {
			continue
		}
		pin := machine.Pin(outPin)
		pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
		mio.outputs = append(mio.outputs, &MachineOutput{pin: pin, id: outPin, invert: mio.InvertOutputs})
		configured = append(configured, outPin)
	}

	mio.isReady = true
	return nil
}

func (mio *MachineIO) String() string {
	return machineDriverName
}

func (mio *MachineIO) IsReady() bool {
	return mio.isReady
}

func (mio *MachineIO) Close() error {
	mio.isReady = false
	return nil
}

func (mio *MachineIO) GetOutput(id uint16) (DigitalOutput, error) {
	for _, out := range mio.outputs {
		if out.id == id {
			return out, nil
		}
	}

	return nil, errors.Wrapf(ErrOutputNotFound, "machine Output (id: %d)", id)
}

func (mio *MachineIO) GetAllIo() (outputs []uint16) {
	for _, output := range mio.outputs {
		outputs = append(outputs, output.id)
	}
	return
}
