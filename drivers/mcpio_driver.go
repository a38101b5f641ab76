//go:build !tinygo

package drivers

import (
	"context"

	"github.com/pkg/errors"
	"github.com/racerxdl/go-mcp23017"
)

const mcpioDriverName = "mcpio"

// McpIO drives the pins of an MCP23017 I2C port expander.
type McpIO struct {
	device *mcp23017.Device

	outputs []*McpOutput
	isReady bool

	BusNo         uint8
	DevNo         uint8
	InvertOutputs bool
}

type McpOutput struct {
	pin    uint8
	invert bool

	device *mcp23017.Device
}

func (mout *McpOutput) GetState() (state bool, err error) {
	rawState, err := mout.device.DigitalRead(mout.pin)
	if err != nil {
		return
	}

	if mout.invert {
		state = !bool(rawState)
	} else {
		state = bool(rawState)
	}
	return
}

func (mout *McpOutput) Set(state bool) (err error) {
	if mout.invert {
		state = !state
	}

	err = mout.device.DigitalWrite(mout.pin, mcp23017.PinLevel(state))
	if err != nil {
		err = errors.Wrapf(err, "mcpio write to pin %d failed", mout.pin)
	}

	return
}

func (mcp *McpIO) String() string {
	return mcpioDriverName
}

func (mcp *McpIO) IsReady() bool {
	return mcp.isReady
}

func (mcp *McpIO) Setup(ctx context.Context, outputs []uint16) (err error) {
	for _, outputPin := range outputs {
		if err = checkPinRange(outputPin, mcpioDriverName); err != nil {
			return
		}
	}

	if mcp.device == nil {
		mcp.device, err = mcp23017.Open(mcp.BusNo, mcp.DevNo)
		if err != nil {
			err = errors.Wrapf(err, "failed to open mcp23017 (bus %d, dev %d)", mcp.BusNo, mcp.DevNo)
			return
		}
	}

	configured := mcp.GetAllIo()
	for _, outputPin := range outputs {
		if containsPin(configured, outputPin) {
			continue
		}
		err = mcp.device.PinMode(uint8(outputPin), mcp23017.OUTPUT)
		if err != nil {
			err = errors.Wrapf(err, "failed to set pin %d as output", outputPin)
			return
		}
		mcp.outputs = append(mcp.outputs, &McpOutput{pin: uint8(outputPin), invert: mcp.InvertOutputs, device: mcp.device})
		configured = append(configured, outputPin)
	}

	mcp.isReady = true

	return
}

func (mcp *McpIO) GetOutput(id uint16) (DigitalOutput, error) {
	if err := checkPinRange(id, mcpioDriverName); err != nil {
		return nil, err
	}
	for _, out := range mcp.outputs {
		if out.pin == uint8(id) {
			return out, nil
		}
	}

	return nil, errors.Wrapf(ErrOutputNotFound, "McpIO Output (id: %d)", id)
}

// Close releases the I2C device. The expander latches keep their level.
func (mcp *McpIO) Close() error {
	mcp.isReady = false
	if mcp.device == nil {
		return nil
	}
	err := mcp.device.Close()
	mcp.device = nil
	return err
}

func (mcp *McpIO) GetAllIo() (outputs []uint16) {
	for _, output := range mcp.outputs {
		outputs = append(outputs, uint16(output.pin))
	}

	return
}
