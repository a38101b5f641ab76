package drivers

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/pkg/errors"
)

const mockDriverName = "mock_driver"

type MockOutput struct {
	lock sync.Mutex

	state            bool
	pin              uint16
	history          []bool
	writeTo          io.Writer
	writeStateChange bool
}

func (mo *MockOutput) GetState() (bool, error) {
	mo.lock.Lock()
	defer mo.lock.Unlock()

	return mo.state, nil
}

func (mo *MockOutput) Set(state bool) error {
	mo.lock.Lock()
	defer mo.lock.Unlock()

	if mo.writeStateChange && state != mo.state {
		fmt.Fprintf(mo.writeTo, "[pin %d] state changed to %v\n", mo.pin, state)
	}
	mo.state = state
	mo.history = append(mo.history, state)
	return nil
}

// History returns every level written to the output, oldest first.
func (mo *MockOutput) History() []bool {
	mo.lock.Lock()
	defer mo.lock.Unlock()

	return append([]bool(nil), mo.history...)
}

// MockIoDriver keeps output levels in memory, for running without hardware.
type MockIoDriver struct {
	outputs []*MockOutput
	ready   bool
}

func (md *MockIoDriver) Setup(ctx context.Context, outputs []uint16) error {
	configured := md.GetAllIo()
	for _, outPin := range outputs {
		if containsPin(configured, outPin) {
			continue
		}
		md.outputs = append(md.outputs, &MockOutput{pin: outPin})
		configured = append(configured, outPin)
	}
	md.ready = true
	return nil
}

func (md *MockIoDriver) Close() error {
	md.ready = false
	return nil
}

func (md *MockIoDriver) String() string {
	return mockDriverName
}

func (md *MockIoDriver) IsReady() bool {
	return md.ready
}

func (md *MockIoDriver) GetOutput(pin uint16) (DigitalOutput, error) {
	return md.GetMockOutput(pin)
}

func (md *MockIoDriver) GetMockOutput(pin uint16) (*MockOutput, error) {
	for _, output := range md.outputs {
		if pin == output.pin {
			return output, nil
		}
	}
	return nil, errors.Wrapf(ErrOutputNotFound, "mock output %d", pin)
}

func (md *MockIoDriver) GetAllIo() (outputs []uint16) {
	for _, output := range md.outputs {
		outputs = append(outputs, output.pin)
	}
	return
}

func (md *MockIoDriver) MonitorStateChanges(writer io.Writer) {
	for _, out := range md.outputs {
		out.lock.Lock()
		out.writeTo = writer
		out.writeStateChange = true
		out.lock.Unlock()
	}
}
