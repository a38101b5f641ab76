//go:build tinygo

package drivers

func availableDrivers() []IoDriver {
	return []IoDriver{
		&MachineIO{},
		&MockIoDriver{},
	}
}
