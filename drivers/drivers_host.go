//go:build !tinygo

package drivers

func availableDrivers() []IoDriver {
	return []IoDriver{
		&GpIO{},
		&McpIO{},
		&MockIoDriver{},
	}
}
