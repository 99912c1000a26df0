package service

// DeviceConfig selects and sizes the local capture device.
type DeviceConfig struct {
	DeviceID int
	Width    int
	Height   int
}

// PreviewWindowTitle is the title of the operator's aiming window.
const PreviewWindowTitle = "LumenPass Scanner | press 'q' to quit"
