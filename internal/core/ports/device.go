package ports

// LineTransport is a byte-oriented device link framed into text lines.
// ReadLine blocks at most for the configured read timeout and returns an
// empty string when the tick produced no data.
type LineTransport interface {
	ReadLine() (string, error)
	WriteLine(line string) error
	// ResetInput discards any pending unread input. Best effort.
	ResetInput() error
	Close() error
}

// TransportOpener opens the named serial port. Separated from the manager
// so tests can substitute a scripted transport.
type TransportOpener func(portName string) (LineTransport, error)

// DeviceStatus is the externally visible connection state.
type DeviceStatus struct {
	Connected bool   `json:"connected"`
	Paused    bool   `json:"paused"`
	Port      string `json:"port,omitempty"`
}

// DeviceManager controls the background serial worker.
type DeviceManager interface {
	// Connect starts the worker on the named port, running the offline
	// batch sync first. Returns domain.ErrDeviceConnected when a worker
	// is already running.
	Connect(portName string) error
	// Disconnect requests a cooperative stop; latency is bounded by the
	// transport read timeout.
	Disconnect() error
	Pause() error
	Resume() error
	Status() DeviceStatus
	// ArmCapture makes the next scanned UID be reported on the
	// notification channel instead of registered as a punch.
	ArmCapture() error
	ListPorts() ([]string, error)
}
