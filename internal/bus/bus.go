// Package bus carries the manager's outward-facing side: identity
// publication for registered devices and signal fan-out to subscribers.
package bus

// Signal names emitted by the audio manager.
const (
	SignalDeviceCreated         = "DeviceCreated"
	SignalDeviceRemoved         = "DeviceRemoved"
	SignalHeadsetCreated        = "HeadsetCreated"
	SignalHeadsetRemoved        = "HeadsetRemoved"
	SignalDefaultHeadsetChanged = "DefaultHeadsetChanged"
)

// Signal is one emitted notification. Path is empty when the default
// headset was cleared.
type Signal struct {
	Name string
	Path string
}

// Emitter publishes manager signals.
type Emitter interface {
	Emit(name, path string)
}

// Exporter publishes and retracts device identity paths. Export failing
// means the device must not become visible.
type Exporter interface {
	Export(path string, obj any) error
	Unexport(path string)
}
