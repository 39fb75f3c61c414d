package audio

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/srg/btaudio/internal/bus"
	"github.com/srg/btaudio/internal/profile"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Registry owns the known devices, keyed by normalized address in insertion
// order, plus the weak default-headset pointer. It is not safe for
// concurrent use; the manager serializes access.
type Registry struct {
	logger   *logrus.Logger
	exporter bus.Exporter
	emitter  bus.Emitter

	devices *orderedmap.OrderedMap[string, *Device]

	// defaultHS is the address of the default headset, empty when unset.
	// Held as a key rather than a reference so removal can never leave it
	// dangling unnoticed.
	defaultHS string

	nextID uint64
}

func NewRegistry(exporter bus.Exporter, emitter bus.Emitter, logger *logrus.Logger) *Registry {
	return &Registry{
		logger:   logger,
		exporter: exporter,
		emitter:  emitter,
		devices:  orderedmap.New[string, *Device](),
	}
}

// FindByAddress scans for a device with the given normalized address.
func (r *Registry) FindByAddress(address string) *Device {
	for pair := r.devices.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.Address() == address {
			return pair.Value
		}
	}
	return nil
}

// FindByPath scans for a device by identity path.
func (r *Registry) FindByPath(path string) *Device {
	for pair := r.devices.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.Path() == path {
			return pair.Value
		}
	}
	return nil
}

// Create allocates a device with a fresh identity path without inserting it.
// Registration is a separate, fallible step so the device can be discarded
// if later steps fail.
func (r *Registry) Create(address string) *Device {
	path := fmt.Sprintf("%s/device%d", ManagerPath, r.nextID)
	r.nextID++
	return newDevice(address, path, r.logger)
}

// Register publishes the device's identity path and appends it to the
// registry. On export failure the device stays invisible and the caller
// must discard it.
func (r *Registry) Register(d *Device) error {
	if err := r.exporter.Export(d.Path(), d); err != nil {
		r.logger.WithError(err).WithField("path", d.Path()).Error("Failed to register device path")
		return err
	}
	r.devices.Set(d.Address(), d)
	return nil
}

// Remove releases the device's profile handlers, retracts its identity and
// drops it from the registry. When the removed device was the default
// headset the default is recomputed and one DefaultHeadsetChanged emitted.
func (r *Registry) Remove(d *Device) {
	d.close()
	r.exporter.Unexport(d.Path())
	r.devices.Delete(d.Address())

	if r.defaultHS == d.Address() {
		r.recomputeDefault()
	}
}

// recomputeDefault picks the first remaining headset-capable device in
// registry order, or clears the default, and emits the change.
func (r *Registry) recomputeDefault() {
	r.defaultHS = ""
	for pair := r.devices.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.Supports(profile.Headset) {
			r.defaultHS = pair.Key
			break
		}
	}

	path := ""
	if d := r.FindByAddress(r.defaultHS); d != nil {
		path = d.Path()
	}
	r.emitter.Emit(bus.SignalDefaultHeadsetChanged, path)
}

// DefaultHeadset returns the default headset device, nil when unset.
func (r *Registry) DefaultHeadset() *Device {
	if r.defaultHS == "" {
		return nil
	}
	return r.FindByAddress(r.defaultHS)
}

// SetDefaultHeadset points the default at d and emits the change.
func (r *Registry) SetDefaultHeadset(d *Device) {
	r.defaultHS = d.Address()
	r.emitter.Emit(bus.SignalDefaultHeadsetChanged, d.Path())
}

// List returns the devices supporting every required interface, in registry
// order. An empty requirement set matches all devices.
func (r *Registry) List(required []profile.Interface) []*Device {
	var out []*Device
	for pair := r.devices.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.matches(required) {
			out = append(out, pair.Value)
		}
	}
	return out
}

func (r *Registry) Len() int {
	return r.devices.Len()
}
