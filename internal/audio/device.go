// Package audio implements the Bluetooth audio device manager: the device
// registry, the service discovery resolution machinery and the command
// facade on top of them.
package audio

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/srg/btaudio/internal/profile"
	"github.com/srg/btaudio/internal/sdp"
)

// ManagerPath is the base identity path; devices live underneath it.
const ManagerPath = "/org/bluez/audio"

// Device is one known remote audio peer. The address is fixed at creation
// and serves as the registry key; the identity path is the opaque handle
// handed to external callers.
type Device struct {
	address  string
	path     string
	profiles map[profile.Interface]profile.Handler
	logger   *logrus.Entry
}

func newDevice(address, path string, logger *logrus.Logger) *Device {
	return &Device{
		address:  address,
		path:     path,
		profiles: make(map[profile.Interface]profile.Handler),
		logger: logger.WithFields(logrus.Fields{
			"address": address,
			"path":    path,
		}),
	}
}

func (d *Device) Address() string { return d.address }

func (d *Device) Path() string { return d.path }

// Profile returns the handler for iface when the device exposes it.
func (d *Device) Profile(iface profile.Interface) (profile.Handler, bool) {
	h, ok := d.profiles[iface]
	return h, ok
}

// Supports reports whether the device currently exposes iface.
func (d *Device) Supports(iface profile.Interface) bool {
	_, ok := d.profiles[iface]
	return ok
}

// matches reports whether the device exposes every required interface. An
// empty requirement matches.
func (d *Device) matches(required []profile.Interface) bool {
	for _, iface := range required {
		if !d.Supports(iface) {
			d.logger.WithField("interface", iface.String()).Debug("Device does not support interface")
			return false
		}
	}
	return true
}

// ConnectedInterfaces lists the command-surface names of the device's
// currently connected profiles.
func (d *Device) ConnectedInterfaces() []string {
	var out []string
	for iface, h := range d.profiles {
		if h.IsConnected() {
			out = append(out, iface.Name())
		}
	}
	return out
}

func (d *Device) setProfile(iface profile.Interface, h profile.Handler) {
	d.profiles[iface] = h
}

// applyRecord classifies a discovered record and dispatches it to the
// matching profile: existing handlers get the update, otherwise a new
// handler is initialized from the record. Unrecognized classes are logged
// and ignored.
func (d *Device) applyRecord(rec *sdp.Record, logger *logrus.Logger) {
	class, ok := rec.ServiceClassID()
	if !ok {
		d.logger.Debug("Record has no usable service class")
		return
	}

	iface, ok := profile.InterfaceForClass(class)
	if !ok {
		d.logger.WithField("class", fmt.Sprintf("0x%04X", class)).Debug("Unrecognized service class")
		return
	}

	d.logger.WithFields(logrus.Fields{
		"class":     fmt.Sprintf("0x%04X", class),
		"interface": iface.String(),
	}).Debug("Found service record")

	if h, ok := d.profiles[iface]; ok {
		h.Update(rec, class)
		return
	}

	h, err := profile.Init(iface, d.path, rec, class, logger)
	if err != nil {
		d.logger.WithError(err).WithField("interface", iface.String()).Warn("Unable to init profile handler")
		return
	}
	d.profiles[iface] = h
}

// close releases every profile handler the device owns.
func (d *Device) close() {
	for iface, h := range d.profiles {
		h.Close()
		delete(d.profiles, iface)
	}
}
