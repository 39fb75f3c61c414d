// Package profile holds the audio interface taxonomy and the per-interface
// session handlers the manager activates from discovered service records.
package profile

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/srg/btaudio/internal/sdp"
)

// Interface names one audio profile category a device can expose.
type Interface int

const (
	Headset Interface = iota
	Gateway
	Sink
	Source
	Control
	Target
)

// namePrefix is the command-surface prefix for interface names.
const namePrefix = "org.bluez.audio."

var shortNames = map[Interface]string{
	Headset: "Headset",
	Gateway: "Gateway",
	Sink:    "Sink",
	Source:  "Source",
	Control: "Control",
	Target:  "Target",
}

func (i Interface) String() string {
	if s, ok := shortNames[i]; ok {
		return s
	}
	return fmt.Sprintf("Interface(%d)", int(i))
}

// Name returns the full command-surface interface name.
func (i Interface) Name() string {
	return namePrefix + i.String()
}

// Parse resolves an interface from either its short or full name.
func Parse(s string) (Interface, bool) {
	for iface, short := range shortNames {
		if s == short || s == namePrefix+short {
			return iface, true
		}
	}
	return 0, false
}

// InterfaceForClass maps a 16-bit service class UUID to the audio interface
// it activates. The mapping is fixed; unlisted classes have no interface.
func InterfaceForClass(class uint16) (Interface, bool) {
	switch class {
	case sdp.ClassHeadset, sdp.ClassHandsfree:
		return Headset, true
	case sdp.ClassHeadsetAG, sdp.ClassHandsfreeAG:
		return Gateway, true
	case sdp.ClassAudioSink:
		return Sink, true
	case sdp.ClassAudioSource:
		return Source, true
	case sdp.ClassAVRemote:
		return Control, true
	case sdp.ClassAVRemoteTarget:
		return Target, true
	default:
		return 0, false
	}
}

// Connection-state conflicts surfaced by handlers.
var (
	ErrAlreadyConnected = errors.New("already connected")
	ErrNotConnected     = errors.New("not connected")
)

// Handler is one profile session bound to a device. The manager owns the
// handle; everything beyond this surface is profile-specific.
type Handler interface {
	// Update feeds a newly discovered service record into the session.
	Update(rec *sdp.Record, class uint16)
	Connect() error
	Disconnect() error
	IsConnected() bool
	// Config returns the transport configuration blob for a connected session.
	Config() ([]byte, error)
	Close()
}

// Init creates the handler for iface on the device at path. rec may be nil
// when the profile is activated without a discovered record.
func Init(iface Interface, path string, rec *sdp.Record, class uint16, logger *logrus.Logger) (Handler, error) {
	ctor, ok := constructors[iface]
	if !ok {
		return nil, fmt.Errorf("no handler for interface %s", iface)
	}

	h := ctor(path, logger)
	if rec != nil {
		h.Update(rec, class)
	}
	return h, nil
}

// constructors is the fixed dispatch table from interface to handler type.
var constructors = map[Interface]func(path string, logger *logrus.Logger) Handler{
	Headset: func(path string, logger *logrus.Logger) Handler { return newHeadset(path, logger) },
	Gateway: func(path string, logger *logrus.Logger) Handler { return newGeneric(Gateway, path, logger) },
	Sink:    func(path string, logger *logrus.Logger) Handler { return newGeneric(Sink, path, logger) },
	Source:  func(path string, logger *logrus.Logger) Handler { return newGeneric(Source, path, logger) },
	Control: func(path string, logger *logrus.Logger) Handler { return newGeneric(Control, path, logger) },
	Target:  func(path string, logger *logrus.Logger) Handler { return newGeneric(Target, path, logger) },
}
