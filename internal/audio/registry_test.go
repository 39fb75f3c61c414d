package audio

import (
	"errors"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/srg/btaudio/internal/bus"
	"github.com/srg/btaudio/internal/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingEmitter captures emitted signals for assertions.
type recordingEmitter struct {
	mu      sync.Mutex
	signals []bus.Signal
}

func (e *recordingEmitter) Emit(name, path string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.signals = append(e.signals, bus.Signal{Name: name, Path: path})
}

func (e *recordingEmitter) named(name string) []bus.Signal {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []bus.Signal
	for _, s := range e.signals {
		if s.Name == name {
			out = append(out, s)
		}
	}
	return out
}

func (e *recordingEmitter) reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.signals = nil
}

// failingExporter refuses every export.
type failingExporter struct{}

func (failingExporter) Export(string, any) error { return errors.New("export refused") }
func (failingExporter) Unexport(string)          {}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func newTestRegistry(t *testing.T) (*Registry, *recordingEmitter) {
	t.Helper()
	emitter := &recordingEmitter{}
	return NewRegistry(bus.NewBroker(0, testLogger()), emitter, testLogger()), emitter
}

func withHeadset(t *testing.T, d *Device) {
	t.Helper()
	h, err := profile.Init(profile.Headset, d.Path(), nil, 0, testLogger())
	require.NoError(t, err)
	d.setProfile(profile.Headset, h)
}

func TestCreateAssignsUniqueIdentityPaths(t *testing.T) {
	r, _ := newTestRegistry(t)

	addrs := []string{"AA:BB:CC:DD:EE:01", "AA:BB:CC:DD:EE:02", "AA:BB:CC:DD:EE:03"}
	seen := make(map[string]bool)
	for _, addr := range addrs {
		d := r.Create(addr)
		assert.Equal(t, addr, d.Address())
		assert.False(t, seen[d.Path()], "identity path %s reused", d.Path())
		seen[d.Path()] = true

		// Not visible until registered.
		assert.Nil(t, r.FindByAddress(addr))
		require.NoError(t, r.Register(d))
		assert.Same(t, d, r.FindByAddress(addr))
	}
	assert.Equal(t, len(addrs), r.Len())
}

func TestRegisterExportFailureKeepsDeviceInvisible(t *testing.T) {
	emitter := &recordingEmitter{}
	r := NewRegistry(failingExporter{}, emitter, testLogger())

	d := r.Create("AA:BB:CC:DD:EE:FF")
	require.Error(t, r.Register(d))
	assert.Nil(t, r.FindByAddress("AA:BB:CC:DD:EE:FF"))
	assert.Zero(t, r.Len())
}

func TestRemoveRecomputesDefaultFirstMatchWins(t *testing.T) {
	r, emitter := newTestRegistry(t)

	var devices []*Device
	for _, addr := range []string{"AA:BB:CC:DD:EE:01", "AA:BB:CC:DD:EE:02", "AA:BB:CC:DD:EE:03"} {
		d := r.Create(addr)
		require.NoError(t, r.Register(d))
		devices = append(devices, d)
	}
	// First and third are headset-capable, second is not.
	withHeadset(t, devices[0])
	withHeadset(t, devices[2])

	r.SetDefaultHeadset(devices[0])
	emitter.reset()

	r.Remove(devices[0])

	changes := emitter.named(bus.SignalDefaultHeadsetChanged)
	require.Len(t, changes, 1, "exactly one change notification")
	assert.Equal(t, devices[2].Path(), changes[0].Path, "first remaining headset in registry order wins")
	assert.Same(t, devices[2], r.DefaultHeadset())

	emitter.reset()
	r.Remove(devices[2])

	changes = emitter.named(bus.SignalDefaultHeadsetChanged)
	require.Len(t, changes, 1)
	assert.Empty(t, changes[0].Path, "no headset left, default cleared")
	assert.Nil(t, r.DefaultHeadset())
}

func TestRemoveNonDefaultEmitsNoChange(t *testing.T) {
	r, emitter := newTestRegistry(t)

	first := r.Create("AA:BB:CC:DD:EE:01")
	require.NoError(t, r.Register(first))
	withHeadset(t, first)
	second := r.Create("AA:BB:CC:DD:EE:02")
	require.NoError(t, r.Register(second))
	withHeadset(t, second)

	r.SetDefaultHeadset(first)
	emitter.reset()

	r.Remove(second)
	assert.Empty(t, emitter.named(bus.SignalDefaultHeadsetChanged))
	assert.Same(t, first, r.DefaultHeadset())
}

func TestListFiltersByRequiredInterfaces(t *testing.T) {
	r, _ := newTestRegistry(t)

	plain := r.Create("AA:BB:CC:DD:EE:01")
	require.NoError(t, r.Register(plain))

	hs := r.Create("AA:BB:CC:DD:EE:02")
	require.NoError(t, r.Register(hs))
	withHeadset(t, hs)

	assert.Len(t, r.List(nil), 2, "empty requirement matches all")
	matched := r.List([]profile.Interface{profile.Headset})
	require.Len(t, matched, 1)
	assert.Same(t, hs, matched[0])
	assert.Empty(t, r.List([]profile.Interface{profile.Headset, profile.Sink}))
}
