package audio

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/srg/btaudio/internal/adapter"
	"github.com/srg/btaudio/internal/bus"
	"github.com/srg/btaudio/internal/profile"
)

// Manager is the command facade over the registry and the resolution
// machinery. A mutex serializes registry mutation; resolution sessions run
// concurrently and touch shared state only at completion.
//
// When the same unregistered address is claimed twice concurrently, the
// first device to register keeps the address; a session finishing later
// folds its records into the registered device instead of replacing it.
type Manager struct {
	mu       sync.Mutex
	registry *Registry
	client   adapter.Client
	emitter  bus.Emitter
	logger   *logrus.Logger
}

func NewManager(client adapter.Client, exporter bus.Exporter, emitter bus.Emitter, logger *logrus.Logger) *Manager {
	if logger == nil {
		logger = logrus.New()
	}
	return &Manager{
		registry: NewRegistry(exporter, emitter, logger),
		client:   client,
		emitter:  emitter,
		logger:   logger,
	}
}

// CreateDevice resolves the services of an unknown device and registers it,
// replying once the run finishes. For a known device the required set is
// checked synchronously.
func (m *Manager) CreateDevice(ctx context.Context, address string, required []string) (string, error) {
	addr, err := NormalizeAddress(address)
	if err != nil {
		return "", invalidArgs(err)
	}

	req, ok := parseInterfaces(required)
	if !ok {
		// An unknown interface name can never be satisfied.
		return "", ErrNotSupported
	}

	m.mu.Lock()
	if d := m.registry.FindByAddress(addr); d != nil {
		defer m.mu.Unlock()
		if !d.matches(req) {
			return "", ErrNotSupported
		}
		return d.Path(), nil
	}
	d := m.registry.Create(addr)
	m.mu.Unlock()

	return m.resolve(ctx, d, true, req)
}

// resolve runs one discovery session to its terminal state and applies the
// outcome. The finish-transaction notification fires exactly once whether
// the session succeeds or fails.
func (m *Manager) resolve(ctx context.Context, d *Device, explicit bool, required []profile.Interface) (string, error) {
	s := newSession(d, explicit, required, m.logger)
	runErr := s.run(ctx, m.client)

	if err := m.client.FinishRemoteServiceTransaction(ctx, d.Address()); err != nil {
		s.logger.WithError(err).Error("FinishRemoteServiceTransaction failed")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.finishResolve(s, runErr)
}

func (m *Manager) finishResolve(s *session, runErr error) (string, error) {
	d := s.device
	existing := m.registry.FindByAddress(d.Address())
	registered := existing == d

	discard := func() {
		if !registered {
			d.close()
		}
	}

	if runErr != nil {
		discard()
		if errors.Is(runErr, adapter.ErrHostDown) {
			return "", connectFailed("Host is down", runErr)
		}
		return "", failedf("%v", runErr)
	}

	// Another call claimed the address while discovery ran, e.g. a
	// CreateHeadset for the same device. The registered device keeps the
	// address; the session device is dropped and its records folded in.
	if !registered && existing != nil {
		d.close()
		for _, rec := range s.records {
			existing.applyRecord(rec, m.logger)
		}
		if s.explicit && !existing.matches(s.required) {
			return "", ErrNotSupported
		}
		return existing.Path(), nil
	}

	if s.explicit {
		if len(s.records) == 0 {
			s.logger.Debug("No audio related service records were found")
			discard()
			return "", ErrNotSupported
		}

		for _, iface := range s.required {
			if s.satisfied(iface) {
				continue
			}
			s.logger.WithField("interface", iface.String()).Debug("Required interface not supported")
			discard()
			return "", ErrNotSupported
		}

		if !registered {
			if err := m.registry.Register(d); err != nil {
				d.close()
				return "", failedf("Unable to register audio device: %v", err)
			}
		}
	} else if !registered {
		// The device went away while the implicit session ran.
		d.close()
		return d.Path(), nil
	}

	for _, rec := range s.records {
		d.applyRecord(rec, m.logger)
	}

	if s.explicit {
		m.emitter.Emit(bus.SignalDeviceCreated, d.Path())
	}

	return d.Path(), nil
}

// resolveImplicit runs a discovery session with no originating caller;
// failures are logged only.
func (m *Manager) resolveImplicit(d *Device) {
	if _, err := m.resolve(context.Background(), d, false, nil); err != nil {
		m.logger.WithError(err).WithField("address", d.Address()).Error("Implicit service discovery failed")
	}
}

// RemoveDevice drops the device with the given identity path, releasing its
// profiles and recomputing the default headset when needed.
func (m *Manager) RemoveDevice(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	d := m.registry.FindByPath(path)
	if d == nil {
		return &Error{Name: DoesNotExist, Msg: "The headset does not exist"}
	}

	m.registry.Remove(d)

	m.emitter.Emit(bus.SignalHeadsetRemoved, path)
	m.emitter.Emit(bus.SignalDeviceRemoved, path)
	return nil
}

// RemoveHeadset is the same operation as RemoveDevice.
func (m *Manager) RemoveHeadset(path string) error {
	return m.RemoveDevice(path)
}

// ListDevices returns the identity paths of devices supporting every
// required interface.
func (m *Manager) ListDevices(required []string) []string {
	req, ok := parseInterfaces(required)
	if !ok {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var paths []string
	for _, d := range m.registry.List(req) {
		paths = append(paths, d.Path())
	}
	return paths
}

// ListHeadsets returns the identity paths of headset-capable devices.
func (m *Manager) ListHeadsets() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var paths []string
	for _, d := range m.registry.List([]profile.Interface{profile.Headset}) {
		paths = append(paths, d.Path())
	}
	return paths
}

// CreateHeadset finds or creates the device and its headset profile without
// a discovery run. Idempotent; the first headset becomes the default.
func (m *Manager) CreateHeadset(address string) (string, error) {
	addr, err := NormalizeAddress(address)
	if err != nil {
		return "", invalidArgs(err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	d := m.registry.FindByAddress(addr)
	if d == nil {
		d = m.registry.Create(addr)
		if err := m.registry.Register(d); err != nil {
			d.close()
			return "", failedf("Unable to create new audio device")
		}
	}

	if !d.Supports(profile.Headset) {
		h, err := profile.Init(profile.Headset, d.Path(), nil, 0, m.logger)
		if err != nil {
			m.registry.Remove(d)
			return "", failedf("Unable to init Headset interface")
		}
		d.setProfile(profile.Headset, h)
	}

	m.emitter.Emit(bus.SignalHeadsetCreated, d.Path())

	if m.registry.DefaultHeadset() == nil {
		m.registry.SetDefaultHeadset(d)
	}

	return d.Path(), nil
}

// HeadsetConnected handles the internal headset-connection event: the device
// is created and registered if unknown, its headset profile initialized and
// marked connected, and an implicit discovery run started for new devices.
func (m *Manager) HeadsetConnected(address string) (string, error) {
	addr, err := NormalizeAddress(address)
	if err != nil {
		return "", invalidArgs(err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	d := m.registry.FindByAddress(addr)
	if d != nil {
		if h, ok := d.Profile(profile.Headset); ok {
			if err := h.Connect(); err != nil && !errors.Is(err, profile.ErrAlreadyConnected) {
				return "", failedf("%v", err)
			}
			return d.Path(), nil
		}
	}

	created := false
	if d == nil {
		d = m.registry.Create(addr)
		if err := m.registry.Register(d); err != nil {
			d.close()
			return "", failedf("Unable to create new audio device")
		}
		created = true
	}

	h, err := profile.Init(profile.Headset, d.Path(), nil, 0, m.logger)
	if err != nil {
		return "", failedf("Unable to init Headset interface")
	}
	d.setProfile(profile.Headset, h)
	if err := h.Connect(); err != nil {
		m.logger.WithError(err).Warn("Headset connect state conflict")
	}

	if created {
		m.emitter.Emit(bus.SignalDeviceCreated, d.Path())
		go m.resolveImplicit(d)
	}

	m.emitter.Emit(bus.SignalHeadsetCreated, d.Path())

	if m.registry.DefaultHeadset() == nil {
		m.registry.SetDefaultHeadset(d)
	}

	return d.Path(), nil
}

// ConnectedInterfaces lists the command-surface names of the connected
// profiles on the device with the given identity path.
func (m *Manager) ConnectedInterfaces(path string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d := m.registry.FindByPath(path)
	if d == nil {
		return nil, ErrDoesNotExist
	}
	return d.ConnectedInterfaces(), nil
}

// FindDeviceByAddress looks up a registered device by address.
func (m *Manager) FindDeviceByAddress(address string) (string, error) {
	addr, err := NormalizeAddress(address)
	if err != nil {
		return "", invalidArgs(err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	d := m.registry.FindByAddress(addr)
	if d == nil {
		return "", ErrDoesNotExist
	}
	return d.Path(), nil
}

// DefaultHeadset returns the identity path of the default headset.
func (m *Manager) DefaultHeadset() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d := m.registry.DefaultHeadset()
	if d == nil {
		return "", &Error{Name: DoesNotExist, Msg: "There is no default headset"}
	}
	return d.Path(), nil
}

// ChangeDefaultHeadset points the default headset at the device with the
// given identity path.
func (m *Manager) ChangeDefaultHeadset(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	d := m.registry.FindByPath(path)
	if d == nil {
		return &Error{Name: DoesNotExist, Msg: "The headset does not exist"}
	}

	m.registry.SetDefaultHeadset(d)
	return nil
}

// DefaultConfig returns the transport configuration blob of the default
// headset. It fails when no default is set or the headset is not connected.
func (m *Manager) DefaultConfig() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d := m.registry.DefaultHeadset()
	if d == nil {
		return nil, &Error{Name: DoesNotExist, Msg: "There is no default headset"}
	}

	h, ok := d.Profile(profile.Headset)
	if !ok {
		return nil, &Error{Name: DoesNotExist, Msg: "There is no default headset"}
	}
	if !h.IsConnected() {
		return nil, ErrNotConnected
	}
	return h.Config()
}

// Close removes every device from the registry.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, d := range m.registry.List(nil) {
		m.registry.Remove(d)
	}
}

// parseInterfaces resolves interface names; ok is false when any name is
// unknown, which no device can ever satisfy.
func parseInterfaces(names []string) ([]profile.Interface, bool) {
	req := make([]profile.Interface, 0, len(names))
	for _, name := range names {
		iface, ok := profile.Parse(name)
		if !ok {
			return nil, false
		}
		req = append(req, iface)
	}
	return req, true
}
