package profile

import (
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/srg/btaudio/internal/sdp"
)

// generic backs the gateway, sink, source, control and target interfaces,
// which only need record bookkeeping at this layer.
type generic struct {
	mu        sync.Mutex
	iface     Interface
	path      string
	logger    *logrus.Entry
	class     uint16
	connected bool
}

func newGeneric(iface Interface, path string, logger *logrus.Logger) *generic {
	return &generic{
		iface:  iface,
		path:   path,
		logger: logger.WithFields(logrus.Fields{"profile": iface.String(), "path": path}),
	}
}

func (g *generic) Update(rec *sdp.Record, class uint16) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.class = class
	g.logger.WithField("class", class).Debug("Updated service record")
}

func (g *generic) Connect() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.connected {
		return ErrAlreadyConnected
	}
	g.connected = true
	return nil
}

func (g *generic) Disconnect() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.connected {
		return ErrNotConnected
	}
	g.connected = false
	return nil
}

func (g *generic) IsConnected() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.connected
}

func (g *generic) Config() ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.connected {
		return nil, ErrNotConnected
	}
	return json.Marshal(struct {
		Interface string `json:"interface"`
		Class     uint16 `json:"class"`
	}{
		Interface: g.iface.Name(),
		Class:     g.class,
	})
}

func (g *generic) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.connected = false
}
