package profile

import (
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/srg/btaudio/internal/sdp"
)

// headset is the headset/handsfree profile session. It tracks the RFCOMM
// channel advertised by the remote record and the connection state; the
// actual audio link lives outside this core.
type headset struct {
	mu        sync.Mutex
	path      string
	logger    *logrus.Entry
	class     uint16
	channel   uint8
	connected bool
}

func newHeadset(path string, logger *logrus.Logger) *headset {
	return &headset{
		path:   path,
		logger: logger.WithFields(logrus.Fields{"profile": Headset.String(), "path": path}),
	}
}

func (h *headset) Update(rec *sdp.Record, class uint16) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.class = class
	if ch, ok := rec.RFCOMMChannel(); ok {
		h.channel = ch
	}
	h.logger.WithFields(logrus.Fields{
		"class":   class,
		"channel": h.channel,
	}).Debug("Updated headset record")
}

func (h *headset) Connect() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.connected {
		return ErrAlreadyConnected
	}
	h.connected = true
	h.logger.Info("Headset connected")
	return nil
}

func (h *headset) Disconnect() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.connected {
		return ErrNotConnected
	}
	h.connected = false
	h.logger.Info("Headset disconnected")
	return nil
}

func (h *headset) IsConnected() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.connected
}

// Config returns the outbound transport configuration for a connected
// headset session.
func (h *headset) Config() ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.connected {
		return nil, ErrNotConnected
	}
	return json.Marshal(struct {
		Interface string `json:"interface"`
		Class     uint16 `json:"class"`
		Channel   uint8  `json:"channel"`
	}{
		Interface: Headset.Name(),
		Class:     h.class,
		Channel:   h.channel,
	})
}

func (h *headset) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.connected = false
	h.logger.Debug("Headset session released")
}
