package profile

import (
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/srg/btaudio/internal/sdp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestInterfaceForClass(t *testing.T) {
	tests := []struct {
		name  string
		class uint16
		want  Interface
		ok    bool
	}{
		{name: "headset", class: sdp.ClassHeadset, want: Headset, ok: true},
		{name: "handsfree", class: sdp.ClassHandsfree, want: Headset, ok: true},
		{name: "headset gateway", class: sdp.ClassHeadsetAG, want: Gateway, ok: true},
		{name: "handsfree gateway", class: sdp.ClassHandsfreeAG, want: Gateway, ok: true},
		{name: "audio sink", class: sdp.ClassAudioSink, want: Sink, ok: true},
		{name: "audio source", class: sdp.ClassAudioSource, want: Source, ok: true},
		{name: "av remote", class: sdp.ClassAVRemote, want: Control, ok: true},
		{name: "av remote target", class: sdp.ClassAVRemoteTarget, want: Target, ok: true},
		{name: "generic audio is not a profile", class: sdp.ClassGenericAudio, ok: false},
		{name: "unrelated class", class: 0x180d, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := InterfaceForClass(tt.class)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParse(t *testing.T) {
	iface, ok := Parse("Headset")
	require.True(t, ok)
	assert.Equal(t, Headset, iface)

	iface, ok = Parse("org.bluez.audio.Control")
	require.True(t, ok)
	assert.Equal(t, Control, iface)

	_, ok = Parse("org.bluez.audio.Unknown")
	assert.False(t, ok)
}

func TestHeadsetLifecycle(t *testing.T) {
	rec, err := sdp.Decode(sdp.Encode([]sdp.UUID{sdp.NewUUID16(sdp.ClassHeadset)}, 4))
	require.NoError(t, err)

	h, err := Init(Headset, "/org/bluez/audio/device0", rec, sdp.ClassHeadset, testLogger())
	require.NoError(t, err)
	defer h.Close()

	assert.False(t, h.IsConnected())
	_, err = h.Config()
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.ErrorIs(t, h.Disconnect(), ErrNotConnected)

	require.NoError(t, h.Connect())
	assert.ErrorIs(t, h.Connect(), ErrAlreadyConnected)
	assert.True(t, h.IsConnected())

	blob, err := h.Config()
	require.NoError(t, err)

	var cfg struct {
		Interface string `json:"interface"`
		Class     uint16 `json:"class"`
		Channel   uint8  `json:"channel"`
	}
	require.NoError(t, json.Unmarshal(blob, &cfg))
	assert.Equal(t, "org.bluez.audio.Headset", cfg.Interface)
	assert.Equal(t, sdp.ClassHeadset, cfg.Class)
	assert.Equal(t, uint8(4), cfg.Channel)

	require.NoError(t, h.Disconnect())
	assert.False(t, h.IsConnected())
}

func TestInitWithoutRecord(t *testing.T) {
	for _, iface := range []Interface{Headset, Gateway, Sink, Source, Control, Target} {
		t.Run(iface.String(), func(t *testing.T) {
			h, err := Init(iface, "/org/bluez/audio/device1", nil, 0, testLogger())
			require.NoError(t, err)
			defer h.Close()
			assert.False(t, h.IsConnected())
		})
	}
}
