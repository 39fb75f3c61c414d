package sdp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// full128 returns a 128-bit UUID on the Bluetooth base for a 16-bit class.
func full128(class uint16) UUID {
	var b [16]byte
	b[2] = byte(class >> 8)
	b[3] = byte(class)
	copy(b[4:], baseUUID[:])
	return NewUUID128(b)
}

func TestServiceClassID(t *testing.T) {
	var offBase [16]byte
	copy(offBase[:], []byte{0x6e, 0x40, 0x00, 0x01, 0xb5, 0xa3, 0xf3, 0x93, 0xe0, 0xa9, 0xe5, 0x0e, 0x24, 0xdc, 0xca, 0x9e})

	tests := []struct {
		name    string
		classes []UUID
		want    uint16
		ok      bool
	}{
		{
			name:    "16-bit headset class",
			classes: []UUID{NewUUID16(ClassHeadset)},
			want:    ClassHeadset,
			ok:      true,
		},
		{
			name:    "128-bit class on the Bluetooth base",
			classes: []UUID{full128(ClassAudioSink)},
			want:    ClassAudioSink,
			ok:      true,
		},
		{
			name:    "128-bit class off the Bluetooth base",
			classes: []UUID{NewUUID128(offBase)},
			ok:      false,
		},
		{
			name:    "32-bit class above 16-bit range",
			classes: []UUID{NewUUID32(0x12345678)},
			ok:      false,
		},
		{
			name:    "32-bit class within 16-bit range",
			classes: []UUID{NewUUID32(uint32(ClassAVRemote))},
			want:    ClassAVRemote,
			ok:      true,
		},
		{
			name: "no service classes",
			ok:   false,
		},
		{
			name:    "first class wins",
			classes: []UUID{NewUUID16(ClassHandsfree), NewUUID16(ClassGenericAudio)},
			want:    ClassHandsfree,
			ok:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Decode(Encode(tt.classes, 0))
			require.NoError(t, err)

			got, ok := rec.ServiceClassID()
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

// Classification must be a pure function of the record bytes.
func TestServiceClassIDDeterministic(t *testing.T) {
	raw := Encode([]UUID{NewUUID16(ClassHeadset)}, 3)

	first, err := Decode(raw)
	require.NoError(t, err)
	second, err := Decode(raw)
	require.NoError(t, err)

	c1, ok1 := first.ServiceClassID()
	c2, ok2 := second.ServiceClassID()
	assert.Equal(t, ok1, ok2)
	assert.Equal(t, c1, c2)
	assert.Equal(t, raw, first.Bytes())
}

func TestRFCOMMChannel(t *testing.T) {
	rec, err := Decode(Encode([]UUID{NewUUID16(ClassHeadset)}, 6))
	require.NoError(t, err)

	ch, ok := rec.RFCOMMChannel()
	require.True(t, ok)
	assert.Equal(t, uint8(6), ch)

	rec, err = Decode(Encode([]UUID{NewUUID16(ClassAudioSink)}, 0))
	require.NoError(t, err)
	_, ok = rec.RFCOMMChannel()
	assert.False(t, ok)
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
	}{
		{name: "empty", raw: nil},
		{name: "not a sequence", raw: []byte{0x09, 0x00, 0x01}},
		{name: "truncated header", raw: []byte{0x35}},
		{name: "truncated attribute value", raw: []byte{0x35, 0x04, 0x09, 0x00, 0x01, 0x35}},
		{name: "attribute id wrong width", raw: []byte{0x35, 0x03, 0x08, 0x01, 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.raw)
			assert.Error(t, err)
		})
	}
}

func TestCategoryUUID(t *testing.T) {
	assert.Equal(t, "00001203-0000-1000-8000-00805f9b34fb", GenericAudioUUID)
	assert.Equal(t, "0000110d-0000-1000-8000-00805f9b34fb", AdvancedAudioUUID)
	assert.Equal(t, "0000110e-0000-1000-8000-00805f9b34fb", AVRemoteUUID)
}
