package sdp

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// UUIDType discriminates the three on-wire UUID encodings.
type UUIDType int

const (
	UUID16 UUIDType = iota
	UUID32
	UUID128
)

// UUID is a service class or protocol UUID as carried in a service record.
type UUID struct {
	Type  UUIDType
	Value uint32   // 16-bit and 32-bit forms
	Long  [16]byte // 128-bit form
}

// baseUUID is the tail of the Bluetooth SIG base UUID
// xxxxxxxx-0000-1000-8000-00805f9b34fb; a 128-bit UUID reduces to a short
// form only when it sits on this base.
var baseUUID = [12]byte{0x00, 0x00, 0x10, 0x00, 0x80, 0x00, 0x00, 0x80, 0x5F, 0x9B, 0x34, 0xFB}

func NewUUID16(v uint16) UUID {
	return UUID{Type: UUID16, Value: uint32(v)}
}

func NewUUID32(v uint32) UUID {
	return UUID{Type: UUID32, Value: v}
}

func NewUUID128(b [16]byte) UUID {
	return UUID{Type: UUID128, Long: b}
}

// To16 reduces the UUID to its 16-bit form. It fails for 32-bit values above
// 0xFFFF and for 128-bit UUIDs that are not on the Bluetooth base.
func (u UUID) To16() (uint16, bool) {
	switch u.Type {
	case UUID16:
		return uint16(u.Value), true
	case UUID32:
		if u.Value > 0xFFFF {
			return 0, false
		}
		return uint16(u.Value), true
	default:
		if !bytes.Equal(u.Long[4:], baseUUID[:]) {
			return 0, false
		}
		v := binary.BigEndian.Uint32(u.Long[0:4])
		if v > 0xFFFF {
			return 0, false
		}
		return uint16(v), true
	}
}

func (u UUID) String() string {
	switch u.Type {
	case UUID16:
		return fmt.Sprintf("0x%04x", uint16(u.Value))
	case UUID32:
		return fmt.Sprintf("0x%08x", u.Value)
	default:
		b := u.Long
		return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:16])
	}
}
