package sdp

import "encoding/binary"

// Encode builds a minimal service record carrying the given service classes
// and, when channel is non-zero, an L2CAP/RFCOMM protocol descriptor list.
// The loopback adapter and tests use it to fabricate remote records.
func Encode(classes []UUID, channel uint8) []byte {
	var attrs []byte

	var cls []byte
	for _, u := range classes {
		cls = append(cls, encodeUUID(u)...)
	}
	attrs = append(attrs, encodeUint16(AttrServiceClassIDList)...)
	attrs = append(attrs, encodeSeq(cls)...)

	if channel != 0 {
		l2cap := encodeSeq(encodeUUID(NewUUID16(ProtoL2CAP)))
		rfcomm := encodeSeq(append(encodeUUID(NewUUID16(ProtoRFCOMM)), encodeUint8(channel)...))
		attrs = append(attrs, encodeUint16(AttrProtocolDescriptorList)...)
		attrs = append(attrs, encodeSeq(append(l2cap, rfcomm...))...)
	}

	return encodeSeq(attrs)
}

func encodeUint8(v uint8) []byte {
	return []byte{typeUint<<3 | 0, v}
}

func encodeUint16(v uint16) []byte {
	return []byte{typeUint<<3 | 1, byte(v >> 8), byte(v)}
}

func encodeUUID(u UUID) []byte {
	switch u.Type {
	case UUID16:
		return []byte{typeUUID<<3 | 1, byte(u.Value >> 8), byte(u.Value)}
	case UUID32:
		b := make([]byte, 5)
		b[0] = typeUUID<<3 | 2
		binary.BigEndian.PutUint32(b[1:], u.Value)
		return b
	default:
		return append([]byte{typeUUID<<3 | 4}, u.Long[:]...)
	}
}

func encodeSeq(payload []byte) []byte {
	if len(payload) <= 0xFF {
		return append([]byte{typeSeq<<3 | 5, byte(len(payload))}, payload...)
	}
	hdr := []byte{typeSeq<<3 | 6, byte(len(payload) >> 8), byte(len(payload))}
	return append(hdr, payload...)
}
