// Package sdp decodes remote service records fetched during service
// discovery. Only the small slice of the record format this stack interprets
// is implemented: the data element framing, the service class list and the
// RFCOMM channel from the protocol descriptor list. Everything else stays
// opaque in the raw bytes.
package sdp

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Data element type descriptors (Core spec Vol 3, Part B, 3.3).
const (
	typeNil = iota
	typeUint
	typeInt
	typeUUID
	typeString
	typeBool
	typeSeq
	typeAlt
	typeURL
)

var errTruncated = errors.New("truncated data element")

// element is one parsed data element; data holds its payload.
type element struct {
	typ  int
	data []byte
}

// parseElement decodes a single data element header and returns the element
// plus the total number of bytes it occupies.
func parseElement(b []byte) (element, int, error) {
	if len(b) == 0 {
		return element{}, 0, errTruncated
	}

	typ := int(b[0] >> 3)
	var hlen, n int
	switch b[0] & 0x07 {
	case 0:
		hlen = 1
		if typ != typeNil {
			n = 1
		}
	case 1:
		hlen, n = 1, 2
	case 2:
		hlen, n = 1, 4
	case 3:
		hlen, n = 1, 8
	case 4:
		hlen, n = 1, 16
	case 5:
		if len(b) < 2 {
			return element{}, 0, errTruncated
		}
		hlen, n = 2, int(b[1])
	case 6:
		if len(b) < 3 {
			return element{}, 0, errTruncated
		}
		hlen, n = 3, int(binary.BigEndian.Uint16(b[1:3]))
	case 7:
		if len(b) < 5 {
			return element{}, 0, errTruncated
		}
		hlen, n = 5, int(binary.BigEndian.Uint32(b[1:5]))
	}

	if len(b) < hlen+n {
		return element{}, 0, errTruncated
	}
	return element{typ: typ, data: b[hlen : hlen+n]}, hlen + n, nil
}

func uuidFromElement(e element) (UUID, bool) {
	switch len(e.data) {
	case 2:
		return NewUUID16(binary.BigEndian.Uint16(e.data)), true
	case 4:
		return NewUUID32(binary.BigEndian.Uint32(e.data)), true
	case 16:
		var b [16]byte
		copy(b[:], e.data)
		return NewUUID128(b), true
	default:
		return UUID{}, false
	}
}

// Record is one decoded remote service record.
type Record struct {
	raw   []byte
	attrs map[uint16]element
}

// Decode parses raw service record bytes as returned by the adapter. The
// record must be a data element sequence of attribute id/value pairs.
func Decode(data []byte) (*Record, error) {
	root, _, err := parseElement(data)
	if err != nil {
		return nil, fmt.Errorf("malformed service record: %w", err)
	}
	if root.typ != typeSeq {
		return nil, errors.New("service record is not a data element sequence")
	}

	attrs := make(map[uint16]element)
	rest := root.data
	for len(rest) > 0 {
		id, n, err := parseElement(rest)
		if err != nil {
			return nil, fmt.Errorf("malformed attribute id: %w", err)
		}
		if id.typ != typeUint || len(id.data) != 2 {
			return nil, errors.New("attribute id is not a 16-bit uint")
		}
		rest = rest[n:]

		val, n, err := parseElement(rest)
		if err != nil {
			return nil, fmt.Errorf("malformed attribute value: %w", err)
		}
		rest = rest[n:]

		attrs[binary.BigEndian.Uint16(id.data)] = val
	}

	return &Record{raw: data, attrs: attrs}, nil
}

// Bytes returns the raw record as fetched from the adapter.
func (r *Record) Bytes() []byte { return r.raw }

// ServiceClasses returns the UUIDs from the ServiceClassIDList attribute,
// in record order. Nil when the attribute is absent or not a sequence.
func (r *Record) ServiceClasses() []UUID {
	el, ok := r.attrs[AttrServiceClassIDList]
	if !ok || el.typ != typeSeq {
		return nil
	}

	var classes []UUID
	rest := el.data
	for len(rest) > 0 {
		e, n, err := parseElement(rest)
		if err != nil {
			break
		}
		rest = rest[n:]
		if e.typ != typeUUID {
			continue
		}
		if u, ok := uuidFromElement(e); ok {
			classes = append(classes, u)
		}
	}
	return classes
}

// ServiceClassID reduces the record's first service class to a 16-bit UUID.
// It fails when the record carries no service classes, the class is a 128-bit
// UUID off the Bluetooth base, or a 32-bit value above 0xFFFF. The result
// depends only on the record bytes.
func (r *Record) ServiceClassID() (uint16, bool) {
	classes := r.ServiceClasses()
	if len(classes) == 0 {
		return 0, false
	}
	return classes[0].To16()
}

// RFCOMMChannel extracts the RFCOMM server channel from the protocol
// descriptor list, when the record has one.
func (r *Record) RFCOMMChannel() (uint8, bool) {
	el, ok := r.attrs[AttrProtocolDescriptorList]
	if !ok || el.typ != typeSeq {
		return 0, false
	}

	rest := el.data
	for len(rest) > 0 {
		e, n, err := parseElement(rest)
		if err != nil {
			break
		}
		rest = rest[n:]
		if e.typ != typeSeq {
			continue
		}

		proto, n, err := parseElement(e.data)
		if err != nil || proto.typ != typeUUID {
			continue
		}
		u, ok := uuidFromElement(proto)
		if !ok {
			continue
		}
		if v, ok := u.To16(); !ok || v != ProtoRFCOMM {
			continue
		}

		params := e.data[n:]
		for len(params) > 0 {
			p, pn, err := parseElement(params)
			if err != nil {
				break
			}
			params = params[pn:]
			if p.typ == typeUint && len(p.data) == 1 {
				return p.data[0], true
			}
		}
	}
	return 0, false
}
