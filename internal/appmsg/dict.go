package appmsg

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// TupleType identifies how a tuple value is encoded.
type TupleType uint8

const (
	TypeByteArray TupleType = 0
	TypeCString   TupleType = 1
	TypeUint      TupleType = 2
	TypeInt       TupleType = 3
)

func (t TupleType) String() string {
	switch t {
	case TypeByteArray:
		return "bytes"
	case TypeCString:
		return "cstring"
	case TypeUint:
		return "uint"
	case TypeInt:
		return "int"
	}
	return fmt.Sprintf("type(%d)", uint8(t))
}

// header sizes of the wire format
const (
	dictHeaderSize  = 1
	tupleHeaderSize = 4 + 1 + 2
)

var ErrTruncated = errors.New("appmsg: truncated dictionary")

// Tuple is a single key/value pair of a Dict.
type Tuple struct {
	Key   uint32
	Type  TupleType
	Value []byte
}

// Int32 reads an integer tuple as a signed 32-bit value. Unsigned tuples are
// reinterpreted; widths other than 1, 2 and 4 bytes report false.
func (t Tuple) Int32() (int32, bool) {
	if t.Type != TypeInt && t.Type != TypeUint {
		return 0, false
	}
	switch len(t.Value) {
	case 1:
		if t.Type == TypeInt {
			return int32(int8(t.Value[0])), true
		}
		return int32(t.Value[0]), true
	case 2:
		v := binary.LittleEndian.Uint16(t.Value)
		if t.Type == TypeInt {
			return int32(int16(v)), true
		}
		return int32(v), true
	case 4:
		return int32(binary.LittleEndian.Uint32(t.Value)), true
	}
	return 0, false
}

// CString reads a string tuple up to its first NUL.
func (t Tuple) CString() (string, bool) {
	if t.Type != TypeCString {
		return "", false
	}
	for i, b := range t.Value {
		if b == 0 {
			return string(t.Value[:i]), true
		}
	}
	return string(t.Value), true
}

// Dict is an ordered dictionary of tuples, the unit exchanged between the
// watch and its companion.
type Dict struct {
	tuples []Tuple
}

func (d *Dict) put(t Tuple) {
	for i := range d.tuples {
		if d.tuples[i].Key == t.Key {
			d.tuples[i] = t
			return
		}
	}
	d.tuples = append(d.tuples, t)
}

func (d *Dict) WriteUint8(key uint32, v uint8) {
	d.put(Tuple{Key: key, Type: TypeUint, Value: []byte{v}})
}

func (d *Dict) WriteInt32(key uint32, v int32) {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, uint32(v))
	d.put(Tuple{Key: key, Type: TypeInt, Value: b})
}

// WriteCString stores s with a terminating NUL.
func (d *Dict) WriteCString(key uint32, s string) {
	b := make([]byte, 0, len(s)+1)
	b = append(b, s...)
	b = append(b, 0)
	d.put(Tuple{Key: key, Type: TypeCString, Value: b})
}

// Find returns the tuple stored under key.
func (d Dict) Find(key uint32) (Tuple, bool) {
	for _, t := range d.tuples {
		if t.Key == key {
			return t, true
		}
	}
	return Tuple{}, false
}

func (d Dict) Len() int { return len(d.tuples) }

// Size is the encoded length of the dictionary in bytes.
func (d Dict) Size() int {
	n := dictHeaderSize
	for _, t := range d.tuples {
		n += tupleHeaderSize + len(t.Value)
	}
	return n
}

// Encode serialises the dictionary: a tuple count followed by each tuple as
// key (uint32 LE), type (uint8), length (uint16 LE) and value.
func (d Dict) Encode() ([]byte, error) {
	if len(d.tuples) > 0xff {
		return nil, fmt.Errorf("appmsg: too many tuples (%d)", len(d.tuples))
	}
	out := make([]byte, 0, d.Size())
	out = append(out, byte(len(d.tuples)))
	for _, t := range d.tuples {
		if len(t.Value) > 0xffff {
			return nil, fmt.Errorf("appmsg: tuple %d value too large", t.Key)
		}
		out = binary.LittleEndian.AppendUint32(out, t.Key)
		out = append(out, byte(t.Type))
		out = binary.LittleEndian.AppendUint16(out, uint16(len(t.Value)))
		out = append(out, t.Value...)
	}
	return out, nil
}

// Decode parses a dictionary produced by Encode.
func Decode(data []byte) (Dict, error) {
	if len(data) < dictHeaderSize {
		return Dict{}, ErrTruncated
	}
	count := int(data[0])
	rest := data[dictHeaderSize:]
	d := Dict{tuples: make([]Tuple, 0, count)}
	for i := 0; i < count; i++ {
		if len(rest) < tupleHeaderSize {
			return Dict{}, ErrTruncated
		}
		key := binary.LittleEndian.Uint32(rest[0:4])
		typ := TupleType(rest[4])
		n := int(binary.LittleEndian.Uint16(rest[5:7]))
		rest = rest[tupleHeaderSize:]
		if len(rest) < n {
			return Dict{}, ErrTruncated
		}
		if typ > TypeInt {
			return Dict{}, fmt.Errorf("appmsg: tuple %d has unknown %s", key, typ)
		}
		val := make([]byte, n)
		copy(val, rest[:n])
		d.tuples = append(d.tuples, Tuple{Key: key, Type: typ, Value: val})
		rest = rest[n:]
	}
	return d, nil
}
