package jit

import (
	"encoding/binary"
)

// buffer accumulates the bytes of a single instruction onto a caller-provided slice.
type buffer struct {
	b []byte
}

func (b *buffer) Byte(v byte) {
	b.b = append(b.b, v)
}

func (b *buffer) Byte2(v1, v2 byte) {
	b.b = append(b.b, v1, v2)
}

func (b *buffer) Int8(v int8) {
	b.Byte(byte(v))
}

func (b *buffer) Int32(v int32) {
	b.b = binary.LittleEndian.AppendUint32(b.b, uint32(v))
}
