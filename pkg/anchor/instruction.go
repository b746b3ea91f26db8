package anchor

import (
	"encoding/binary"
	"fmt"
)

// InstructionBuilder assembles Anchor instruction data: the 8-byte
// discriminator followed by Borsh-encoded arguments in declaration order.
// Methods chain; Build returns the finished payload.
type InstructionBuilder struct {
	data []byte
}

// NewInstructionBuilder starts a payload for the named instruction
func NewInstructionBuilder(instructionName string) *InstructionBuilder {
	d := InstructionDiscriminator(instructionName)
	return &InstructionBuilder{data: d.Bytes()}
}

// AddU8 appends a u8 argument
func (ib *InstructionBuilder) AddU8(v uint8) *InstructionBuilder {
	ib.data = append(ib.data, v)
	return ib
}

// AddU32 appends a little-endian u32 argument
func (ib *InstructionBuilder) AddU32(v uint32) *InstructionBuilder {
	ib.data = binary.LittleEndian.AppendUint32(ib.data, v)
	return ib
}

// AddU64 appends a little-endian u64 argument
func (ib *InstructionBuilder) AddU64(v uint64) *InstructionBuilder {
	ib.data = binary.LittleEndian.AppendUint64(ib.data, v)
	return ib
}

// AddBool appends a boolean argument as a single byte
func (ib *InstructionBuilder) AddBool(v bool) *InstructionBuilder {
	if v {
		return ib.AddU8(1)
	}
	return ib.AddU8(0)
}

// AddString appends a u32-length-prefixed UTF-8 string argument
func (ib *InstructionBuilder) AddString(s string) *InstructionBuilder {
	ib.AddU32(uint32(len(s)))
	ib.data = append(ib.data, s...)
	return ib
}

// AddBytes appends raw bytes without a length prefix, for fixed-size
// arguments like pubkeys
func (ib *InstructionBuilder) AddBytes(b []byte) *InstructionBuilder {
	ib.data = append(ib.data, b...)
	return ib
}

// Build returns the assembled instruction data
func (ib *InstructionBuilder) Build() []byte {
	return ib.data
}

// InstructionDecoder reads Anchor instruction data back out, argument by
// argument, after the leading discriminator.
type InstructionDecoder struct {
	data   []byte
	offset int
}

// NewInstructionDecoder wraps data for decoding. The read cursor starts
// just past the discriminator.
func NewInstructionDecoder(data []byte) *InstructionDecoder {
	return &InstructionDecoder{data: data, offset: 8}
}

// Discriminator returns the payload's leading discriminator
func (id *InstructionDecoder) Discriminator() (Discriminator, error) {
	return DiscriminatorFromBytes(id.data)
}

func (id *InstructionDecoder) take(n int, what string) ([]byte, error) {
	if id.offset+n > len(id.data) {
		return nil, fmt.Errorf("not enough data to read %s", what)
	}
	b := id.data[id.offset : id.offset+n]
	id.offset += n
	return b, nil
}

// ReadU8 reads a u8 argument
func (id *InstructionDecoder) ReadU8() (uint8, error) {
	b, err := id.take(1, "u8")
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadU32 reads a little-endian u32 argument
func (id *InstructionDecoder) ReadU32() (uint32, error) {
	b, err := id.take(4, "u32")
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadU64 reads a little-endian u64 argument
func (id *InstructionDecoder) ReadU64() (uint64, error) {
	b, err := id.take(8, "u64")
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ReadBool reads a boolean argument
func (id *InstructionDecoder) ReadBool() (bool, error) {
	b, err := id.take(1, "bool")
	if err != nil {
		return false, err
	}
	return b[0] != 0, nil
}

// ReadString reads a u32-length-prefixed string argument
func (id *InstructionDecoder) ReadString() (string, error) {
	length, err := id.ReadU32()
	if err != nil {
		return "", fmt.Errorf("not enough data to read string length")
	}
	b, err := id.take(int(length), "string")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadBytes reads n raw bytes
func (id *InstructionDecoder) ReadBytes(n int) ([]byte, error) {
	b, err := id.take(n, "bytes")
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}
