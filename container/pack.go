package container

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/bodgit/sokopack/level"
)

// Table holds the blob offset of each level header.
type Table []uint16

// Marshal encodes t using the byte order o.
func (t Table) Marshal(o binary.ByteOrder) []byte {
	b := make([]byte, len(t)<<1)
	for i, offset := range t {
		o.PutUint16(b[i<<1:], offset)
	}
	return b
}

// UnmarshalTable decodes a table previously encoded with byte order o.
func UnmarshalTable(b []byte, o binary.ByteOrder) (Table, error) {
	if len(b)&1 != 0 {
		return nil, fmt.Errorf("%w: odd length %d", ErrBadTable, len(b))
	}
	t := make(Table, len(b)>>1)
	for i := range t {
		t[i] = o.Uint16(b[i<<1:])
	}
	return t, nil
}

// Metadata describes a pack for downstream consumers.
type Metadata struct {
	// Levels is the number of levels
	Levels int `yaml:"levels"`
	// MaxPayloadSize is the largest payload of any level, excluding the
	// header
	MaxPayloadSize int `yaml:"max_payload_size"`
	// MaxLevelSize is the largest number of cells in any level, which
	// is the buffer size needed to hold a decoded level
	MaxLevelSize int `yaml:"max_level_size"`
	// BlobSize is the total size of the blob
	BlobSize int `yaml:"blob_size"`
}

// Builder accumulates encoded levels into a blob and offset table.
type Builder struct {
	blob  bytes.Buffer
	table Table
}

// NewBuilder returns an empty builder
func NewBuilder() *Builder {
	return new(Builder)
}

// Len returns the number of levels added so far
func (b *Builder) Len() int {
	return len(b.table)
}

// Size returns the size of the blob so far, which is also the offset
// the next level will be written at
func (b *Builder) Size() int {
	return b.blob.Len()
}

// Add encodes l and appends it.
func (b *Builder) Add(l *level.Level) error {
	record, err := Encode(l)
	if err != nil {
		return &LevelError{b.Len(), err}
	}
	return b.Append(record)
}

// Append appends a record previously returned by Encode. Records must be
// appended in level order.
func (b *Builder) Append(record []byte) error {
	var h Header
	if err := h.UnmarshalBinary(record); err != nil {
		return &LevelError{b.Len(), err}
	}
	if len(record) != HeaderSize+int(h.PayloadLen) {
		return &LevelError{b.Len(), fmt.Errorf("%w: record is %d bytes, header says %d", ErrTruncated, len(record), HeaderSize+int(h.PayloadLen))}
	}

	if b.blob.Len()+len(record) > MaxBlobSize {
		return &LevelError{b.Len(), fmt.Errorf("%w: %d + %d bytes", ErrCapacityExceeded, b.blob.Len(), len(record))}
	}

	b.table = append(b.table, uint16(b.blob.Len()))
	b.blob.Write(record)

	return nil
}

// Pack returns the accumulated pack. The builder should not be used
// afterwards.
func (b *Builder) Pack() *Pack {
	return &Pack{
		blob:  b.blob.Bytes(),
		table: b.table,
	}
}

// Build encodes levels, in order, into a new pack.
func Build(levels []*level.Level) (*Pack, error) {
	b := NewBuilder()
	for _, l := range levels {
		if err := b.Add(l); err != nil {
			return nil, err
		}
	}
	return b.Pack(), nil
}

// Pack is a read-only collection of packed levels.
type Pack struct {
	blob  []byte
	table Table
}

// Open returns a pack for an existing blob and table. Each table entry
// must point to a complete record within blob and entries must be in
// ascending order.
func Open(blob []byte, table Table) (*Pack, error) {
	if len(blob) > MaxBlobSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrCapacityExceeded, len(blob))
	}

	p := &Pack{
		blob:  blob,
		table: table,
	}

	for i, offset := range table {
		if i > 0 && offset < table[i-1] {
			return nil, &LevelError{i, fmt.Errorf("%w: offset %d before %d", ErrBadTable, offset, table[i-1])}
		}
		if _, err := p.Header(i); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Blob returns the concatenated level records
func (p *Pack) Blob() []byte { return p.blob }

// Table returns the offset table
func (p *Pack) Table() Table { return p.table }

// Len returns the number of levels in the pack
func (p *Pack) Len() int { return len(p.table) }

// Header returns the header of level i.
func (p *Pack) Header(i int) (Header, error) {
	if i < 0 || i >= len(p.table) {
		return Header{}, &LevelError{i, ErrIndexOutOfRange}
	}

	offset := int(p.table[i])
	if offset > len(p.blob) {
		return Header{}, &LevelError{i, fmt.Errorf("%w: offset %d beyond %d byte blob", ErrBadTable, offset, len(p.blob))}
	}

	var h Header
	if err := h.UnmarshalBinary(p.blob[offset:]); err != nil {
		return Header{}, &LevelError{i, err}
	}
	if offset+HeaderSize+int(h.PayloadLen) > len(p.blob) {
		return Header{}, &LevelError{i, fmt.Errorf("%w: payload runs past end of blob", ErrTruncated)}
	}

	return h, nil
}

// Level decodes level i.
func (p *Pack) Level(i int) (*level.Level, error) {
	if _, err := p.Header(i); err != nil {
		return nil, err
	}

	l, _, err := Decode(p.blob[p.table[i]:])
	if err != nil {
		return nil, &LevelError{i, err}
	}

	return l, nil
}

// Levels decodes every level in the pack.
func (p *Pack) Levels() ([]*level.Level, error) {
	levels := make([]*level.Level, p.Len())
	for i := range levels {
		l, err := p.Level(i)
		if err != nil {
			return nil, err
		}
		levels[i] = l
	}
	return levels, nil
}

// Metadata returns the capacity constants of the pack.
func (p *Pack) Metadata() (Metadata, error) {
	m := Metadata{
		Levels:   p.Len(),
		BlobSize: len(p.blob),
	}
	for i := range p.table {
		h, err := p.Header(i)
		if err != nil {
			return Metadata{}, err
		}
		if int(h.PayloadLen) > m.MaxPayloadSize {
			m.MaxPayloadSize = int(h.PayloadLen)
		}
		if h.Cells() > m.MaxLevelSize {
			m.MaxLevelSize = h.Cells()
		}
	}
	return m, nil
}
