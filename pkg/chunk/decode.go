package chunk

import (
	"encoding/binary"
	"fmt"
)

// maxBitsPerEntry bounds the bits-per-entry byte a payload may carry;
// anything wider is rejected as malformed.
const maxBitsPerEntry = 32

// DecodeColumn decodes the section-array payload of a chunk data packet
// into a column. The payload is the concatenation of p.SectionCount
// sections in ascending order; each section is a big-endian int16 non-air
// block count followed by a block state container and a biome container.
//
// All-air sections are kept as nil entries. Any truncation or malformed
// palette fails with a *ParseError carrying the byte offset; no partial
// column is returned.
func DecodeColumn(cx, cz int32, data []byte, p Profile) (*Column, error) {
	col := NewColumn(cx, cz, p)
	r := &payloadReader{data: data}

	for sy := 0; sy < p.SectionCount; sy++ {
		sec, err := decodeSection(r, p)
		if err != nil {
			return nil, err
		}
		col.Sections[sy] = sec
	}
	return col, nil
}

// decodeSection decodes one section, returning nil for an all-air one.
func decodeSection(r *payloadReader, p Profile) (*Section, error) {
	blockCount, err := r.readShort()
	if err != nil {
		return nil, err
	}

	blocks, err := decodeContainer(r, p.blockConfig())
	if err != nil {
		return nil, err
	}
	biomes, err := decodeContainer(r, p.biomeConfig())
	if err != nil {
		return nil, err
	}

	// An all-air section with uniform biome 0 reads identically to an
	// absent one, so it is not materialised.
	if blockCount == 0 && blocks.BitsPerEntry() == 0 && blocks.single == 0 &&
		biomes.BitsPerEntry() == 0 && biomes.single == 0 {
		return nil, nil
	}

	return &Section{
		Blocks:     blocks,
		Biomes:     biomes,
		BlockCount: blockCount,
	}, nil
}

// decodeContainer decodes a paletted container: a bits-per-entry byte, the
// palette for the single-value and indirect forms, and the packed data
// words.
func decodeContainer(r *payloadReader, cfg containerConfig) (*PalettedContainer, error) {
	bpe, err := r.readByte()
	if err != nil {
		return nil, err
	}
	if int(bpe) > maxBitsPerEntry {
		return nil, r.errorf("bits per entry %d out of range", bpe)
	}

	c := &PalettedContainer{cfg: cfg}

	switch {
	case bpe == 0:
		v, err := r.readVarInt()
		if err != nil {
			return nil, err
		}
		c.single = v

		dataLen, err := r.readVarInt()
		if err != nil {
			return nil, err
		}
		if dataLen != 0 {
			return nil, r.errorf("single-value container with %d data words", dataLen)
		}
		return c, nil

	case int(bpe) <= cfg.maxBits:
		// Indirect palette. Widths below the minimum are stored at the
		// minimum.
		bits := int(bpe)
		if bits < cfg.minBits {
			bits = cfg.minBits
		}
		c.bitsPerEntry = bits

		paletteLen, err := r.readVarInt()
		if err != nil {
			return nil, err
		}
		if paletteLen <= 0 || int(paletteLen) > 1<<bits {
			return nil, r.errorf("palette length %d invalid for %d bits", paletteLen, bits)
		}
		c.palette = make([]int32, paletteLen)
		for i := range c.palette {
			if c.palette[i], err = r.readVarInt(); err != nil {
				return nil, err
			}
		}

	default:
		// Direct: the wire width is authoritative; compliant encoders use
		// cfg.directBits.
		c.bitsPerEntry = int(bpe)
	}

	dataLen, err := r.readVarInt()
	if err != nil {
		return nil, err
	}
	if want := packedLen(cfg.size, c.bitsPerEntry); int(dataLen) != want {
		return nil, r.errorf("data length %d, want %d words at %d bits", dataLen, want, c.bitsPerEntry)
	}
	c.data = make([]uint64, dataLen)
	for i := range c.data {
		w, err := r.readLong()
		if err != nil {
			return nil, err
		}
		c.data[i] = w
	}
	return c, nil
}

// payloadReader is a cursor over a chunk payload. Every read failure is a
// *ParseError positioned at the current offset.
type payloadReader struct {
	data   []byte
	offset int
}

func (r *payloadReader) errorf(format string, args ...any) error {
	return &ParseError{Offset: r.offset, Msg: fmt.Sprintf(format, args...)}
}

func (r *payloadReader) readByte() (byte, error) {
	if r.offset >= len(r.data) {
		return 0, r.errorf("unexpected end of payload")
	}
	b := r.data[r.offset]
	r.offset++
	return b, nil
}

func (r *payloadReader) readShort() (int16, error) {
	if r.offset+2 > len(r.data) {
		return 0, r.errorf("unexpected end of payload")
	}
	v := int16(binary.BigEndian.Uint16(r.data[r.offset:]))
	r.offset += 2
	return v, nil
}

func (r *payloadReader) readLong() (uint64, error) {
	if r.offset+8 > len(r.data) {
		return 0, r.errorf("unexpected end of payload")
	}
	v := binary.BigEndian.Uint64(r.data[r.offset:])
	r.offset += 8
	return v, nil
}

// readVarInt reads an unsigned LEB128 value of at most 5 bytes.
func (r *payloadReader) readVarInt() (int32, error) {
	var result int32
	var shift uint
	for {
		if r.offset >= len(r.data) {
			return 0, r.errorf("unexpected end of payload")
		}
		b := r.data[r.offset]
		r.offset++
		result |= int32(b&0x7F) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
		if shift >= 32 {
			return 0, r.errorf("varint too long")
		}
	}
}
