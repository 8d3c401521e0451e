package chunk

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

// payloadWriter builds section-array payloads for tests.
type payloadWriter struct {
	bytes.Buffer
}

func (w *payloadWriter) writeVarInt(v int32) {
	u := uint32(v)
	for {
		b := byte(u & 0x7F)
		u >>= 7
		if u != 0 {
			b |= 0x80
		}
		w.WriteByte(b)
		if u == 0 {
			return
		}
	}
}

func (w *payloadWriter) writeShort(v int16) {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], uint16(v))
	w.Write(buf[:])
}

func (w *payloadWriter) writeLong(v uint64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	w.Write(buf[:])
}

// writeSingleContainer writes a single-value container.
func (w *payloadWriter) writeSingleContainer(v int32) {
	w.WriteByte(0)
	w.writeVarInt(v)
	w.writeVarInt(0)
}

// writeIndirectContainer writes an indirect container with every entry
// pointing at the given palette index.
func (w *payloadWriter) writeIndirectContainer(bits int, palette []int32, fill int, size int) {
	w.WriteByte(byte(bits))
	w.writeVarInt(int32(len(palette)))
	for _, p := range palette {
		w.writeVarInt(p)
	}
	perWord := 64 / bits
	words := (size + perWord - 1) / perWord
	w.writeVarInt(int32(words))

	var word uint64
	for e := 0; e < perWord; e++ {
		word |= uint64(fill) << (e * bits)
	}
	// The final word may address fewer entries; surplus high bits stay
	// zero either way because fill indices are small in these tests.
	for i := 0; i < words; i++ {
		w.writeLong(word)
	}
}

// writeUniformSection writes one section whose blocks and biomes are each a
// single value.
func (w *payloadWriter) writeUniformSection(solid int16, blockVal, biomeVal int32) {
	w.writeShort(solid)
	w.writeSingleContainer(blockVal)
	w.writeSingleContainer(biomeVal)
}

// uniformColumnPayload builds a full column of identical uniform sections.
func uniformColumnPayload(p Profile, solid int16, blockVal, biomeVal int32) []byte {
	var w payloadWriter
	for i := 0; i < p.SectionCount; i++ {
		w.writeUniformSection(solid, blockVal, biomeVal)
	}
	return w.Bytes()
}

func TestDecodeUniformColumn(t *testing.T) {
	p := DefaultProfile()
	col, err := DecodeColumn(0, 0, uniformColumnPayload(p, 1, 1, 1), p)
	if err != nil {
		t.Fatalf("DecodeColumn: %v", err)
	}

	if got := col.BlockState(5, 65, 5); got != 1 {
		t.Errorf("BlockState(5, 65, 5) = %d, want 1", got)
	}
	if got := col.Biome(5, 65, 5); got != 1 {
		t.Errorf("Biome(5, 65, 5) = %d, want 1", got)
	}
	if got := col.BlockState(5, -64, 5); got != 1 {
		t.Errorf("BlockState(5, -64, 5) = %d, want 1", got)
	}
	// Above the world: default air.
	if got := col.BlockState(5, p.MaxY(), 5); got != 0 {
		t.Errorf("BlockState above world = %d, want 0", got)
	}
}

func TestDecodeAllAirSectionsAreNil(t *testing.T) {
	p := DefaultProfile()
	col, err := DecodeColumn(3, -2, uniformColumnPayload(p, 0, 0, 0), p)
	if err != nil {
		t.Fatalf("DecodeColumn: %v", err)
	}

	for sy, sec := range col.Sections {
		if sec != nil {
			t.Errorf("section %d materialised for all-air payload", sy)
		}
	}
	if got := col.BlockState(8, 0, 8); got != 0 {
		t.Errorf("BlockState = %d, want 0", got)
	}
	if got := col.SkyLight(8, 0, 8); got != 15 {
		t.Errorf("SkyLight = %d, want 15", got)
	}
}

func TestDecodeIndirectSection(t *testing.T) {
	p := DefaultProfile()

	var w payloadWriter
	// First section: palette {air, stone}, every block stone, every biome
	// palette index 1.
	w.writeShort(4096)
	w.writeIndirectContainer(4, []int32{0, 1}, 1, sectionVolume)
	w.writeIndirectContainer(1, []int32{0, 39}, 1, biomeVolume)
	for i := 1; i < p.SectionCount; i++ {
		w.writeUniformSection(0, 0, 0)
	}

	col, err := DecodeColumn(0, 0, w.Bytes(), p)
	if err != nil {
		t.Fatalf("DecodeColumn: %v", err)
	}

	sec := col.Sections[0]
	if sec == nil {
		t.Fatal("section 0 is nil")
	}
	if sec.BlockCount != 4096 {
		t.Errorf("BlockCount = %d, want 4096", sec.BlockCount)
	}
	if got := col.BlockState(0, p.MinY, 0); got != 1 {
		t.Errorf("BlockState at bottom = %d, want 1", got)
	}
	if got := col.Biome(15, p.MinY+15, 15); got != 39 {
		t.Errorf("Biome = %d, want 39", got)
	}

	// The decoded entries must match the sequence that produced the
	// buffer.
	sec.Blocks.Range(func(i int, v int32) bool {
		if v != 1 {
			t.Fatalf("block entry %d = %d, want 1", i, v)
		}
		return true
	})
}

func TestDecodeBelowMinimumWidthClampsUp(t *testing.T) {
	p := DefaultProfile()

	var w payloadWriter
	w.writeShort(4096)
	// Wire width 2 for blocks is stored at the 4-bit minimum; the data
	// words are packed at that effective width.
	w.WriteByte(2)
	w.writeVarInt(3)
	for _, v := range []int32{5, 6, 7} {
		w.writeVarInt(v)
	}
	w.writeVarInt(256)
	for i := 0; i < 256; i++ {
		w.writeLong(0x2222222222222222)
	}
	w.writeSingleContainer(0)
	for i := 1; i < p.SectionCount; i++ {
		w.writeUniformSection(0, 0, 0)
	}

	col, err := DecodeColumn(0, 0, w.Bytes(), p)
	if err != nil {
		t.Fatalf("DecodeColumn: %v", err)
	}
	if got := col.Sections[0].Blocks.BitsPerEntry(); got != 4 {
		t.Errorf("BitsPerEntry() = %d, want 4", got)
	}
	if got := col.BlockState(3, p.MinY, 3); got != 7 {
		t.Errorf("BlockState = %d, want 7", got)
	}
}

func TestDecodeTruncated(t *testing.T) {
	p := DefaultProfile()
	full := uniformColumnPayload(p, 1, 1, 1)

	for _, cut := range []int{0, 1, 3, len(full) / 2, len(full) - 1} {
		_, err := DecodeColumn(0, 0, full[:cut], p)
		if err == nil {
			t.Fatalf("DecodeColumn succeeded on %d-byte prefix", cut)
		}
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Fatalf("error %v is not a *ParseError", err)
		}
		if pe.Offset > cut {
			t.Errorf("ParseError offset %d beyond payload length %d", pe.Offset, cut)
		}
	}
}

func TestDecodeOversizedBitsPerEntry(t *testing.T) {
	p := DefaultProfile()

	var w payloadWriter
	w.writeShort(0)
	w.WriteByte(33)

	_, err := DecodeColumn(0, 0, w.Bytes(), p)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("DecodeColumn = %v, want *ParseError", err)
	}
}

func TestDecodeSingleValueWithData(t *testing.T) {
	p := DefaultProfile()

	var w payloadWriter
	w.writeShort(0)
	w.WriteByte(0)
	w.writeVarInt(0)
	w.writeVarInt(1) // data words after a single-value palette
	w.writeLong(0)

	_, err := DecodeColumn(0, 0, w.Bytes(), p)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("DecodeColumn = %v, want *ParseError", err)
	}
}

func TestDecodeWrongDataLength(t *testing.T) {
	p := DefaultProfile()

	var w payloadWriter
	w.writeShort(1)
	w.WriteByte(4)
	w.writeVarInt(2)
	w.writeVarInt(0)
	w.writeVarInt(1)
	w.writeVarInt(255) // 4-bit section data must be 256 words
	for i := 0; i < 255; i++ {
		w.writeLong(0)
	}

	_, err := DecodeColumn(0, 0, w.Bytes(), p)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("DecodeColumn = %v, want *ParseError", err)
	}
}
