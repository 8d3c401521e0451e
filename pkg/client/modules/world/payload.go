package world

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-mclib/protocol/nbt"
)

// splitChunkPayload frames the Data field of a chunk data packet: a
// network-NBT heightmaps compound (nameless root since 1.20.2) followed by
// a VarInt-prefixed section array. It returns the section bytes and the
// heightmaps.
func splitChunkPayload(data []byte) ([]byte, nbt.Compound, error) {
	br := bytes.NewReader(data)
	tag, _, err := nbt.NewReaderFrom(br).ReadTag(true)
	if err != nil {
		return nil, nil, fmt.Errorf("heightmaps NBT: %w", err)
	}
	heightmaps, _ := tag.(nbt.Compound)

	offset := len(data) - br.Len()
	size, n, err := readVarInt(data[offset:])
	if err != nil {
		return nil, nil, fmt.Errorf("section array size: %w", err)
	}
	offset += n
	if size < 0 || offset+int(size) > len(data) {
		return nil, nil, fmt.Errorf("section array size %d exceeds payload", size)
	}

	// Block entity records may follow the section array; they are not part
	// of the block store.
	return data[offset : offset+int(size)], heightmaps, nil
}

// readVarInt decodes an unsigned LEB128 value from the head of buf,
// returning the value and the number of bytes consumed.
func readVarInt(buf []byte) (int32, int, error) {
	var result int32
	var shift uint
	for i := 0; i < len(buf); i++ {
		b := buf[i]
		result |= int32(b&0x7F) << shift
		if b&0x80 == 0 {
			return result, i + 1, nil
		}
		shift += 7
		if shift >= 32 {
			return 0, 0, errors.New("varint too long")
		}
	}
	return 0, 0, io.ErrUnexpectedEOF
}
