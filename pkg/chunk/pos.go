package chunk

// ChunkPos returns the chunk coordinates containing the given world block
// coordinates.
func ChunkPos(x, z int) (int32, int32) {
	return int32(x >> 4), int32(z >> 4)
}

// Key packs chunk coordinates into a single map key.
func Key(cx, cz int32) int64 {
	return int64(cx)<<32 | int64(uint32(cz))
}

// DecodeSectionPosition unpacks the section position field of a section
// blocks update packet: x and z are 22-bit signed, y is 20-bit signed.
func DecodeSectionPosition(v int64) (x, y, z int32) {
	x = int32(v >> 42)
	z = int32(v << 22 >> 42)
	y = int32(v << 44 >> 44)
	return x, y, z
}

// DecodeBlockEntry unpacks one block record of a section blocks update
// packet: the state ID in the high bits over packed 4-bit local
// coordinates.
func DecodeBlockEntry(v int64) (state int32, x, y, z int) {
	state = int32(v >> 12)
	x = int(v >> 8 & 0xF)
	z = int(v >> 4 & 0xF)
	y = int(v & 0xF)
	return state, x, y, z
}
