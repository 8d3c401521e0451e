package world

import "github.com/firejoust/mcworld/pkg/chunk"

// blockUpdateCoords resolves one record of a section blocks update packet
// to absolute world coordinates. The packet's section Y is itself absolute
// (negative below Y 0), so no world-floor offset is applied here; the
// store only ever sees world coordinates.
func blockUpdateCoords(sectionPos, entry int64) (x, y, z int, stateID int32) {
	sectionX, sectionY, sectionZ := chunk.DecodeSectionPosition(sectionPos)
	stateID, localX, localY, localZ := chunk.DecodeBlockEntry(entry)
	x = int(sectionX)*16 + localX
	y = int(sectionY)*16 + localY
	z = int(sectionZ)*16 + localZ
	return x, y, z, stateID
}
