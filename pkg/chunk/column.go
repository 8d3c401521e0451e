package chunk

import "encoding/binary"

// Column is a vertical slice of the world at chunk coordinates (X, Z),
// holding profile.SectionCount sections from profile.MinY upward. Nil
// entries in Sections are all-air sections.
type Column struct {
	X, Z     int32
	Sections []*Section

	profile Profile
}

// NewColumn returns an all-air column at the given chunk coordinates.
func NewColumn(cx, cz int32, p Profile) *Column {
	return &Column{
		X:        cx,
		Z:        cz,
		Sections: make([]*Section, p.SectionCount),
		profile:  p,
	}
}

// Profile returns the layout profile the column was built with.
func (c *Column) Profile() Profile { return c.profile }

// section returns the section containing world Y, or nil when y is outside
// the column or the section is all air.
func (c *Column) section(y int) *Section {
	sy := c.profile.SectionIndex(y)
	if sy < 0 {
		return nil
	}
	return c.Sections[sy]
}

// local converts world coordinates to section-local ones.
func local(x, y, z int) (int, int, int) {
	return x & 15, y & 15, z & 15
}

// BlockState returns the block state ID at world coordinates, 0 when y is
// out of range or the section is absent.
func (c *Column) BlockState(x, y, z int) int32 {
	lx, ly, lz := local(x, y, z)
	return c.section(y).BlockState(lx, ly, lz)
}

// SetBlockState stores a block state ID at world coordinates. A nil section
// is materialised on the first non-air write; writing air into an absent
// section is a no-op.
func (c *Column) SetBlockState(x, y, z int, state int32) error {
	sy := c.profile.SectionIndex(y)
	if sy < 0 {
		return &OutOfRangeError{Y: y, MinY: c.profile.MinY, MaxY: c.profile.MaxY()}
	}
	sec := c.Sections[sy]
	if sec == nil {
		if state == 0 {
			return nil
		}
		sec = NewSection(c.profile)
		c.Sections[sy] = sec
	}
	lx, ly, lz := local(x, y, z)
	sec.SetBlockState(lx, ly, lz, state)
	return nil
}

// Biome returns the biome ID at world coordinates, 0 when out of range or
// the section is absent.
func (c *Column) Biome(x, y, z int) int32 {
	lx, ly, lz := local(x, y, z)
	return c.section(y).Biome(lx, ly, lz)
}

// BlockLight returns the block light level at world coordinates, 0 when out
// of range or no light data is present.
func (c *Column) BlockLight(x, y, z int) byte {
	lx, ly, lz := local(x, y, z)
	return c.section(y).BlockLightAt(lx, ly, lz)
}

// SkyLight returns the sky light level at world coordinates, 15 when out of
// range or no light data is present.
func (c *Column) SkyLight(x, y, z int) byte {
	lx, ly, lz := local(x, y, z)
	return c.section(y).SkyLightAt(lx, ly, lz)
}

// ExportSectionStates serialises the block states of section sy as 4096
// little-endian uint32 values in linear index order. It returns nil when sy
// is out of range or the section is absent.
func (c *Column) ExportSectionStates(sy int) []byte {
	if sy < 0 || sy >= len(c.Sections) {
		return nil
	}
	sec := c.Sections[sy]
	if sec == nil {
		return nil
	}
	out := make([]byte, sectionVolume*4)
	sec.Blocks.Range(func(i int, v int32) bool {
		binary.LittleEndian.PutUint32(out[i*4:], uint32(v))
		return true
	})
	return out
}
