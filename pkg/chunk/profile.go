package chunk

// Profile holds the version-dependent layout parameters of a chunk column.
// The zero value is not useful; construct with DefaultProfile and override
// fields as needed for other protocol versions.
type Profile struct {
	// MinY is the lowest block Y coordinate of the world.
	MinY int
	// SectionCount is the number of 16x16x16 sections in a column.
	SectionCount int

	// Block state container widths: indirect palettes use
	// [BlockMinBits, BlockMaxBits] bits per entry, anything wider
	// stores global state IDs directly at BlockDirectBits.
	BlockMinBits    int
	BlockMaxBits    int
	BlockDirectBits int

	// Biome container widths, same scheme at 4x4x4 resolution.
	BiomeMinBits    int
	BiomeMaxBits    int
	BiomeDirectBits int
}

// DefaultProfile returns the layout for Minecraft 1.21.1:
// Y -64 to 319 in 24 sections, block palettes 4-8 bits indirect / 15 direct,
// biome palettes 1-3 bits indirect / 6 direct.
func DefaultProfile() Profile {
	return Profile{
		MinY:            -64,
		SectionCount:    24,
		BlockMinBits:    4,
		BlockMaxBits:    8,
		BlockDirectBits: 15,
		BiomeMinBits:    1,
		BiomeMaxBits:    3,
		BiomeDirectBits: 6,
	}
}

// MaxY returns the exclusive upper bound of the world's block Y range.
func (p Profile) MaxY() int {
	return p.MinY + p.SectionCount*16
}

// SectionIndex returns the section index holding the given block Y, or -1
// when y falls outside the column's vertical range.
func (p Profile) SectionIndex(y int) int {
	sy := (y - p.MinY) >> 4
	if sy < 0 || sy >= p.SectionCount {
		return -1
	}
	return sy
}

func (p Profile) blockConfig() containerConfig {
	return containerConfig{
		size:       sectionVolume,
		minBits:    p.BlockMinBits,
		maxBits:    p.BlockMaxBits,
		directBits: p.BlockDirectBits,
	}
}

func (p Profile) biomeConfig() containerConfig {
	return containerConfig{
		size:       biomeVolume,
		minBits:    p.BiomeMinBits,
		maxBits:    p.BiomeMaxBits,
		directBits: p.BiomeDirectBits,
	}
}
