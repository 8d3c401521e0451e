package chunk

import "testing"

func TestNilSectionDefaults(t *testing.T) {
	var s *Section

	if got := s.BlockState(0, 0, 0); got != 0 {
		t.Errorf("BlockState = %d, want 0", got)
	}
	if got := s.Biome(15, 15, 15); got != 0 {
		t.Errorf("Biome = %d, want 0", got)
	}
	if got := s.BlockLightAt(8, 8, 8); got != 0 {
		t.Errorf("BlockLightAt = %d, want 0", got)
	}
	if got := s.SkyLightAt(8, 8, 8); got != 15 {
		t.Errorf("SkyLightAt = %d, want 15", got)
	}
}

func TestSectionBlockCount(t *testing.T) {
	s := NewSection(DefaultProfile())

	s.SetBlockState(0, 0, 0, 1)
	s.SetBlockState(1, 0, 0, 2)
	if s.BlockCount != 2 {
		t.Fatalf("BlockCount = %d, want 2", s.BlockCount)
	}

	// Replacing solid with solid leaves the count unchanged.
	s.SetBlockState(0, 0, 0, 3)
	if s.BlockCount != 2 {
		t.Fatalf("BlockCount = %d after replace, want 2", s.BlockCount)
	}

	// Breaking a block decrements, breaking air does not.
	s.SetBlockState(0, 0, 0, 0)
	s.SetBlockState(5, 5, 5, 0)
	if s.BlockCount != 1 {
		t.Fatalf("BlockCount = %d after removal, want 1", s.BlockCount)
	}
}

func TestSectionLight(t *testing.T) {
	s := NewSection(DefaultProfile())

	// Defaults before any light data arrives.
	if got := s.BlockLightAt(3, 4, 5); got != 0 {
		t.Errorf("BlockLightAt = %d, want 0", got)
	}
	if got := s.SkyLightAt(3, 4, 5); got != 15 {
		t.Errorf("SkyLightAt = %d, want 15", got)
	}

	s.SetBlockLight(3, 4, 5, 13)
	if got := s.BlockLightAt(3, 4, 5); got != 13 {
		t.Errorf("BlockLightAt = %d, want 13", got)
	}
	// Neighbouring nibble in the same byte stays untouched.
	if got := s.BlockLightAt(2, 4, 5); got != 0 {
		t.Errorf("BlockLightAt neighbour = %d, want 0", got)
	}

	// Materialising sky light keeps the full-light default elsewhere.
	s.SetSkyLight(0, 0, 0, 2)
	if got := s.SkyLightAt(0, 0, 0); got != 2 {
		t.Errorf("SkyLightAt = %d, want 2", got)
	}
	if got := s.SkyLightAt(15, 15, 15); got != 15 {
		t.Errorf("SkyLightAt elsewhere = %d, want 15", got)
	}
}

func TestBlockIndexOrder(t *testing.T) {
	// lx varies fastest, then lz, then ly.
	if got := blockIndex(1, 0, 0); got != 1 {
		t.Errorf("blockIndex(1,0,0) = %d, want 1", got)
	}
	if got := blockIndex(0, 0, 1); got != 16 {
		t.Errorf("blockIndex(0,0,1) = %d, want 16", got)
	}
	if got := blockIndex(0, 1, 0); got != 256 {
		t.Errorf("blockIndex(0,1,0) = %d, want 256", got)
	}
	if got := blockIndex(15, 15, 15); got != 4095 {
		t.Errorf("blockIndex(15,15,15) = %d, want 4095", got)
	}

	if got := biomeIndex(1, 0, 0); got != 1 {
		t.Errorf("biomeIndex(1,0,0) = %d, want 1", got)
	}
	if got := biomeIndex(0, 1, 0); got != 16 {
		t.Errorf("biomeIndex(0,1,0) = %d, want 16", got)
	}
	if got := biomeIndex(3, 3, 3); got != 63 {
		t.Errorf("biomeIndex(3,3,3) = %d, want 63", got)
	}
}
