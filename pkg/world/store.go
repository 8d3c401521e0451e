// Package world implements an in-memory store of chunk columns for a
// Java-edition client or proxy: network chunk ingestion, block and biome
// queries, section export and raycasting.
package world

import (
	"errors"
	"sync"

	"golang.org/x/exp/slices"

	"github.com/firejoust/mcworld/pkg/chunk"
)

// ErrNotLoaded is returned by writes targeting a chunk column that is not
// loaded.
var ErrNotLoaded = errors.New("chunk column not loaded")

// BlockInfo bundles everything known about a single block position.
type BlockInfo struct {
	StateID    int32
	BlockLight byte
	SkyLight   byte
	BiomeID    int32
}

// Store holds the loaded chunk columns of one world. It is safe for
// concurrent use: the column map and each column carry their own
// readers-writer lock, and payload parsing happens outside both.
type Store struct {
	mu      sync.RWMutex
	columns map[int64]*columnHandle
	profile chunk.Profile
}

// columnHandle wraps a column with its lock. The handle stays in the map
// across reloads of the same chunk; only the column pointer is swapped.
type columnHandle struct {
	mu  sync.RWMutex
	col *chunk.Column
}

// New returns an empty store with the default 1.21.1 profile.
func New() *Store {
	return NewWithProfile(chunk.DefaultProfile())
}

// NewWithProfile returns an empty store with a custom layout profile.
func NewWithProfile(p chunk.Profile) *Store {
	return &Store{
		columns: make(map[int64]*columnHandle),
		profile: p,
	}
}

// Profile returns the layout profile the store was built with.
func (s *Store) Profile() chunk.Profile { return s.profile }

// LoadColumn decodes a section-array payload and publishes it at (cx, cz),
// replacing any previous column there. On a decode error the previous
// column is left untouched. Parsing runs without holding any lock.
func (s *Store) LoadColumn(cx, cz int32, data []byte) error {
	col, err := chunk.DecodeColumn(cx, cz, data, s.profile)
	if err != nil {
		return err
	}

	key := chunk.Key(cx, cz)
	s.mu.Lock()
	h, ok := s.columns[key]
	if !ok {
		s.columns[key] = &columnHandle{col: col}
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	h.mu.Lock()
	h.col = col
	h.mu.Unlock()
	return nil
}

// UnloadColumn removes the column at (cx, cz) if present.
func (s *Store) UnloadColumn(cx, cz int32) {
	s.mu.Lock()
	delete(s.columns, chunk.Key(cx, cz))
	s.mu.Unlock()
}

// IsLoaded reports whether a column is loaded at (cx, cz).
func (s *Store) IsLoaded(cx, cz int32) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.columns[chunk.Key(cx, cz)]
	return ok
}

// LoadedChunks returns a snapshot of the loaded chunk coordinates, ordered
// by x then z.
func (s *Store) LoadedChunks() [][2]int32 {
	s.mu.RLock()
	out := make([][2]int32, 0, len(s.columns))
	for key := range s.columns {
		out = append(out, [2]int32{int32(key >> 32), int32(key)})
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b [2]int32) int {
		if a[0] != b[0] {
			return int(a[0]) - int(b[0])
		}
		return int(a[1]) - int(b[1])
	})
	return out
}

// handle returns the column handle at (cx, cz), or nil.
func (s *Store) handle(cx, cz int32) *columnHandle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.columns[chunk.Key(cx, cz)]
}

// handleAt returns the handle for the column containing world (x, z).
func (s *Store) handleAt(x, z int) *columnHandle {
	cx, cz := chunk.ChunkPos(x, z)
	return s.handle(cx, cz)
}

// Column returns the loaded column at (cx, cz), or nil. The column is
// shared with the store; callers that mutate it while other goroutines use
// the store must provide their own synchronisation.
func (s *Store) Column(cx, cz int32) *chunk.Column {
	h := s.handle(cx, cz)
	if h == nil {
		return nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.col
}

// BlockStateID returns the block state ID at world coordinates, 0 when the
// column is not loaded or y is outside the vertical range.
func (s *Store) BlockStateID(x, y, z int) int32 {
	h := s.handleAt(x, z)
	if h == nil {
		return 0
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.col.BlockState(x, y, z)
}

// SetBlockStateID stores a block state ID at world coordinates. It fails
// with ErrNotLoaded when the column is absent and with *chunk.
// OutOfRangeError when y is outside the vertical range.
func (s *Store) SetBlockStateID(x, y, z int, state int32) error {
	h := s.handleAt(x, z)
	if h == nil {
		return ErrNotLoaded
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.col.SetBlockState(x, y, z, state)
}

// BiomeID returns the biome ID at world coordinates, 0 when not loaded.
func (s *Store) BiomeID(x, y, z int) int32 {
	h := s.handleAt(x, z)
	if h == nil {
		return 0
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.col.Biome(x, y, z)
}

// BlockLight returns the block light level at world coordinates, 0 when
// not loaded or no light data is present.
func (s *Store) BlockLight(x, y, z int) byte {
	h := s.handleAt(x, z)
	if h == nil {
		return 0
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.col.BlockLight(x, y, z)
}

// SkyLight returns the sky light level at world coordinates, 15 when not
// loaded or no light data is present.
func (s *Store) SkyLight(x, y, z int) byte {
	h := s.handleAt(x, z)
	if h == nil {
		return 15
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.col.SkyLight(x, y, z)
}

// Block returns the state, light and biome at world coordinates, or nil
// when the column is not loaded.
func (s *Store) Block(x, y, z int) *BlockInfo {
	h := s.handleAt(x, z)
	if h == nil {
		return nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return &BlockInfo{
		StateID:    h.col.BlockState(x, y, z),
		BlockLight: h.col.BlockLight(x, y, z),
		SkyLight:   h.col.SkyLight(x, y, z),
		BiomeID:    h.col.Biome(x, y, z),
	}
}

// ExportSectionStates serialises the block states of section sy of the
// column at (cx, cz) as 4096 little-endian uint32 values. It returns nil
// when the column or section is not loaded or sy is out of range.
func (s *Store) ExportSectionStates(cx, cz int32, sy int) []byte {
	h := s.handle(cx, cz)
	if h == nil {
		return nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.col.ExportSectionStates(sy)
}
