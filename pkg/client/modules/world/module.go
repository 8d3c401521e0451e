// Package world forwards world-related server packets into a block store:
// chunk loads and unloads, single and multi block updates, and chunk cache
// bookkeeping. It owns no networking; the host feeds it decoded wire
// packets.
package world

import (
	"errors"
	"sync"

	"github.com/go-mclib/data/pkg/data/packet_ids"
	"github.com/go-mclib/data/pkg/packets"
	jp "github.com/go-mclib/protocol/java_protocol"
	"github.com/go-mclib/protocol/nbt"
	"github.com/sirupsen/logrus"

	"github.com/firejoust/mcworld/pkg/chunk"
	store "github.com/firejoust/mcworld/pkg/world"
)

const ModuleName = "world"

// Module routes world packets into a store and fans block events out to
// registered callbacks.
type Module struct {
	store *store.Store
	log   *logrus.Logger

	mu           sync.RWMutex
	heightmaps   map[int64]nbt.Compound
	centerChunkX int32
	centerChunkZ int32
	viewDistance int32

	onChunkLoad   []func(x, z int32)
	onChunkUnload []func(x, z int32)
	onBlockUpdate []func(x, y, z int, stateID int32)
}

// New returns a module feeding the given store. The logger may be nil to
// discard diagnostics.
func New(s *store.Store, log *logrus.Logger) *Module {
	if log == nil {
		log = logrus.New()
		log.SetLevel(logrus.PanicLevel)
	}
	return &Module{
		store:        s,
		log:          log,
		heightmaps:   make(map[int64]nbt.Compound),
		viewDistance: 10,
	}
}

func (m *Module) Name() string { return ModuleName }

// Store returns the block store the module feeds.
func (m *Module) Store() *store.Store { return m.store }

// event registration

func (m *Module) OnChunkLoad(cb func(x, z int32))   { m.onChunkLoad = append(m.onChunkLoad, cb) }
func (m *Module) OnChunkUnload(cb func(x, z int32)) { m.onChunkUnload = append(m.onChunkUnload, cb) }
func (m *Module) OnBlockUpdate(cb func(x, y, z int, stateID int32)) {
	m.onBlockUpdate = append(m.onBlockUpdate, cb)
}

// Heightmaps returns the heightmap compound that arrived with the chunk at
// (cx, cz), or nil.
func (m *Module) Heightmaps(cx, cz int32) nbt.Compound {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.heightmaps[chunk.Key(cx, cz)]
}

// ChunkCacheCenter returns the last chunk cache center the server sent.
func (m *Module) ChunkCacheCenter() (int32, int32) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.centerChunkX, m.centerChunkZ
}

// ViewDistance returns the server-declared view distance.
func (m *Module) ViewDistance() int32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.viewDistance
}

// HandlePacket dispatches a world-related packet; others are ignored.
func (m *Module) HandlePacket(pkt *jp.WirePacket) {
	switch pkt.PacketID {
	case packet_ids.S2CLevelChunkWithLightID:
		m.handleChunkData(pkt)
	case packet_ids.S2CForgetLevelChunkID:
		m.handleUnloadChunk(pkt)
	case packet_ids.S2CBlockUpdateID:
		m.handleBlockUpdate(pkt)
	case packet_ids.S2CSectionBlocksUpdateID:
		m.handleSectionBlocksUpdate(pkt)
	case packet_ids.S2CSetChunkCacheCenterID:
		m.handleSetChunkCacheCenter(pkt)
	case packet_ids.S2CSetChunkCacheRadiusID:
		m.handleSetChunkCacheRadius(pkt)
	}
}

func (m *Module) handleChunkData(pkt *jp.WirePacket) {
	var d packets.S2CLevelChunkWithLight
	if err := pkt.ReadInto(&d); err != nil {
		m.log.Errorf("failed to read chunk packet: %v", err)
		return
	}

	cx, cz := int32(d.ChunkX), int32(d.ChunkZ)
	sections, heightmaps, err := splitChunkPayload([]byte(d.ChunkData))
	if err != nil {
		m.log.Errorf("failed to frame chunk payload at (%d, %d): %v", cx, cz, err)
		return
	}
	if err := m.store.LoadColumn(cx, cz, sections); err != nil {
		m.log.Errorf("failed to parse chunk column at (%d, %d): %v", cx, cz, err)
		return
	}

	m.mu.Lock()
	if heightmaps != nil {
		m.heightmaps[chunk.Key(cx, cz)] = heightmaps
	}
	m.mu.Unlock()

	for _, cb := range m.onChunkLoad {
		cb(cx, cz)
	}
}

func (m *Module) handleUnloadChunk(pkt *jp.WirePacket) {
	var d packets.S2CForgetLevelChunk
	if err := pkt.ReadInto(&d); err != nil {
		return
	}

	cx, cz := int32(d.ChunkX), int32(d.ChunkZ)
	m.store.UnloadColumn(cx, cz)
	m.mu.Lock()
	delete(m.heightmaps, chunk.Key(cx, cz))
	m.mu.Unlock()

	for _, cb := range m.onChunkUnload {
		cb(cx, cz)
	}
}

func (m *Module) handleBlockUpdate(pkt *jp.WirePacket) {
	var d packets.S2CBlockUpdate
	if err := pkt.ReadInto(&d); err != nil {
		return
	}

	x, y, z := int(d.Location.X), int(d.Location.Y), int(d.Location.Z)
	if err := m.store.SetBlockStateID(x, y, z, int32(d.BlockId)); err != nil {
		if !errors.Is(err, store.ErrNotLoaded) {
			m.log.Warnf("block update at (%d, %d, %d): %v", x, y, z, err)
		}
		return
	}

	for _, cb := range m.onBlockUpdate {
		cb(x, y, z, int32(d.BlockId))
	}
}

func (m *Module) handleSectionBlocksUpdate(pkt *jp.WirePacket) {
	var d packets.S2CSectionBlocksUpdate
	if err := pkt.ReadInto(&d); err != nil {
		return
	}

	sectionPos := int64(d.ChunkSectionPosition)
	for _, block := range d.Blocks {
		x, y, z, stateID := blockUpdateCoords(sectionPos, int64(block))
		if err := m.store.SetBlockStateID(x, y, z, stateID); err != nil {
			continue
		}
		for _, cb := range m.onBlockUpdate {
			cb(x, y, z, stateID)
		}
	}
}

func (m *Module) handleSetChunkCacheCenter(pkt *jp.WirePacket) {
	var d packets.S2CSetChunkCacheCenter
	if err := pkt.ReadInto(&d); err != nil {
		return
	}
	m.mu.Lock()
	m.centerChunkX = int32(d.ChunkX)
	m.centerChunkZ = int32(d.ChunkZ)
	m.mu.Unlock()
}

func (m *Module) handleSetChunkCacheRadius(pkt *jp.WirePacket) {
	var d packets.S2CSetChunkCacheRadius
	if err := pkt.ReadInto(&d); err != nil {
		return
	}
	m.mu.Lock()
	m.viewDistance = int32(d.ViewDistance)
	m.mu.Unlock()
}
