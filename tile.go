package tilegl

const (
	// TileExtent is the number of integer units spanning one tile's local
	// coordinate space. Bucket geometry is expressed in these units.
	TileExtent = 8192

	// TileSize is the on-screen size of one tile in pixels at integer zoom.
	TileSize = 512
)

// OverscaledTileID addresses one tile in the pyramid. Z/X/Y are the
// canonical coordinates; OverscaledZ may exceed Z when a source tile is
// reused at higher zoom levels.
type OverscaledTileID struct {
	Z           uint8
	X           uint32
	Y           uint32
	OverscaledZ uint8
}

// Key packs the id into a single comparable value usable as a map key.
func (id OverscaledTileID) Key() uint64 {
	return uint64(id.OverscaledZ)<<56 | uint64(id.Z)<<48 | uint64(id.X)<<24 | uint64(id.Y)
}

// Tile holds the per-layer symbol buckets of one loaded map tile.
type Tile struct {
	ID      OverscaledTileID
	buckets map[string]*SymbolBucket
}

func NewTile(id OverscaledTileID) *Tile {
	return &Tile{
		ID:      id,
		buckets: map[string]*SymbolBucket{},
	}
}

func (t *Tile) SetBucket(layerID string, bucket *SymbolBucket) {
	t.buckets[layerID] = bucket
}

// Bucket returns the symbol bucket for the given layer, if the tile has one.
func (t *Tile) Bucket(layerID string) (*SymbolBucket, bool) {
	b, ok := t.buckets[layerID]
	return b, ok
}

// TileSource is the tile-cache collaborator. A tile id with no loaded
// tile is not an error; callers simply skip it.
type TileSource interface {
	GetTile(id OverscaledTileID) (*Tile, bool)
}

// MemoryTileSource is a map-backed TileSource for tests and the viewer.
type MemoryTileSource struct {
	tiles map[uint64]*Tile
}

func NewMemoryTileSource() *MemoryTileSource {
	return &MemoryTileSource{tiles: map[uint64]*Tile{}}
}

func (s *MemoryTileSource) AddTile(tile *Tile) {
	s.tiles[tile.ID.Key()] = tile
}

func (s *MemoryTileSource) GetTile(id OverscaledTileID) (*Tile, bool) {
	t, ok := s.tiles[id.Key()]
	return t, ok
}
