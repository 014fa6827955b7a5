package hazard

// TileGrid is the read-only tile capability the climb validator queries.
// Implementations must not mutate anything when queried; any host grid
// representation (2-D slice, sparse map) can satisfy it.
type TileGrid interface {
	// IsTileStandable reports whether an entity can occupy the cell.
	IsTileStandable(x, y int) bool
	// IsTileSolid reports whether the cell blocks movement.
	IsTileSolid(x, y int) bool
	// GetTileType returns the host's numeric tile code for the cell.
	GetTileType(x, y int) int
}
