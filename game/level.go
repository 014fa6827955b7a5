package game

import (
	"fmt"
	"strings"
)

// Level is a rectangular side-view tile grid. It satisfies hazard.TileGrid,
// so the climb validator can query it without knowing the concrete type.
type Level struct {
	Name        string
	W, H        int
	tiles       [][]TileType
	PlayerSpawn PointI
	GuardSpawns []PointI
}

// Level text format, one byte per cell:
//
//	.  empty      #  brick (diggable)   @  stone (undiggable)
//	H  ladder     -  rail
//	P  player spawn (empty cell)        G  guard spawn (empty cell)
const (
	chEmpty  = '.'
	chBrick  = '#'
	chStone  = '@'
	chLadder = 'H'
	chRail   = '-'
	chPlayer = 'P'
	chGuard  = 'G'
)

// ParseLevel builds a level from its text rows. Rows must be non-empty and
// rectangular; exactly one player spawn is required.
func ParseLevel(name string, rows []string) (*Level, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("level %q: no rows", name)
	}
	w := len(rows[0])
	if w == 0 {
		return nil, fmt.Errorf("level %q: empty first row", name)
	}
	l := &Level{
		Name:        name,
		W:           w,
		H:           len(rows),
		tiles:       make([][]TileType, len(rows)),
		PlayerSpawn: PointI{-1, -1},
	}
	for y, row := range rows {
		if len(row) != w {
			return nil, fmt.Errorf("level %q: row %d has width %d, want %d", name, y, len(row), w)
		}
		l.tiles[y] = make([]TileType, w)
		for x := 0; x < w; x++ {
			switch row[x] {
			case chEmpty:
				l.tiles[y][x] = TileEmpty
			case chBrick:
				l.tiles[y][x] = TileBrick
			case chStone:
				l.tiles[y][x] = TileStone
			case chLadder:
				l.tiles[y][x] = TileLadder
			case chRail:
				l.tiles[y][x] = TileRail
			case chPlayer:
				if l.PlayerSpawn.X >= 0 {
					return nil, fmt.Errorf("level %q: multiple player spawns", name)
				}
				l.tiles[y][x] = TileEmpty
				l.PlayerSpawn = PointI{x, y}
			case chGuard:
				l.tiles[y][x] = TileEmpty
				l.GuardSpawns = append(l.GuardSpawns, PointI{x, y})
			default:
				return nil, fmt.Errorf("level %q: unknown tile %q at (%d,%d)", name, row[x], x, y)
			}
		}
	}
	if l.PlayerSpawn.X < 0 {
		return nil, fmt.Errorf("level %q: no player spawn", name)
	}
	return l, nil
}

// InBounds reports whether the cell is inside the grid.
func (l *Level) InBounds(x, y int) bool {
	return x >= 0 && x < l.W && y >= 0 && y < l.H
}

// TileAt returns the tile code at a cell. Out-of-bounds cells read as stone,
// so the level edge behaves like an unbreakable wall.
func (l *Level) TileAt(x, y int) TileType {
	if !l.InBounds(x, y) {
		return TileStone
	}
	return l.tiles[y][x]
}

// SetTile overwrites a cell. Out-of-bounds writes are ignored.
func (l *Level) SetTile(x, y int, t TileType) {
	if l.InBounds(x, y) {
		l.tiles[y][x] = t
	}
}

// hazard.TileGrid implementation

// IsTileStandable reports whether an entity can occupy the cell: any
// in-bounds, non-solid cell, including an open hole.
func (l *Level) IsTileStandable(x, y int) bool {
	if !l.InBounds(x, y) {
		return false
	}
	switch l.tiles[y][x] {
	case TileEmpty, TileLadder, TileRail, TileHole:
		return true
	}
	return false
}

// IsTileSolid reports whether the cell blocks movement. The out-of-bounds
// region counts as solid, matching TileAt.
func (l *Level) IsTileSolid(x, y int) bool {
	t := l.TileAt(x, y)
	return t == TileBrick || t == TileStone
}

// GetTileType exposes the numeric tile code for the hazard package.
func (l *Level) GetTileType(x, y int) int {
	return int(l.TileAt(x, y))
}

// Rows renders the grid back to its text form (spawn markers not restored).
func (l *Level) Rows() []string {
	out := make([]string, l.H)
	for y := 0; y < l.H; y++ {
		var b strings.Builder
		for x := 0; x < l.W; x++ {
			switch l.tiles[y][x] {
			case TileBrick:
				b.WriteByte(chBrick)
			case TileStone:
				b.WriteByte(chStone)
			case TileLadder:
				b.WriteByte(chLadder)
			case TileRail:
				b.WriteByte(chRail)
			case TileHole:
				b.WriteByte('o')
			default:
				b.WriteByte(chEmpty)
			}
		}
		out[y] = b.String()
	}
	return out
}

// DefaultLevelRows is the built-in level used when Mongo has no level
// document for the configured name.
var DefaultLevelRows = []string{
	"@@@@@@@@@@@@@@@@@@@@",
	"@........H.........@",
	"@.P......H....G....@",
	"@####H#############@",
	"@....H.............@",
	"@....H--------.....@",
	"@....H........G....@",
	"@##################@",
	"@..................@",
	"@@@@@@@@@@@@@@@@@@@@",
}

// DefaultLevel parses the built-in level. It panics on failure, which can
// only happen if DefaultLevelRows itself is edited into an invalid state.
func DefaultLevel() *Level {
	l, err := ParseLevel("builtin", DefaultLevelRows)
	if err != nil {
		panic(err)
	}
	return l
}
