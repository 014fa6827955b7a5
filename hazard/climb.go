package hazard

import (
	"fmt"
	"strings"
)

// ExitDirection labels which side of the hole a climb exit sits on.
type ExitDirection string

const (
	ExitLeft  ExitDirection = "left"
	ExitRight ExitDirection = "right"
)

// ClimbExit is one of the two diagonal-upward neighbor cells of a hole,
// with its computed validity. Exits are never stored; every query recomputes
// them from current tile contents.
type ClimbExit struct {
	X         int           `json:"x"`
	Y         int           `json:"y"`
	Direction ExitDirection `json:"direction"`
	Valid     bool          `json:"valid"`
}

// ClimbValidator answers the geometric side of a climb attempt. It holds
// nothing but the injected tile grid, so a single instance is safe to share
// across callers as long as the grid is not concurrently mutated mid-query.
type ClimbValidator struct {
	grid TileGrid
}

// NewClimbValidator wraps a tile grid capability.
func NewClimbValidator(grid TileGrid) *ClimbValidator {
	return &ClimbValidator{grid: grid}
}

// ValidClimbExits returns exactly two exits for a hole at (holeX, holeY):
// index 0 is the left exit at (x-1, y-1), index 1 the right exit at
// (x+1, y-1). An exit is valid when its own cell is standable and the cell
// directly below it is standable or solid, so the destination is open space
// with something to land on.
func (v *ClimbValidator) ValidClimbExits(holeX, holeY int) []ClimbExit {
	return []ClimbExit{
		v.buildExit(holeX-1, holeY-1, ExitLeft),
		v.buildExit(holeX+1, holeY-1, ExitRight),
	}
}

func (v *ClimbValidator) buildExit(x, y int, dir ExitDirection) ClimbExit {
	standable := v.grid.IsTileStandable(x, y)
	supported := v.grid.IsTileStandable(x, y+1) || v.grid.IsTileSolid(x, y+1)
	return ClimbExit{
		X:         x,
		Y:         y,
		Direction: dir,
		Valid:     standable && supported,
	}
}

// CanClimbOut reports whether at least one exit of the hole is valid.
func (v *ClimbValidator) CanClimbOut(holeX, holeY int) bool {
	for _, exit := range v.ValidClimbExits(holeX, holeY) {
		if exit.Valid {
			return true
		}
	}
	return false
}

// BestClimbExit picks the exit a climber should take: the right exit when
// both are valid, otherwise whichever single exit is valid, otherwise nil.
func (v *ClimbValidator) BestClimbExit(holeX, holeY int) *ClimbExit {
	exits := v.ValidClimbExits(holeX, holeY)
	left, right := exits[0], exits[1]
	if right.Valid {
		return &right
	}
	if left.Valid {
		return &left
	}
	return nil
}

// HasClimbPath additionally verifies movement feasibility for an exit: the
// exit must already be valid, sit exactly one row above the hole and one
// column to the side, and the intermediate cell at the hole's own row in the
// travel direction must not be solid.
func (v *ClimbValidator) HasClimbPath(holeX, holeY int, exit ClimbExit) bool {
	if !exit.Valid {
		return false
	}
	if exit.Y-holeY != -1 {
		return false
	}
	dx := exit.X - holeX
	if dx != -1 && dx != 1 {
		return false
	}
	return !v.grid.IsTileSolid(exit.X, holeY)
}

// CanMultipleGuardsClimb reports whether guardCount guards could leave the
// hole. One valid exit suffices for any count: queuing through a shared
// exit cell is a caller concern, not modeled here.
func (v *ClimbValidator) CanMultipleGuardsClimb(holeX, holeY, guardCount int) bool {
	return v.CanClimbOut(holeX, holeY)
}

// DescribeClimbExits renders a per-exit breakdown of the validity verdict
// and both contributing checks. Informational only.
func (v *ClimbValidator) DescribeClimbExits(holeX, holeY int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "climb exits for hole (%d,%d):\n", holeX, holeY)
	for _, exit := range v.ValidClimbExits(holeX, holeY) {
		standable := v.grid.IsTileStandable(exit.X, exit.Y)
		supported := v.grid.IsTileStandable(exit.X, exit.Y+1) || v.grid.IsTileSolid(exit.X, exit.Y+1)
		fmt.Fprintf(&b, "  %s (%d,%d): valid=%t standable=%t supported=%t type=%d\n",
			exit.Direction, exit.X, exit.Y, exit.Valid, standable, supported, v.grid.GetTileType(exit.X, exit.Y))
	}
	return b.String()
}
