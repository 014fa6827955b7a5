package game

import (
	"burrow-server/hazard"
)

// Guards are deliberately dumb: they patrol horizontally, reverse at walls,
// and obey gravity. There is no pursuit or pathfinding layer; a guard's only
// interesting behavior is what happens to it when it falls into a hole, and
// that is owned by the hazard tracker.

// IsGhost checks if a guard is destroyed and waiting to respawn.
func (g *GuardState) IsGhost() bool {
	return g.RespawnAt != 0
}

// killGuard marks a guard destroyed and schedules its respawn.
func (s *GameServer) killGuard(g *GuardState, now int64) {
	g.Deaths++
	g.RespawnAt = now + s.respawnMs
	g.Trapped = false
	g.HoleKey = ""
}

// updateGuards advances every guard one tick: respawns, gravity, then one
// patrol step. Trapped guards do not move here; the hazard resolution owns
// them until escape or death.
func (s *GameServer) updateGuards(now int64) {
	for _, g := range s.guards {
		if g.IsGhost() {
			if now >= g.RespawnAt {
				g.RespawnAt = 0
				g.Pos = g.SpawnPos
				g.Dir = 1
			}
			continue
		}
		if g.Trapped {
			continue
		}

		if s.guardFalls(g.Pos) {
			g.Pos.Y++
			s.maybeTrapGuard(g, now)
			continue
		}

		next := PointI{X: g.Pos.X + g.Dir, Y: g.Pos.Y}
		if s.level.IsTileSolid(next.X, next.Y) || !s.level.InBounds(next.X, next.Y) {
			g.Dir = -g.Dir
			continue
		}
		g.Pos = next
		s.maybeTrapGuard(g, now)
	}
}

// guardFalls reports whether a guard at pos is unsupported. Ladders and
// rails hold the guard; so does any solid or ladder cell below.
func (s *GameServer) guardFalls(pos PointI) bool {
	switch s.level.TileAt(pos.X, pos.Y) {
	case TileLadder, TileRail:
		return false
	}
	// Out-of-bounds cells read as stone, so the level edge holds too.
	below := s.level.TileAt(pos.X, pos.Y+1)
	return below != TileBrick && below != TileStone && below != TileLadder
}

// maybeTrapGuard registers the guard with the hole timeline when it has
// landed on an open hole cell.
func (s *GameServer) maybeTrapGuard(g *GuardState, now int64) {
	if s.level.TileAt(g.Pos.X, g.Pos.Y) != TileHole {
		return
	}
	key := hazard.HoleKey(g.Pos.X, g.Pos.Y)
	if s.tracker.AddGuardToHole(key, g.ID, now, s.stunMs) {
		g.Trapped = true
		g.HoleKey = key
	}
}
