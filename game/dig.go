package game

import (
	"log"

	"burrow-server/config"
	"burrow-server/hazard"
)

// Dig consequences and hazard resolution. This is the driver side of the
// hazard subsystem: the tracker answers timing questions, the climb
// validator answers geometry questions, and this file sequences them. The
// two never call each other.

// DigHole executes a dig by the given player at tick time now: the brick
// becomes an open hole with a fresh timeline. Returns false when the player
// is unknown, the target is not a brick, or it is out of the player's reach
// (one row below, within MaxDigRange columns).
func (s *GameServer) DigHole(playerID string, x, y int, now int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.digHoleLocked(playerID, x, y, now)
}

func (s *GameServer) digHoleLocked(playerID string, x, y int, now int64) bool {
	p, ok := s.players[playerID]
	if !ok {
		return false
	}
	if s.level.TileAt(x, y) != TileBrick {
		return false
	}
	dx := x - p.Pos.X
	if dx < -config.MaxDigRange || dx > config.MaxDigRange || y != p.Pos.Y+1 {
		return false
	}

	key := hazard.HoleKey(x, y)
	s.level.SetTile(x, y, TileHole)
	s.tracker.CreateHoleTimeline(key, now, s.holeOpenMs)
	s.dugHoles[key] = PointI{X: x, Y: y}
	p.Digs++
	log.Printf("Player %s dug hole %s, closes in %dms", playerID, key, s.holeOpenMs)
	return true
}

// resolveHazards advances the hole timelines to now and settles every guard
// whose situation is decided this tick:
//
//   - open hole, guard recovered: attempt the climb
//     (CanGuardClimb -> BestClimbExit -> HasClimbPath -> remove as escape)
//   - hole at or past close time: ShouldGuardDie picks removal-as-death or
//     removal-as-escape for each remaining guard
//   - timeline reclaimed: the brick regrows
func (s *GameServer) resolveHazards(now int64) {
	s.tracker.Update(now)

	restored := []string{}
	for key, pos := range s.dugHoles {
		tl := s.tracker.Timeline(key)
		if tl == nil {
			// Timeline reclaimed after its grace window: regrow the brick.
			if s.level.TileAt(pos.X, pos.Y) == TileHole {
				s.level.SetTile(pos.X, pos.Y, TileBrick)
			}
			restored = append(restored, key)
			continue
		}

		if s.tracker.IsHoleActive(key) {
			s.attemptClimbs(key, pos)
		} else {
			s.settleClosedHole(key, pos, now)
		}
	}
	for _, key := range restored {
		delete(s.dugHoles, key)
	}
}

// attemptClimbs lets every recovered guard in an open hole try to climb out.
func (s *GameServer) attemptClimbs(key string, pos PointI) {
	for _, entry := range s.tracker.GuardsInHole(key) {
		if !s.tracker.CanGuardClimb(key, entry.GuardID) {
			continue
		}
		exit := s.climb.BestClimbExit(pos.X, pos.Y)
		if exit == nil || !s.climb.HasClimbPath(pos.X, pos.Y, *exit) {
			continue
		}
		g, ok := s.guards[entry.GuardID]
		if !ok {
			// Guard entity is gone; clear the stale entry so the hole can
			// eventually be reclaimed.
			s.tracker.RemoveGuardFromHole(key, entry.GuardID)
			continue
		}
		s.tracker.RemoveGuardFromHole(key, entry.GuardID)
		g.Trapped = false
		g.HoleKey = ""
		g.Pos = PointI{X: exit.X, Y: exit.Y}
		log.Printf("Guard %s climbed out of hole %s via %s exit", g.ID, key, exit.Direction)
	}
}

// settleClosedHole applies the death/escape verdict to every guard still in
// a hole that has reached its close time, emptying it so the tracker can
// reclaim it on a later sweep.
func (s *GameServer) settleClosedHole(key string, pos PointI, now int64) {
	for _, entry := range s.tracker.GuardsInHole(key) {
		dies := s.tracker.ShouldGuardDie(key, entry.GuardID, s.stunMs)
		s.tracker.RemoveGuardFromHole(key, entry.GuardID)

		g, ok := s.guards[entry.GuardID]
		if !ok {
			continue
		}
		if dies {
			s.killGuard(g, now)
			log.Printf("Guard %s destroyed in closing hole %s", g.ID, key)
			continue
		}
		g.Trapped = false
		g.HoleKey = ""
		if exit := s.climb.BestClimbExit(pos.X, pos.Y); exit != nil {
			g.Pos = PointI{X: exit.X, Y: exit.Y}
		} else {
			g.Pos = PointI{X: pos.X, Y: pos.Y - 1}
		}
		log.Printf("Guard %s escaped closing hole %s", g.ID, key)
	}
}
