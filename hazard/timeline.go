// Package hazard models the timed hole hazard: how long a dug hole stays
// open, how long a trapped guard is stunned, and the race deciding whether
// the guard escapes or is destroyed when the hole closes.
//
// All times are millisecond timestamps supplied by the caller; the package
// never reads the wall clock. Feeding the same sequence of calls always
// reproduces the same state, which keeps the whole subsystem replayable.
package hazard

import "fmt"

// holeRemovalGraceMs is the delay after a hole's close time before an empty
// timeline becomes eligible for removal, so in-flight death/escape checks
// still find their state.
const holeRemovalGraceMs = int64(100)

// GuardEntry is the per-guard record inside a hole timeline. The stun flag
// flips exactly once, from stunned to climbable; removal from the hole is
// the only other transition.
type GuardEntry struct {
	GuardID    string `json:"guardId"`
	FallTime   int64  `json:"fallTime"`
	StunEndsAt int64  `json:"stunEndsAt"`
	Stunned    bool   `json:"stunned"`
	CanClimb   bool   `json:"canClimb"`
}

// HoleTimeline is the time-keyed lifecycle of one open hole. ClosesAt is
// fixed at creation and never recomputed.
type HoleTimeline struct {
	HoleKey   string       `json:"holeKey"`
	CreatedAt int64        `json:"createdAt"`
	Duration  int64        `json:"duration"`
	ClosesAt  int64        `json:"closesAt"`
	Guards    []GuardEntry `json:"guards"`
}

// HoleTracker owns every open hole timeline, keyed by the caller's hole key.
// It is pure timing bookkeeping: no geometry, no tile access. The tracker is
// meant to be owned by a single goroutine (the game loop); it does no
// locking of its own.
type HoleTracker struct {
	holes      map[string]*HoleTimeline
	lastUpdate int64
}

// NewHoleTracker returns an empty tracker.
func NewHoleTracker() *HoleTracker {
	return &HoleTracker{holes: make(map[string]*HoleTimeline)}
}

// CreateHoleTimeline registers a new hole and returns a snapshot of it.
// Calling it again with an existing key silently replaces the previous
// timeline; keeping one live hole per key is the caller's responsibility.
func (t *HoleTracker) CreateHoleTimeline(holeKey string, creationTime, duration int64) HoleTimeline {
	tl := &HoleTimeline{
		HoleKey:   holeKey,
		CreatedAt: creationTime,
		Duration:  duration,
		ClosesAt:  creationTime + duration,
		Guards:    []GuardEntry{},
	}
	t.holes[holeKey] = tl
	return copyTimeline(tl)
}

// AddGuardToHole records a guard falling into a hole. It returns false
// without mutating anything when the hole is unknown or the guard is already
// registered there. Entries keep insertion (fall) order.
func (t *HoleTracker) AddGuardToHole(holeKey, guardID string, fallTime, stunDuration int64) bool {
	tl, ok := t.holes[holeKey]
	if !ok {
		return false
	}
	for i := range tl.Guards {
		if tl.Guards[i].GuardID == guardID {
			return false
		}
	}
	tl.Guards = append(tl.Guards, GuardEntry{
		GuardID:    guardID,
		FallTime:   fallTime,
		StunEndsAt: fallTime + stunDuration,
		Stunned:    true,
		CanClimb:   false,
	})
	return true
}

// RemoveGuardFromHole drops a guard entry from a hole. This is the single
// way an entry leaves a live hole, used both for confirmed escapes and for
// caller-driven death cleanup. Returns false when hole or entry is unknown.
func (t *HoleTracker) RemoveGuardFromHole(holeKey, guardID string) bool {
	tl, ok := t.holes[holeKey]
	if !ok {
		return false
	}
	for i := range tl.Guards {
		if tl.Guards[i].GuardID == guardID {
			tl.Guards = append(tl.Guards[:i], tl.Guards[i+1:]...)
			return true
		}
	}
	return false
}

// Update advances every timeline to now. Guards whose stun window has passed
// become climbable, and empty holes past their close time plus the grace
// window are reclaimed. Reclamation is two-phase (collect keys, then delete)
// so the map is never mutated mid-iteration. A hole still holding guards is
// never reclaimed, however late the clock runs: the caller must settle every
// guard's death/escape verdict first.
func (t *HoleTracker) Update(now int64) {
	t.lastUpdate = now

	for _, tl := range t.holes {
		for i := range tl.Guards {
			g := &tl.Guards[i]
			if g.Stunned && now >= g.StunEndsAt {
				g.Stunned = false
				g.CanClimb = true
			}
		}
	}

	var expired []string
	for key, tl := range t.holes {
		if now >= tl.ClosesAt+holeRemovalGraceMs && len(tl.Guards) == 0 {
			expired = append(expired, key)
		}
	}
	for _, key := range expired {
		delete(t.holes, key)
	}
}

// ShouldGuardDie applies the race rule: the guard dies when its earliest
// climb-ready moment (fall time + stunDuration) is at or after the hole's
// close time. Equality counts as death. A missing hole or entry also counts
// as death: a guard with no timeline record cannot be considered safely
// escaped. The stun duration is taken from the caller rather than the stored
// entry so the verdict can be re-evaluated under changed rules.
func (t *HoleTracker) ShouldGuardDie(holeKey, guardID string, stunDuration int64) bool {
	tl, ok := t.holes[holeKey]
	if !ok {
		return true
	}
	for i := range tl.Guards {
		if tl.Guards[i].GuardID == guardID {
			return tl.Guards[i].FallTime+stunDuration >= tl.ClosesAt
		}
	}
	return true
}

// RemainingHoleTime returns how many milliseconds of open time the hole has
// left as of the last Update, clamped to zero. Unknown holes report zero.
func (t *HoleTracker) RemainingHoleTime(holeKey string) int64 {
	tl, ok := t.holes[holeKey]
	if !ok {
		return 0
	}
	return clampMs(tl.ClosesAt - t.lastUpdate)
}

// RemainingStunTime returns how many milliseconds of stun the guard has left
// as of the last Update, clamped to zero.
func (t *HoleTracker) RemainingStunTime(holeKey, guardID string) int64 {
	tl, ok := t.holes[holeKey]
	if !ok {
		return 0
	}
	for i := range tl.Guards {
		if tl.Guards[i].GuardID == guardID {
			return clampMs(tl.Guards[i].StunEndsAt - t.lastUpdate)
		}
	}
	return 0
}

// CanGuardClimb reports whether the guard is present, recovered from its
// stun, and flagged climbable.
func (t *HoleTracker) CanGuardClimb(holeKey, guardID string) bool {
	tl, ok := t.holes[holeKey]
	if !ok {
		return false
	}
	for i := range tl.Guards {
		if tl.Guards[i].GuardID == guardID {
			return !tl.Guards[i].Stunned && tl.Guards[i].CanClimb
		}
	}
	return false
}

// IsHoleActive reports whether the hole exists and the last Update time is
// strictly before its close time. The close instant itself counts inactive.
func (t *HoleTracker) IsHoleActive(holeKey string) bool {
	tl, ok := t.holes[holeKey]
	if !ok {
		return false
	}
	return t.lastUpdate < tl.ClosesAt
}

// GuardsInHole returns a copy of the hole's guard entries in fall order.
// Mutating the returned slice never affects tracker state.
func (t *HoleTracker) GuardsInHole(holeKey string) []GuardEntry {
	tl, ok := t.holes[holeKey]
	if !ok {
		return []GuardEntry{}
	}
	out := make([]GuardEntry, len(tl.Guards))
	copy(out, tl.Guards)
	return out
}

// Timeline returns a snapshot of one hole timeline, or nil if unknown.
func (t *HoleTracker) Timeline(holeKey string) *HoleTimeline {
	tl, ok := t.holes[holeKey]
	if !ok {
		return nil
	}
	snap := copyTimeline(tl)
	return &snap
}

// ActiveTimelines returns snapshots of every tracked timeline keyed by hole
// key, reclaimed-or-not by close time. The returned map and its contents are
// detached from internal state.
func (t *HoleTracker) ActiveTimelines() map[string]HoleTimeline {
	out := make(map[string]HoleTimeline, len(t.holes))
	for key, tl := range t.holes {
		out[key] = copyTimeline(tl)
	}
	return out
}

// HoleCount returns the number of tracked (not yet reclaimed) holes.
func (t *HoleTracker) HoleCount() int {
	return len(t.holes)
}

// HoleKey builds the canonical "x,y" key for a hole at a grid cell.
func HoleKey(x, y int) string {
	return fmt.Sprintf("%d,%d", x, y)
}

func copyTimeline(tl *HoleTimeline) HoleTimeline {
	snap := *tl
	snap.Guards = make([]GuardEntry, len(tl.Guards))
	copy(snap.Guards, tl.Guards)
	return snap
}

func clampMs(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
