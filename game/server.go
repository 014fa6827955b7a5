package game

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"burrow-server/config"
	"burrow-server/hazard"
)

// NewGameServer builds a server around a parsed level. One guard is spawned
// per guard spawn point; hazard bookkeeping starts empty.
func NewGameServer(level *Level) *GameServer {
	s := &GameServer{
		level:      level,
		guards:     make(map[string]*GuardState),
		players:    make(map[string]*PlayerState),
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		tracker:    hazard.NewHoleTracker(),
		climb:      hazard.NewClimbValidator(level),
		dugHoles:   make(map[string]PointI),
		holeOpenMs: config.DefaultHoleOpenMs,
		stunMs:     config.DefaultGuardStunMs,
		respawnMs:  config.GuardRespawnDelayMs,
	}
	for i, spawn := range level.GuardSpawns {
		id := fmt.Sprintf("guard-%d", i+1)
		s.guards[id] = &GuardState{ID: id, Pos: spawn, SpawnPos: spawn, Dir: 1}
	}
	log.Printf("Game server: level %q (%dx%d), %d guards", level.Name, level.W, level.H, len(s.guards))
	return s
}

// SetHazardDurations overrides the per-level hole and stun durations, used
// when the level document carries its own values.
func (s *GameServer) SetHazardDurations(holeOpenMs, stunMs int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if holeOpenMs > 0 {
		s.holeOpenMs = holeOpenMs
	}
	if stunMs > 0 {
		s.stunMs = stunMs
	}
}

func (s *GameServer) Run() {
	go s.listenForClients()
	go s.gameLoop()
}

func (s *GameServer) listenForClients() {
	log.Println("Starting client listener...")
	for {
		select {
		case client := <-s.register:
			s.mu.Lock()
			s.clients[client.playerID] = client
			s.mu.Unlock()
		case client := <-s.unregister:
			s.mu.Lock()
			if _, ok := s.clients[client.playerID]; ok {
				delete(s.clients, client.playerID)
				delete(s.players, client.playerID)
				close(client.send)
			}
			s.mu.Unlock()
		}
	}
}

func (s *GameServer) gameLoop() {
	ticker := time.NewTicker(config.TICK_INTERVAL)
	defer ticker.Stop()

	for range ticker.C {
		s.Step(time.Now().UnixMilli())
		s.broadcastState()
	}
}

// Step advances the whole simulation to the supplied millisecond timestamp.
// The loop feeds it wall-clock time; tests feed it synthetic times, which
// makes every hazard scenario replayable.
func (s *GameServer) Step(now int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Phase 1: guard movement, falls, trap registration
	s.updateGuards(now)
	// Phase 2: timeline advancement, climbs, death/escape verdicts, regrowth
	s.resolveHazards(now)
}

// broadcastState sends the current world snapshot to every client. The sends
// stay inside the s.mu critical section: the unregister path closes
// client.send under the same lock, so a send can never hit a closed channel.
// Sends are non-blocking, so holding the lock here cannot stall the loop.
func (s *GameServer) broadcastState() {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload := s.buildStatePayload()
	msg, err := json.Marshal(map[string]interface{}{"type": "state_update", "payload": payload})
	if err != nil {
		log.Printf("Error marshaling state update: %v", err)
		return
	}
	for _, client := range s.clients {
		select {
		case client.send <- msg:
		default:
			log.Printf("Client %s send buffer full, dropping state update.", client.playerID)
		}
	}
}

// buildStatePayload assembles the broadcast snapshot. Caller holds s.mu.
func (s *GameServer) buildStatePayload() StateUpdatePayload {
	guards := make(map[string]VisibleGuard, len(s.guards))
	for id, g := range s.guards {
		vg := VisibleGuard{
			ID:      id,
			Pos:     g.Pos,
			Trapped: g.Trapped,
			Dead:    g.IsGhost(),
			Deaths:  g.Deaths,
		}
		if g.Trapped {
			vg.InHoleKey = g.HoleKey
			vg.StunLeft = s.tracker.RemainingStunTime(g.HoleKey, id)
			vg.Stunned = vg.StunLeft > 0
		}
		guards[id] = vg
	}

	holes := []VisibleHole{}
	for key, pos := range s.dugHoles {
		if s.tracker.Timeline(key) == nil {
			continue
		}
		holes = append(holes, VisibleHole{
			Key:         key,
			Pos:         pos,
			RemainingMs: s.tracker.RemainingHoleTime(key),
			GuardCount:  len(s.tracker.GuardsInHole(key)),
		})
	}

	return StateUpdatePayload{Players: s.players, Guards: guards, Holes: holes}
}

// MovePlayer applies a one-cell move for a connected player. Moves into
// solid tiles are rejected.
func (s *GameServer) MovePlayer(playerID string, dx, dy int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.players[playerID]
	if !ok {
		return false
	}
	if dx < -1 || dx > 1 || dy < -1 || dy > 1 {
		return false
	}
	nx, ny := p.Pos.X+dx, p.Pos.Y+dy
	if !s.level.InBounds(nx, ny) || s.level.IsTileSolid(nx, ny) {
		return false
	}
	p.Pos = PointI{X: nx, Y: ny}
	return true
}

// GetConnectedClientsCount returns the number of connected websocket clients.
func (s *GameServer) GetConnectedClientsCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// GetHazardCounts reports hazard bookkeeping totals for the metrics API.
func (s *GameServer) GetHazardCounts() HazardCounts {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := HazardCounts{ActiveHoles: s.tracker.HoleCount()}
	for key := range s.dugHoles {
		for _, entry := range s.tracker.GuardsInHole(key) {
			counts.TrappedGuards++
			if entry.Stunned {
				counts.StunnedGuards++
			}
			if entry.CanClimb {
				counts.ClimbableGuards++
			}
		}
	}
	return counts
}

// LevelRows returns the current tile rows, holes included, for the API.
func (s *GameServer) LevelRows() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.level.Rows()
}
