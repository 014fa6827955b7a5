package game

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"burrow-server/hazard"
)

// 1. Data Structures & Interfaces

type PointI struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// TileType codes for level cells. These are the integer codes the hazard
// package sees through hazard.TileGrid.
type TileType int

const (
	TileEmpty TileType = iota
	TileBrick           // diggable solid
	TileStone           // undiggable solid
	TileLadder
	TileRail
	TileHole // a dug brick while its timeline is open
)

type GuardState struct {
	ID        string `json:"id"`
	Pos       PointI `json:"pos"`
	Dir       int    `json:"dir"` // patrol direction: -1 left, +1 right
	SpawnPos  PointI `json:"-"`
	Trapped   bool   `json:"trapped"`
	HoleKey   string `json:"-"` // key of the hole currently holding the guard
	RespawnAt int64  `json:"-"` // ms timestamp; nonzero while destroyed
	Deaths    int    `json:"deaths"`
}

type PlayerState struct {
	ID     string  `json:"id"`
	Pos    PointI  `json:"pos"`
	Client *Client `json:"-"`
	Digs   int     `json:"digs"`
}

// Broadcast payload structures. These ensure correct JSON marshaling with
// field tags and keep internal-only fields off the wire.

type VisibleGuard struct {
	ID        string `json:"id"`
	Pos       PointI `json:"pos"`
	Trapped   bool   `json:"trapped"`
	Stunned   bool   `json:"stunned"`
	Dead      bool   `json:"dead"`
	Deaths    int    `json:"deaths"`
	StunLeft  int64  `json:"stunLeftMs"`
	InHoleKey string `json:"holeKey,omitempty"`
}

type VisibleHole struct {
	Key         string `json:"key"`
	Pos         PointI `json:"pos"`
	RemainingMs int64  `json:"remainingMs"`
	GuardCount  int    `json:"guardCount"`
}

type StateUpdatePayload struct {
	Players map[string]*PlayerState `json:"players"`
	Guards  map[string]VisibleGuard `json:"guards"`
	Holes   []VisibleHole           `json:"holes"`
}

type Client struct {
	conn       *websocket.Conn
	playerID   string
	send       chan []byte
	lastAction time.Time
}

type GameServer struct {
	mu         sync.Mutex
	level      *Level
	guards     map[string]*GuardState
	players    map[string]*PlayerState
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client

	tracker  *hazard.HoleTracker
	climb    *hazard.ClimbValidator
	dugHoles map[string]PointI // hole key -> cell, for tile restoration

	holeOpenMs int64
	stunMs     int64
	respawnMs  int64
}

// HazardCounts is the metrics snapshot of the hazard subsystem.
type HazardCounts struct {
	ActiveHoles     int `json:"active_holes"`
	TrappedGuards   int `json:"trapped_guards"`
	StunnedGuards   int `json:"stunned_guards"`
	ClimbableGuards int `json:"climbable_guards"`
}
