package server

import (
	"turf-war/server/internal/physics"
	"turf-war/server/internal/world"
)

type joinResponse struct {
	ID         string         `json:"id"`
	Team       string         `json:"team"`
	Players    []Player       `json:"players"`
	Blocks     []world.Block  `json:"blocks"`
	Lanes      []world.TeamID `json:"lanes"`
	Cursor     int            `json:"cursor"`
	Config     Tuning         `json:"config"`
	ServerTime int64          `json:"serverTime"`
}

type stateMessage struct {
	Type       string         `json:"type"`
	Tick       uint64         `json:"t"`
	ServerTime int64          `json:"serverTime"`
	Players    []Player       `json:"players"`
	Blocks     []world.Block  `json:"blocks"`
	Lanes      []world.TeamID `json:"lanes"`
	Cursor     int            `json:"cursor"`
}

type turfChangedMessage struct {
	Type            string   `json:"type"`
	Tick            uint64   `json:"t"`
	Team            string   `json:"team"`
	Cursor          int      `json:"cursor"`
	ClaimedLanes    []int    `json:"claimedLanes,omitempty"`
	DestroyedBlocks []uint64 `json:"destroyedBlocks,omitempty"`
}

type turfWonMessage struct {
	Type string `json:"type"`
	Tick uint64 `json:"t"`
	Team string `json:"team"`
}

// projectileFiredMessage is visual-only: remote clients render the shot, but
// damage waits for a validated hit.
type projectileFiredMessage struct {
	Type      string       `json:"type"`
	PlayerID  string       `json:"playerId"`
	Origin    physics.Vec3 `json:"origin"`
	Direction physics.Vec3 `json:"direction"`
	Speed     float64      `json:"speed"`
	FiredAt   int64        `json:"firedAt"`
}

type projectileImpactMessage struct {
	Type     string       `json:"type"`
	PlayerID string       `json:"playerId"`
	Position physics.Vec3 `json:"position"`
	Ground   bool         `json:"ground,omitempty"`
	BlockID  uint64       `json:"blockId,omitempty"`
}

type tiltChangedMessage struct {
	Type     string       `json:"type"`
	PlayerID string       `json:"playerId"`
	Tilt     physics.Vec3 `json:"tilt"`
	Position physics.Vec3 `json:"position"`
}

// boundaryKickMessage carries the corrective impulse for a player caught on
// the wrong side of the divider.
type boundaryKickMessage struct {
	Type    string       `json:"type"`
	Impulse physics.Vec3 `json:"impulse"`
}

type blockUpdateMessage struct {
	Type      string        `json:"type"`
	Placed    []world.Block `json:"placed,omitempty"`
	Damaged   []world.Block `json:"damaged,omitempty"`
	Destroyed []uint64      `json:"destroyed,omitempty"`
}

type kickMessage struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

type diagnosticsPlayer struct {
	ID            string `json:"id"`
	Team          string `json:"team"`
	LastHeartbeat int64  `json:"lastHeartbeat"`
	RTTMillis     int64  `json:"rttMillis"`
	Offenses      int    `json:"offenses"`
}
