package net

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	server "turf-war/server"
	"turf-war/server/internal/combat"
	"turf-war/server/internal/physics"
	"turf-war/server/internal/telemetry"
)

// clientMessage is the union of every client-originated message. Type selects
// which fields matter.
type clientMessage struct {
	Type string `json:"type"`

	// tilt
	Tilt     *physics.Vec3 `json:"tilt,omitempty"`
	Position *physics.Vec3 `json:"position,omitempty"`

	// equip
	Tool string `json:"tool,omitempty"`

	// fire / registerHit
	Origin    *physics.Vec3 `json:"origin,omitempty"`
	Direction *physics.Vec3 `json:"direction,omitempty"`
	Speed     float64       `json:"speed,omitempty"`
	FiredAt   int64         `json:"firedAt,omitempty"`
	HitAt     int64         `json:"hitAt,omitempty"`
	Target    string        `json:"target,omitempty"`
	VictimID  string        `json:"victimId,omitempty"`

	// damageBlock / placeBlock
	BlockID uint64 `json:"blockId,omitempty"`

	// heartbeat
	ClientTime int64 `json:"clientTime,omitempty"`

	SentAt int64 `json:"sentAt,omitempty"`
}

type rejectMessage struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	Reason string `json:"reason"`
}

type heartbeatReply struct {
	Type       string `json:"type"`
	ServerTime int64  `json:"serverTime"`
	ClientTime int64  `json:"clientTime"`
	RTTMillis  int64  `json:"rtt"`
}

// session is one player's websocket read loop. Writes go through the hub's
// subscriber so broadcast and reply ordering share one lock.
type session struct {
	hub      *server.Hub
	playerID string
	conn     *websocket.Conn
	logger   telemetry.Logger
}

func newSession(hub *server.Hub, playerID string, conn *websocket.Conn, logger telemetry.Logger) *session {
	return &session{hub: hub, playerID: playerID, conn: conn, logger: logger}
}

func (s *session) run() {
	if !s.hub.Subscribe(s.playerID, s.conn) {
		message := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "unknown player")
		s.conn.WriteMessage(websocket.CloseMessage, message)
		s.conn.Close()
		return
	}

	for {
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			s.hub.Disconnect(s.playerID, "connection closed")
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			s.logger.Printf("discarding malformed message from %s: %v", s.playerID, err)
			continue
		}
		s.dispatch(msg)
	}
}

func (s *session) dispatch(msg clientMessage) {
	switch msg.Type {
	case "heartbeat":
		now := time.Now()
		rtt, ok := s.hub.UpdateHeartbeat(s.playerID, now, msg.ClientTime)
		if !ok {
			return
		}
		s.reply(heartbeatReply{
			Type:       "heartbeat",
			ServerTime: now.UnixMilli(),
			ClientTime: msg.ClientTime,
			RTTMillis:  rtt.Milliseconds(),
		})

	case "tilt":
		if msg.Tilt == nil || msg.Position == nil {
			return
		}
		s.hub.HandleTilt(s.playerID, *msg.Tilt, *msg.Position, msg.SentAt)

	case "equip":
		s.outcome(msg.Type, s.hub.HandleEquip(s.playerID, msg.Tool))

	case "unequip":
		s.outcome(msg.Type, s.hub.HandleUnequip(s.playerID))

	case "fire":
		if msg.Origin == nil || msg.Direction == nil {
			s.reply(rejectMessage{Type: "reject", Action: msg.Type, Reason: "missing fields"})
			return
		}
		s.outcome(msg.Type, s.hub.HandleFire(s.playerID, server.FireCommand{
			Origin:    *msg.Origin,
			Direction: *msg.Direction,
			Speed:     msg.Speed,
			FiredAt:   msg.FiredAt,
		}))

	case "registerHit":
		if msg.Position == nil {
			s.reply(rejectMessage{Type: "reject", Action: msg.Type, Reason: "missing fields"})
			return
		}
		s.outcome(msg.Type, s.hub.HandleRegisterHit(s.playerID, server.HitCommand{
			Target:   msg.Target,
			FiredAt:  msg.FiredAt,
			HitAt:    msg.HitAt,
			Position: *msg.Position,
			BlockID:  msg.BlockID,
			VictimID: msg.VictimID,
		}))

	case "damageBlock":
		s.outcome(msg.Type, s.hub.HandleDamageBlock(s.playerID, msg.BlockID))

	case "placeBlock":
		if msg.Position == nil {
			s.reply(rejectMessage{Type: "reject", Action: msg.Type, Reason: "missing fields"})
			return
		}
		s.outcome(msg.Type, s.hub.HandlePlaceBlock(s.playerID, *msg.Position))

	default:
		s.logger.Printf("unknown message type %q from %s", msg.Type, s.playerID)
	}
}

// outcome relays a non-accepted verdict back to the client. Kicks are handled
// by the hub closing the session; the read loop sees the close and exits.
func (s *session) outcome(action string, out combat.Outcome) {
	if out.Accepted() || out.ShouldKick() {
		return
	}
	s.reply(rejectMessage{Type: "reject", Action: action, Reason: out.Reason})
}

// reply goes through the hub so replies and broadcasts share the
// subscriber's write lock.
func (s *session) reply(payload any) {
	s.hub.SendTo(s.playerID, payload)
}
