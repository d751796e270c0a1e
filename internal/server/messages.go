package server

import (
	"encoding/json"

	"github.com/salastro/ashakk/internal/domino"
)

// Client action types. They mirror the socket protocol one to one.
const (
	ActionRoomCreate    = "room:create"
	ActionRoomJoin      = "room:join"
	ActionRoomGetState  = "room:getState"
	ActionGameStart     = "game:start"
	ActionSubmitStarter = "turn:submitStarter"
	ActionPlayTiles     = "turn:play"
	ActionNoTile        = "turn:noTile"
	ActionAccept        = "turn:accept"
	ActionDoubt         = "turn:doubt"
	ActionChooseNumber  = "turn:chooseNumber"
)

// Server event types.
const (
	EventRoomCreated   = "room:created"
	EventRoomJoined    = "room:joined"
	EventRoomState     = "room:state"
	EventGameStarted   = "game:started"
	EventGameUpdate    = "game:update"
	EventStateUpdate   = "game:stateUpdate"
	EventDoubtResolved = "game:doubtResolved"
	EventGameEnded     = "game:ended"
	EventError         = "error"
)

// Message is the inbound envelope from a client.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Event is the outbound envelope: a direct reply to the acting client or a
// room broadcast.
type Event struct {
	Type    string `json:"type"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func okEvent(eventType string, data any) *Event {
	return &Event{Type: eventType, Success: true, Data: data}
}

func errorEvent(eventType, message string) *Event {
	return &Event{Type: eventType, Success: false, Error: message}
}

// roomRequest covers the actions that only carry a room id.
type roomRequest struct {
	RoomID string `json:"room_id"`
}

type createRoomRequest struct {
	RoomID     string `json:"room_id"`
	PlayerName string `json:"player_name"`
}

type joinRoomRequest struct {
	RoomID     string `json:"room_id"`
	PlayerName string `json:"player_name"`
}

type numberChoiceRequest struct {
	RoomID       string `json:"room_id"`
	NumberChoice int    `json:"number_choice"`
}

type playTilesRequest struct {
	RoomID string        `json:"room_id"`
	Tiles  []domino.Tile `json:"tiles"`
}

// doubtResolvedPayload is broadcast after a doubt resolution.
type doubtResolvedPayload struct {
	Penalty   string `json:"penalty"`
	GameState any    `json:"game_state"`
}

// gameEndedPayload is broadcast once the match reaches its terminal phase.
type gameEndedPayload struct {
	Winner      string   `json:"winner"`
	Leaderboard []string `json:"leaderboard"`
	GameState   any      `json:"game_state"`
}
