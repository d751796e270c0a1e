package server

import (
	"encoding/json"

	"github.com/salastro/ashakk/internal/game"
	"github.com/salastro/ashakk/internal/room"
	"go.uber.org/zap"
)

// dispatch routes one client message to its handler and returns the direct
// reply for the acting client. Broadcasts to the rest of the room happen
// inside the handlers.
func (s *Server) dispatch(c *Client, msg Message) *Event {
	s.logger.Debug("client action",
		zap.String("player_id", c.playerID),
		zap.String("type", msg.Type),
	)

	switch msg.Type {
	case ActionRoomCreate:
		return s.handleRoomCreate(c, msg.Data)
	case ActionRoomJoin:
		return s.handleRoomJoin(c, msg.Data)
	case ActionRoomGetState:
		return s.handleRoomGetState(c, msg.Data)
	case ActionGameStart:
		return s.handleGameStart(c, msg.Data)
	case ActionSubmitStarter:
		return s.handleSubmitStarter(c, msg.Data)
	case ActionPlayTiles:
		return s.handlePlayTiles(c, msg.Data)
	case ActionNoTile:
		return s.handleNoTile(c, msg.Data)
	case ActionAccept:
		return s.handleAccept(c, msg.Data)
	case ActionDoubt:
		return s.handleDoubt(c, msg.Data)
	case ActionChooseNumber:
		return s.handleChooseNumber(c, msg.Data)
	default:
		return errorEvent(EventError, "unknown action: "+msg.Type)
	}
}

func (s *Server) handleRoomCreate(c *Client, data json.RawMessage) *Event {
	var req createRoomRequest
	if err := json.Unmarshal(data, &req); err != nil || req.RoomID == "" {
		return errorEvent(EventRoomCreated, "room_id and player_name are required")
	}

	player := &game.Player{ID: c.playerID, Name: req.PlayerName}
	engine, err := s.rooms.CreateRoom(req.RoomID, []*game.Player{player}, c.playerID)
	if err != nil {
		return errorEvent(EventRoomCreated, err.Error())
	}

	c.setRoom(req.RoomID)
	return okEvent(EventRoomCreated, engine.PlayerView(c.playerID))
}

func (s *Server) handleRoomJoin(c *Client, data json.RawMessage) *Event {
	var req joinRoomRequest
	if err := json.Unmarshal(data, &req); err != nil || req.RoomID == "" {
		return errorEvent(EventRoomJoined, "room_id and player_name are required")
	}

	player := &game.Player{ID: c.playerID, Name: req.PlayerName}
	engine, err := s.rooms.JoinRoom(req.RoomID, player)
	if err != nil {
		return errorEvent(EventRoomJoined, err.Error())
	}

	c.setRoom(req.RoomID)
	s.hub.BroadcastToRoom(req.RoomID, okEvent(EventGameUpdate, engine.PublicView()))
	return okEvent(EventRoomJoined, engine.PlayerView(c.playerID))
}

func (s *Server) handleRoomGetState(c *Client, data json.RawMessage) *Event {
	var req roomRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return errorEvent(EventRoomState, "room_id is required")
	}

	engine, ok := s.rooms.GetRoom(req.RoomID)
	if !ok {
		return errorEvent(EventRoomState, room.ErrRoomNotFound.Error())
	}

	if !engine.HasPlayer(c.playerID) {
		return errorEvent(EventRoomState, "not a player in this room")
	}

	return okEvent(EventRoomState, engine.PlayerView(c.playerID))
}

func (s *Server) handleGameStart(c *Client, data json.RawMessage) *Event {
	var req roomRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return errorEvent(EventGameStarted, "room_id is required")
	}

	engine, ok := s.rooms.GetRoom(req.RoomID)
	if !ok {
		return errorEvent(EventGameStarted, room.ErrRoomNotFound.Error())
	}

	if engine.PlayerCount() < 2 {
		return errorEvent(EventGameStarted, "need at least 2 players")
	}

	if !engine.CanStartGame(c.playerID) {
		return errorEvent(EventGameStarted, "only the room creator can start the game")
	}

	if engine.Started() {
		return errorEvent(EventGameStarted, "game already started")
	}

	engine.InitializeGame()

	s.hub.BroadcastToRoom(req.RoomID, okEvent(EventGameStarted, engine.PublicView()))
	s.sendPlayerStates(engine)

	return okEvent(EventGameStarted, nil)
}

func (s *Server) handleSubmitStarter(c *Client, data json.RawMessage) *Event {
	var req numberChoiceRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return errorEvent(EventError, "room_id and number_choice are required")
	}

	engine, reply := s.roomEngine(req.RoomID)
	if reply != nil {
		return reply
	}

	if err := engine.SubmitStarter(c.playerID, req.NumberChoice); err != nil {
		return errorEvent(EventError, err.Error())
	}

	s.broadcastGame(req.RoomID, engine)
	return okEvent(EventGameUpdate, nil)
}

func (s *Server) handlePlayTiles(c *Client, data json.RawMessage) *Event {
	var req playTilesRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return errorEvent(EventError, "room_id and tiles are required")
	}

	engine, reply := s.roomEngine(req.RoomID)
	if reply != nil {
		return reply
	}

	if err := engine.SubmitTiles(c.playerID, req.Tiles); err != nil {
		return errorEvent(EventError, err.Error())
	}

	s.broadcastGame(req.RoomID, engine)
	return okEvent(EventGameUpdate, nil)
}

func (s *Server) handleNoTile(c *Client, data json.RawMessage) *Event {
	var req roomRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return errorEvent(EventError, "room_id is required")
	}

	engine, reply := s.roomEngine(req.RoomID)
	if reply != nil {
		return reply
	}

	if err := engine.SubmitNoTile(c.playerID); err != nil {
		return errorEvent(EventError, err.Error())
	}

	s.broadcastGame(req.RoomID, engine)
	return okEvent(EventGameUpdate, nil)
}

func (s *Server) handleAccept(c *Client, data json.RawMessage) *Event {
	var req roomRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return errorEvent(EventError, "room_id is required")
	}

	engine, reply := s.roomEngine(req.RoomID)
	if reply != nil {
		return reply
	}

	// Acceptance is implicit; the call is kept for protocol compatibility.
	if err := engine.AcceptSubmission(c.playerID); err != nil {
		return errorEvent(EventError, err.Error())
	}

	s.broadcastGame(req.RoomID, engine)
	return okEvent(EventGameUpdate, nil)
}

func (s *Server) handleDoubt(c *Client, data json.RawMessage) *Event {
	var req roomRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return errorEvent(EventError, "room_id is required")
	}

	engine, reply := s.roomEngine(req.RoomID)
	if reply != nil {
		return reply
	}

	penalty, err := engine.DoubtSubmission(c.playerID)
	if err != nil {
		return errorEvent(EventError, err.Error())
	}

	public := engine.PublicView()
	s.hub.BroadcastToRoom(req.RoomID, okEvent(EventDoubtResolved, doubtResolvedPayload{
		Penalty:   penalty.String(),
		GameState: public,
	}))
	s.sendPlayerStates(engine)
	s.maybeBroadcastEnd(req.RoomID, public)

	return okEvent(EventDoubtResolved, nil)
}

func (s *Server) handleChooseNumber(c *Client, data json.RawMessage) *Event {
	var req numberChoiceRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return errorEvent(EventError, "room_id and number_choice are required")
	}

	engine, reply := s.roomEngine(req.RoomID)
	if reply != nil {
		return reply
	}

	if err := engine.ChooseNumber(c.playerID, req.NumberChoice); err != nil {
		return errorEvent(EventError, err.Error())
	}

	s.broadcastGame(req.RoomID, engine)
	return okEvent(EventGameUpdate, nil)
}

// roomEngine resolves a room id, returning an error reply when missing.
func (s *Server) roomEngine(roomID string) (*game.Engine, *Event) {
	engine, ok := s.rooms.GetRoom(roomID)
	if !ok {
		return nil, errorEvent(EventError, room.ErrRoomNotFound.Error())
	}
	return engine, nil
}

// broadcastGame pushes the refreshed projections to the whole room: the
// public view to everyone, each player's private view individually, and the
// end-of-match event when the terminal phase was reached.
func (s *Server) broadcastGame(roomID string, engine *game.Engine) {
	public := engine.PublicView()
	s.hub.BroadcastToRoom(roomID, okEvent(EventGameUpdate, public))
	s.sendPlayerStates(engine)
	s.maybeBroadcastEnd(roomID, public)
}

func (s *Server) sendPlayerStates(engine *game.Engine) {
	for _, playerID := range engine.PlayerIDs() {
		s.hub.SendToPlayer(playerID, okEvent(EventStateUpdate, engine.PlayerView(playerID)))
	}
}

func (s *Server) maybeBroadcastEnd(roomID string, public game.PublicView) {
	if public.Phase != game.PhaseEnded.String() {
		return
	}

	s.hub.BroadcastToRoom(roomID, okEvent(EventGameEnded, gameEndedPayload{
		Winner:      public.Winner,
		Leaderboard: public.Leaderboard,
		GameState:   public,
	}))

	s.logger.Info("match ended",
		zap.String("room_id", roomID),
		zap.String("winner", public.Winner),
	)
}
