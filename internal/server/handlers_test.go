package server

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/salastro/ashakk/internal/config"
	"github.com/salastro/ashakk/internal/domino"
	"github.com/salastro/ashakk/internal/room"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := zaptest.NewLogger(t)
	return New(config.ServerConfig{SendQueueSize: 64}, room.NewManager(4, logger), logger)
}

// newTestClient registers a connectionless client; dispatch and broadcasts
// only touch the send queue.
func newTestClient(s *Server, playerID string) *Client {
	c := &Client{playerID: playerID, send: make(chan []byte, 64)}
	s.hub.Register(c)
	return c
}

func mustRaw(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

// drainEvents empties the client's send queue and returns the decoded events.
func drainEvents(t *testing.T, c *Client) []Event {
	t.Helper()
	var events []Event
	for {
		select {
		case payload := <-c.send:
			var ev Event
			require.NoError(t, json.Unmarshal(payload, &ev))
			events = append(events, ev)
		default:
			return events
		}
	}
}

func eventTypes(events []Event) []string {
	types := make([]string, 0, len(events))
	for _, ev := range events {
		types = append(types, ev.Type)
	}
	return types
}

func TestDispatchRoomCreate(t *testing.T) {
	s := newTestServer(t)
	c := newTestClient(s, "p1")

	reply := s.dispatch(c, Message{
		Type: ActionRoomCreate,
		Data: mustRaw(t, createRoomRequest{RoomID: "room-1", PlayerName: "Alice"}),
	})

	require.NotNil(t, reply)
	assert.True(t, reply.Success)
	assert.Equal(t, EventRoomCreated, reply.Type)
	assert.Equal(t, "room-1", c.Room())

	// Same id again is rejected at the directory.
	dup := s.dispatch(newTestClient(s, "p2"), Message{
		Type: ActionRoomCreate,
		Data: mustRaw(t, createRoomRequest{RoomID: "room-1", PlayerName: "Bob"}),
	})
	assert.False(t, dup.Success)
	assert.Equal(t, room.ErrRoomExists.Error(), dup.Error)
}

func TestDispatchUnknownAction(t *testing.T) {
	s := newTestServer(t)
	c := newTestClient(s, "p1")

	reply := s.dispatch(c, Message{Type: "no:such"})
	require.NotNil(t, reply)
	assert.False(t, reply.Success)
}

func TestRoomJoinFlow(t *testing.T) {
	s := newTestServer(t)
	owner := newTestClient(s, "p1")
	joiner := newTestClient(s, "p2")

	require.True(t, s.dispatch(owner, Message{
		Type: ActionRoomCreate,
		Data: mustRaw(t, createRoomRequest{RoomID: "room-1", PlayerName: "Alice"}),
	}).Success)

	missing := s.dispatch(joiner, Message{
		Type: ActionRoomJoin,
		Data: mustRaw(t, joinRoomRequest{RoomID: "nope", PlayerName: "Bob"}),
	})
	assert.False(t, missing.Success)
	assert.Equal(t, room.ErrRoomNotFound.Error(), missing.Error)

	joined := s.dispatch(joiner, Message{
		Type: ActionRoomJoin,
		Data: mustRaw(t, joinRoomRequest{RoomID: "room-1", PlayerName: "Bob"}),
	})
	require.True(t, joined.Success)
	assert.Equal(t, "room-1", joiner.Room())

	// The rest of the room saw the refreshed public view.
	assert.Contains(t, eventTypes(drainEvents(t, owner)), EventGameUpdate)
}

func TestGameStartGuards(t *testing.T) {
	s := newTestServer(t)
	owner := newTestClient(s, "p1")
	joiner := newTestClient(s, "p2")

	require.True(t, s.dispatch(owner, Message{
		Type: ActionRoomCreate,
		Data: mustRaw(t, createRoomRequest{RoomID: "room-1", PlayerName: "Alice"}),
	}).Success)

	// One seated player is not enough.
	tooFew := s.dispatch(owner, Message{Type: ActionGameStart, Data: mustRaw(t, roomRequest{RoomID: "room-1"})})
	assert.False(t, tooFew.Success)

	require.True(t, s.dispatch(joiner, Message{
		Type: ActionRoomJoin,
		Data: mustRaw(t, joinRoomRequest{RoomID: "room-1", PlayerName: "Bob"}),
	}).Success)

	// Only the room creator may start.
	notOwner := s.dispatch(joiner, Message{Type: ActionGameStart, Data: mustRaw(t, roomRequest{RoomID: "room-1"})})
	assert.False(t, notOwner.Success)

	started := s.dispatch(owner, Message{Type: ActionGameStart, Data: mustRaw(t, roomRequest{RoomID: "room-1"})})
	require.True(t, started.Success)

	// A second deal on a running match is refused.
	again := s.dispatch(owner, Message{Type: ActionGameStart, Data: mustRaw(t, roomRequest{RoomID: "room-1"})})
	assert.False(t, again.Success)

	for _, c := range []*Client{owner, joiner} {
		types := eventTypes(drainEvents(t, c))
		assert.Contains(t, types, EventGameStarted)
		assert.Contains(t, types, EventStateUpdate)
	}
}

func TestTurnActionErrorMapping(t *testing.T) {
	s := newTestServer(t)
	owner := newTestClient(s, "p1")
	joiner := newTestClient(s, "p2")

	require.True(t, s.dispatch(owner, Message{
		Type: ActionRoomCreate,
		Data: mustRaw(t, createRoomRequest{RoomID: "room-1", PlayerName: "Alice"}),
	}).Success)
	require.True(t, s.dispatch(joiner, Message{
		Type: ActionRoomJoin,
		Data: mustRaw(t, joinRoomRequest{RoomID: "room-1", PlayerName: "Bob"}),
	}).Success)
	require.True(t, s.dispatch(owner, Message{
		Type: ActionGameStart,
		Data: mustRaw(t, roomRequest{RoomID: "room-1"}),
	}).Success)

	// Playing tiles during the starter phase is rejected with the engine's
	// phase error.
	reply := s.dispatch(owner, Message{
		Type: ActionPlayTiles,
		Data: mustRaw(t, playTilesRequest{RoomID: "room-1", Tiles: []domino.Tile{{A: 1, B: 2}}}),
	})
	assert.False(t, reply.Success)
	assert.NotEmpty(t, reply.Error)

	engine, ok := s.rooms.GetRoom("room-1")
	require.True(t, ok)

	// Find the client whose hand holds the double-six: the starter.
	var starter, other *Client
	for _, c := range []*Client{owner, joiner} {
		if domino.HandHasTile(engine.PlayerView(c.playerID).MyHand, domino.Starter) {
			starter = c
		} else {
			other = c
		}
	}
	require.NotNil(t, starter, "2-player deal always places the double-six")

	// The non-starter cannot open the match.
	wrongTurn := s.dispatch(other, Message{
		Type: ActionSubmitStarter,
		Data: mustRaw(t, numberChoiceRequest{RoomID: "room-1", NumberChoice: 3}),
	})
	assert.False(t, wrongTurn.Success)

	badNumber := s.dispatch(starter, Message{
		Type: ActionSubmitStarter,
		Data: mustRaw(t, numberChoiceRequest{RoomID: "room-1", NumberChoice: 9}),
	})
	assert.False(t, badNumber.Success)

	drainEvents(t, owner)
	drainEvents(t, joiner)

	opened := s.dispatch(starter, Message{
		Type: ActionSubmitStarter,
		Data: mustRaw(t, numberChoiceRequest{RoomID: "room-1", NumberChoice: 3}),
	})
	require.True(t, opened.Success)

	for _, c := range []*Client{owner, joiner} {
		types := eventTypes(drainEvents(t, c))
		assert.Contains(t, types, EventGameUpdate)
		assert.Contains(t, types, EventStateUpdate)
	}

	public := engine.PublicView()
	assert.Equal(t, "PLAY", public.Phase)
	assert.Equal(t, 3, public.CurrentNumber)
	require.NotNil(t, public.StarterTile)
}

func TestRoomGetState(t *testing.T) {
	s := newTestServer(t)
	owner := newTestClient(s, "p1")
	stranger := newTestClient(s, "p2")

	require.True(t, s.dispatch(owner, Message{
		Type: ActionRoomCreate,
		Data: mustRaw(t, createRoomRequest{RoomID: "room-1", PlayerName: "Alice"}),
	}).Success)

	reply := s.dispatch(owner, Message{Type: ActionRoomGetState, Data: mustRaw(t, roomRequest{RoomID: "room-1"})})
	assert.True(t, reply.Success)

	denied := s.dispatch(stranger, Message{Type: ActionRoomGetState, Data: mustRaw(t, roomRequest{RoomID: "room-1"})})
	assert.False(t, denied.Success)
}

func TestHealthAndRoomsEndpoints(t *testing.T) {
	s := newTestServer(t)
	handler := s.Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, 200, rec.Code)
	assert.JSONEq(t, `{"status":"ok","clients":0}`, rec.Body.String())

	owner := newTestClient(s, "p1")
	require.True(t, s.dispatch(owner, Message{
		Type: ActionRoomCreate,
		Data: mustRaw(t, createRoomRequest{RoomID: "room-1", PlayerName: "Alice"}),
	}).Success)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/rooms", nil))
	assert.Equal(t, 200, rec.Code)
	assert.JSONEq(t, `{"rooms":["room-1"]}`, rec.Body.String())
}
