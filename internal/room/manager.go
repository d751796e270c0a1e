package room

import (
	"errors"
	"sync"

	"github.com/salastro/ashakk/internal/game"
	"go.uber.org/zap"
)

// Directory-level failures. Game-rule failures are reported by the engine
// itself.
var (
	ErrRoomExists   = errors.New("room already exists")
	ErrRoomNotFound = errors.New("room not found")
	ErrRoomFull     = errors.New("room is full")
	ErrGameStarted  = errors.New("game already started")
)

// DefaultMaxPlayers caps seats per room when no limit is configured.
const DefaultMaxPlayers = 4

// Manager maps room identifiers to engine instances and players to rooms.
// It holds no game logic: every rule decision belongs to the engine.
type Manager struct {
	rooms       map[string]*game.Engine
	playerRooms map[string]string // player id -> room id
	maxPlayers  int
	mu          sync.RWMutex
	logger      *zap.Logger
}

// NewManager creates an empty room directory.
func NewManager(maxPlayers int, logger *zap.Logger) *Manager {
	if maxPlayers <= 0 {
		maxPlayers = DefaultMaxPlayers
	}
	return &Manager{
		rooms:       make(map[string]*game.Engine),
		playerRooms: make(map[string]string),
		maxPlayers:  maxPlayers,
		logger:      logger,
	}
}

// CreateRoom creates a new engine for the given room id and registers its
// initial players. The game master is the player allowed to trigger the
// deal.
func (m *Manager) CreateRoom(roomID string, players []*game.Player, gameMasterID string) (*game.Engine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.rooms[roomID]; exists {
		return nil, ErrRoomExists
	}

	engine := game.NewEngine(roomID, players, gameMasterID, m.logger)
	m.rooms[roomID] = engine

	for _, p := range players {
		m.playerRooms[p.ID] = roomID
	}

	m.logger.Info("room created",
		zap.String("room_id", roomID),
		zap.String("game_master", gameMasterID),
		zap.Int("players", len(players)),
	)

	return engine, nil
}

// JoinRoom seats a player in an existing room. Joining is rejected once the
// deal has happened or the room is full.
func (m *Manager) JoinRoom(roomID string, player *game.Player) (*game.Engine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	engine, ok := m.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}

	// The engine seats (or refuses) atomically; the directory only keeps
	// the player index.
	switch err := engine.TryAddPlayer(player, m.maxPlayers); {
	case errors.Is(err, game.ErrMatchStarted):
		return nil, ErrGameStarted
	case errors.Is(err, game.ErrTableFull):
		return nil, ErrRoomFull
	case err != nil:
		return nil, err
	}

	m.playerRooms[player.ID] = roomID

	m.logger.Info("player joined room",
		zap.String("room_id", roomID),
		zap.String("player_id", player.ID),
		zap.String("player_name", player.Name),
	)

	return engine, nil
}

// GetRoom retrieves a room's engine by id.
func (m *Manager) GetRoom(roomID string) (*game.Engine, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	engine, ok := m.rooms[roomID]
	return engine, ok
}

// GetPlayerRoom retrieves the engine of the room the player is seated in.
func (m *Manager) GetPlayerRoom(playerID string) (*game.Engine, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	roomID, ok := m.playerRooms[playerID]
	if !ok {
		return nil, false
	}
	engine, ok := m.rooms[roomID]
	return engine, ok
}

// DeleteRoom removes a room and unmaps its players. Returns false when the
// room does not exist.
func (m *Manager) DeleteRoom(roomID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	engine, ok := m.rooms[roomID]
	if !ok {
		return false
	}

	for _, playerID := range engine.PlayerIDs() {
		delete(m.playerRooms, playerID)
	}
	delete(m.rooms, roomID)

	m.logger.Info("room deleted", zap.String("room_id", roomID))
	return true
}

// RoomExists reports whether a room with the given id is registered.
func (m *Manager) RoomExists(roomID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.rooms[roomID]
	return ok
}

// RoomIDs returns the ids of all active rooms.
func (m *Manager) RoomIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.rooms))
	for id := range m.rooms {
		ids = append(ids, id)
	}
	return ids
}

// RoomCount returns the number of active rooms.
func (m *Manager) RoomCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}
