package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/salastro/ashakk/internal/config"
	"github.com/salastro/ashakk/internal/room"
	"go.uber.org/zap"
)

// Server is the websocket transport in front of the room directory and the
// game engines. It holds no game state of its own.
type Server struct {
	cfg      config.ServerConfig
	rooms    *room.Manager
	hub      *Hub
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// New creates the transport server.
func New(cfg config.ServerConfig, rooms *room.Manager, logger *zap.Logger) *Server {
	return &Server{
		cfg:   cfg,
		rooms: rooms,
		hub:   NewHub(logger),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin: func(r *http.Request) bool {
				// Clients connect from arbitrary origins; the protocol
				// carries no credentials.
				return true
			},
		},
		logger: logger,
	}
}

// Handler returns the HTTP routes: the websocket endpoint plus the health
// and room-listing endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	mux.HandleFunc("/health", s.serveHealth)
	mux.HandleFunc("/rooms", s.serveRooms)
	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Address,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("websocket server listening", zap.String("address", s.cfg.Address))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{
		playerID: uuid.NewString(),
		conn:     conn,
		send:     make(chan []byte, s.cfg.SendQueueSize),
	}

	s.hub.Register(client)
	s.logger.Info("player connected", zap.String("player_id", client.playerID))

	go client.writePump()
	go client.readPump(s)
}

func (s *Server) serveHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"clients": s.hub.ClientCount(),
	})
}

func (s *Server) serveRooms(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string][]string{"rooms": s.rooms.RoomIDs()})
}
