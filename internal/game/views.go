package game

import "github.com/salastro/ashakk/internal/domino"

// PlayerSummary is the redacted per-player record safe for broadcast: hand
// size only, never contents.
type PlayerSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	HandSize  int    `json:"hand_size"`
	HasPassed bool   `json:"has_passed"`
}

// PublicView is the projection broadcast to every player in the room. It
// exposes sizes and public facts only; hand and board contents never appear
// here. The starter tile is the one face-up tile and is safe to show.
type PublicView struct {
	RoomID                 string          `json:"room_id"`
	Players                []PlayerSummary `json:"players"`
	GameMasterID           string          `json:"game_master_id"`
	CurrentPlayerIndex     int             `json:"current_player_index"`
	CurrentNumber          int             `json:"current_number"`
	NeedsNumberChoice      bool            `json:"needs_number_choice"`
	BoardSize              int             `json:"board_size"`
	StarterTile            *domino.Tile    `json:"starter_tile,omitempty"`
	Phase                  string          `json:"phase"`
	LastSubmissionSize     int             `json:"last_submission_size,omitempty"`
	LastSubmissionPlayerID string          `json:"last_submission_player_id,omitempty"`
	ConsecutiveNoPasses    int             `json:"consecutive_no_passes"`
	Winner                 string          `json:"winner,omitempty"`
	Leaderboard            []string        `json:"leaderboard,omitempty"`
}

// PlayerView is PublicView plus the requesting player's own hand and whether
// it is their turn. It is only ever sent to that player.
type PlayerView struct {
	PublicView
	MyHand   []domino.Tile `json:"my_hand"`
	IsMyTurn bool          `json:"is_my_turn"`
}

// PublicView builds the redacted projection of the current state.
func (e *Engine) PublicView() PublicView {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.publicViewLocked()
}

func (e *Engine) publicViewLocked() PublicView {
	s := e.state

	players := make([]PlayerSummary, 0, len(s.Players))
	for _, p := range s.Players {
		players = append(players, PlayerSummary{
			ID:        p.ID,
			Name:      p.Name,
			HandSize:  len(p.Hand),
			HasPassed: p.HasPassed,
		})
	}

	view := PublicView{
		RoomID:              s.RoomID,
		Players:             players,
		GameMasterID:        s.GameMasterID,
		CurrentPlayerIndex:  s.CurrentPlayerIndex,
		CurrentNumber:       s.CurrentNumber,
		NeedsNumberChoice:   s.NeedsNumberChoice,
		BoardSize:           len(s.Board),
		Phase:               s.Phase.String(),
		ConsecutiveNoPasses: s.ConsecutiveNoPasses,
		Winner:              s.Winner,
	}

	if s.StarterTile != nil {
		starter := *s.StarterTile
		view.StarterTile = &starter
	}

	if s.LastSubmission != nil {
		view.LastSubmissionSize = len(s.LastSubmission.Tiles)
		view.LastSubmissionPlayerID = s.LastSubmission.PlayerID
	}

	if len(s.Leaderboard) > 0 {
		view.Leaderboard = append([]string(nil), s.Leaderboard...)
	}

	return view
}

// PlayerView builds the per-player projection: the public view plus the
// player's own hand contents.
func (e *Engine) PlayerView(playerID string) PlayerView {
	e.mu.Lock()
	defer e.mu.Unlock()

	view := PlayerView{
		PublicView: e.publicViewLocked(),
		MyHand:     make([]domino.Tile, 0),
	}

	if p := e.state.findPlayer(playerID); p != nil {
		view.MyHand = append(view.MyHand, p.Hand...)
	}

	view.IsMyTurn = e.state.currentPlayer().ID == playerID

	return view
}

// HasPlayer reports whether the given id is seated in this match.
func (e *Engine) HasPlayer(playerID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.findPlayer(playerID) != nil
}
