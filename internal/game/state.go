package game

import (
	"fmt"

	"github.com/salastro/ashakk/internal/domino"
)

// Phase represents the lifecycle of a match.
type Phase int

const (
	// PhaseStarter follows the deal: the holder of the double-six must play
	// it face-up and choose the opening number.
	PhaseStarter Phase = iota
	// PhasePlay is the open-play loop of submissions, passes and doubts.
	PhasePlay
	// PhaseEnded is terminal; no further mutation is accepted.
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseStarter:
		return "STARTER"
	case PhasePlay:
		return "PLAY"
	case PhaseEnded:
		return "ENDED"
	default:
		return fmt.Sprintf("PHASE_%d", int(p))
	}
}

// Penalty identifies which party absorbed the board after a doubt.
type Penalty int

const (
	PenaltyNone Penalty = iota
	PenaltySubmitter
	PenaltyDoubter
)

func (p Penalty) String() string {
	switch p {
	case PenaltySubmitter:
		return "SUBMITTER"
	case PenaltyDoubter:
		return "DOUBTER"
	default:
		return "NONE"
	}
}

// Player is a seated participant. Seating order is fixed for the match and
// defines turn rotation.
type Player struct {
	ID        string
	Name      string
	Hand      []domino.Tile
	HasPassed bool
}

// Submission is a face-down claim by a player that every tile matches the
// current number. It may be a bluff; truth is only checked on doubt.
type Submission struct {
	PlayerID string
	Tiles    []domino.Tile
}

// State is the canonical mutable record of one match. It is owned by exactly
// one Engine, which serializes all access.
type State struct {
	RoomID             string
	Players            []*Player
	GameMasterID       string
	CurrentPlayerIndex int
	Phase              Phase

	// CurrentNumber is -1 before the starter has chosen one.
	CurrentNumber     int
	NeedsNumberChoice bool

	// Board holds the face-down tiles whose authenticity is unresolved.
	Board []domino.Tile

	// StarterTile is the double-six while it sits face-up on the board.
	// After the first doubt resolution it is absorbed into a hand and
	// becomes an ordinary tile.
	StarterTile *domino.Tile

	// LastSubmission is the most recent claim that has neither been doubted
	// nor implicitly accepted. At most one is outstanding.
	LastSubmission *Submission

	ConsecutiveNoPasses int

	Winner      string
	Leaderboard []string
}

func newState(roomID string, players []*Player, gameMasterID string) *State {
	return &State{
		RoomID:             roomID,
		Players:            players,
		GameMasterID:       gameMasterID,
		CurrentPlayerIndex: 0,
		Phase:              PhaseStarter,
		CurrentNumber:      -1,
		Board:              make([]domino.Tile, 0),
	}
}

// currentPlayer returns the player whose turn it is.
func (s *State) currentPlayer() *Player {
	return s.Players[s.CurrentPlayerIndex]
}

// findPlayer returns the seated player with the given id, or nil.
func (s *State) findPlayer(playerID string) *Player {
	for _, p := range s.Players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

// advanceTurn moves the turn pointer to the next seat in rotation.
func (s *State) advanceTurn() {
	s.CurrentPlayerIndex = (s.CurrentPlayerIndex + 1) % len(s.Players)
}

// resetPassFlags clears every player's passed flag.
func (s *State) resetPassFlags() {
	for _, p := range s.Players {
		p.HasPassed = false
	}
}

// declareWinner transitions the match to its terminal phase.
func (s *State) declareWinner(playerID string) {
	s.Phase = PhaseEnded
	s.Winner = playerID
	s.Leaderboard = append(s.Leaderboard, playerID)
}
