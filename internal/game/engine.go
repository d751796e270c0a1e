package game

import (
	"sync"

	"github.com/salastro/ashakk/internal/domino"
	"go.uber.org/zap"
)

// Engine is the sole arbiter of one match. It owns the match State and
// serializes every operation behind a single mutex, so concurrent client
// requests on the same room apply one at a time in arrival order. Different
// rooms hold independent engines and run concurrently.
type Engine struct {
	mu     sync.Mutex
	state  *State
	logger *zap.Logger
}

// NewEngine creates the engine for a room. Players are seated in the given
// order; that order defines turn rotation for the whole match. The game
// master is the only player allowed to trigger the deal.
func NewEngine(roomID string, players []*Player, gameMasterID string, logger *zap.Logger) *Engine {
	return &Engine{
		state:  newState(roomID, players, gameMasterID),
		logger: logger,
	}
}

// CanStartGame reports whether the given player may trigger the deal.
func (e *Engine) CanStartGame(playerID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.GameMasterID == playerID
}

// PlayerIDs returns the seated player ids in turn order.
func (e *Engine) PlayerIDs() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	ids := make([]string, 0, len(e.state.Players))
	for _, p := range e.state.Players {
		ids = append(ids, p.ID)
	}
	return ids
}

// PlayerCount returns the number of seated players.
func (e *Engine) PlayerCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.state.Players)
}

// Started reports whether the deal has happened. Rooms are only joinable
// while no hand has been dealt.
func (e *Engine) Started() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, p := range e.state.Players {
		if len(p.Hand) > 0 {
			return true
		}
	}
	return false
}

// TryAddPlayer seats a new player. The started and capacity checks happen
// under the same lock acquisition as the seat itself, so a concurrent deal
// cannot land between the check and the append.
func (e *Engine) TryAddPlayer(player *Player, maxPlayers int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, p := range e.state.Players {
		if len(p.Hand) > 0 {
			return ErrMatchStarted
		}
	}

	if len(e.state.Players) >= maxPlayers {
		return ErrTableFull
	}

	e.state.Players = append(e.state.Players, player)
	return nil
}

// InitializeGame performs the one-time deal and enters the starter phase.
// The shuffled set is split into floor(28/n)-tile hands; any remainder is
// permanently out of play for this match. The starter seat is the first one
// holding the double-six, defaulting to seat 0 when the double-six fell in
// the undealt remainder. Callers enforce the minimum of 2 players.
func (e *Engine) InitializeGame() {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.state
	tiles := domino.Shuffle(domino.GenerateSet())
	numPlayers := len(s.Players)
	perPlayer := len(tiles) / numPlayers

	hands := make([][]domino.Tile, numPlayers)
	for i := range s.Players {
		hand := make([]domino.Tile, perPlayer)
		copy(hand, tiles[i*perPlayer:(i+1)*perPlayer])
		s.Players[i].Hand = hand
		hands[i] = hand
	}

	s.CurrentPlayerIndex = domino.FindStarterIndex(hands)
	s.Phase = PhaseStarter
	s.CurrentNumber = -1

	e.logger.Info("game initialized",
		zap.String("room_id", s.RoomID),
		zap.Int("players", numPlayers),
		zap.Int("tiles_per_player", perPlayer),
		zap.Int("undealt", len(tiles)-perPlayer*numPlayers),
		zap.String("starter", s.currentPlayer().ID),
	)
}

// SubmitStarter plays the double-six face-up and sets the opening number.
// Only the starter-phase current player holding the double-six may call it.
// The same player keeps the turn afterwards. A one-tile starter hand wins
// the match outright.
func (e *Engine) SubmitStarter(playerID string, numberChoice int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.state
	if s.Phase != PhaseStarter {
		return ErrWrongPhase
	}

	current := s.currentPlayer()
	if current.ID != playerID {
		return ErrNotYourTurn
	}

	if !domino.ValidPip(numberChoice) {
		return ErrInvalidNumberChoice
	}

	if !domino.HandHasTile(current.Hand, domino.Starter) {
		return ErrMissingStarterTile
	}

	current.Hand = domino.RemoveFromHand(current.Hand, []domino.Tile{domino.Starter})
	starter := domino.Starter
	s.StarterTile = &starter
	s.CurrentNumber = numberChoice
	s.Phase = PhasePlay
	s.ConsecutiveNoPasses = 0

	if len(current.Hand) == 0 {
		s.declareWinner(playerID)
	}

	e.logger.Info("starter played",
		zap.String("room_id", s.RoomID),
		zap.String("player_id", playerID),
		zap.Int("number", numberChoice),
	)

	return nil
}

// SubmitTiles places tiles face-down on the board as a claim that they all
// match the current number. The engine only verifies hand membership; the
// truthfulness of the claim is exactly what the doubt mechanic decides.
//
// If a prior submission is still outstanding it is implicitly accepted
// here: nobody doubted it before the next play, so if it emptied the prior
// submitter's hand they win on the spot and the new claim is never
// recorded.
func (e *Engine) SubmitTiles(playerID string, tiles []domino.Tile) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.state
	if s.Phase != PhasePlay {
		return ErrWrongPhase
	}

	current := s.currentPlayer()
	if current.ID != playerID {
		return ErrNotYourTurn
	}

	if s.NeedsNumberChoice {
		return ErrNumberChoiceRequired
	}

	if len(tiles) == 0 {
		return ErrEmptySubmission
	}

	// Validate by consuming from a working copy: a request repeating one
	// physical tile needs a matching duplicate in hand, not one copy
	// counted twice.
	remaining := current.Hand
	for _, tile := range tiles {
		if !domino.HandHasTile(remaining, tile) {
			return ErrMissingSubmittedTile
		}
		remaining = domino.RemoveFromHand(remaining, []domino.Tile{tile})
	}

	current.Hand = remaining
	s.Board = domino.AddToHand(s.Board, tiles)

	if s.LastSubmission != nil {
		if prev := s.findPlayer(s.LastSubmission.PlayerID); prev != nil && len(prev.Hand) == 0 {
			s.declareWinner(prev.ID)
			e.logger.Info("match won by implicit acceptance",
				zap.String("room_id", s.RoomID),
				zap.String("winner", prev.ID),
			)
			return nil
		}
	}

	s.LastSubmission = &Submission{PlayerID: playerID, Tiles: tiles}
	s.advanceTurn()
	s.ConsecutiveNoPasses = 0

	return nil
}

// SubmitNoTile records the current player's claim of holding no matching
// tile. The claim itself is not validated. When every seated player has
// passed consecutively, the turn moves on and the next player must choose a
// fresh number before anyone may act.
func (e *Engine) SubmitNoTile(playerID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.state
	if s.Phase != PhasePlay {
		return ErrWrongPhase
	}

	current := s.currentPlayer()
	if current.ID != playerID {
		return ErrNotYourTurn
	}

	if s.NeedsNumberChoice {
		return ErrNumberChoiceRequired
	}

	current.HasPassed = true
	s.ConsecutiveNoPasses++

	if s.ConsecutiveNoPasses == len(s.Players) {
		s.advanceTurn()
		s.NeedsNumberChoice = true
		s.resetPassFlags()
		return nil
	}

	s.advanceTurn()
	return nil
}

// DoubtSubmission challenges the outstanding submission. The validator is
// the truth oracle: an honest submission penalizes the doubter and returns
// the turn to the submitter; a bluff penalizes the submitter and hands the
// turn to the doubter. An honest submission that emptied the submitter's
// hand wins the match before any penalty is applied. Otherwise the
// penalized hand absorbs the whole board plus the outstanding starter tile,
// and the new current player must choose a fresh number.
func (e *Engine) DoubtSubmission(playerID string) (Penalty, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.state
	if s.Phase != PhasePlay {
		return PenaltyNone, ErrWrongPhase
	}

	if s.LastSubmission == nil {
		return PenaltyNone, ErrNoActiveSubmission
	}

	// Only seated players may doubt.
	if s.findPlayer(playerID) == nil {
		return PenaltyNone, ErrNotYourTurn
	}

	submitterID := s.LastSubmission.PlayerID
	if submitterID == playerID {
		return PenaltyNone, ErrSelfDoubt
	}

	valid := domino.IsValidSubmission(s.LastSubmission.Tiles, s.CurrentNumber)

	var penalizedID, nextID string
	var penalty Penalty
	if valid {
		penalizedID, nextID = playerID, submitterID
		penalty = PenaltyDoubter
	} else {
		penalizedID, nextID = submitterID, playerID
		penalty = PenaltySubmitter
	}

	for i, p := range s.Players {
		if p.ID == nextID {
			s.CurrentPlayerIndex = i
			break
		}
	}

	// Win check precedes the penalty: an honest submitter with an empty
	// hand takes the match and no tiles move.
	submitter := s.findPlayer(submitterID)
	if valid && submitter != nil && len(submitter.Hand) == 0 {
		s.declareWinner(submitterID)
		e.logger.Info("match won on honest doubt",
			zap.String("room_id", s.RoomID),
			zap.String("winner", submitterID),
			zap.String("doubter", playerID),
		)
		return penalty, nil
	}

	if penalized := s.findPlayer(penalizedID); penalized != nil {
		penalized.Hand = domino.AddToHand(penalized.Hand, s.Board)
		if s.StarterTile != nil {
			penalized.Hand = domino.AddToHand(penalized.Hand, []domino.Tile{*s.StarterTile})
		}
	}

	s.Board = make([]domino.Tile, 0)
	s.StarterTile = nil
	s.LastSubmission = nil
	s.NeedsNumberChoice = true
	s.ConsecutiveNoPasses = 0
	s.resetPassFlags()

	e.logger.Info("doubt resolved",
		zap.String("room_id", s.RoomID),
		zap.String("doubter", playerID),
		zap.String("submitter", submitterID),
		zap.String("penalty", penalty.String()),
	)

	return penalty, nil
}

// ChooseNumber sets the current number after a full pass cycle or a doubt
// resolution. Only the current player may choose, and only when a choice is
// pending.
func (e *Engine) ChooseNumber(playerID string, numberChoice int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.state
	if s.Phase != PhasePlay {
		return ErrWrongPhase
	}

	if !s.NeedsNumberChoice {
		return ErrNumberChoiceNotNeeded
	}

	if s.currentPlayer().ID != playerID {
		return ErrNotYourTurn
	}

	if !domino.ValidPip(numberChoice) {
		return ErrInvalidNumberChoice
	}

	s.CurrentNumber = numberChoice
	s.NeedsNumberChoice = false
	s.ConsecutiveNoPasses = 0

	return nil
}

// AcceptSubmission is a no-op kept for protocol compatibility: acceptance
// is implicit, applied inside SubmitTiles when the next play happens.
func (e *Engine) AcceptSubmission(playerID string) error {
	return nil
}
