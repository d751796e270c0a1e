package game

import "errors"

// Engine operations report failures as one of these kinds. All of them are
// locally recoverable: the request is rejected and the match state is left
// untouched.
var (
	ErrNotYourTurn           = errors.New("not your turn")
	ErrWrongPhase            = errors.New("operation not valid in current phase")
	ErrInvalidNumberChoice   = errors.New("number choice must be between 0 and 6")
	ErrMissingStarterTile    = errors.New("player does not hold the double-six")
	ErrMissingSubmittedTile  = errors.New("player does not hold one or more submitted tiles")
	ErrEmptySubmission       = errors.New("must submit at least one tile")
	ErrNoActiveSubmission    = errors.New("no submission to doubt")
	ErrSelfDoubt             = errors.New("cannot doubt your own submission")
	ErrNumberChoiceNotNeeded = errors.New("number choice not needed")
	ErrNumberChoiceRequired  = errors.New("a new number must be chosen first")
	ErrMatchStarted          = errors.New("cannot join after the deal")
	ErrTableFull             = errors.New("no free seat")
)
