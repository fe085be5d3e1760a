package model

import (
	"errors"
	"fmt"
)

var (
	ErrIllegalMove     = errors.New("illegal move")
	ErrGameFull        = errors.New("game is full")
	ErrNotYourTurn     = errors.New("not your turn")
	ErrPlayerNotInGame = errors.New("player not in game")
	ErrGameOver        = errors.New("game is over")
	ErrTimeExpired     = errors.New("clock expired")
	ErrAlreadyQueued   = errors.New("player already in queue")
)

// ErrorKind names the legality check that rejected a move.
type ErrorKind string

const (
	NoPieceAtSource     ErrorKind = "noPieceAtSource"
	WrongColor          ErrorKind = "wrongColor"
	OutOfBounds         ErrorKind = "outOfBounds"
	IllegalShape        ErrorKind = "illegalShape"
	CastleRuleViolated  ErrorKind = "castleRuleViolated"
	Blocked             ErrorKind = "blocked"
	OccupiedBySameColor ErrorKind = "occupiedBySameColor"
	LeavesKingInCheck   ErrorKind = "leavesKingInCheck"
)

// MoveError describes the first failed legality check of a move. It wraps
// ErrIllegalMove.
type MoveError struct {
	Kind   ErrorKind
	From   Position
	To     Position
	Piece  *Piece
	Target *Piece
	// Detail is the piece specific rule for IllegalShape and
	// CastleRuleViolated.
	Detail string
}

func (e *MoveError) Error() string {
	switch e.Kind {
	case NoPieceAtSource:
		return fmt.Sprintf("cannot move from %s since there is no chess piece at that location", e.From)
	case WrongColor:
		return fmt.Sprintf("cannot move %s at %s since this is an opposing piece (wrong color)", e.pieceName(), e.From)
	case OutOfBounds:
		return fmt.Sprintf("cannot move a piece to (%s) since this target coordinate is not on the chess board", e.To)
	case IllegalShape:
		return fmt.Sprintf("cannot move %s from %s to %s since %s", e.pieceName(), e.From, e.To, e.Detail)
	case CastleRuleViolated:
		return fmt.Sprintf("cannot move %s from %s to %s since this castle attempt violates rule: %s", e.pieceName(), e.From, e.To, e.Detail)
	case Blocked:
		return fmt.Sprintf("cannot move %s from %s to %s since there are piece(s) in the way of path", e.pieceName(), e.From, e.To)
	case OccupiedBySameColor:
		target := ""
		if e.Target != nil {
			target = e.Target.LongName() + " "
		}
		return fmt.Sprintf("cannot move %s from %s to %s since piece %salready there is same color", e.pieceName(), e.From, e.To, target)
	case LeavesKingInCheck:
		return fmt.Sprintf("cannot move %s from %s to %s since this puts your king under check (or the king was already under check and this move does not remedy it)", e.pieceName(), e.From, e.To)
	}
	return ErrIllegalMove.Error()
}

func (e *MoveError) Unwrap() error {
	return ErrIllegalMove
}

// Reasons is the display list handed to clients. The pipeline stops at the
// first failure so there is one entry.
func (e *MoveError) Reasons() []string {
	return []string{e.Error()}
}

func (e *MoveError) pieceName() string {
	if e.Piece == nil {
		return "piece"
	}
	return e.Piece.LongName()
}

func newMoveError(kind ErrorKind, from, to Position, piece *Piece) *MoveError {
	return &MoveError{Kind: kind, From: from, To: to, Piece: piece}
}
