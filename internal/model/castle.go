package model

import "strings"

type CastleSide string

const (
	NoCastle  CastleSide = ""
	Kingside  CastleSide = "kingside"
	Queenside CastleSide = "queenside"
)

const kingHomeFile = 4

func (cs CastleSide) rookFrom() int {
	if cs == Queenside {
		return 0
	}
	return 7
}

func (cs CastleSide) rookTo() int {
	if cs == Queenside {
		return 3
	}
	return 5
}

func (cs CastleSide) kingTo() int {
	if cs == Queenside {
		return 2
	}
	return 6
}

// emptyFiles must hold no piece for the castle to go ahead.
func (cs CastleSide) emptyFiles() []int {
	if cs == Queenside {
		return []int{1, 2, 3}
	}
	return []int{5, 6}
}

func (cs CastleSide) rule() string {
	side := "right"
	if cs == Queenside {
		side = "left"
	}
	return "king and " + side + " rook must not have previously moved and there are no pieces blocking castle path"
}

func (cs CastleSide) fenLetter(c Color) string {
	letter := "K"
	if cs == Queenside {
		letter = "Q"
	}
	if c == Black {
		return strings.ToLower(letter)
	}
	return letter
}

// castleSideOf recognises a king move from the home file two files along its
// own rank.
func castleSideOf(from, to Position) CastleSide {
	if from.X != kingHomeFile || from.Y != to.Y {
		return NoCastle
	}
	switch to.X {
	case Queenside.kingTo():
		return Queenside
	case Kingside.kingTo():
		return Kingside
	}
	return NoCastle
}

// castleAllowed checks the unmoved king, the unmoved rook on the same rank
// and the empty files between them. Attacks on the transit square are not
// considered; only the destination self-check in the pipeline applies.
func castleAllowed(b *Board, from Position, king Piece, cs CastleSide) bool {
	if king.HasMoved() {
		return false
	}
	rook, ok := b.At(Position{X: cs.rookFrom(), Y: from.Y})
	if !ok || rook.Type != Rook || rook.Color != king.Color || rook.HasMoved() {
		return false
	}
	for _, x := range cs.emptyFiles() {
		if b.Occupied(Position{X: x, Y: from.Y}) {
			return false
		}
	}
	return true
}

// CanCastle reports whether color may castle on the given side from the
// standard home squares. It does not run the self-check test.
func CanCastle(b *Board, color Color, cs CastleSide) bool {
	if cs != Kingside && cs != Queenside {
		return false
	}
	from := Position{X: kingHomeFile, Y: color.HomeRank()}
	king, ok := b.At(from)
	if !ok || king.Type != King || king.Color != color {
		return false
	}
	return castleAllowed(b, from, king, cs)
}

func (b *Board) castlingRightsIntact(color Color, cs CastleSide) bool {
	rank := color.HomeRank()
	king, ok := b.At(Position{X: kingHomeFile, Y: rank})
	if !ok || king.Type != King || king.Color != color || king.HasMoved() {
		return false
	}
	rook, ok := b.At(Position{X: cs.rookFrom(), Y: rank})
	return ok && rook.Type == Rook && rook.Color == color && !rook.HasMoved()
}
