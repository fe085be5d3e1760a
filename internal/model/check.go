package model

var kingSteps = []Position{
	{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1},
	{X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: -1, Y: -1},
}

// CheckState is recomputed on every query, never stored.
type CheckState struct {
	InCheck   bool        `json:"inCheck"`
	Attackers []Placement `json:"attackers"`
}

// attackersOf lists the pieces of color by whose pattern reaches square.
func attackersOf(b *Board, square Position, by Color) []Placement {
	var attackers []Placement
	for _, pl := range b.Pieces(by) {
		if reaches(b, pl.Position, square, pl.Piece) {
			attackers = append(attackers, pl)
		}
	}
	return attackers
}

// Attackers lists the opposing pieces attacking the piece on kingSquare.
func Attackers(b *Board, kingSquare Position) []Placement {
	king, ok := b.At(kingSquare)
	if !ok {
		return nil
	}
	return attackersOf(b, kingSquare, king.Color.Opponent())
}

func Check(b *Board, kingSquare Position) CheckState {
	attackers := Attackers(b, kingSquare)
	return CheckState{InCheck: len(attackers) > 0, Attackers: attackers}
}

func IsInCheck(b *Board, kingSquare Position) bool {
	return len(Attackers(b, kingSquare)) > 0
}

// IsCheckmated reports whether the king on kingSquare is in check with no
// escape square and no ally able to capture or block an attacker.
func IsCheckmated(b *Board, kingSquare Position) bool {
	king, ok := b.At(kingSquare)
	if !ok || king.Type != King {
		return false
	}
	attackers := Attackers(b, kingSquare)
	if len(attackers) == 0 {
		return false
	}
	if canEscape(b, kingSquare, king) {
		return false
	}

	for _, attacker := range attackers {
		squares := interpositions(attacker, kingSquare)
		for _, ally := range b.Pieces(king.Color) {
			if ally.Piece.Type == King {
				continue
			}
			for _, sq := range squares {
				if _, err := ValidateMove(b, king.Color, ally.Position, sq); err == nil {
					return false
				}
			}
		}
	}
	return true
}

func canEscape(b *Board, kingSquare Position, king Piece) bool {
	for _, step := range kingSteps {
		to := kingSquare.offset(step.X, step.Y)
		if !to.InBounds() {
			continue
		}
		if occupant, ok := b.At(to); ok && occupant.Color == king.Color {
			continue
		}
		scratch := b.Clone()
		scratch.Clear(kingSquare)
		scratch.Set(to, king)
		if !IsInCheck(scratch, to) {
			return true
		}
	}
	return false
}

// interpositions are the squares where an ally could stop attacker: its own
// square first, then the line towards the king for sliding pieces.
func interpositions(attacker Placement, kingSquare Position) []Position {
	squares := []Position{attacker.Position}
	dx, dy := kingSquare.X-attacker.Position.X, kingSquare.Y-attacker.Position.Y
	switch attacker.Piece.Type {
	case Rook:
		if isStraight(dx, dy) {
			squares = append(squares, between(attacker.Position, kingSquare)...)
		}
	case Bishop:
		if isDiagonal(dx, dy) {
			squares = append(squares, between(attacker.Position, kingSquare)...)
		}
	case Queen:
		squares = append(squares, between(attacker.Position, kingSquare)...)
	case Knight, Pawn, King:
	}
	return squares
}
