package model

const (
	detailBishop = "this is not a diagonal path"
	detailRook   = "this is not a vertical/horizontal path"
	detailKnight = "this is not a valid path for a knight"
	detailQueen  = "this is not a vertical/horizontal/diagonal path"
	detailKing   = "this is not a one-square vertical/horizontal/diagonal path"
	detailPawn   = "this violates the pawn rule: one step forward onto an empty square, " +
		"two steps forward on its first move over empty squares, " +
		"or one step diagonally forward onto an opposing piece"
)

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

func isDiagonal(dx, dy int) bool {
	return dx != 0 && abs(dx) == abs(dy)
}

func isStraight(dx, dy int) bool {
	return (dx == 0) != (dy == 0)
}

func isKnightJump(dx, dy int) bool {
	return (abs(dx) == 1 && abs(dy) == 2) || (abs(dx) == 2 && abs(dy) == 1)
}

func isKingStep(dx, dy int) bool {
	return abs(dx) <= 1 && abs(dy) <= 1 && (dx != 0 || dy != 0)
}

// pawnShape covers advance-one, advance-two and diagonal capture. It is the
// only shape rule that looks at the board.
func pawnShape(b *Board, from, to Position, p Piece) bool {
	dx, dy := to.X-from.X, to.Y-from.Y
	dir := p.Color.PawnDirection()
	switch {
	case dx == 0 && dy == dir:
		return !b.Occupied(to)
	case dx == 0 && dy == 2*dir:
		return !p.HasMoved() && !b.Occupied(to) && !b.Occupied(from.offset(0, dir))
	case abs(dx) == 1 && dy == dir:
		target, ok := b.At(to)
		return ok && target.Color != p.Color
	}
	return false
}

// shapeDetail reports whether p may travel from→to by its movement pattern,
// castling aside, and the rule text when it may not.
func shapeDetail(b *Board, from, to Position, p Piece) (string, bool) {
	dx, dy := to.X-from.X, to.Y-from.Y
	switch p.Type {
	case Bishop:
		return detailBishop, isDiagonal(dx, dy)
	case Rook:
		return detailRook, isStraight(dx, dy)
	case Queen:
		return detailQueen, isStraight(dx, dy) || isDiagonal(dx, dy)
	case Knight:
		return detailKnight, isKnightJump(dx, dy)
	case King:
		return detailKing, isKingStep(dx, dy)
	case Pawn:
		return detailPawn, pawnShape(b, from, to, p)
	}
	return "unknown piece type " + string(p.Type), false
}

// between lists the squares strictly between from and to, walking from
// from. Displacements that are not a line yield nothing.
func between(from, to Position) []Position {
	dx, dy := to.X-from.X, to.Y-from.Y
	if !isStraight(dx, dy) && !isDiagonal(dx, dy) {
		return nil
	}
	sx, sy := sign(dx), sign(dy)
	var squares []Position
	for pos := from.offset(sx, sy); pos != to; pos = pos.offset(sx, sy) {
		squares = append(squares, pos)
	}
	return squares
}

// pathClear ignores the target square; capture rules own it.
func pathClear(b *Board, from, to Position) bool {
	for _, pos := range between(from, to) {
		if b.Occupied(pos) {
			return false
		}
	}
	return true
}

// reaches is the attack test: shape plus path, nothing else.
func reaches(b *Board, from, to Position, p Piece) bool {
	if _, ok := shapeDetail(b, from, to, p); !ok {
		return false
	}
	return p.Type == Knight || pathClear(b, from, to)
}
