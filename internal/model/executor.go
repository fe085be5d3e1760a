package model

// CapturedPiece keeps a piece taken off the board with the square it was
// taken on.
type CapturedPiece struct {
	Piece Piece    `json:"piece"`
	At    Position `json:"at"`
}

// ExecuteMove commits a plan returned by ValidateMove. Every piece that
// physically moves has its move counter bumped; a promoted pawn is replaced
// by a new queen with a fresh id.
func ExecuteMove(b *Board, plan MovePlan) *CapturedPiece {
	var captured *CapturedPiece
	if target, ok := b.At(plan.To); ok {
		captured = &CapturedPiece{Piece: target, At: plan.To}
	}

	switch {
	case plan.Castle != NoCastle:
		rank := plan.From.Y
		relocate(b, Position{X: plan.Castle.rookFrom(), Y: rank}, Position{X: plan.Castle.rookTo(), Y: rank})
		relocate(b, plan.From, plan.To)
	case plan.Promotion:
		pawn, _ := b.At(plan.From)
		b.Clear(plan.From)
		b.Set(plan.To, Piece{ID: b.newID(), Type: Queen, Color: pawn.Color})
	default:
		relocate(b, plan.From, plan.To)
	}
	return captured
}

func relocate(b *Board, from, to Position) {
	p, ok := b.At(from)
	if !ok {
		return
	}
	b.Clear(from)
	p.MoveCount++
	b.Set(to, p)
}
