package model

// MovePlan is a validated move, ready for ExecuteMove.
type MovePlan struct {
	From      Position   `json:"from"`
	To        Position   `json:"to"`
	Piece     Piece      `json:"piece"`
	Captured  *Piece     `json:"captured,omitempty"`
	Castle    CastleSide `json:"castle,omitempty"`
	Promotion bool       `json:"promotion,omitempty"`
}

// ValidateMove runs the legality checks in order and stops at the first
// failure, returned as a *MoveError. The board is never modified.
func ValidateMove(b *Board, toMove Color, from, to Position) (MovePlan, error) {
	piece, ok := b.At(from)
	if !ok {
		return MovePlan{}, newMoveError(NoPieceAtSource, from, to, nil)
	}
	if piece.Color != toMove {
		return MovePlan{}, newMoveError(WrongColor, from, to, &piece)
	}
	if !to.InBounds() {
		return MovePlan{}, newMoveError(OutOfBounds, from, to, &piece)
	}

	plan := MovePlan{From: from, To: to, Piece: piece}
	if err := checkShape(b, &plan); err != nil {
		return MovePlan{}, err
	}

	if piece.Type != Knight && !pathClear(b, from, to) {
		return MovePlan{}, newMoveError(Blocked, from, to, &piece)
	}

	if target, ok := b.At(to); ok {
		if target.Color == piece.Color {
			err := newMoveError(OccupiedBySameColor, from, to, &piece)
			err.Target = &target
			return MovePlan{}, err
		}
		plan.Captured = &target
	}

	if piece.Type == Pawn && to.Y == piece.Color.Opponent().HomeRank() {
		plan.Promotion = true
	}

	if leavesKingInCheck(b, plan) {
		return MovePlan{}, newMoveError(LeavesKingInCheck, from, to, &piece)
	}
	return plan, nil
}

// checkShape applies the piece's movement pattern, recognising castling for
// an unmoved king.
func checkShape(b *Board, plan *MovePlan) *MoveError {
	piece := plan.Piece
	detail, ok := shapeDetail(b, plan.From, plan.To, piece)
	if ok {
		return nil
	}
	if piece.Type == King && !piece.HasMoved() {
		if cs := castleSideOf(plan.From, plan.To); cs != NoCastle {
			if !castleAllowed(b, plan.From, piece, cs) {
				err := newMoveError(CastleRuleViolated, plan.From, plan.To, &piece)
				err.Detail = cs.rule()
				return err
			}
			plan.Castle = cs
			return nil
		}
	}
	err := newMoveError(IllegalShape, plan.From, plan.To, &piece)
	err.Detail = detail
	return err
}

// leavesKingInCheck plays the plan on a scratch board and looks at the
// mover's king.
func leavesKingInCheck(b *Board, plan MovePlan) bool {
	scratch := b.Clone()
	ExecuteMove(scratch, plan)
	king, ok := scratch.KingPosition(plan.Piece.Color)
	if !ok {
		return false
	}
	return IsInCheck(scratch, king)
}

// LegalMoves enumerates every legal destination for the piece on from.
func LegalMoves(b *Board, toMove Color, from Position) []MovePlan {
	var plans []MovePlan
	for y := minCoord; y <= maxCoord; y++ {
		for x := minCoord; x <= maxCoord; x++ {
			to := Position{X: x, Y: y}
			if to == from {
				continue
			}
			if plan, err := ValidateMove(b, toMove, from, to); err == nil {
				plans = append(plans, plan)
			}
		}
	}
	return plans
}
