package model

// MoveRequest is the client form of a move, squares written "x,y".
type MoveRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type CastleRookMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

// Ply is one executed half move.
type Ply struct {
	Piece          Piece           `json:"piece"`
	From           Position        `json:"from"`
	To             Position        `json:"to"`
	CapturedPiece  *Piece          `json:"capturedPiece"`
	CastleRookMove *CastleRookMove `json:"castleRookMove"`
	Promotion      bool            `json:"promotion"`
}

type SimpleMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

func newPly(plan MovePlan) Ply {
	ply := Ply{
		Piece:         plan.Piece,
		From:          plan.From,
		To:            plan.To,
		CapturedPiece: plan.Captured,
		Promotion:     plan.Promotion,
	}
	if plan.Castle != NoCastle {
		rank := plan.From.Y
		ply.CastleRookMove = &CastleRookMove{
			From: Position{X: plan.Castle.rookFrom(), Y: rank},
			To:   Position{X: plan.Castle.rookTo(), Y: rank},
		}
	}
	return ply
}
