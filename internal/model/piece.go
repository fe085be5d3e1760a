package model

import "strings"

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

// fenLetter returns the white (upper case) FEN letter for the piece type.
func (p PieceType) fenLetter() string {
	switch p {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	case Pawn:
		return "P"
	}
	return ""
}

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// HomeRank is the rank the color's king and rooks start on.
func (c Color) HomeRank() int {
	if c == White {
		return 0
	}
	return 7
}

// PawnDirection is the sign of y for a forward pawn step.
func (c Color) PawnDirection() int {
	if c == White {
		return 1
	}
	return -1
}

func (c Color) Valid() bool {
	return c == White || c == Black
}

// Piece is a value record. The ID survives relocation; a capture drops the
// piece from the board and only the captured list keeps it.
type Piece struct {
	ID        int       `json:"id"`
	Type      PieceType `json:"type"`
	Color     Color     `json:"color"`
	MoveCount int       `json:"moveCount"`
}

func (p Piece) HasMoved() bool {
	return p.MoveCount > 0
}

// LongName renders e.g. "WHITE KNIGHT".
func (p Piece) LongName() string {
	return strings.ToUpper(string(p.Color)) + " " + strings.ToUpper(string(p.Type))
}

// ShortName renders a three character cell label: "WKi"/"WKn" for king and
// knight, "W-Q" style for the rest.
func (p Piece) ShortName() string {
	c := strings.ToUpper(string(p.Color))[:1]
	t := strings.ToUpper(string(p.Type)[:1]) + string(p.Type)[1:2]
	if p.Type == King || p.Type == Knight {
		return c + t
	}
	return c + "-" + t[:1]
}

func (p Piece) fen() string {
	letter := p.Type.fenLetter()
	if p.Color == Black {
		return strings.ToLower(letter)
	}
	return letter
}
