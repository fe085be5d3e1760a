package model

import (
	"errors"
	"fmt"
	"strings"
)

const (
	minCoord = 0
	maxCoord = 7
)

var ErrInvalidPosition = errors.New("invalid position, expected x,y with digits 0-7")

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d,%d", p.X, p.Y)
}

func (p Position) InBounds() bool {
	return p.X >= minCoord && p.X <= maxCoord && p.Y >= minCoord && p.Y <= maxCoord
}

func (p Position) offset(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// ParsePosition accepts exactly "x,y" with single digits in 0..7.
func ParsePosition(s string) (Position, error) {
	s = strings.TrimSpace(s)
	if len(s) != 3 || s[1] != ',' {
		return Position{}, fmt.Errorf("%w: %q", ErrInvalidPosition, s)
	}
	x, y := int(s[0]-'0'), int(s[2]-'0')
	pos := Position{X: x, Y: y}
	if s[0] < '0' || s[0] > '9' || s[2] < '0' || s[2] > '9' || !pos.InBounds() {
		return Position{}, fmt.Errorf("%w: %q", ErrInvalidPosition, s)
	}
	return pos, nil
}

// Placement pairs a piece with the square it stands on.
type Placement struct {
	Position Position `json:"position"`
	Piece    Piece    `json:"piece"`
}

// Board maps squares to the piece standing on them. Empty squares are not
// keys.
type Board struct {
	squares map[Position]Piece
	nextID  int
}

func NewEmptyBoard() *Board {
	return &Board{squares: make(map[Position]Piece), nextID: 1}
}

var backRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewBoard sets up the standard initial position, white on ranks 0 and 1.
func NewBoard() *Board {
	b := NewEmptyBoard()
	for _, color := range []Color{White, Black} {
		home := color.HomeRank()
		pawns := home + color.PawnDirection()
		for x := minCoord; x <= maxCoord; x++ {
			b.Place(Position{X: x, Y: home}, backRank[x], color)
			b.Place(Position{X: x, Y: pawns}, Pawn, color)
		}
	}
	return b
}

// Place puts a fresh, unmoved piece on pos and returns it.
func (b *Board) Place(pos Position, t PieceType, c Color) Piece {
	p := Piece{ID: b.nextID, Type: t, Color: c}
	b.nextID++
	b.Set(pos, p)
	return p
}

func (b *Board) At(pos Position) (Piece, bool) {
	p, ok := b.squares[pos]
	return p, ok
}

func (b *Board) Occupied(pos Position) bool {
	_, ok := b.squares[pos]
	return ok
}

// Set puts p on pos. Positions off the board are ignored.
func (b *Board) Set(pos Position, p Piece) {
	if !pos.InBounds() {
		return
	}
	b.squares[pos] = p
}

func (b *Board) Clear(pos Position) {
	delete(b.squares, pos)
}

// Clone returns a board that shares nothing with b.
func (b *Board) Clone() *Board {
	c := &Board{squares: make(map[Position]Piece, len(b.squares)), nextID: b.nextID}
	for pos, p := range b.squares {
		c.squares[pos] = p
	}
	return c
}

// Pieces lists the placements of one color in rank then file order.
func (b *Board) Pieces(color Color) []Placement {
	var out []Placement
	for y := minCoord; y <= maxCoord; y++ {
		for x := minCoord; x <= maxCoord; x++ {
			pos := Position{X: x, Y: y}
			if p, ok := b.squares[pos]; ok && p.Color == color {
				out = append(out, Placement{Position: pos, Piece: p})
			}
		}
	}
	return out
}

// KingPosition finds the king of the given color.
func (b *Board) KingPosition(color Color) (Position, bool) {
	for pos, p := range b.squares {
		if p.Type == King && p.Color == color {
			return pos, true
		}
	}
	return Position{}, false
}

func (b *Board) newID() int {
	id := b.nextID
	b.nextID++
	return id
}

// BoardState is the JSON view of a board, indexed [y][x].
type BoardState struct {
	Squares           [8][8]*Piece `json:"squares"`
	WhiteKingPosition *Position    `json:"whiteKingPosition"`
	BlackKingPosition *Position    `json:"blackKingPosition"`
}

func (b *Board) Snapshot() BoardState {
	var s BoardState
	for pos, p := range b.squares {
		p := p
		s.Squares[pos.Y][pos.X] = &p
	}
	if pos, ok := b.KingPosition(White); ok {
		s.WhiteKingPosition = &pos
	}
	if pos, ok := b.KingPosition(Black); ok {
		s.BlackKingPosition = &pos
	}
	return s
}

// FEN exports the position. Castling rights come from move counters and
// there is never an en-passant square.
func (b *Board) FEN(toMove Color) string {
	var sb strings.Builder
	for y := maxCoord; y >= minCoord; y-- {
		empty := 0
		for x := minCoord; x <= maxCoord; x++ {
			p, ok := b.squares[Position{X: x, Y: y}]
			if !ok {
				empty++
				continue
			}
			if empty > 0 {
				fmt.Fprintf(&sb, "%d", empty)
				empty = 0
			}
			sb.WriteString(p.fen())
		}
		if empty > 0 {
			fmt.Fprintf(&sb, "%d", empty)
		}
		if y > minCoord {
			sb.WriteByte('/')
		}
	}

	side := "w"
	if toMove == Black {
		side = "b"
	}

	rights := ""
	for _, c := range []Color{White, Black} {
		for _, cs := range []CastleSide{Kingside, Queenside} {
			if b.castlingRightsIntact(c, cs) {
				rights += cs.fenLetter(c)
			}
		}
	}
	if rights == "" {
		rights = "-"
	}
	return fmt.Sprintf("%s %s %s - 0 1", sb.String(), side, rights)
}
