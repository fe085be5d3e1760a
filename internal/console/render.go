package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/fatih/color"
)

var (
	whitePiece = color.New(color.FgHiWhite, color.Bold)
	blackPiece = color.New(color.FgHiRed, color.Bold)
	frame      = color.New(color.FgCyan)
	warning    = color.New(color.FgYellow, color.Bold)
)

const emptyCell = "   "

func pieceColor(c model.Color) *color.Color {
	if c == model.White {
		return whitePiece
	}
	return blackPiece
}

// RenderBoard prints the board with rank 7 on top and file 0 on the left.
func RenderBoard(w io.Writer, b *model.Board) {
	fmt.Fprintln(w, "CURRENT CHESS BOARD")
	fmt.Fprintln(w, "+++++++++++++++++++")
	fmt.Fprintln(w)

	files := fileHeader()
	frame.Fprintln(w, "  "+files)
	frame.Fprintln(w, strings.Repeat("#", 34))
	for y := 7; y >= 0; y-- {
		frame.Fprintf(w, "%d#", y)
		for x := 0; x <= 7; x++ {
			if p, ok := b.At(model.Position{X: x, Y: y}); ok {
				pieceColor(p.Color).Fprint(w, p.ShortName())
			} else {
				fmt.Fprint(w, emptyCell)
			}
			frame.Fprint(w, "|")
		}
		frame.Fprintf(w, "%d\n", y)
	}
	frame.Fprintln(w, strings.Repeat("#", 34))
	frame.Fprintln(w, " #"+files)
	fmt.Fprintln(w)
}

func fileHeader() string {
	var sb strings.Builder
	for x := 0; x <= 7; x++ {
		fmt.Fprintf(&sb, " %d |", x)
	}
	return sb.String()
}

// RenderCaptured lists captured pieces grouped by the color that lost them.
func RenderCaptured(w io.Writer, captured []model.CapturedPiece) {
	for _, c := range []model.Color{model.White, model.Black} {
		var entries []string
		for _, cp := range captured {
			if cp.Piece.Color == c {
				entries = append(entries, fmt.Sprintf("%s at (%s)", strings.ToUpper(string(cp.Piece.Type)), cp.At))
			}
		}
		side, other := colorName(c), colorName(c.Opponent())
		if len(entries) == 0 {
			fmt.Fprintf(w, "No %s pieces captured by %s\n", side, other)
		} else {
			fmt.Fprintf(w, "%s pieces captured (by %s)\n", side, other)
			pieceColor(c).Fprintln(w, strings.Join(entries, ";"))
		}
		fmt.Fprintln(w)
	}
}

func colorName(c model.Color) string {
	s := string(c)
	return strings.ToUpper(s[:1]) + s[1:]
}
