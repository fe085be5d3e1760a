// Package console is the hot-seat terminal front end: a menu loop over one
// local game.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/benbeisheim/chess-backend/internal/model"
)

type choice int

const (
	choiceMove choice = iota
	choiceCaptured
	choiceCastleLeft
	choiceCastleRight
	choiceQuit
)

type Session struct {
	in   *bufio.Scanner
	out  io.Writer
	game *model.Game
}

func NewSession(in io.Reader, out io.Writer) *Session {
	sc := bufio.NewScanner(in)
	sc.Split(bufio.ScanWords)
	return &Session{in: sc, out: out}
}

// Game is the game in progress, nil before one is started.
func (s *Session) Game() *model.Game {
	return s.game
}

// Run drives the menu until the player quits or input ends.
func (s *Session) Run() error {
	err := s.run()
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (s *Session) run() error {
	start, err := s.askYesNo("Do you wish to start a chess game? (Y/N) ")
	if err != nil {
		return err
	}
	if !start {
		fmt.Fprintln(s.out, "Did not start game. Goodbye")
		return nil
	}
	s.newGame()

	for {
		state := s.game.GetState()
		if state.IsCheckmate {
			RenderBoard(s.out, s.game.Board())
			fmt.Fprintf(s.out, "%s is checkmated. %s wins\n", colorName(state.ToMove), colorName(state.ToMove.Opponent()))
			fmt.Fprintln(s.out, "Game over.")
			again, err := s.askYesNo("Start new game? (Y/N) ")
			if err != nil {
				return err
			}
			if !again {
				fmt.Fprintln(s.out, "Did not start new game. Goodbye")
				return nil
			}
			s.newGame()
			continue
		}

		c, err := s.menu()
		if err != nil {
			return err
		}
		switch c {
		case choiceQuit:
			fmt.Fprintln(s.out, "You quit the game. See you next time. Goodbye.")
			return nil
		case choiceMove:
			if err := s.executeMove(state); err != nil {
				return err
			}
		case choiceCaptured:
			RenderCaptured(s.out, s.game.Captured())
		case choiceCastleLeft:
			s.report(s.game.Castle(model.Queenside))
		case choiceCastleRight:
			s.report(s.game.Castle(model.Kingside))
		}
	}
}

func (s *Session) newGame() {
	s.game = model.NewGame("local", 0)
	fmt.Fprintln(s.out)
}

// menu offers only the options that currently apply.
func (s *Session) menu() (choice, error) {
	for {
		toMove := colorName(s.game.ToMove())
		options := []choice{choiceMove}
		fmt.Fprintln(s.out, "Please choose from the following options (choose the number)")
		fmt.Fprintf(s.out, "%d - Execute move\n", len(options))
		if len(s.game.Captured()) > 0 {
			options = append(options, choiceCaptured)
			fmt.Fprintf(s.out, "%d - Show captured pieces\n", len(options))
		}
		castling := s.game.CastlingOptions()
		if castling.Queenside {
			options = append(options, choiceCastleLeft)
			fmt.Fprintf(s.out, "%d - Castle %s king with left rook\n", len(options), toMove)
		}
		if castling.Kingside {
			options = append(options, choiceCastleRight)
			fmt.Fprintf(s.out, "%d - Castle %s king with right rook\n", len(options), toMove)
		}
		options = append(options, choiceQuit)
		fmt.Fprintf(s.out, "%d - Quit game\n", len(options))

		tok, err := s.next()
		if err != nil {
			return 0, err
		}
		if n, err := strconv.Atoi(tok); err == nil && n >= 1 && n <= len(options) {
			return options[n-1], nil
		}
		fmt.Fprintln(s.out, "Invalid choice. Try again.")
		fmt.Fprintln(s.out)
	}
}

func (s *Session) executeMove(state model.GameState) error {
	toMove := colorName(state.ToMove)
	fmt.Fprintf(s.out, "Current player: %s\n", toMove)
	if state.IsCheck {
		warning.Fprintf(s.out, "WARNING: %s king is currently under check\n", toMove)
	}
	RenderBoard(s.out, s.game.Board())

	from, err := s.askPosition(toMove + ": move piece FROM x,y (x and y are integers between 0 and 7) ")
	if err != nil {
		return err
	}
	to, err := s.askPosition(toMove + ": move piece TO x,y (x and y are integers between 0 and 7) ")
	if err != nil {
		return err
	}
	s.report(s.game.Move(from, to))
	return nil
}

func (s *Session) report(plan model.MovePlan, err error) {
	if err != nil {
		fmt.Fprintln(s.out, "Invalid move for the following reason(s):")
		var moveErr *model.MoveError
		if errors.As(err, &moveErr) {
			for _, reason := range moveErr.Reasons() {
				fmt.Fprintln(s.out, reason)
			}
		} else {
			fmt.Fprintln(s.out, err)
		}
		fmt.Fprintln(s.out)
		return
	}
	if plan.Promotion {
		fmt.Fprintf(s.out, "Pawn promoted to queen at %s\n", plan.To)
	}
	fmt.Fprintln(s.out, "Move executed successfully")
	fmt.Fprintln(s.out)
}

func (s *Session) askPosition(prompt string) (model.Position, error) {
	for {
		fmt.Fprint(s.out, prompt)
		tok, err := s.next()
		if err != nil {
			return model.Position{}, err
		}
		pos, err := model.ParsePosition(tok)
		if err == nil {
			return pos, nil
		}
		fmt.Fprintln(s.out, "Invalid coordinate. Try again.")
		fmt.Fprintln(s.out)
	}
}

func (s *Session) askYesNo(prompt string) (bool, error) {
	for {
		fmt.Fprint(s.out, prompt)
		tok, err := s.next()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(tok) {
		case "y":
			return true, nil
		case "n":
			return false, nil
		}
		fmt.Fprintln(s.out, "Invalid response")
		fmt.Fprintln(s.out)
	}
}

func (s *Session) next() (string, error) {
	if s.in.Scan() {
		return s.in.Text(), nil
	}
	if err := s.in.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
