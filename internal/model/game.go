package model

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/benbeisheim/chess-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
)

const (
	ResolveCheckmate = "checkmate"
	ResolveResigned  = "resigned"
	ResolveTimeout   = "timeout"
)

// Conn is the part of a websocket connection a game writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// peer is one registered connection and the newest state version it has
// been sent.
type peer struct {
	conn Conn
	sent int
}

// The connections for a specific game
type GameConnections struct {
	connections map[string]*peer // playerID -> connection
	mu          sync.RWMutex
	// sendMu serialises broadcasts so a peer never receives an older state
	// after a newer one
	sendMu sync.Mutex
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]*peer),
	}
}

// Game owns one board for the lifetime of one game. Every what-if
// evaluation runs on a clone of it.
type Game struct {
	ID          string
	mu          sync.Mutex
	version     int
	board       *Board
	toMove      Color
	history     []Ply
	captured    []CapturedPiece
	check       CheckState
	checkmate   bool
	resolve     *string
	winner      *Color
	lastMove    *SimpleMove
	players     map[Color]ClientPlayer
	connections *GameConnections
	whiteClock  *Clock
	blackClock  *Clock
}

type CastlingOptions struct {
	Kingside  bool `json:"kingside"`
	Queenside bool `json:"queenside"`
}

type GameState struct {
	// Version grows with every change to the game.
	Version        int             `json:"version"`
	Board          BoardState      `json:"boardState"`
	FEN            string          `json:"fen"`
	ToMove         Color           `json:"toMove"`
	MoveHistory    []Ply           `json:"moveHistory"`
	CapturedPieces []CapturedPiece `json:"capturedPieces"`
	IsCheck        bool            `json:"isCheck"`
	IsCheckmate    bool            `json:"isCheckmate"`
	Attackers      []Placement     `json:"attackers"`
	Castling       CastlingOptions `json:"castling"`
	Resolve        *string         `json:"resolve"`
	Winner         *Color          `json:"winner"`
	LastMove       *SimpleMove     `json:"lastMove"`
	Players        struct {
		White ClientPlayer `json:"white"`
		Black ClientPlayer `json:"black"`
	} `json:"players"`
}

// StartingPosition is the standard initial board with white to move.
func StartingPosition() (*Board, Color) {
	return NewBoard(), White
}

func NewGame(id string, clockTime time.Duration) *Game {
	board, toMove := StartingPosition()
	return NewGameFromBoard(id, board, toMove, clockTime)
}

// NewGameFromBoard starts a game from an arbitrary position.
func NewGameFromBoard(id string, board *Board, toMove Color, clockTime time.Duration) *Game {
	g := &Game{
		ID:          id,
		board:       board,
		toMove:      toMove,
		history:     make([]Ply, 0),
		captured:    make([]CapturedPiece, 0),
		players:     make(map[Color]ClientPlayer),
		connections: NewGameConnections(),
		whiteClock:  NewClock(clockTime),
		blackClock:  NewClock(clockTime),
	}
	g.refreshCheck()
	return g
}

func (g *Game) AddPlayer(playerID string) (Color, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.isPlayerInGame(playerID) {
		color, _ := g.colorOf(playerID)
		return color, nil
	}
	for _, color := range []Color{White, Black} {
		if _, taken := g.players[color]; !taken {
			g.players[color] = ClientPlayer{ID: playerID, Color: color}
			g.version++
			log.Infof("player %s joined game %s as %s", playerID, g.ID, color)
			return color, nil
		}
	}
	return "", ErrGameFull
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.isPlayerInGame(playerID)
}

func (g *Game) isPlayerInGame(playerID string) bool {
	_, ok := g.colorOf(playerID)
	return ok
}

func (g *Game) colorOf(playerID string) (Color, bool) {
	if playerID == "" {
		return "", false
	}
	for color, p := range g.players {
		if p.ID == playerID {
			return color, true
		}
	}
	return "", false
}

func (g *Game) CanSpectate() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.canSpectate()
}

func (g *Game) canSpectate() bool {
	return len(g.players) < 2
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshot()
}

func (g *Game) snapshot() GameState {
	state := GameState{
		Version:        g.version,
		Board:          g.board.Snapshot(),
		FEN:            g.board.FEN(g.toMove),
		ToMove:         g.toMove,
		MoveHistory:    append([]Ply(nil), g.history...),
		CapturedPieces: append([]CapturedPiece(nil), g.captured...),
		IsCheck:        g.check.InCheck,
		IsCheckmate:    g.checkmate,
		Attackers:      append([]Placement(nil), g.check.Attackers...),
		Castling:       g.castlingOptions(),
		Resolve:        g.resolve,
		Winner:         g.winner,
		LastMove:       g.lastMove,
	}
	state.Players.White = g.clientPlayer(White)
	state.Players.Black = g.clientPlayer(Black)
	return state
}

func (g *Game) clientPlayer(color Color) ClientPlayer {
	p := g.players[color]
	p.Color = color
	p.TimeLeft = g.clockFor(color).deciseconds()
	return p
}

// Board returns a copy of the live board.
func (g *Game) Board() *Board {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board.Clone()
}

func (g *Game) ToMove() Color {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.toMove
}

func (g *Game) Captured() []CapturedPiece {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]CapturedPiece(nil), g.captured...)
}

func (g *Game) Check() CheckState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.check
}

func (g *Game) Over() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.resolve != nil
}

// Validate runs the legality pipeline for the side to move without touching
// the board.
func (g *Game) Validate(from, to Position) (MovePlan, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ValidateMove(g.board, g.toMove, from, to)
}

func (g *Game) CastlingOptions() CastlingOptions {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.castlingOptions()
}

func (g *Game) castlingOptions() CastlingOptions {
	return CastlingOptions{
		Kingside:  CanCastle(g.board, g.toMove, Kingside),
		Queenside: CanCastle(g.board, g.toMove, Queenside),
	}
}

// Move plays a move for whichever side is to move. Local games use it
// directly; networked games go through MakePlayerMove.
func (g *Game) Move(from, to Position) (MovePlan, error) {
	return g.apply(func() (MovePlan, error) {
		return g.move(from, to)
	})
}

// MakePlayerMove checks that playerID holds the side to move before playing.
func (g *Game) MakePlayerMove(playerID string, from, to Position) (MovePlan, error) {
	return g.apply(func() (MovePlan, error) {
		color, ok := g.colorOf(playerID)
		if !ok {
			return MovePlan{}, ErrPlayerNotInGame
		}
		if color != g.toMove {
			return MovePlan{}, ErrNotYourTurn
		}
		return g.move(from, to)
	})
}

// Castle plays the king's castling move on the given side.
func (g *Game) Castle(side CastleSide) (MovePlan, error) {
	return g.apply(func() (MovePlan, error) {
		rank := g.toMove.HomeRank()
		return g.move(Position{X: kingHomeFile, Y: rank}, Position{X: side.kingTo(), Y: rank})
	})
}

// apply runs fn under the game lock and broadcasts the resulting state if
// fn changed anything, whether or not it also returned an error.
func (g *Game) apply(fn func() (MovePlan, error)) (MovePlan, error) {
	g.mu.Lock()
	before := g.version
	plan, err := fn()
	changed := g.version != before
	state := g.snapshot()
	g.mu.Unlock()

	if changed {
		go g.broadcastState(state)
	}
	return plan, err
}

func (g *Game) move(from, to Position) (MovePlan, error) {
	log.Debugf("game %s: %s plays %s -> %s", g.ID, g.toMove, from, to)
	if g.resolve != nil {
		return MovePlan{}, ErrGameOver
	}

	clock := g.clockFor(g.toMove)
	if clock.Expired() {
		g.finish(ResolveTimeout, g.toMove.Opponent())
		return MovePlan{}, fmt.Errorf("%s: %w", g.toMove, ErrTimeExpired)
	}

	plan, err := ValidateMove(g.board, g.toMove, from, to)
	if err != nil {
		return MovePlan{}, err
	}

	clock.Stop()
	if captured := ExecuteMove(g.board, plan); captured != nil {
		g.captured = append(g.captured, *captured)
	}
	g.history = append(g.history, newPly(plan))
	g.lastMove = &SimpleMove{From: from, To: to}
	g.version++

	mover := g.toMove
	g.toMove = mover.Opponent()
	g.clockFor(g.toMove).Start()

	g.refreshCheck()
	if g.checkmate {
		g.finish(ResolveCheckmate, mover)
	}
	return plan, nil
}

// refreshCheck recomputes check and checkmate for the side to move.
func (g *Game) refreshCheck() {
	king, ok := g.board.KingPosition(g.toMove)
	if !ok {
		g.check = CheckState{}
		g.checkmate = false
		return
	}
	g.check = Check(g.board, king)
	g.checkmate = g.check.InCheck && IsCheckmated(g.board, king)
}

func (g *Game) Resign(playerID string) error {
	_, err := g.apply(func() (MovePlan, error) {
		color, ok := g.colorOf(playerID)
		if !ok {
			return MovePlan{}, ErrPlayerNotInGame
		}
		if g.resolve != nil {
			return MovePlan{}, ErrGameOver
		}
		g.finish(ResolveResigned, color.Opponent())
		return MovePlan{}, nil
	})
	return err
}

func (g *Game) finish(result string, winner Color) {
	g.resolve = &result
	g.winner = &winner
	g.version++
	g.whiteClock.Stop()
	g.blackClock.Stop()
	log.Infof("game %s over: %s, %s wins", g.ID, result, winner)
}

func (g *Game) clockFor(color Color) *Clock {
	if color == White {
		return g.whiteClock
	}
	return g.blackClock
}

func (g *Game) RegisterConnection(playerID string, conn Conn) error {
	g.mu.Lock()
	isAuthorized := g.isPlayerInGame(playerID) || g.canSpectate()
	state := g.snapshot()
	g.mu.Unlock()

	if !isAuthorized {
		return fmt.Errorf("not authorized to join game %s: %w", g.ID, ErrPlayerNotInGame)
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		// keep the healthy connection, turn the duplicate away
		g.connections.mu.Unlock()
		_ = conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "Connection already exists"),
		)
		_ = conn.Close()
		return nil
	}
	g.connections.connections[playerID] = &peer{conn: conn, sent: -1}
	g.connections.mu.Unlock()
	log.Infof("registered connection for player %s in game %s", playerID, g.ID)

	// peers already holding this version skip it; the new one catches up
	go g.broadcastState(state)
	return nil
}

func (g *Game) UnregisterConnection(playerID string, conn Conn) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if current, exists := g.connections.connections[playerID]; exists && current.conn == conn {
		delete(g.connections.connections, playerID)
		log.Infof("unregistered connection for player %s in game %s", playerID, g.ID)
	}
}

// broadcastState sends state to every peer that has not yet seen it or
// anything newer.
func (g *Game) broadcastState(state GameState) {
	payload, err := json.Marshal(state)
	if err != nil {
		log.Errorf("failed to marshal state of game %s: %v", g.ID, err)
		return
	}

	g.connections.sendMu.Lock()
	defer g.connections.sendMu.Unlock()

	g.connections.mu.RLock()
	active := make(map[string]*peer, len(g.connections.connections))
	for playerID, p := range g.connections.connections {
		active[playerID] = p
	}
	g.connections.mu.RUnlock()

	for playerID, p := range active {
		if state.Version <= p.sent {
			continue
		}
		if err := p.conn.WriteJSON(ws.Message{
			Type:    ws.MessageTypeGameState,
			Payload: json.RawMessage(payload),
		}); err != nil {
			log.Warnf("failed to send state to player %s: %v", playerID, err)
			g.UnregisterConnection(playerID, p.conn)
			continue
		}
		p.sent = state.Version
	}
}
