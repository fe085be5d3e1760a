package model

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/benbeisheim/chess-backend/internal/ws"
	"github.com/google/go-cmp/cmp"
)

type fakeConn struct {
	mu       sync.Mutex
	messages chan ws.Message
	closed   bool
	frames   []int
}

func newFakeConn() *fakeConn {
	return &fakeConn{messages: make(chan ws.Message, 16)}
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	msg, ok := v.(ws.Message)
	if !ok {
		return errors.New("unexpected payload")
	}
	c.messages <- msg
	return nil
}

func (c *fakeConn) WriteMessage(messageType int, _ []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = append(c.frames, messageType)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *fakeConn) nextState(t *testing.T) GameState {
	t.Helper()
	select {
	case msg := <-c.messages:
		if msg.Type != ws.MessageTypeGameState {
			t.Fatalf("message type = %s, want %s", msg.Type, ws.MessageTypeGameState)
		}
		var state GameState
		if err := json.Unmarshal(msg.Payload, &state); err != nil {
			t.Fatalf("decode state: %v", err)
		}
		return state
	case <-time.After(2 * time.Second):
		t.Fatalf("no state broadcast")
	}
	return GameState{}
}

func seatedGame(t *testing.T) *Game {
	t.Helper()
	g := NewGame("g1", 10*time.Minute)
	if c, err := g.AddPlayer("alice"); err != nil || c != White {
		t.Fatalf("AddPlayer(alice) = %v, %v", c, err)
	}
	if c, err := g.AddPlayer("bob"); err != nil || c != Black {
		t.Fatalf("AddPlayer(bob) = %v, %v", c, err)
	}
	return g
}

func TestAddPlayer(t *testing.T) {
	t.Parallel()

	g := seatedGame(t)
	if c, err := g.AddPlayer("alice"); err != nil || c != White {
		t.Errorf("rejoin = %v, %v; want white", c, err)
	}
	if _, err := g.AddPlayer("carol"); !errors.Is(err, ErrGameFull) {
		t.Errorf("third player error = %v, want ErrGameFull", err)
	}
	if g.CanSpectate() {
		t.Errorf("CanSpectate() = true on a full game")
	}
}

func TestMakePlayerMoveTurns(t *testing.T) {
	t.Parallel()

	g := seatedGame(t)
	if _, err := g.MakePlayerMove("bob", pos(4, 6), pos(4, 4)); !errors.Is(err, ErrNotYourTurn) {
		t.Errorf("black first: %v, want ErrNotYourTurn", err)
	}
	if _, err := g.MakePlayerMove("mallory", pos(4, 1), pos(4, 3)); !errors.Is(err, ErrPlayerNotInGame) {
		t.Errorf("stranger: %v, want ErrPlayerNotInGame", err)
	}
	if _, err := g.MakePlayerMove("alice", pos(4, 1), pos(4, 3)); err != nil {
		t.Fatalf("white move: %v", err)
	}
	if _, err := g.MakePlayerMove("bob", pos(4, 6), pos(4, 4)); err != nil {
		t.Fatalf("black move: %v", err)
	}

	state := g.GetState()
	if state.ToMove != White {
		t.Errorf("ToMove = %s, want white", state.ToMove)
	}
	want := []Ply{
		{Piece: Piece{ID: 10, Type: Pawn, Color: White}, From: pos(4, 1), To: pos(4, 3)},
		{Piece: Piece{ID: 26, Type: Pawn, Color: Black}, From: pos(4, 6), To: pos(4, 4)},
	}
	if diff := cmp.Diff(want, state.MoveHistory); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}
	if state.LastMove == nil || state.LastMove.To != pos(4, 4) {
		t.Errorf("LastMove = %+v", state.LastMove)
	}
}

func TestIllegalMoveKeepsTurn(t *testing.T) {
	t.Parallel()

	g := seatedGame(t)
	before := g.GetState().FEN
	_, err := g.MakePlayerMove("alice", pos(0, 0), pos(0, 4))
	if !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("got %v, want ErrIllegalMove", err)
	}
	state := g.GetState()
	if state.FEN != before || state.ToMove != White || len(state.MoveHistory) != 0 {
		t.Errorf("rejected move changed the game: %+v", state)
	}
}

func TestCaptureBookkeeping(t *testing.T) {
	t.Parallel()

	b := NewEmptyBoard()
	b.Place(pos(4, 0), King, White)
	b.Place(pos(0, 0), Rook, White)
	b.Place(pos(7, 7), King, Black)
	knight := b.Place(pos(0, 5), Knight, Black)
	g := NewGameFromBoard("cap", b, White, 0)

	plan, err := g.Move(pos(0, 0), pos(0, 5))
	if err != nil {
		t.Fatalf("capture rejected: %v", err)
	}
	if plan.Captured == nil || plan.Captured.ID != knight.ID {
		t.Errorf("plan.Captured = %+v, want knight %d", plan.Captured, knight.ID)
	}

	want := []CapturedPiece{{Piece: knight, At: pos(0, 5)}}
	if diff := cmp.Diff(want, g.Captured()); diff != "" {
		t.Errorf("captured mismatch (-want +got):\n%s", diff)
	}
	history := g.GetState().MoveHistory
	if len(history) != 1 || history[0].CapturedPiece == nil || history[0].CapturedPiece.ID != knight.ID {
		t.Errorf("history = %+v", history)
	}
	if len(g.Board().Pieces(Black)) != 1 {
		t.Errorf("knight still on the board")
	}
}

func TestCastleRecordsRookMove(t *testing.T) {
	t.Parallel()

	b := NewEmptyBoard()
	b.Place(pos(4, 0), King, White)
	b.Place(pos(7, 0), Rook, White)
	b.Place(pos(4, 7), King, Black)
	g := NewGameFromBoard("castle", b, White, 0)

	if opts := g.CastlingOptions(); !opts.Kingside || opts.Queenside {
		t.Fatalf("CastlingOptions() = %+v", opts)
	}
	if _, err := g.Castle(Kingside); err != nil {
		t.Fatalf("Castle() = %v", err)
	}
	history := g.GetState().MoveHistory
	want := &CastleRookMove{From: pos(7, 0), To: pos(5, 0)}
	if diff := cmp.Diff(want, history[0].CastleRookMove); diff != "" {
		t.Errorf("rook move mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckmateEndsGame(t *testing.T) {
	t.Parallel()

	b := NewEmptyBoard()
	b.Place(pos(0, 0), King, White)
	b.Place(pos(7, 5), Rook, Black)
	b.Place(pos(1, 7), Rook, Black)
	b.Place(pos(7, 7), King, Black)
	g := NewGameFromBoard("mate", b, Black, 0)

	if _, err := g.Move(pos(7, 5), pos(0, 5)); err != nil {
		t.Fatalf("mating move rejected: %v", err)
	}
	state := g.GetState()
	if !state.IsCheck || !state.IsCheckmate {
		t.Fatalf("IsCheck = %v, IsCheckmate = %v", state.IsCheck, state.IsCheckmate)
	}
	if state.Resolve == nil || *state.Resolve != ResolveCheckmate {
		t.Errorf("Resolve = %v, want checkmate", state.Resolve)
	}
	if state.Winner == nil || *state.Winner != Black {
		t.Errorf("Winner = %v, want black", state.Winner)
	}
	if _, err := g.Move(pos(0, 0), pos(1, 0)); !errors.Is(err, ErrGameOver) {
		t.Errorf("move after mate: %v, want ErrGameOver", err)
	}
}

func TestResign(t *testing.T) {
	t.Parallel()

	g := seatedGame(t)
	if err := g.Resign("mallory"); !errors.Is(err, ErrPlayerNotInGame) {
		t.Errorf("stranger resign: %v", err)
	}
	if err := g.Resign("bob"); err != nil {
		t.Fatalf("Resign() = %v", err)
	}
	state := g.GetState()
	if state.Resolve == nil || *state.Resolve != ResolveResigned || *state.Winner != White {
		t.Errorf("resolve = %v, winner = %v", state.Resolve, state.Winner)
	}
	if err := g.Resign("alice"); !errors.Is(err, ErrGameOver) {
		t.Errorf("second resign: %v, want ErrGameOver", err)
	}
	if !g.Over() {
		t.Errorf("Over() = false")
	}
}

func TestTimeout(t *testing.T) {
	t.Parallel()

	g := seatedGame(t)
	now := time.Unix(0, 0)
	g.blackClock.now = func() time.Time { return now }

	if _, err := g.MakePlayerMove("alice", pos(4, 1), pos(4, 3)); err != nil {
		t.Fatalf("white move: %v", err)
	}
	now = now.Add(11 * time.Minute)

	_, err := g.MakePlayerMove("bob", pos(4, 6), pos(4, 4))
	if !errors.Is(err, ErrTimeExpired) {
		t.Fatalf("late move: %v, want ErrTimeExpired", err)
	}
	state := g.GetState()
	if state.Resolve == nil || *state.Resolve != ResolveTimeout || *state.Winner != White {
		t.Errorf("resolve = %v, winner = %v", state.Resolve, state.Winner)
	}
	if state.Players.Black.TimeLeft != 0 {
		t.Errorf("black TimeLeft = %d, want 0", state.Players.Black.TimeLeft)
	}
}

func TestBroadcastOnRegisterAndMove(t *testing.T) {
	t.Parallel()

	g := seatedGame(t)
	conn := newFakeConn()
	if err := g.RegisterConnection("alice", conn); err != nil {
		t.Fatalf("RegisterConnection() = %v", err)
	}
	if state := conn.nextState(t); len(state.MoveHistory) != 0 {
		t.Errorf("initial state has history %+v", state.MoveHistory)
	}

	if _, err := g.MakePlayerMove("alice", pos(6, 0), pos(5, 2)); err != nil {
		t.Fatalf("move: %v", err)
	}
	state := conn.nextState(t)
	if state.ToMove != Black || len(state.MoveHistory) != 1 {
		t.Errorf("broadcast state = toMove %s, %d plies", state.ToMove, len(state.MoveHistory))
	}
	if state.Players.White.ID != "alice" {
		t.Errorf("white player = %q", state.Players.White.ID)
	}
}

func TestDuplicateConnectionIsClosed(t *testing.T) {
	t.Parallel()

	g := seatedGame(t)
	first, second := newFakeConn(), newFakeConn()
	if err := g.RegisterConnection("alice", first); err != nil {
		t.Fatal(err)
	}
	if err := g.RegisterConnection("alice", second); err != nil {
		t.Fatal(err)
	}
	if !second.isClosed() {
		t.Errorf("duplicate connection left open")
	}
	if first.isClosed() {
		t.Errorf("original connection closed")
	}

	g.UnregisterConnection("alice", second)
	g.connections.mu.RLock()
	_, still := g.connections.connections["alice"]
	g.connections.mu.RUnlock()
	if !still {
		t.Errorf("unregistering the duplicate dropped the original")
	}
}

func TestRegisterConnectionRejectsOutsiders(t *testing.T) {
	t.Parallel()

	g := seatedGame(t)
	if err := g.RegisterConnection("mallory", newFakeConn()); !errors.Is(err, ErrPlayerNotInGame) {
		t.Errorf("got %v, want ErrPlayerNotInGame", err)
	}
}

func TestTimeoutIsBroadcast(t *testing.T) {
	t.Parallel()

	g := seatedGame(t)
	now := time.Unix(0, 0)
	g.blackClock.now = func() time.Time { return now }
	conn := newFakeConn()
	if err := g.RegisterConnection("alice", conn); err != nil {
		t.Fatal(err)
	}
	conn.nextState(t)

	if _, err := g.MakePlayerMove("alice", pos(4, 1), pos(4, 3)); err != nil {
		t.Fatalf("white move: %v", err)
	}
	conn.nextState(t)
	now = now.Add(11 * time.Minute)

	if _, err := g.MakePlayerMove("bob", pos(4, 6), pos(4, 4)); !errors.Is(err, ErrTimeExpired) {
		t.Fatalf("late move: %v, want ErrTimeExpired", err)
	}
	state := conn.nextState(t)
	if state.Resolve == nil || *state.Resolve != ResolveTimeout {
		t.Errorf("broadcast resolve = %v, want timeout", state.Resolve)
	}
	if state.Winner == nil || *state.Winner != White {
		t.Errorf("broadcast winner = %v, want white", state.Winner)
	}
}

func TestRejectedMoveIsNotBroadcast(t *testing.T) {
	t.Parallel()

	g := seatedGame(t)
	conn := newFakeConn()
	if err := g.RegisterConnection("alice", conn); err != nil {
		t.Fatal(err)
	}
	conn.nextState(t)

	if _, err := g.MakePlayerMove("alice", pos(0, 0), pos(0, 4)); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("got %v, want ErrIllegalMove", err)
	}
	select {
	case msg := <-conn.messages:
		t.Errorf("unexpected broadcast after a rejected move: %s", msg.Type)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestStaleStateIsNotSent(t *testing.T) {
	t.Parallel()

	g := seatedGame(t)
	conn := newFakeConn()
	if err := g.RegisterConnection("alice", conn); err != nil {
		t.Fatal(err)
	}
	first := conn.nextState(t)

	g.mu.Lock()
	older := g.snapshot()
	g.mu.Unlock()
	if _, err := g.MakePlayerMove("alice", pos(4, 1), pos(4, 3)); err != nil {
		t.Fatal(err)
	}
	newer := conn.nextState(t)
	if newer.Version <= first.Version {
		t.Fatalf("versions %d then %d, want increasing", first.Version, newer.Version)
	}

	g.broadcastState(older)
	select {
	case msg := <-conn.messages:
		t.Errorf("stale state delivered after a newer one: %s", msg.Type)
	default:
	}
}

func TestCastleUsesSideToMove(t *testing.T) {
	t.Parallel()

	b := NewEmptyBoard()
	b.Place(pos(4, 0), King, White)
	b.Place(pos(4, 7), King, Black)
	b.Place(pos(0, 7), Rook, Black)
	g := NewGameFromBoard("castle", b, Black, 0)

	plan, err := g.Castle(Queenside)
	if err != nil {
		t.Fatalf("Castle() = %v", err)
	}
	if plan.From != pos(4, 7) || plan.To != pos(2, 7) || plan.Castle != Queenside {
		t.Errorf("plan = %+v, want black queenside castle", plan)
	}
	board := g.Board()
	if rook, ok := board.At(pos(3, 7)); !ok || rook.Type != Rook || rook.Color != Black {
		t.Errorf("At(3,7) = %+v, %v; want black rook", rook, ok)
	}
}
