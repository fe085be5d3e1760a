package service

import (
	"fmt"

	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

// NewPlayerID hands out an identity for clients that have none yet.
func (gs *GameService) NewPlayerID() string {
	return uuid.New().String()
}

func (gs *GameService) CreateGame() (string, error) {
	gameID := uuid.New().String()

	if err := gs.gameManager.CreateGame(gameID); err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}
	log.Infof("created game %s", gameID)

	return gameID, nil
}

func (gs *GameService) JoinGame(gameID string, playerID string) (model.Color, error) {
	return gs.gameManager.AddPlayerToGame(gameID, playerID)
}

func (gs *GameService) JoinMatchmaking(playerID string) error {
	return gs.gameManager.JoinMatchmaking(playerID)
}

func (gs *GameService) GetGameState(gameID string) (model.GameState, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.GetState(), nil
}

// HandleMove parses the request squares and plays the move for playerID.
func (gs *GameService) HandleMove(gameID string, playerID string, req model.MoveRequest) (model.GameState, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	from, to, err := parseMove(req)
	if err != nil {
		return model.GameState{}, err
	}
	if _, err := game.MakePlayerMove(playerID, from, to); err != nil {
		log.Debugf("game %s: move %s -> %s by %s rejected: %v", gameID, req.From, req.To, playerID, err)
		return model.GameState{}, err
	}
	return game.GetState(), nil
}

// ValidateMove runs the legality checks for the side to move without
// playing the move.
func (gs *GameService) ValidateMove(gameID string, req model.MoveRequest) (model.MovePlan, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.MovePlan{}, err
	}
	from, to, err := parseMove(req)
	if err != nil {
		return model.MovePlan{}, err
	}
	return game.Validate(from, to)
}

func (gs *GameService) CastlingOptions(gameID string) (model.CastlingOptions, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.CastlingOptions{}, err
	}
	return game.CastlingOptions(), nil
}

func (gs *GameService) CapturedPieces(gameID string) ([]model.CapturedPiece, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.Captured(), nil
}

func (gs *GameService) Resign(gameID string, playerID string) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.Resign(playerID)
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn model.Conn) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.RegisterConnection(playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string, conn model.Conn) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return
	}
	game.UnregisterConnection(playerID, conn)
}

func (gs *GameService) RegisterMatchmakingChannel(playerID string, ch chan string) error {
	return gs.gameManager.RegisterMatchmakingChannel(playerID, ch)
}

func (gs *GameService) UnregisterMatchmakingChannel(playerID string) {
	gs.gameManager.UnregisterMatchmakingChannel(playerID)
}

func parseMove(req model.MoveRequest) (model.Position, model.Position, error) {
	from, err := model.ParsePosition(req.From)
	if err != nil {
		return model.Position{}, model.Position{}, fmt.Errorf("from: %w", err)
	}
	to, err := model.ParsePosition(req.To)
	if err != nil {
		return model.Position{}, model.Position{}, fmt.Errorf("to: %w", err)
	}
	return from, to, nil
}
