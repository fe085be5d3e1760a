package controller

import (
	"errors"

	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/benbeisheim/chess-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

func (gc *GameController) CreatePlayer(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"playerId": gc.gameService.NewPlayerID(),
	})
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	gameID, err := gc.gameService.CreateGame()
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	color, err := gc.gameService.JoinGame(gameID, playerID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(gameState)
}

func (gc *GameController) JoinMatchmaking(c *fiber.Ctx) error {
	playerID := c.Locals("playerID").(string)

	if err := gc.gameService.JoinMatchmaking(playerID); err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"status": "queued",
	})
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	var req model.MoveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid move body",
		})
	}
	playerID := c.Locals("playerID").(string)

	state, err := gc.gameService.HandleMove(c.Params("gameId"), playerID, req)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(state)
}

// ValidateMove answers whether the move would be legal for the side to
// move, leaving the game untouched.
func (gc *GameController) ValidateMove(c *fiber.Ctx) error {
	var req model.MoveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid move body",
		})
	}

	plan, err := gc.gameService.ValidateMove(c.Params("gameId"), req)
	var moveErr *model.MoveError
	if errors.As(err, &moveErr) {
		return c.JSON(fiber.Map{
			"legal":   false,
			"kind":    moveErr.Kind,
			"reasons": moveErr.Reasons(),
		})
	}
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"legal": true,
		"plan":  plan,
	})
}

func (gc *GameController) CastlingOptions(c *fiber.Ctx) error {
	options, err := gc.gameService.CastlingOptions(c.Params("gameId"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(options)
}

func (gc *GameController) CapturedPieces(c *fiber.Ctx) error {
	captured, err := gc.gameService.CapturedPieces(c.Params("gameId"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"captured": captured,
	})
}

func (gc *GameController) Resign(c *fiber.Ctx) error {
	playerID := c.Locals("playerID").(string)
	if err := gc.gameService.Resign(c.Params("gameId"), playerID); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"status": "resigned",
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrIllegalMove):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, model.ErrInvalidPosition):
		return fiber.StatusBadRequest
	case errors.Is(err, model.ErrNotYourTurn), errors.Is(err, model.ErrPlayerNotInGame):
		return fiber.StatusForbidden
	case errors.Is(err, model.ErrGameFull),
		errors.Is(err, model.ErrGameOver),
		errors.Is(err, model.ErrTimeExpired),
		errors.Is(err, model.ErrAlreadyQueued),
		errors.Is(err, service.ErrGameExists):
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

func errorResponse(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Errorf("%s %s: %v", c.Method(), c.Path(), err)
	}

	body := fiber.Map{"error": err.Error()}
	var moveErr *model.MoveError
	if errors.As(err, &moveErr) {
		body["kind"] = moveErr.Kind
		body["reasons"] = moveErr.Reasons()
	}
	return c.Status(status).JSON(body)
}
