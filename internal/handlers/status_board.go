package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Aisekaisee/Tourist-Safety-App/internal/cache"
	"github.com/Aisekaisee/Tourist-Safety-App/internal/models"
	"github.com/Aisekaisee/Tourist-Safety-App/internal/status"
)

// StatusBoardHandler serves the "who is in distress and where" dashboard.
type StatusBoardHandler struct {
	publisher *status.Publisher
}

func NewStatusBoardHandler(publisher *status.Publisher) *StatusBoardHandler {
	return &StatusBoardHandler{publisher: publisher}
}

type boardResponse struct {
	Board     []models.UserStatus `json:"board"`
	Count     int                 `json:"count"`
	FetchedAt time.Time           `json:"fetched_at"`
}

// GetBoard handles GET /api/status/board. Snapshots are cached for a
// couple of seconds since the dashboard polls between WebSocket frames.
func (h *StatusBoardHandler) GetBoard(c *fiber.Ctx) error {
	const cacheKey = "board:all"

	if cache.BoardCache != nil {
		if cached, found := cache.BoardCache.Get(cacheKey); found {
			if resp, ok := cached.(boardResponse); ok {
				return c.JSON(resp)
			}
		}
	}

	board, err := h.publisher.Board(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch status board",
		})
	}

	resp := boardResponse{
		Board:     board,
		Count:     len(board),
		FetchedAt: time.Now(),
	}
	if cache.BoardCache != nil {
		cache.BoardCache.Set(cacheKey, resp)
	}
	return c.JSON(resp)
}
