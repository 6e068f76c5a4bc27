package historyapi

import (
	"github.com/agentdesk/agentdesk/pkg/history/historysrv"
	"github.com/gofiber/fiber/v2"
)

type HistoryHandlers struct {
	service *historysrv.HistoryService
}

func NewHistoryHandlers(service *historysrv.HistoryService) *HistoryHandlers {
	return &HistoryHandlers{service: service}
}

func (h *HistoryHandlers) RegisterRoutes(router fiber.Router) {
	router.Get("/history", h.ListHistory)
}

func (h *HistoryHandlers) ListHistory(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)

	records, err := h.service.List(c.Context(), limit)
	if err != nil {
		return err
	}

	return c.JSON(records)
}
