package chatapi

import (
	"github.com/agentdesk/agentdesk/pkg/chat"
	"github.com/agentdesk/agentdesk/pkg/chat/chatsrv"
	"github.com/gofiber/fiber/v2"
)

type ChatHandlers struct {
	service *chatsrv.ChatService
}

func NewChatHandlers(service *chatsrv.ChatService) *ChatHandlers {
	return &ChatHandlers{service: service}
}

func (h *ChatHandlers) RegisterRoutes(router fiber.Router) {
	router.Post("/agent", h.SubmitTurn)
	router.Post("/sessions", h.CreateSession)
	router.Get("/sessions/:id", h.GetTranscript)
	router.Delete("/sessions/:id", h.ClearSession)
}

// SubmitTurnRequest is one chat submission. Messages carries the client's
// transcript for stateless callers; sessions with a server-side transcript
// can omit it.
type SubmitTurnRequest struct {
	SessionID string            `json:"session_id"`
	Role      chat.Role         `json:"role"`
	Input     string            `json:"input"`
	Messages  chat.Conversation `json:"messages"`
}

type SubmitTurnResponse struct {
	Result   string            `json:"result"`
	Messages chat.Conversation `json:"messages"`
}

func (h *ChatHandlers) SubmitTurn(c *fiber.Ctx) error {
	var req SubmitTurnRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	conv, err := h.service.Submit(c.Context(), chatsrv.SubmitInput{
		SessionID: req.SessionID,
		Role:      req.Role,
		Input:     req.Input,
		History:   req.Messages,
	})
	if err != nil {
		return err
	}

	return c.JSON(SubmitTurnResponse{
		Result:   conv.LatestAssistantContent(),
		Messages: conv,
	})
}

func (h *ChatHandlers) CreateSession(c *fiber.Ctx) error {
	sessionID := h.service.StartSession()
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"session_id": sessionID})
}

func (h *ChatHandlers) GetTranscript(c *fiber.Ctx) error {
	sessionID := c.Params("id")

	conv, err := h.service.Transcript(c.Context(), sessionID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"session_id": sessionID, "messages": conv})
}

func (h *ChatHandlers) ClearSession(c *fiber.Ctx) error {
	sessionID := c.Params("id")

	if err := h.service.Clear(c.Context(), sessionID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Conversation cleared"})
}
