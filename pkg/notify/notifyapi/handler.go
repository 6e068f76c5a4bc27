package notifyapi

import (
	"github.com/agentdesk/agentdesk/pkg/notify"
	"github.com/gofiber/fiber/v2"
)

type NotifyHandlers struct {
	notifier notify.Notifier
}

func NewNotifyHandlers(notifier notify.Notifier) *NotifyHandlers {
	return &NotifyHandlers{notifier: notifier}
}

func (h *NotifyHandlers) RegisterRoutes(router fiber.Router) {
	router.Post("/send-email", h.SendEmail)
}

// SendEmailRequest accepts either raw assistant text, which is split into
// subject and body on the first blank line, or an explicit pair.
type SendEmailRequest struct {
	Text    string `json:"text"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func (h *NotifyHandlers) SendEmail(c *fiber.Ctx) error {
	var req SendEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	subject, body := req.Subject, req.Body
	if req.Text != "" {
		subject, body = notify.SplitSubjectBody(req.Text)
	}
	if subject == "" && body == "" {
		return notify.ErrEmptyText()
	}

	result, err := h.notifier.Send(c.Context(), subject, body)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"status": "sent", "result": result})
}
