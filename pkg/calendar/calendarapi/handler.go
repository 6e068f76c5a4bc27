package calendarapi

import (
	"time"

	"github.com/agentdesk/agentdesk/pkg/calendar"
	"github.com/gofiber/fiber/v2"
)

type CalendarHandlers struct {
	now func() time.Time
}

func NewCalendarHandlers() *CalendarHandlers {
	return &CalendarHandlers{now: time.Now}
}

func (h *CalendarHandlers) RegisterRoutes(router fiber.Router) {
	cal := router.Group("/calendar")

	cal.Post("/export", h.ExportICS)
	cal.Post("/link", h.GoogleLink)
}

type ExtractRequest struct {
	Text string `json:"text"`
}

// ExportICS renders the date-bearing lines of the given text as a
// downloadable .ics file. Text with no qualifying lines still yields a
// valid, empty calendar.
func (h *CalendarHandlers) ExportICS(c *fiber.Ctx) error {
	var req ExtractRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	now := h.now()
	events := calendar.Extract(req.Text, now)
	ics := calendar.RenderICS(events, now)

	c.Set(fiber.HeaderContentType, "text/calendar")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="schedule.ics"`)
	return c.SendString(ics)
}

// GoogleLink returns a calendar deep link for the first non-blank line.
func (h *CalendarHandlers) GoogleLink(c *fiber.Ctx) error {
	var req ExtractRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	link, err := calendar.GoogleLink(req.Text, h.now())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"url": link})
}
