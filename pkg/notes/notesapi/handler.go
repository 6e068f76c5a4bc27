package notesapi

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/agentdesk/agentdesk/pkg/fsx"
	"github.com/agentdesk/agentdesk/pkg/logx"
	"github.com/agentdesk/agentdesk/pkg/notes"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type NotesHandlers struct {
	storage fsx.FileSystem
}

func NewNotesHandlers(storage fsx.FileSystem) *NotesHandlers {
	return &NotesHandlers{storage: storage}
}

func (h *NotesHandlers) RegisterRoutes(router fiber.Router) {
	router.Post("/parse-notes", h.ParseNotes)
}

// ParseNotes extracts plain text from an uploaded document. The original
// upload is archived to storage on a best-effort basis; archiving failures
// never fail the request.
func (h *NotesHandlers) ParseNotes(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return notes.ErrNoFile()
	}

	file, err := fileHeader.Open()
	if err != nil {
		return notes.ErrParseFailed().WithCause(err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return notes.ErrParseFailed().WithCause(err)
	}

	mediaType := fileHeader.Header.Get(fiber.HeaderContentType)

	text, err := notes.ExtractText(data, mediaType)
	if err != nil {
		return err
	}

	h.archiveUpload(c, fileHeader.Filename, data)

	return c.JSON(fiber.Map{"text": text})
}

func (h *NotesHandlers) archiveUpload(c *fiber.Ctx, filename string, data []byte) {
	if h.storage == nil {
		return
	}

	path := fmt.Sprintf("notes/%s/%s%s",
		time.Now().UTC().Format("2006-01-02"),
		uuid.NewString(),
		filepath.Ext(filename),
	)

	if err := h.storage.Write(c.Context(), path, data); err != nil {
		logx.WithFields(logx.Fields{
			"path": path,
		}).Warnf("failed to archive upload: %v", err)
	}
}
