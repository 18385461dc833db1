package handlers

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	applog "signcraft/internal/log"
)

type UploadHandler struct {
	Dir string
}

// POST /api/v1/upload
// Accepts a single "image" part; only image/* content is stored. The file
// lands under a generated name so uploads cannot collide or traverse.
func (h *UploadHandler) Image(c *fiber.Ctx) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "no file received")
	}
	if !strings.HasPrefix(fh.Header.Get("Content-Type"), "image/") {
		applog.Security(c, "upload.reject.mime", map[string]any{"name": fh.Filename})
		return fail(c, fiber.StatusBadRequest, "only image uploads are allowed")
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if len(ext) > 8 {
		ext = ""
	}
	name := uuid.NewString() + ext

	if err := os.MkdirAll(h.Dir, 0o755); err != nil {
		return fail(c, fiber.StatusInternalServerError, "upload failed")
	}
	if err := c.SaveFile(fh, filepath.Join(h.Dir, name)); err != nil {
		applog.Error(c, "upload.save.fail", err, map[string]any{"name": fh.Filename})
		return fail(c, fiber.StatusInternalServerError, "upload failed")
	}

	applog.Info(c, "upload.save", map[string]any{"file": name})
	return c.JSON(fiber.Map{"url": "/uploads/" + name})
}
