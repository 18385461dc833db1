package handlers

import "github.com/gofiber/fiber/v2"

func ok(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"ok": true})
}

func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}
