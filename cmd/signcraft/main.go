package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"signcraft/internal/config"
	"signcraft/internal/http/handlers"
	applog "signcraft/internal/log"
	"signcraft/internal/mail"
	"signcraft/internal/repos"
	"signcraft/internal/services"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	mailer := mail.New(cfg.SMTP)
	authSvc := services.NewAuthService(repos.NewUserRepo(db), cfg.SessionSecret)
	authH := &handlers.AuthHandler{Auth: authSvc, Secure: cfg.Env == "production"}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			// Avoid leaking internals
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Something went wrong. Please try again.",
			})
		},
	})
	// Global body size guard; quotation attachments stay comfortably inside
	app.Server().MaxRequestBodySize = 20 << 20

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/uploads/")
		},
	}))

	// ---------- Uploaded media ----------
	uploadDir := cfg.UploadDir
	if !filepath.IsAbs(uploadDir) {
		if abs, err := filepath.Abs(uploadDir); err == nil {
			uploadDir = abs
		}
	}
	log.Printf("[static] /uploads -> %s", uploadDir)
	app.Get("/uploads/*", func(c *fiber.Ctx) error {
		path := c.Params("*")
		rawLower := strings.ToLower(path)
		// Block encoded traversal attempts as well as raw .. or null bytes
		if strings.Contains(rawLower, "..") || strings.Contains(rawLower, "%2e") || strings.Contains(rawLower, "\x00") {
			applog.Security(c, "uploads.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		clean := filepath.Clean(path)
		if clean == "." || strings.Contains(clean, "..") || filepath.IsAbs(clean) {
			applog.Security(c, "uploads.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		return c.SendFile(filepath.Join(uploadDir, clean), true)
	})

	// ---------- App handlers ----------
	deps := handlers.NewDeps(db, cfg, mailer)

	// Public storefront API
	api := app.Group("/api/v1")
	api.Get("/categories", deps.CatalogHandler.Categories)
	api.Get("/products", deps.CatalogHandler.Products)
	api.Get("/products/:id", deps.CatalogHandler.Product)
	api.Get("/top-sellers", deps.CatalogHandler.TopSellers)
	api.Get("/search", limiter.New(limiter.Config{Max: 20, Expiration: time.Minute}), deps.CatalogHandler.Search)

	api.Get("/cart", deps.CartHandler.List)
	api.Post("/cart", deps.CartHandler.Add)
	api.Patch("/cart/:id", deps.CartHandler.Update)
	api.Delete("/cart/:id", deps.CartHandler.Remove)
	api.Delete("/cart", deps.CartHandler.Clear)

	submitLimiter := limiter.New(limiter.Config{
		Max:        10,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.submit.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	})
	api.Post("/cart/submit", submitLimiter, deps.CartHandler.Submit)
	api.Post("/cart-enquiries", submitLimiter, deps.EnquiryHandler.Create)
	api.Post("/quotation-email", submitLimiter, deps.EnquiryHandler.Quotation)
	api.Post("/contact", submitLimiter, deps.EnquiryHandler.Contact)
	api.Post("/upload", deps.UploadHandler.Image)

	// Admin back office (login throttled)
	app.Use("/admin", handlers.AdminGate(authSvc))
	app.Post("/admin/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many attempts, try again later"})
		},
	}), authH.Login)
	app.Post("/admin/logout", authH.Logout)

	// Targets for the gate's redirects; the SPA owns the real pages.
	app.Get("/admin/login", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"login_required": true})
	})
	app.Get("/admin/dashboard", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	admin := app.Group("/admin/api")
	admin.Get("/stats", deps.StatsHandler.Stats)

	admin.Get("/enquiries", deps.AdminEnquiries.List)
	admin.Post("/enquiries", deps.AdminEnquiries.Create)
	admin.Get("/enquiries/export", deps.AdminEnquiries.Export)
	admin.Post("/enquiries/bulk-status", deps.AdminEnquiries.BulkStatus)
	admin.Post("/enquiries/bulk-delete", deps.AdminEnquiries.BulkDelete)
	admin.Post("/enquiries/send-reply", deps.AdminEnquiries.SendReply)
	admin.Post("/enquiries/:id/reply", deps.AdminEnquiries.Reply)
	admin.Post("/enquiries/:id/status", deps.AdminEnquiries.SetStatus)
	admin.Get("/enquiries/:id/activity", deps.AdminEnquiries.Activity)
	admin.Delete("/enquiries/:id", deps.AdminEnquiries.Delete)

	admin.Get("/customers", deps.CustomerHandler.List)
	admin.Get("/customers/:id", deps.CustomerHandler.Get)

	admin.Get("/inventory", deps.InventoryHandler.List)
	admin.Post("/inventory", deps.InventoryHandler.Create)
	admin.Put("/inventory/:id", deps.InventoryHandler.Update)
	admin.Delete("/inventory/:id", deps.InventoryHandler.Delete)
	admin.Post("/inventory/:id/adjust", deps.InventoryHandler.Adjust)
	admin.Get("/inventory/:id/reorder-link", deps.InventoryHandler.ReorderLink)

	admin.Get("/products", deps.AdminCatalog.Products)
	admin.Post("/products", deps.AdminCatalog.CreateProduct)
	admin.Put("/products/:id", deps.AdminCatalog.UpdateProduct)
	admin.Delete("/products/:id", deps.AdminCatalog.DeleteProduct)
	admin.Post("/categories", deps.AdminCatalog.CreateCategory)
	admin.Put("/categories/:id", deps.AdminCatalog.UpdateCategory)
	admin.Delete("/categories/:id", deps.AdminCatalog.DeleteCategory)

	admin.Get("/templates", deps.TemplateHandler.List)
	admin.Post("/templates", deps.TemplateHandler.Create)
	admin.Put("/templates/:id", deps.TemplateHandler.Update)
	admin.Delete("/templates/:id", deps.TemplateHandler.Delete)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
