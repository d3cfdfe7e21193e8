package server

import (
	"time"

	"github.com/Kyz7/backoffice/internal/admin"
	"github.com/Kyz7/backoffice/internal/auth"
	"github.com/Kyz7/backoffice/internal/config"
	"github.com/Kyz7/backoffice/internal/listing"
	"github.com/Kyz7/backoffice/internal/metrics"
	"github.com/Kyz7/backoffice/internal/middleware"
	"github.com/Kyz7/backoffice/internal/models"
	"github.com/Kyz7/backoffice/internal/pipeline"
	"github.com/Kyz7/backoffice/internal/taxonomy"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func SetupRoutes(app *fiber.App, cfg *config.Config) {
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.RequestLogger())
	app.Use(metrics.Middleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS, PATCH",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "Back office API is running",
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.MetricsHandler()))

	api := app.Group("/api")

	// ==========================================
	// AUTH
	// ==========================================
	authGroup := api.Group("/auth")
	authGroup.Post("/login", limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}), auth.LoginHandler)
	authGroup.Post("/refresh", auth.RefreshHandler)
	authGroup.Get("/google/login", auth.GoogleLogin)
	authGroup.Get("/google/callback", auth.GoogleCallback)
	authGroup.Post("/logout", auth.JWTProtected(), auth.LogoutHandler)
	authGroup.Get("/session", auth.JWTProtected(), auth.SessionHandler)

	// Everything below requires the admin role. Registered after the auth
	// routes so login and refresh stay public.
	protected := api.Group("", auth.JWTProtected(), auth.AdminProtected())
	protected.Get("/navigation", auth.NavigationHandler)
	protected.Get("/dashboard",
		middleware.SectionProtected(models.SectionDashboard),
		pipeline.DashboardHandler)
	protected.Get("/draft",
		middleware.SectionProtected(models.SectionDraft),
		listing.DraftHandler)

	// ==========================================
	// LISTINGS
	// ==========================================
	listings := protected.Group("/listings")
	listings.Post("/",
		middleware.SectionProtected(models.SectionCreateNew),
		listing.CreateListingHandler)
	listings.Get("/search",
		middleware.SectionProtected(models.SectionDataBlock),
		listing.SearchListingsHandler)
	listings.Get("/trend",
		middleware.SectionProtected(models.SectionTrendAnalysis),
		listing.TrendLookupHandler)

	deleted := listings.Group("/deleted", middleware.SectionProtected(models.SectionDeletedListings))
	deleted.Get("/", listing.ListDeletedHandler)
	deleted.Post("/:id/restore", listing.RestoreListingHandler)
	deleted.Delete("/:id", listing.PurgeListingHandler)

	listings.Get("/:id",
		middleware.SectionProtected(models.SectionDataBlock),
		listing.GetListingHandler)
	listings.Delete("/:id",
		middleware.SectionProtected(models.SectionDataBlock),
		listing.DeleteListingHandler)

	// ==========================================
	// PIPELINE
	// ==========================================
	stages := protected.Group("/pipeline")

	cpv := stages.Group("/cpv", middleware.SectionProtected(models.SectionCPV))
	cpv.Get("/", pipeline.ListStageHandler(models.StatusCPV))
	cpv.Post("/:id/validate", pipeline.ValidateHandler)

	assign := stages.Group("/assign", middleware.SectionProtected(models.SectionAssign))
	assign.Get("/", pipeline.ListStageHandler(models.StatusAssign))
	assign.Post("/:id", pipeline.AssignHandler)

	worklist := stages.Group("/worklist", middleware.SectionProtected(models.SectionWorklist))
	worklist.Get("/", pipeline.ListStageHandler(models.StatusWorklist))
	worklist.Post("/:id/complete", pipeline.CompleteHandler)

	nr := stages.Group("/nr", middleware.SectionProtected(models.SectionNR))
	nr.Get("/", pipeline.ListStageHandler(models.StatusNR))
	nr.Post("/:id/review", pipeline.ReviewHandler)

	np := stages.Group("/np", middleware.SectionProtected(models.SectionNP))
	np.Get("/", pipeline.ListStageHandler(models.StatusNP))
	np.Post("/:id/resubmit", pipeline.ResubmitHandler)

	pr := stages.Group("/pr", middleware.SectionProtected(models.SectionPR))
	pr.Get("/", pipeline.ListStageHandler(models.StatusPR))
	pr.Post("/publish", pipeline.PublishHandler)

	stages.Get("/published",
		middleware.SectionProtected(models.SectionDashboard),
		pipeline.ListStageHandler(models.StatusPublished))

	// ==========================================
	// TAXONOMY
	// ==========================================
	for path, kind := range map[string]taxonomy.Kind{
		"/categories": taxonomy.KindCategory,
		"/brands":     taxonomy.KindBrand,
	} {
		group := protected.Group(path, middleware.SectionProtected(models.SectionDataBlock))
		group.Get("/", taxonomy.ListHandler(kind))
		group.Post("/", taxonomy.CreateHandler(kind))
		group.Put("/:id", taxonomy.RenameHandler(kind))
		group.Delete("/:id", taxonomy.DeleteHandler(kind))
	}

	// ==========================================
	// ADMIN MANAGEMENT
	// ==========================================
	admins := protected.Group("/admins", middleware.SectionProtected(models.SectionAdminPrivileges))
	admins.Post("/", admin.CreateAdminHandler)
	admins.Get("/", admin.ListAdminsHandler)
	admins.Get("/:id", admin.GetAdminHandler)
	admins.Patch("/:id/status", admin.ToggleStatusHandler)
	admins.Delete("/:id", admin.DeleteAdminHandler)
	admins.Get("/:id/permissions", admin.GetPermissionsHandler)
	admins.Put("/:id/permissions", admin.ReplacePermissionsHandler)
	admins.Get("/:id/activity", admin.ActivityHandler)
}
