package FiberConfig

import (
	"fmt"
	"os"

	"Summit/Controllers"
	"Summit/Models"
	"Summit/OKR"
	"Summit/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func SetupRoutes(app *fiber.App, store *OKR.SyncStore) {
	okrController := Controllers.NewOKRController(store)

	app.Get("/api/health", func(c *fiber.Ctx) error {
		if initErr := store.InitError(); initErr != "" {
			return c.JSON(fiber.Map{"status": "degraded", "storage": initErr})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Auth
	app.Post("/api/Login", Controllers.Login)
	app.Post("/api/RegisterUser", Controllers.RegisterUser)
	app.Get("/api/validate-token", Controllers.ValidateToken)
	app.Get("/api/User", middleware.Verify(), Controllers.User)
	app.Post("/api/Logout", Controllers.Logout)

	// Board
	okr := app.Group("/api/okr", middleware.Verify())
	okr.Get("/board", okrController.GetBoard)
	okr.Get("/summary", okrController.GetSummary)
	okr.Post("/save", okrController.Save)
	okr.Post("/reload", okrController.Reload)

	okr.Post("/objectives", okrController.CreateObjective)
	okr.Put("/objectives/:id", okrController.UpdateObjective)
	okr.Delete("/objectives/:id", okrController.DeleteObjective)
	okr.Post("/objectives/:id/krs", okrController.CreateKeyResult)
	okr.Put("/krs/:id", okrController.UpdateKeyResult)
	okr.Delete("/krs/:id", okrController.DeleteKeyResult)
	okr.Post("/krs/:id/tasks", okrController.CreateTask)
	okr.Put("/tasks/:id", okrController.UpdateTask)
	okr.Delete("/tasks/:id", okrController.DeleteTask)

	okr.Post("/departments/rename", okrController.RenameDepartment)
	okr.Post("/departments/delete", okrController.DeleteDepartment)

	okr.Get("/export", okrController.ExportExcel)
	okr.Post("/import", okrController.ImportExcel)

	// Request audit
	app.Get("/api/logs", middleware.Verify(), Controllers.GetLogs)
	app.Get("/api/logs/stats", middleware.Verify(), Controllers.GetLogStats)
}

func FiberConfig() {
	fmt.Println("Server Up...")
	app := fiber.New()
	app.Use(middleware.RequestLogger())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestCompression, // 2
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true,
		MaxAge:           300,
	}))

	store := OKR.NewSyncStore(Models.DB, Models.InitError)
	SetupRoutes(app, store)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}
	app.Listen(":" + port)
}
