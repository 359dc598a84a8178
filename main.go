package main

import (
	"enrollsvc/config"
	enrollmentControllers "enrollsvc/controllers/enrollment"
	progressControllers "enrollsvc/controllers/progress"
	"enrollsvc/database"
	enrollmentRoutes "enrollsvc/routers/enrollmentRoutes"
	progressRoutes "enrollsvc/routers/progressRoutes"
	"enrollsvc/services"
	"enrollsvc/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"log"
)

func main() {
	config.LoadConfig()
	db := database.ConnectDb()

	mailer := utils.NewMailer(utils.NewUserDirectory())

	enrollments := services.NewEnrollmentService(db, mailer)
	enrollments.FanoutWorkers = config.AppConfig.FanoutWorkers
	progress := services.NewProgressService(db, mailer)
	certificates := services.NewCertificateService(db)

	utils.InitializeReconcileScheduler(enrollments)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization,X-User-Id", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	enrollmentRoutes.SetupEnrollmentRoutes(app, enrollmentControllers.NewEnrollmentController(enrollments, certificates))
	progressRoutes.SetupProgressRoutes(app, progressControllers.NewProgressController(progress))

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
