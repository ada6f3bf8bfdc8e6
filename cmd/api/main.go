package main

import (
	"os"

	"turnos/cmd/internal/dispatch"
	"turnos/cmd/internal/domain/sqlite"
	"turnos/cmd/internal/domain/sqlite/repository"
	"turnos/cmd/internal/routes"
	"turnos/cmd/internal/service"
	"turnos/cmd/internal/utils/validators"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warnf("no .env file loaded: %v", err)
	}

	validate := validator.New()
	validators.Register(validate)

	// Init SQLite
	db, err := sqlite.Init(envOr("DB_PATH", "./turnos.db"))
	if err != nil {
		log.Fatal("failed to initialize database", err)
	}

	apptRepo := repository.NewAppointmentRepository(db)
	apptService := service.NewAppointmentService(apptRepo, validate)
	apptRoutes := routes.NewAppointmentDefault(apptService)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(dispatch.CaptureBody)

	// Single-page view and its assets
	e.File("/", apptRoutes.ViewFile)
	e.Static("/css", "public/css")
	e.Static("/js", "public/js")

	// The whole API surface goes through one classifying dispatcher
	e.Any("/api", apptRoutes.Dispatch)
	e.Any("/api/*", apptRoutes.Dispatch)
	e.RouteNotFound("/*", apptRoutes.NotFound)

	err = e.Start(":" + envOr("PORT", "8080"))
	if err != nil {
		e.Logger.Fatal(err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
