package main

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/app"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/config"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/controllers"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/middleware"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/repositories"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/services"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/utils"
)

const corsLowSecurityAllowedOriginLocalhost = "http://localhost:3000"

func main() {
	utils.InitLogger(config.AppName)
	cfg := config.LoadConfig()
	defer cfg.Close()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize app:", err)
	}
	defer application.Close()

	// Repositories
	propertyRepo := repositories.NewPropertyRepository(application.DB)
	bookingRepo := repositories.NewBookingRepository(application.DB)
	visitRepo := repositories.NewVisitRepository(application.DB)
	likeRepo := repositories.NewLikeRepository(application.DB)
	userRepo := repositories.NewUserRepository(application.DB)

	// Services
	notifier := application.Notifier(userRepo)
	ids := services.NewIdentifierService(propertyRepo, bookingRepo)
	propertyService := services.NewPropertyService(propertyRepo, bookingRepo, ids)
	bookingService := services.NewBookingService(bookingRepo, propertyRepo, ids, notifier)
	visitService := services.NewVisitService(visitRepo, propertyRepo, userRepo, application.SlotCache(), notifier)
	likeService := services.NewLikeService(likeRepo, propertyRepo)

	// Controllers
	healthController := controllers.NewHealthController(application.DB)
	propertyController := controllers.NewPropertyController(propertyService)
	bookingController := controllers.NewBookingController(bookingService)
	visitController := controllers.NewVisitController(visitService)
	likeController := controllers.NewLikeController(likeService)

	router := mux.NewRouter()
	controllers.RegisterRoutes(router, middleware.AuthMiddleware(cfg.RSAPublicKey), controllers.Handlers{
		Health:   healthController,
		Property: propertyController,
		Booking:  bookingController,
		Visit:    visitController,
		Like:     likeController,
	})

	allowedOrigins := []string{cfg.AppUrl}
	if !cfg.LDFlag_CORSHighSecurity {
		allowedOrigins = append(allowedOrigins, corsLowSecurityAllowedOriginLocalhost)
	}

	co := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("Server failed to start:", err)
	}
}
