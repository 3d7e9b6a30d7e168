package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/MUGAIRWA/HACKATHON2/config"
	"github.com/MUGAIRWA/HACKATHON2/controllers"
	"github.com/MUGAIRWA/HACKATHON2/routes"
	"github.com/MUGAIRWA/HACKATHON2/services"
	"github.com/MUGAIRWA/HACKATHON2/utils"
)

func main() {
	config.LoadEnv()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	db := config.InitDB()
	utils.InitS3()

	ctx := context.Background()

	generator, err := services.NewGeminiGenerator(ctx, logger)
	if err != nil {
		// The assistant degrades to canned fallbacks without a model.
		logger.Warn("Gemini unavailable, assistant will use fallbacks", "error", err)
		generator = services.UnavailableGenerator{}
	}

	hub := services.NewRealtimeHub()

	push, err := services.NewPushService(db)
	if err != nil {
		logger.Warn("push notifications disabled", "error", err)
		push = nil
	}

	notifications := services.NewNotificationService(db, hub, push, logger)
	gateway := services.NewPaystackGateway()
	funding := services.NewFundingService(db, gateway, notifications, logger)
	sessions := services.NewSessionManager(db, generator, logger)
	auth := services.NewAuthService(db, logger)

	r := routes.SetupRouter(routes.Controllers{
		Auth:          controllers.NewAuthController(auth),
		User:          controllers.NewUserController(auth),
		Assistant:     controllers.NewAssistantController(sessions),
		Meals:         controllers.NewMealController(sessions),
		Learning:      controllers.NewLearningController(sessions),
		Health:        controllers.NewHealthController(sessions),
		Admin:         controllers.NewAdminController(funding),
		Donations:     controllers.NewDonationController(funding),
		Notifications: controllers.NewNotificationController(notifications),
		Realtime:      controllers.NewRealtimeController(hub),
		Devices:       controllers.NewDeviceController(push),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}
