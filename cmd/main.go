package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/devlogai/devlog-backend/internal/clients/openai"
	"github.com/devlogai/devlog-backend/internal/db"
	"github.com/devlogai/devlog-backend/internal/handlers"
	"github.com/devlogai/devlog-backend/internal/logger"
	"github.com/devlogai/devlog-backend/internal/observability"
	"github.com/devlogai/devlog-backend/internal/repos"
	"github.com/devlogai/devlog-backend/internal/server"
	"github.com/devlogai/devlog-backend/internal/services"
	"github.com/devlogai/devlog-backend/internal/sse"
	"github.com/devlogai/devlog-backend/internal/utils"
)

const serviceName = "devlog-backend"

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	port := utils.GetEnv("PORT", "8080", log)
	pacingMS := utils.GetEnvAsInt("PORTFOLIO_PACING_MS", 800, log)
	origins := utils.GetEnv("CORS_ALLOWED_ORIGINS", "", log)

	// Tracing
	shutdownTracing := observability.Init(context.Background(), log, observability.Config{
		ServiceName: serviceName,
		Environment: logMode,
	})
	if shutdownTracing != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTracing(ctx); err != nil {
				log.Warn("Tracing shutdown failed", "error", err)
			}
		}()
	}

	// Database
	dbService, err := db.NewService(log)
	if err != nil {
		log.Fatal("Database init failed", "error", err)
	}
	if err := dbService.AutoMigrateAll(); err != nil {
		log.Fatal("Auto migration failed", "error", err)
	}
	gdb := dbService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	profileRepo := repos.NewProfileRepo(gdb, log)
	roadmapRepo := repos.NewRoadmapRepo(gdb, log)
	sessionRepo := repos.NewSessionRepo(gdb, log)

	// SSE
	sseHub := sse.NewHub(log)

	// Services
	log.Info("Setting up Services from main...")
	aiClient, err := openai.NewClient(log)
	if err != nil {
		log.Warn("OpenAI client not fully configured; AI calls will fail", "error", err)
	}
	profileService := services.NewProfileService(gdb, log, profileRepo)
	roadmapService := services.NewRoadmapService(gdb, log, roadmapRepo, aiClient)
	workspaceService := services.NewWorkspaceService(gdb, log, roadmapRepo)
	tutorService := services.NewTutorService(log, aiClient)
	examService := services.NewExamService(log, aiClient, workspaceService)
	sessionService := services.NewSessionService(gdb, log, sessionRepo, aiClient)
	portfolioService := services.NewPortfolioService(
		log, aiClient, workspaceService, profileRepo, sseHub,
		time.Duration(pacingMS)*time.Millisecond,
	)

	// Handlers
	log.Info("Setting up Handlers from main...")
	profileHandler := handlers.NewProfileHandler(log, profileService)
	roadmapHandler := handlers.NewRoadmapHandler(log, roadmapService, profileService, workspaceService, sseHub)
	workspaceHandler := handlers.NewWorkspaceHandler(log, workspaceService)
	chatHandler := handlers.NewChatHandler(log, tutorService, profileService, workspaceService, sessionService)
	examHandler := handlers.NewExamHandler(log, examService, profileService, workspaceService)
	portfolioHandler := handlers.NewPortfolioHandler(log, portfolioService, workspaceService, roadmapService)
	sessionHandler := handlers.NewSessionHandler(log, sessionService, tutorService, profileService)
	eventsHandler := handlers.NewEventsHandler(log, sseHub)

	var allowedOrigins []string
	if origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				allowedOrigins = append(allowedOrigins, o)
			}
		}
	}

	router := server.NewRouter(server.RouterConfig{
		ServiceName:      serviceName,
		AllowedOrigins:   allowedOrigins,
		ProfileHandler:   profileHandler,
		RoadmapHandler:   roadmapHandler,
		WorkspaceHandler: workspaceHandler,
		ChatHandler:      chatHandler,
		ExamHandler:      examHandler,
		PortfolioHandler: portfolioHandler,
		SessionHandler:   sessionHandler,
		EventsHandler:    eventsHandler,
	})

	log.Info("Starting server", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}
