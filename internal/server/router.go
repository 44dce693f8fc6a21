package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/devlogai/devlog-backend/internal/handlers"
)

type RouterConfig struct {
	ServiceName      string
	AllowedOrigins   []string
	ProfileHandler   *handlers.ProfileHandler
	RoadmapHandler   *handlers.RoadmapHandler
	WorkspaceHandler *handlers.WorkspaceHandler
	ChatHandler      *handlers.ChatHandler
	ExamHandler      *handlers.ExamHandler
	PortfolioHandler *handlers.PortfolioHandler
	SessionHandler   *handlers.SessionHandler
	EventsHandler    *handlers.EventsHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware(cfg.ServiceName))

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)
	router.GET("/sse/stream", cfg.EventsHandler.Stream)

	api := router.Group("/api")
	{
		// Profile
		api.GET("/profile", cfg.ProfileHandler.GetProfile)
		api.PUT("/profile", cfg.ProfileHandler.SetProfile)

		// Roadmaps
		api.GET("/roadmaps", cfg.RoadmapHandler.ListRoadmaps)
		api.POST("/roadmaps/generate", cfg.RoadmapHandler.GenerateRoadmap)
		api.POST("/roadmaps/template", cfg.RoadmapHandler.CreateFromTemplate)
		api.DELETE("/roadmaps/:id", cfg.RoadmapHandler.DeleteRoadmap)
		api.POST("/roadmaps/:id/checkout", cfg.WorkspaceHandler.Checkout)

		// Workspace
		api.GET("/workspace", cfg.WorkspaceHandler.GetWorkspace)
		api.POST("/workspace/commit", cfg.WorkspaceHandler.Commit)
		api.POST("/workspace/discard", cfg.WorkspaceHandler.Discard)
		api.POST("/workspace/nodes/:nodeId/status", cfg.WorkspaceHandler.SetNodeStatus)
		api.POST("/workspace/nodes/:nodeId/chat", cfg.WorkspaceHandler.SetNodeChat)
		api.POST("/workspace/nodes/:nodeId/summary", cfg.WorkspaceHandler.SetNodeSummary)

		// Chat
		api.POST("/chat/topic/start", cfg.ChatHandler.StartTopicChat)
		api.POST("/chat/mentor/start", cfg.ChatHandler.StartMentorChat)
		api.POST("/chat/send", cfg.ChatHandler.Send)

		// Exam
		api.POST("/exam/start", cfg.ExamHandler.StartExam)
		api.POST("/exam/submit", cfg.ExamHandler.SubmitExam)

		// Portfolio
		api.POST("/portfolio/generate", cfg.PortfolioHandler.GeneratePortfolio)
		api.GET("/portfolio", cfg.PortfolioHandler.GetPortfolio)

		// Session
		api.GET("/session", cfg.SessionHandler.GetSession)
		api.POST("/session/send", cfg.SessionHandler.Send)
		api.POST("/session/page", cfg.SessionHandler.GeneratePage)
	}

	return router
}
