package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/AnesBhm/CLIENT-SUPPORT-with-ai-agents/internal/backend"
	"github.com/AnesBhm/CLIENT-SUPPORT-with-ai-agents/internal/chat"
	"github.com/AnesBhm/CLIENT-SUPPORT-with-ai-agents/internal/config"
	"github.com/AnesBhm/CLIENT-SUPPORT-with-ai-agents/internal/http/handlers"
	"github.com/AnesBhm/CLIENT-SUPPORT-with-ai-agents/internal/http/middleware"
	"github.com/AnesBhm/CLIENT-SUPPORT-with-ai-agents/internal/session"

	_ "github.com/AnesBhm/CLIENT-SUPPORT-with-ai-agents/docs"
)

type Deps struct {
	Auth      *backend.AuthService
	Tickets   *backend.TicketService
	Analytics *backend.AnalyticsService
	Sessions  *session.Manager
	Chats     *chat.Registry
	Agents    *handlers.AgentDirectory
}

func Router(cfg config.Config, deps Deps, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.SetHTMLTemplate(handlers.Templates())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowed == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = []string{cfg.CORSAllowed}
	}
	r.Use(cors.New(corsCfg))

	r.Use(middleware.Resolve(deps.Sessions))

	h := &handlers.Handler{
		Auth:                  deps.Auth,
		Tickets:               deps.Tickets,
		Analytics:             deps.Analytics,
		Sessions:              deps.Sessions,
		Chats:                 deps.Chats,
		Agents:                deps.Agents,
		Validator:             validator.New(),
		Logger:                logger,
		PollInterval:          cfg.PollInterval,
		SatisfactionThreshold: cfg.SatisfactionThreshold,
	}

	r.GET("/healthz", h.Healthz)

	r.GET("/", h.LandingPage)
	r.GET("/login", h.LoginPage)
	r.POST("/login", h.Login)
	r.GET("/signup", h.SignupPage)
	r.POST("/signup", h.Signup)
	r.POST("/logout", h.Logout)

	pages := r.Group("")
	pages.Use(middleware.RequirePage())
	{
		pages.GET("/client", h.ClientPage)
		pages.GET("/profile", h.ProfilePage)

		staff := pages.Group("")
		staff.Use(middleware.RequireRole("agent", "admin"))
		{
			staff.GET("/dashboard", h.DashboardPage)
			staff.POST("/dashboard/agents", h.AddAgent)
			staff.POST("/dashboard/agents/:id/delete", h.DeleteAgent)
		}
	}

	api := r.Group("/api")
	api.Use(middleware.RequireAPI())
	{
		api.POST("/tickets", h.CreateTicket)
		api.GET("/tickets", h.ListTickets)
		api.POST("/tickets/:id/chat", h.OpenChat)
		api.DELETE("/tickets/:id/chat", h.CloseChat)
		api.GET("/tickets/:id/events", h.ChatEvents)
		api.POST("/tickets/:id/rating", h.RateTicket)
		api.GET("/admin/stats", h.DashboardStatsAPI)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
