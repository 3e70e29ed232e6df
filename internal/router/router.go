package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oliver-zyn/productivity-hub/internal/handler"
	"github.com/oliver-zyn/productivity-hub/internal/middleware"
	"github.com/oliver-zyn/productivity-hub/internal/service"
)

type Handlers struct {
	Auth      *handler.AuthHandler
	Dashboard *handler.DashboardHandler
	Tasks     *handler.TaskHandler
	Projects  *handler.ProjectHandler
	Meetings  *handler.MeetingHandler
	Pomodoro  *handler.PomodoroHandler
	Chat      *handler.ChatHandler
	Calendar  *handler.CalendarHandler
}

func New(authService *service.AuthService, h Handlers, corsOrigins []string) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery(), middleware.CORS(corsOrigins))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")
	auth := api.Group("/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)

	secured := api.Group("")
	secured.Use(middleware.Auth(authService))

	secured.GET("/dashboard", h.Dashboard.Get)
	secured.GET("/metrics", h.Dashboard.Metrics)

	tasks := secured.Group("/tasks")
	tasks.GET("", h.Tasks.List)
	tasks.POST("", h.Tasks.Create)
	tasks.PATCH("/:id/toggle", h.Tasks.Toggle)
	tasks.DELETE("/:id", h.Tasks.Delete)

	projects := secured.Group("/projects")
	projects.GET("", h.Projects.List)
	projects.POST("", h.Projects.Create)
	projects.PUT("/:id", h.Projects.Update)
	projects.DELETE("/:id", h.Projects.Delete)
	projects.PATCH("/:id/expanded", h.Projects.ToggleExpanded)
	projects.POST("/:id/subtasks", h.Projects.AddSubtask)
	projects.POST("/:id/subtasks/generate", h.Projects.GenerateSubtasks)
	projects.PATCH("/:id/subtasks/:subtaskId/toggle", h.Projects.ToggleSubtask)
	projects.DELETE("/:id/subtasks/:subtaskId", h.Projects.DeleteSubtask)

	meetings := secured.Group("/meetings")
	meetings.GET("", h.Meetings.List)
	meetings.POST("", h.Meetings.Create)
	meetings.PUT("/:id", h.Meetings.Update)
	meetings.DELETE("/:id", h.Meetings.Delete)

	templates := secured.Group("/templates")
	templates.GET("", h.Meetings.ListTemplates)
	templates.POST("", h.Meetings.CreateTemplate)
	templates.DELETE("/:id", h.Meetings.DeleteTemplate)

	pomodoro := secured.Group("/pomodoro")
	pomodoro.GET("/state", h.Pomodoro.GetState)
	pomodoro.POST("/start", h.Pomodoro.Start)
	pomodoro.POST("/pause", h.Pomodoro.Pause)
	pomodoro.POST("/reset", h.Pomodoro.Reset)
	pomodoro.POST("/tick", h.Pomodoro.Tick)
	pomodoro.POST("/skip", h.Pomodoro.Skip)
	pomodoro.GET("/history", h.Pomodoro.GetHistory)
	pomodoro.GET("/history/:sessionId", h.Pomodoro.GetSession)

	chat := secured.Group("/chat")
	chat.GET("", h.Chat.Get)
	chat.POST("/messages", h.Chat.SendMessage)
	chat.PUT("/open", h.Chat.SetOpen)
	chat.DELETE("", h.Chat.Clear)
	chat.POST("/commands", h.Chat.RunCommand)

	calendar := secured.Group("/calendar")
	calendar.POST("/sync", h.Calendar.Sync)
	calendar.POST("/events", h.Calendar.CreateEvent)

	data := secured.Group("/data")
	data.GET("/export", h.Dashboard.Export)
	data.POST("/import", h.Dashboard.Import)
	data.GET("/usage", h.Dashboard.Usage)
	data.GET("/entries/:key", h.Dashboard.Entry)
	data.DELETE("", h.Dashboard.Clear)

	return engine
}
