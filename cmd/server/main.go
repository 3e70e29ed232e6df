package main

import (
	"log"
	"net/http"
	_ "time/tzdata"

	"github.com/oliver-zyn/productivity-hub/internal/assistant"
	"github.com/oliver-zyn/productivity-hub/internal/calendar"
	"github.com/oliver-zyn/productivity-hub/internal/config"
	"github.com/oliver-zyn/productivity-hub/internal/db"
	"github.com/oliver-zyn/productivity-hub/internal/handler"
	"github.com/oliver-zyn/productivity-hub/internal/persistence"
	"github.com/oliver-zyn/productivity-hub/internal/repository"
	"github.com/oliver-zyn/productivity-hub/internal/router"
	"github.com/oliver-zyn/productivity-hub/internal/service"
)

func main() {
	cfg := config.Load()

	database, err := db.Open(cfg.DBDriver, cfg.DBPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations(database, cfg.MigrationsDir); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	userRepo := repository.NewUserRepository(database)
	kvRepo := repository.NewKVRepository(database)
	pomodoroRepo := repository.NewPomodoroRepository(database)

	workspaces := service.NewWorkspaceService(
		func(userID string) persistence.Storage { return kvRepo.ForUser(userID) },
		pomodoroRepo,
		service.WorkspaceOptions{
			Location:      cfg.Location,
			WeekStart:     cfg.WeekStart,
			Pomodoro:      cfg.Pomodoro,
			QuotaKB:       cfg.StorageQuotaKB,
			SharedStorage: cfg.SharedStorage,
		},
	)

	httpClient := &http.Client{Timeout: cfg.AssistantTimeout}
	assistantClient := assistant.New(assistant.Config{
		APIKey:  cfg.OpenAIAPIKey,
		Model:   cfg.OpenAIModel,
		BaseURL: cfg.OpenAIBaseURL,
	}, httpClient)
	if !assistantClient.Configured() {
		log.Println("OPENAI_API_KEY not set; assistant replies are disabled")
	}
	calendarClient := calendar.New(cfg.CalendarBaseURL, cfg.CalendarTimeZone, httpClient)

	authService := service.NewAuthService(userRepo, workspaces, cfg.JWTSecret, cfg.TokenTTL)
	dashboardService := service.NewDashboardService(workspaces, assistantClient)
	pomodoroService := service.NewPomodoroService(workspaces, pomodoroRepo)
	chatService := service.NewChatService(workspaces, assistantClient)
	calendarService := service.NewCalendarService(workspaces, calendarClient)

	engine := router.New(authService, router.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		Tasks:     handler.NewTaskHandler(dashboardService),
		Projects:  handler.NewProjectHandler(dashboardService),
		Meetings:  handler.NewMeetingHandler(dashboardService),
		Pomodoro:  handler.NewPomodoroHandler(pomodoroService),
		Chat:      handler.NewChatHandler(chatService),
		Calendar:  handler.NewCalendarHandler(calendarService),
	}, cfg.CORSOrigins)

	log.Printf("productivity hub listening on :%s (db driver %s)", cfg.Port, cfg.DBDriver)
	if err := engine.Run(":" + cfg.Port); err != nil {
		log.Fatalf("run server: %v", err)
	}
}
