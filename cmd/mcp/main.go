package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/oliver-zyn/productivity-hub/internal/assistant"
	"github.com/oliver-zyn/productivity-hub/internal/config"
	"github.com/oliver-zyn/productivity-hub/internal/db"
	"github.com/oliver-zyn/productivity-hub/internal/mcpserver"
	"github.com/oliver-zyn/productivity-hub/internal/persistence"
	"github.com/oliver-zyn/productivity-hub/internal/repository"
	"github.com/oliver-zyn/productivity-hub/internal/service"
)

func main() {
	transport := flag.String("transport", "stdio", "Transport mode: stdio or http")
	port := flag.String("port", "8081", "HTTP port (only used with --transport http)")
	email := flag.String("user", "", "Email of the workspace owner (defaults to MCP_USER_EMAIL)")
	flag.Parse()

	cfg := config.Load()
	if *email == "" {
		*email = cfg.MCPUserEmail
	}
	if *email == "" {
		log.Fatal("workspace owner is required: pass --user or set MCP_USER_EMAIL")
	}

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
	assistantClient := assistant.New(assistant.Config{
		APIKey:  cfg.OpenAIAPIKey,
		Model:   cfg.OpenAIModel,
		BaseURL: cfg.OpenAIBaseURL,
	}, &http.Client{Timeout: cfg.AssistantTimeout})

	authService := service.NewAuthService(userRepo, workspaces, cfg.JWTSecret, cfg.TokenTTL)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	user, apiErr := authService.UserByEmail(ctx, *email)
	if apiErr != nil {
		log.Fatalf("resolve workspace owner %s: %v", *email, apiErr)
	}

	srv := mcpserver.New(
		service.NewDashboardService(workspaces, assistantClient),
		service.NewChatService(workspaces, assistantClient),
		user.ID,
	)

	switch *transport {
	case "stdio":
		log.Printf("productivity hub MCP server starting (stdio, user %s)", user.Email)
		if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil {
			log.Fatalf("server error: %v", err)
		}
	case "http":
		addr := ":" + *port
		handler := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
			return srv
		}, nil)
		log.Printf("productivity hub MCP server listening on %s", addr)
		if err := http.ListenAndServe(addr, handler); err != nil {
			log.Fatalf("http server error: %v", err)
		}
	default:
		log.Fatalf("unknown transport: %s (use stdio or http)", *transport)
	}
}
