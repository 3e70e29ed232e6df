package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/oliver-zyn/productivity-hub/internal/model"
)

type Config struct {
	Port          string
	DBDriver      string
	DBPath        string
	JWTSecret     string
	TokenTTL      time.Duration
	CORSOrigins   []string
	MigrationsDir string

	OpenAIAPIKey     string
	OpenAIModel      string
	OpenAIBaseURL    string
	AssistantTimeout time.Duration

	CalendarBaseURL  string
	CalendarTimeZone string

	Location       *time.Location
	WeekStart      time.Weekday
	Pomodoro       model.PomodoroSettings
	StorageQuotaKB int
	// SharedStorage is set when more than one process (the HTTP server and
	// the MCP server) writes the same database.
	SharedStorage bool

	MCPUserEmail string
}

func Load() Config {
	return Config{
		Port:          getEnv("PORT", "8080"),
		DBDriver:      getEnv("DB_DRIVER", "sqlite3"),
		DBPath:        getEnv("DB_PATH", "./data/productivity-hub.db"),
		JWTSecret:     getEnv("JWT_SECRET", "change-this-secret"),
		TokenTTL:      time.Duration(getEnvInt("TOKEN_TTL_HOURS", 72)) * time.Hour,
		CORSOrigins:   getEnvList("CORS_ORIGINS", []string{"http://localhost:5173", "http://127.0.0.1:5173"}),
		MigrationsDir: getEnv("MIGRATIONS_DIR", "./migrations"),

		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:      getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
		OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		AssistantTimeout: time.Duration(getEnvInt("ASSISTANT_TIMEOUT_SECONDS", 10)) * time.Second,

		CalendarBaseURL:  getEnv("CALENDAR_BASE_URL", "https://graph.microsoft.com/v1.0"),
		CalendarTimeZone: getEnv("CALENDAR_TIME_ZONE", "America/Sao_Paulo"),

		Location:  getEnvLocation("TIMEZONE", time.Local),
		WeekStart: getEnvWeekday("WEEK_START", time.Sunday),
		Pomodoro: model.PomodoroSettings{
			WorkMinutes:            getEnvInt("POMODORO_WORK_MINUTES", model.DefaultWorkMinutes),
			ShortBreakMinutes:      getEnvInt("POMODORO_SHORT_BREAK_MINUTES", model.DefaultShortBreakMinutes),
			LongBreakMinutes:       getEnvInt("POMODORO_LONG_BREAK_MINUTES", model.DefaultLongBreakMinutes),
			SessionsUntilLongBreak: getEnvInt("POMODORO_SESSIONS_UNTIL_LONG_BREAK", model.DefaultSessionsUntilLongBreak),
		},
		StorageQuotaKB: getEnvInt("STORAGE_QUOTA_KB", 5*1024),
		SharedStorage:  getEnvBool("WORKSPACE_SHARED_STORAGE", true),

		MCPUserEmail: getEnv("MCP_USER_EMAIL", ""),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			items = append(items, trimmed)
		}
	}
	if len(items) == 0 {
		return fallback
	}
	return items
}

func getEnvLocation(key string, fallback *time.Location) *time.Location {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	loc, err := time.LoadLocation(value)
	if err != nil {
		log.Printf("config: unknown %s %q, using %s", key, value, fallback)
		return fallback
	}
	return loc
}

// getEnvWeekday accepts an English day name ("monday") or a number where
// 0 is Sunday.
func getEnvWeekday(key string, fallback time.Weekday) time.Weekday {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return fallback
	}

	if n, err := strconv.Atoi(value); err == nil {
		if n >= 0 && n <= 6 {
			return time.Weekday(n)
		}
		return fallback
	}
	for day := time.Sunday; day <= time.Saturday; day++ {
		if strings.ToLower(day.String()) == value {
			return day
		}
	}
	return fallback
}
