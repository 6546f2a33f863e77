package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Telegram  TelegramConfig
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	GigaChat  GigaChatConfig
	OpenAI    OpenAIConfig
	App       AppConfig
	Knowledge KnowledgeConfig
	RateLimit RateLimitConfig
	Logger    LoggerConfig
}

type LoggerConfig struct {
	Level       string
	Development bool
}

type TelegramConfig struct {
	BotToken    string
	PollTimeout int
}

// ServerConfig describes the admin HTTP panel.
type ServerConfig struct {
	Port          string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	AdminUsername string
	AdminSecret   string
	AdminUserIDs  []int64
	RatePerMinute int
	RateBurst     int
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int32
}

type JWTConfig struct {
	SecretKey  string
	Expiration time.Duration
}

type GigaChatConfig struct {
	APIKey             string
	Scope              string
	Model              string
	InsecureSkipVerify bool
}

type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
}

type AppConfig struct {
	Debug            bool
	AIProvider       string
	AITimeout        time.Duration
	MaxHistoryLength int
	EnableStatistics bool
}

// KnowledgeConfig points at the FAQ corpus.
type KnowledgeConfig struct {
	Source          string // file | database
	FilePath        string
	URLCheckTimeout time.Duration
}

type RateLimitConfig struct {
	SweepInterval time.Duration
	SweepDays     int
}

func Load() (*Config, error) {
	// .env is optional, plain environment variables work for Docker/K8s
	for _, envFile := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("SERVER_WRITE_TIMEOUT", "30"))
	jwtExp, _ := strconv.Atoi(getEnv("JWT_EXPIRATION_HOURS", "24"))
	pollTimeout, _ := strconv.Atoi(getEnv("TELEGRAM_POLL_TIMEOUT", "60"))
	maxConns, _ := strconv.Atoi(getEnv("POSTGRES_MAX_CONNS", "10"))
	maxTokens, _ := strconv.Atoi(getEnv("OPENAI_MAX_TOKENS", "2000"))
	temperature, _ := strconv.ParseFloat(getEnv("OPENAI_TEMPERATURE", "0.7"), 64)
	aiTimeout, _ := strconv.Atoi(getEnv("AI_TIMEOUT", "60"))
	historyLen, _ := strconv.Atoi(getEnv("MAX_HISTORY_LENGTH", "10"))
	urlTimeout, _ := strconv.Atoi(getEnv("FAQ_URL_CHECK_TIMEOUT", "5"))
	sweepDays, _ := strconv.Atoi(getEnv("RATE_LIMIT_SWEEP_DAYS", "1"))
	sweepInterval, err := time.ParseDuration(getEnv("RATE_LIMIT_SWEEP_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_SWEEP_INTERVAL: %w", err)
	}
	ratePerMinute, _ := strconv.Atoi(getEnv("ADMIN_RATE_PER_MINUTE", "120"))
	rateBurst, _ := strconv.Atoi(getEnv("ADMIN_RATE_BURST", "20"))

	adminIDs, err := parseIDList(getEnv("ADMIN_USER_IDS", ""))
	if err != nil {
		return nil, fmt.Errorf("invalid ADMIN_USER_IDS: %w", err)
	}

	debug := getBool("DEBUG", false)

	return &Config{
		Telegram: TelegramConfig{
			BotToken:    getEnv("TELEGRAM_BOT_TOKEN", ""),
			PollTimeout: pollTimeout,
		},
		Server: ServerConfig{
			Port:          getEnv("ADMIN_PORT", "8000"),
			ReadTimeout:   time.Duration(readTimeout) * time.Second,
			WriteTimeout:  time.Duration(writeTimeout) * time.Second,
			AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
			AdminSecret:   getEnv("ADMIN_SECRET_KEY", "change-me-in-production"),
			AdminUserIDs:  adminIDs,
			RatePerMinute: ratePerMinute,
			RateBurst:     rateBurst,
		},
		Database: DatabaseConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", "postgres"),
			DBName:   getEnv("POSTGRES_DB", "ot_bot_db"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
			MaxConns: int32(maxConns),
		},
		JWT: JWTConfig{
			SecretKey:  getEnv("JWT_SECRET_KEY", "your-secret-key-change-in-production"),
			Expiration: time.Duration(jwtExp) * time.Hour,
		},
		GigaChat: GigaChatConfig{
			APIKey:             getEnv("GIGACHAT_API_KEY", ""),
			Scope:              getEnv("GIGACHAT_SCOPE", "GIGACHAT_API_PERS"),
			Model:              getEnv("GIGACHAT_MODEL", "GigaChat"),
			InsecureSkipVerify: getBool("GIGACHAT_INSECURE_SKIP_VERIFY", true),
		},
		OpenAI: OpenAIConfig{
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			BaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			MaxTokens:   maxTokens,
			Temperature: temperature,
		},
		App: AppConfig{
			Debug:            debug,
			AIProvider:       strings.ToLower(getEnv("AI_PROVIDER", "openai")),
			AITimeout:        time.Duration(aiTimeout) * time.Second,
			MaxHistoryLength: historyLen,
			EnableStatistics: getBool("ENABLE_STATISTICS", true),
		},
		Knowledge: KnowledgeConfig{
			Source:          strings.ToLower(getEnv("FAQ_SOURCE", "file")),
			FilePath:        getEnv("FAQ_FILE_PATH", "faq_ohs_ru_links.json"),
			URLCheckTimeout: time.Duration(urlTimeout) * time.Second,
		},
		RateLimit: RateLimitConfig{
			SweepInterval: sweepInterval,
			SweepDays:     sweepDays,
		},
		Logger: LoggerConfig{
			Level:       strings.ToLower(getEnv("LOG_LEVEL", "info")),
			Development: debug,
		},
	}, nil
}

// Validate reports settings the bot cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.Telegram.BotToken == "" {
		errs = append(errs, errors.New("TELEGRAM_BOT_TOKEN is required"))
	}
	switch c.App.AIProvider {
	case "openai":
		if c.OpenAI.APIKey == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY is required for the openai provider"))
		}
	case "gigachat":
		if c.GigaChat.APIKey == "" {
			errs = append(errs, errors.New("GIGACHAT_API_KEY is required for the gigachat provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported AI_PROVIDER %q", c.App.AIProvider))
	}
	switch c.Knowledge.Source {
	case "file", "database":
	default:
		errs = append(errs, fmt.Errorf("unsupported FAQ_SOURCE %q", c.Knowledge.Source))
	}
	return errors.Join(errs...)
}

// IsAdmin reports whether a Telegram user is listed in ADMIN_USER_IDS.
func (c *ServerConfig) IsAdmin(userID int64) bool {
	for _, id := range c.AdminUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func parseIDList(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	value := strings.ToLower(os.Getenv(key))
	switch value {
	case "":
		return defaultValue
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}
