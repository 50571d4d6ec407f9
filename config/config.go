package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	KNOWLEDGE_BACKEND_DATABASE = "database"
	KNOWLEDGE_BACKEND_LOCAL    = "local"
)

// Configuration is loaded once at startup and handed to every component that needs it.
// Values come from the JSON config file and can be overridden by environment variables.
type Configuration struct {
	ApiPort  string `json:"api_port" env:"PORT" env-default:"8080"`
	LogPath  string `json:"log_path" env:"LOG_PATH"`
	LogLevel string `json:"log_level" env:"LOG_LEVEL" env-default:"info"`

	Database string `json:"database" env:"DATABASE" env-default:"sqlite3"` // "sqlite3" ou "postgres"
	DbPath   string `json:"db_path" env:"DB_PATH" env-default:"data/database.sqlite"`
	DbHost   string `json:"db_host" env:"DB_HOST"`
	DbPort   string `json:"db_port" env:"DB_PORT"`
	DbUser   string `json:"db_user" env:"DB_USER"`
	DbName   string `json:"db_name" env:"DB_NAME"`
	DbPass   string `json:"db_pass" env:"DB_PASS"`
	DbLog    bool   `json:"db_log" env:"DB_LOG"`

	Gemini struct {
		ApiKey   string `json:"api_key" env:"GEMINI_API_KEY"`
		Model    string `json:"model" env:"GEMINI_MODEL" env-default:"gemini-2.5-flash"`
		Endpoint string `json:"endpoint" env:"GEMINI_ENDPOINT"`
	} `json:"gemini"`

	Connectivity struct {
		ProbeURL       string `json:"probe_url" env:"PROBE_URL" env-default:"https://www.google.com"`
		TimeoutSeconds int    `json:"timeout_seconds" env:"PROBE_TIMEOUT_SECONDS" env-default:"3"`
	} `json:"connectivity"`

	Chat struct {
		MaxContextEntries int  `json:"max_context_entries" env:"CHAT_MAX_CONTEXT_ENTRIES" env-default:"50"`
		MaxEntryChars     int  `json:"max_entry_chars" env:"CHAT_MAX_ENTRY_CHARS" env-default:"600"`
		PersistIntents    bool `json:"persist_intents" env:"CHAT_PERSIST_INTENTS"`
	} `json:"chat"`

	Upload struct {
		MaxSizeMB int64 `json:"max_size_mb" env:"UPLOAD_MAX_SIZE_MB" env-default:"500"`
	} `json:"upload"`

	Knowledge struct {
		Backend   string `json:"backend" env:"KNOWLEDGE_BACKEND" env-default:"database"`
		LocalPath string `json:"local_path" env:"KNOWLEDGE_LOCAL_PATH" env-default:"data/knowledge.json"`
	} `json:"knowledge"`

	Cors struct {
		AllowedOrigins []string `json:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-separator:","`
	} `json:"cors"`
}

// Load reads the config file at path (JSON) and applies environment overrides.
// An empty path reads the environment only.
func Load(path string) (Configuration, error) {
	var c Configuration

	var err error
	if path == "" {
		err = cleanenv.ReadEnv(&c)
	} else {
		err = cleanenv.ReadConfig(path, &c)
	}
	if err != nil {
		return c, fmt.Errorf("load config: %w", err)
	}

	// defaults (pra evitar zero chato quando o arquivo traz valores vazios)
	if c.Connectivity.TimeoutSeconds <= 0 {
		c.Connectivity.TimeoutSeconds = 3
	}
	if c.Chat.MaxContextEntries <= 0 {
		c.Chat.MaxContextEntries = 50
	}
	if c.Chat.MaxEntryChars <= 0 {
		c.Chat.MaxEntryChars = 600
	}
	if c.Upload.MaxSizeMB <= 0 {
		c.Upload.MaxSizeMB = 500
	}
	if c.Knowledge.Backend != KNOWLEDGE_BACKEND_LOCAL {
		c.Knowledge.Backend = KNOWLEDGE_BACKEND_DATABASE
	}

	return c, nil
}

func (c Configuration) ProbeTimeout() time.Duration {
	return time.Duration(c.Connectivity.TimeoutSeconds) * time.Second
}

func (c Configuration) UploadLimitBytes() int64 {
	return c.Upload.MaxSizeMB * 1024 * 1024
}
