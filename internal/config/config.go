package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config represents runtime configuration for the service.
type Config struct {
	BasicConfig BasicConfig    `json:"basic_config"`
	Provider    ProviderConfig `json:"provider"`
}

type ProviderConfig struct {
	// Name selects the upstream provider: gemini, openai or claude.
	Name    string `json:"name"`
	BaseURL string `json:"base_url"`
	Model   string `json:"model"`
	// APIKey is resolved from the environment, never from the file.
	APIKey string `json:"-"`
}

type BasicConfig struct {
	ServerAddress  string   `json:"server_address"`
	AllowedOrigins []string `json:"allowed_origins"`
	StagingDir     string   `json:"staging_dir"`
	MaxUploadBytes int64    `json:"max_upload_bytes"`
}

const (
	DefaultProvider   = "gemini"
	DefaultModel      = "gemini-2.0-flash-exp"
	DefaultMaxUpload  = 10 << 20 // 10 MB
	defaultServerAddr = ":8000"
)

// env variable holding the provider credential, keyed by provider name.
var apiKeyEnv = map[string]string{
	"gemini": "GEMINI_API_KEY",
	"openai": "OPENAI_API_KEY",
	"claude": "ANTHROPIC_API_KEY",
}

var defaultAllowedOrigins = []string{
	"http://localhost:3000",
	"http://localhost:3001",
	"https://bot-chat-frontend-iyj5.vercel.app",
}

// Load reads configuration from the provided path. An empty path yields
// defaults; the provider credential always comes from the environment (a .env
// file is honored) and its absence is a startup error.
func Load(path string) (*Config, error) {
	godotenv.Load()

	var cfg Config
	if path != "" {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("resolve config path: %w", err)
		}
		file, err := os.Open(absPath)
		if err != nil {
			return nil, fmt.Errorf("open config %s: %w", absPath, err)
		}
		defer file.Close()
		if err := json.NewDecoder(file).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("decode config: %w", err)
		}
	}

	if cfg.Provider.Name == "" {
		cfg.Provider.Name = DefaultProvider
	}
	if cfg.Provider.Model == "" {
		cfg.Provider.Model = DefaultModel
	}
	if cfg.BasicConfig.ServerAddress == "" {
		cfg.BasicConfig.ServerAddress = defaultServerAddr
	}
	if len(cfg.BasicConfig.AllowedOrigins) == 0 {
		cfg.BasicConfig.AllowedOrigins = append([]string(nil), defaultAllowedOrigins...)
	}
	if cfg.BasicConfig.StagingDir == "" {
		cfg.BasicConfig.StagingDir = os.TempDir()
	}
	if cfg.BasicConfig.MaxUploadBytes <= 0 {
		cfg.BasicConfig.MaxUploadBytes = DefaultMaxUpload
	}

	envName, ok := apiKeyEnv[cfg.Provider.Name]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider.Name)
	}
	cfg.Provider.APIKey = os.Getenv(envName)
	if cfg.Provider.APIKey == "" {
		return nil, fmt.Errorf("%s must be set", envName)
	}

	return &cfg, nil
}
