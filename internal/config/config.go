package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv         = "FAKENEWS_CONFIG"
	classifierEndpointEnv = "CLASSIFIER_ENDPOINT"
	classifierAPIKeyEnv   = "CLASSIFIER_API_KEY"
	storageDSNEnv         = "STORAGE_DSN"
	redisAddrEnv          = "REDIS_ADDR"
	logLevelEnv           = "LOG_LEVEL"
	httpAddrEnv           = "HTTP_ADDR"
)

// Storage drivers understood by the result store factory.
const (
	StorageMemory = "memory"
	StorageFile   = "file"
	StorageSQL    = "sql"
	StorageRedis  = "redis"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging      LoggingConfig      `yaml:"logging"`
	Server       ServerConfig       `yaml:"server"`
	Classifier   ClassifierConfig   `yaml:"classifier"`
	Orchestrator OrchestratorConfig `yaml:"orchestrator"`
	Extractor    ExtractorConfig    `yaml:"extractor"`
	Presenter    PresenterConfig    `yaml:"presenter"`
	Storage      StorageConfig      `yaml:"storage"`
}

// LoggingConfig selects slog level and output format (text or json).
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ServerConfig describes the HTTP bridge.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// ClassifierConfig describes the remote scoring service.
type ClassifierConfig struct {
	Endpoint  string `yaml:"endpoint"`
	HealthURL string `yaml:"healthUrl"`
	APIKey    string `yaml:"apiKey"`
	// Timeout of zero leaves classifier calls unbounded.
	Timeout time.Duration `yaml:"timeout"`
}

// OrchestratorConfig tunes the analysis state machine.
type OrchestratorConfig struct {
	FlagThreshold  float64 `yaml:"flagThreshold"`
	SequenceFence  bool    `yaml:"sequenceFence"`
	OutcomeHistory int     `yaml:"outcomeHistory"`
}

// ExtractorConfig tunes article detection and content extraction.
type ExtractorConfig struct {
	ArticleThreshold   int      `yaml:"articleThreshold"`
	TitleLength        int      `yaml:"titleLength"`
	MinParagraphLength int      `yaml:"minParagraphLength"`
	NewsPatterns       []string `yaml:"newsPatterns"`
	Selectors          []string `yaml:"selectors"`
	Denylist           []string `yaml:"denylist"`
}

// PresenterConfig controls the on-demand poll.
type PresenterConfig struct {
	PollDelay time.Duration `yaml:"pollDelay"`
}

// StorageConfig picks where lastResult is persisted.
type StorageConfig struct {
	Driver string `yaml:"driver"`
	Key    string `yaml:"key"`
	// Path is used by the file driver.
	Path string `yaml:"path"`
	// SQLDriver is "postgres" or "sqlite"; DSN is passed to it as is.
	SQLDriver string `yaml:"sqlDriver"`
	DSN       string `yaml:"dsn"`
	RedisAddr string `yaml:"redisAddr"`
	RedisDB   int    `yaml:"redisDb"`
}

// Load reads YAML configuration from FAKENEWS_CONFIG (if set) and applies environment overrides.
func Load() Config {
	return LoadFile(os.Getenv(configPathEnv))
}

// LoadFile is Load with an explicit path; an empty path means defaults only.
func LoadFile(path string) Config {
	cfg := defaultConfig()

	if path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			fileCfg := defaultConfig()
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = fileCfg
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.fillGaps()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(classifierEndpointEnv); v != "" {
		c.Classifier.Endpoint = v
	}

	if v := os.Getenv(classifierAPIKeyEnv); v != "" {
		c.Classifier.APIKey = v
	}

	if v := os.Getenv(storageDSNEnv); v != "" {
		c.Storage.DSN = v
	}

	if v := os.Getenv(redisAddrEnv); v != "" {
		c.Storage.RedisAddr = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(httpAddrEnv); v != "" {
		c.Server.Addr = v
	}
}

// fillGaps restores defaults a file explicitly blanked out.
func (c *Config) fillGaps() {
	def := defaultConfig()
	if c.Server.Addr == "" {
		c.Server.Addr = def.Server.Addr
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = def.Server.AllowedOrigins
	}
	if c.Classifier.Endpoint == "" {
		c.Classifier.Endpoint = def.Classifier.Endpoint
	}
	if c.Orchestrator.FlagThreshold <= 0 {
		c.Orchestrator.FlagThreshold = def.Orchestrator.FlagThreshold
	}
	if c.Presenter.PollDelay <= 0 {
		c.Presenter.PollDelay = def.Presenter.PollDelay
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = def.Storage.Driver
	}
	if c.Storage.Key == "" {
		c.Storage.Key = def.Storage.Key
	}
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Server: ServerConfig{
			Addr:           ":8787",
			AllowedOrigins: []string{"chrome-extension://*", "moz-extension://*"},
		},
		Classifier: ClassifierConfig{
			Endpoint: "http://localhost:5000/api/check",
		},
		Orchestrator: OrchestratorConfig{
			FlagThreshold:  0.7,
			OutcomeHistory: 128,
		},
		Extractor: ExtractorConfig{
			ArticleThreshold:   2,
			TitleLength:        30,
			MinParagraphLength: 50,
		},
		Presenter: PresenterConfig{PollDelay: 500 * time.Millisecond},
		Storage: StorageConfig{
			Driver:    StorageFile,
			Key:       "lastResult",
			Path:      "fakenews-state.json",
			SQLDriver: "sqlite",
			DSN:       "fakenews.db",
			RedisAddr: "localhost:6379",
		},
	}
}
