// Package config loads service configuration from a YAML file, .env, and
// environment variables via viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the root configuration for the service.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Crawler   CrawlerConfig   `mapstructure:"crawler"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	Search    SearchConfig    `mapstructure:"search"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port"`
	Mode string     `mapstructure:"mode"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	AllowAllOrigins bool     `mapstructure:"allow_all_origins"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // sqlite or postgres
	Path            string        `mapstructure:"path"`   // sqlite file path
	DSN             string        `mapstructure:"dsn"`    // postgres DSN
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// CrawlerConfig controls discovery and indexing of legal sources. The delay
// values are deliberate politeness throttles against government sites;
// tune them in config rather than in code.
type CrawlerConfig struct {
	Enabled         bool     `mapstructure:"enabled"`
	Seeds           []string `mapstructure:"seeds"`
	MaxPagesPerRun  int      `mapstructure:"max_pages_per_run"`
	IntervalMinutes int      `mapstructure:"interval_minutes"`
	UserAgent       string   `mapstructure:"user_agent"`
	InsecureHosts   []string `mapstructure:"insecure_hosts"`

	FetchTimeout    time.Duration `mapstructure:"fetch_timeout"`
	DiscoveryDelay  time.Duration `mapstructure:"discovery_delay"`
	PageDelay       time.Duration `mapstructure:"page_delay"`
	EmbedBatchDelay time.Duration `mapstructure:"embed_batch_delay"`

	// MinIndexChars is the minimum extracted-text length worth chunking.
	MinIndexChars int `mapstructure:"min_index_chars"`

	// MaxChunkChars and ChunkOverlap set the indexing window.
	MaxChunkChars int `mapstructure:"max_chunk_chars"`
	ChunkOverlap  int `mapstructure:"chunk_overlap"`
}

type EmbeddingConfig struct {
	// APIKey presence selects whether vector retrieval/indexing is attempted.
	APIKey     string `mapstructure:"api_key"`
	BaseURL    string `mapstructure:"base_url"`
	Model      string `mapstructure:"model"`
	Dimensions int    `mapstructure:"dimensions"`
	BatchSize  int    `mapstructure:"batch_size"`
}

type SearchConfig struct {
	TopK      int `mapstructure:"top_k"`
	ScanLimit int `mapstructure:"scan_limit"`

	// VectorThreshold is the empirically chosen cosine acceptance floor.
	VectorThreshold float64 `mapstructure:"vector_threshold"`

	// SerperAPIKey enables the paid-search fallback tier.
	SerperAPIKey string `mapstructure:"serper_api_key"`
	// GoogleAPIKey and GoogleEngineID enable the Custom Search fallback tier.
	GoogleAPIKey   string `mapstructure:"google_api_key"`
	GoogleEngineID string `mapstructure:"google_engine_id"`
}

// Load reads configuration from the given path (or ./configs/config.yaml,
// ./config.yaml) with environment-variable overrides.
// Parameters:
//   - configPath: explicit config file path; empty uses the search path.
//
// Returns:
//   - *Config: populated configuration.
//   - error: non-nil if reading or unmarshaling fails.
func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Bind environment variables explicitly for secrets
	v.BindEnv("embedding.api_key", "OPENAI_API_KEY")
	v.BindEnv("embedding.base_url", "OPENAI_BASE_URL")
	v.BindEnv("search.serper_api_key", "SERPER_API_KEY")
	v.BindEnv("search.google_api_key", "GOOGLE_API_KEY")
	v.BindEnv("search.google_engine_id", "GOOGLE_ENGINE_ID")
	v.BindEnv("database.dsn", "DATABASE_DSN")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.cors.allow_all_origins", true)
	v.SetDefault("server.cors.allowed_origins", []string{})

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/mizan.db")
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.file", "")

	v.SetDefault("crawler.enabled", false)
	v.SetDefault("crawler.seeds", []string{
		"https://laws.boe.gov.sa/Sitemap.xml",
	})
	v.SetDefault("crawler.max_pages_per_run", 40)
	v.SetDefault("crawler.interval_minutes", 720)
	v.SetDefault("crawler.user_agent",
		"MizanLegalBot/1.0 (+https://mizan.app; legal research indexing)")
	v.SetDefault("crawler.insecure_hosts", []string{})
	v.SetDefault("crawler.fetch_timeout", 12*time.Second)
	v.SetDefault("crawler.discovery_delay", 500*time.Millisecond)
	v.SetDefault("crawler.page_delay", 800*time.Millisecond)
	v.SetDefault("crawler.embed_batch_delay", 300*time.Millisecond)
	v.SetDefault("crawler.min_index_chars", 100)
	v.SetDefault("crawler.max_chunk_chars", 1200)
	v.SetDefault("crawler.chunk_overlap", 150)

	v.SetDefault("embedding.base_url", "https://api.openai.com/v1")
	v.SetDefault("embedding.model", "text-embedding-3-small")
	v.SetDefault("embedding.dimensions", 1536)
	v.SetDefault("embedding.batch_size", 32)

	v.SetDefault("search.top_k", 6)
	v.SetDefault("search.scan_limit", 400)
	v.SetDefault("search.vector_threshold", 0.2)
}
