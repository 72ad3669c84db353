package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/taller-garcia/quote-sync/internal/quote"
)

// Config holds the full application configuration.
type Config struct {
	Catalog  CatalogConfig  `yaml:"catalog" mapstructure:"catalog"`
	Feed     FeedConfig     `yaml:"feed" mapstructure:"feed"`
	Policy   PolicyConfig   `yaml:"policy" mapstructure:"policy"`
	Quote    QuoteConfig    `yaml:"quote" mapstructure:"quote"`
	Resolver ResolverConfig `yaml:"resolver" mapstructure:"resolver"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// CatalogConfig configures the POS catalog database backend.
type CatalogConfig struct {
	Driver      string     `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string     `yaml:"database_url" mapstructure:"database_url"`
	SQLitePath  string     `yaml:"sqlite_path" mapstructure:"sqlite_path"`
	Pool        PoolConfig `yaml:"pool" mapstructure:"pool"`
}

// PoolConfig tunes the postgres connection pool.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// FeedConfig configures the pending line-item intake source.
type FeedConfig struct {
	Source            string  `yaml:"source" mapstructure:"source"`
	FilePath          string  `yaml:"file_path" mapstructure:"file_path"`
	SupabaseURL       string  `yaml:"supabase_url" mapstructure:"supabase_url"`
	SupabaseKey       string  `yaml:"supabase_key" mapstructure:"supabase_key"`
	SupabaseTable     string  `yaml:"supabase_table" mapstructure:"supabase_table"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// PolicyConfig overrides the supplier eligibility rules. Empty slices keep
// the built-in defaults.
type PolicyConfig struct {
	InHouseSupplier string   `yaml:"in_house_supplier" mapstructure:"in_house_supplier"`
	ServiceKeywords []string `yaml:"service_keywords" mapstructure:"service_keywords"`
	AllowedArticles []string `yaml:"allowed_articles" mapstructure:"allowed_articles"`
}

// QuoteConfig holds quotation header defaults and the tax rate.
type QuoteConfig struct {
	Client      string  `yaml:"client" mapstructure:"client"`
	User        string  `yaml:"user" mapstructure:"user"`
	CustomerKey string  `yaml:"customer_key" mapstructure:"customer_key"`
	Type        string  `yaml:"type" mapstructure:"type"`
	TaxRate     float64 `yaml:"tax_rate" mapstructure:"tax_rate"`
}

// Header converts the quote section into assembler header defaults.
func (q QuoteConfig) Header() quote.HeaderDefaults {
	return quote.HeaderDefaults{
		Client:      q.Client,
		User:        q.User,
		CustomerKey: q.CustomerKey,
		Type:        q.Type,
	}
}

// ResolverConfig tunes batch resolution.
type ResolverConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("QUOTESYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Secrets default to empty so environment overrides bind.
	v.SetDefault("catalog.driver", "postgres")
	v.SetDefault("catalog.database_url", "")
	v.SetDefault("catalog.sqlite_path", "catalog.db")
	v.SetDefault("catalog.pool.max_conns", 4)
	v.SetDefault("catalog.pool.min_conns", 1)
	v.SetDefault("feed.source", "file")
	v.SetDefault("feed.file_path", "")
	v.SetDefault("feed.supabase_url", "")
	v.SetDefault("feed.supabase_key", "")
	v.SetDefault("feed.supabase_table", "cotizaciones_pendientes")
	v.SetDefault("feed.requests_per_second", 5)
	v.SetDefault("quote.client", "PUBLICO EN GENERAL")
	v.SetDefault("quote.user", "MIR")
	v.SetDefault("quote.customer_key", "1500-0074")
	v.SetDefault("quote.type", "POS")
	v.SetDefault("quote.tax_rate", quote.DefaultTaxRate)
	v.SetDefault("resolver.concurrency", 1)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
