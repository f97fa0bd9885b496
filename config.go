package mdblog

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// EnvPrefix is prepended to every environment variable read by LoadConfig,
// e.g. MDBLOG_CONTENT_DIR for content.dir.
const EnvPrefix = "MDBLOG"

// SiteConfig holds all configuration for an mdblog site.
type SiteConfig struct {
	Site      SiteInfo        `mapstructure:"site"`
	Server    ServerConfig    `mapstructure:"server"`
	Content   ContentConfig   `mapstructure:"content"`
	Templates TemplatesConfig `mapstructure:"templates"`
	Static    StaticConfig    `mapstructure:"static"`
	Index     IndexConfig     `mapstructure:"index"`
	Markdown  MarkdownConfig  `mapstructure:"markdown"`
	Log       LogConfig       `mapstructure:"log"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Security  SecurityConfig  `mapstructure:"security"`
}

// SiteInfo is passed to every template as "site".
type SiteInfo struct {
	Name        string `mapstructure:"name" validate:"required"`
	URL         string `mapstructure:"url" validate:"required,url"` // canonical URL, used by feeds
	Description string `mapstructure:"description"`
	Author      string `mapstructure:"author"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr" validate:"required"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gte=0"`
}

// ContentConfig locates the storage directory holding the posts.
type ContentConfig struct {
	Dir       string `mapstructure:"dir" validate:"required"`
	Extension string `mapstructure:"extension" validate:"required,startswith=."`
}

// TemplatesConfig overrides the embedded templates when Dir is set.
type TemplatesConfig struct {
	Dir string `mapstructure:"dir"`
}

// StaticConfig serves Dir under /public when set.
type StaticConfig struct {
	Dir string `mapstructure:"dir"`
}

type IndexConfig struct {
	Sort string `mapstructure:"sort" validate:"oneof=modified name none"`
}

type MarkdownConfig struct {
	Engine string `mapstructure:"engine" validate:"oneof=builtin goldmark"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// SecurityConfig limits requests per client IP. A zero RateLimit disables
// the limiter.
type SecurityConfig struct {
	RateLimit float64 `mapstructure:"rate_limit" validate:"gte=0"`
	RateBurst int     `mapstructure:"rate_burst" validate:"gte=0"`
}

const (
	defaultName            = "Blog"
	defaultURL             = "http://localhost:3000"
	defaultAddr            = ":3000"
	defaultReadTimeout     = 15 * time.Second
	defaultWriteTimeout    = 15 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultContentDir      = "blogs"
	defaultExtension       = ".md"
	defaultSort            = string(SortModified)
	defaultEngine          = "builtin"
	defaultLogLevel        = "info"
	defaultLogFormat       = "json"
	defaultRateLimit       = 20
	defaultRateBurst       = 40
)

// DefaultConfig returns a SiteConfig with every default applied.
func DefaultConfig() SiteConfig {
	cfg := SiteConfig{
		Metrics:  MetricsConfig{Enabled: true},
		Security: SecurityConfig{RateLimit: defaultRateLimit, RateBurst: defaultRateBurst},
	}
	cfg.setDefaults()
	return cfg
}

func (c *SiteConfig) setDefaults() {
	if c.Site.Name == "" {
		c.Site.Name = defaultName
	}
	if c.Site.URL == "" {
		c.Site.URL = defaultURL
	}
	c.Site.URL = strings.TrimRight(c.Site.URL, "/")
	if c.Server.Addr == "" {
		c.Server.Addr = defaultAddr
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = defaultReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = defaultWriteTimeout
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = defaultShutdownTimeout
	}
	if c.Content.Dir == "" {
		c.Content.Dir = defaultContentDir
	}
	if c.Content.Extension == "" {
		c.Content.Extension = defaultExtension
	}
	if !strings.HasPrefix(c.Content.Extension, ".") {
		c.Content.Extension = "." + c.Content.Extension
	}
	if c.Index.Sort == "" {
		c.Index.Sort = defaultSort
	}
	if c.Markdown.Engine == "" {
		c.Markdown.Engine = defaultEngine
	}
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = defaultLogFormat
	}
}

// Validate checks the struct tags of every section.
func (c SiteConfig) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// LoadConfig reads configuration from defaults, an optional config file,
// a .env file in the working directory and MDBLOG_* environment variables,
// in increasing order of precedence.
func LoadConfig(path string) (SiteConfig, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setViperDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return SiteConfig{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg SiteConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return SiteConfig{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return SiteConfig{}, err
	}
	return cfg, nil
}

// Every key needs a default so AutomaticEnv can see it during Unmarshal.
func setViperDefaults(v *viper.Viper) {
	v.SetDefault("site.name", defaultName)
	v.SetDefault("site.url", defaultURL)
	v.SetDefault("site.description", "")
	v.SetDefault("site.author", "")

	v.SetDefault("server.addr", defaultAddr)
	v.SetDefault("server.read_timeout", defaultReadTimeout)
	v.SetDefault("server.write_timeout", defaultWriteTimeout)
	v.SetDefault("server.shutdown_timeout", defaultShutdownTimeout)

	v.SetDefault("content.dir", defaultContentDir)
	v.SetDefault("content.extension", defaultExtension)
	v.SetDefault("templates.dir", "")
	v.SetDefault("static.dir", "")

	v.SetDefault("index.sort", defaultSort)
	v.SetDefault("markdown.engine", defaultEngine)

	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("log.format", defaultLogFormat)

	v.SetDefault("metrics.enabled", true)

	v.SetDefault("security.rate_limit", defaultRateLimit)
	v.SetDefault("security.rate_burst", defaultRateBurst)
}

// Option configures additional App behavior.
type Option func(*App)

// WithLogger replaces the logger built from the log config.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(a *App) {
		a.log = log
	}
}

// WithContentFS reads posts from fsys instead of content.dir.
func WithContentFS(fsys fs.FS) Option {
	return func(a *App) {
		a.contentFS = fsys
	}
}

// WithTemplatesFS loads page templates from fsys instead of the embedded
// defaults or templates.dir.
func WithTemplatesFS(fsys fs.FS) Option {
	return func(a *App) {
		a.templatesFS = fsys
	}
}

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback runs after the built-in routes are set up.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}
