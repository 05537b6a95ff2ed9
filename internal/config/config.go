// Package config provides file- and environment-driven configuration with
// hot reload, for the knobs the distilled spec treats as an external
// collaborator: execution mode, crawl defaults, the rewrite protocol's
// budgets, and LLM provider credentials.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// ServerConfig configures the HTTP transport.
type ServerConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// ExecutionConfig selects and sizes the dispatcher (§4.4, §4.3).
type ExecutionConfig struct {
	Mode            string `mapstructure:"mode" yaml:"mode"` // "in_process" or "worker"
	MaxConcurrency  int    `mapstructure:"max_concurrency" yaml:"max_concurrency"`
	WorkerURL       string `mapstructure:"worker_url" yaml:"worker_url,omitempty"`
	WorkerAuthToken string `mapstructure:"worker_auth_token" yaml:"worker_auth_token,omitempty"`
}

// CrawlDefaults are the StartCrawl fallback values applied when a request
// field is zero-valued (§6), overridable per-deployment.
type CrawlDefaults struct {
	MaxPages    int `mapstructure:"max_pages" yaml:"max_pages"`
	MaxDepth    int `mapstructure:"max_depth" yaml:"max_depth"`
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"`
	DelayMs     int `mapstructure:"delay_ms" yaml:"delay_ms"`
}

// RewriteConfig tunes the LLM rewrite protocol (§4.13).
type RewriteConfig struct {
	MaxChunkChars      int    `mapstructure:"max_chunk_chars" yaml:"max_chunk_chars"`
	Retries            int    `mapstructure:"retries" yaml:"retries"`
	Concurrency        int    `mapstructure:"concurrency" yaml:"concurrency"`
	MissingTokenPolicy string `mapstructure:"missing_token_policy" yaml:"missing_token_policy"` // "strict" or "lenient"
	CallTimeoutSeconds int    `mapstructure:"call_timeout_seconds" yaml:"call_timeout_seconds"`
}

// LLMProviderConfig configures one chat backend (§11.4).
type LLMProviderConfig struct {
	Type      string `mapstructure:"type" yaml:"type"` // "openai" or "anthropic"
	Model     string `mapstructure:"model" yaml:"model"`
	APIKey    string `mapstructure:"api_key" yaml:"api_key"`
	BaseURL   string `mapstructure:"base_url,omitempty" yaml:"base_url,omitempty"`
	MaxTokens int    `mapstructure:"max_tokens" yaml:"max_tokens,omitempty"`
}

// CommandEngineConfig names the external programs backing the "command"
// toc/render engine selectors (§4.10, §4.11), argv[0] plus arguments.
type CommandEngineConfig struct {
	TocCommand    []string `mapstructure:"toc_command" yaml:"toc_command,omitempty"`
	RenderCommand []string `mapstructure:"render_command" yaml:"render_command,omitempty"`
}

// Config is the full process configuration, loaded from file + environment.
type Config struct {
	Home     string                       `mapstructure:"home" yaml:"home,omitempty"`
	LogLevel string                       `mapstructure:"log_level" yaml:"log_level"`
	Server   ServerConfig                 `mapstructure:"server" yaml:"server"`
	Exec     ExecutionConfig              `mapstructure:"execution" yaml:"execution"`
	Crawl    CrawlDefaults                `mapstructure:"crawl" yaml:"crawl"`
	Rewrite  RewriteConfig                `mapstructure:"rewrite" yaml:"rewrite"`
	Commands CommandEngineConfig          `mapstructure:"commands" yaml:"commands"`
	LLM      map[string]LLMProviderConfig `mapstructure:"llm" yaml:"llm"`
}

// DefaultConfig returns the configuration applied before any file or
// environment override is read.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Server:   ServerConfig{Addr: ":8080"},
		Exec: ExecutionConfig{
			Mode:           "in_process",
			MaxConcurrency: 4,
		},
		Crawl: CrawlDefaults{
			MaxPages:    200,
			MaxDepth:    8,
			Concurrency: 4,
			DelayMs:     200,
		},
		Rewrite: RewriteConfig{
			MaxChunkChars:      6000,
			Retries:            2,
			Concurrency:        4,
			MissingTokenPolicy: "strict",
			CallTimeoutSeconds: 300,
		},
		LLM: map[string]LLMProviderConfig{
			"openai": {Type: "openai", Model: "gpt-4o-mini", APIKey: "${OPENAI_API_KEY}"},
			"anthropic": {
				Type: "anthropic", Model: "claude-sonnet-4-20250514", APIKey: "${ANTHROPIC_API_KEY}",
			},
		},
	}
}

// Manager handles loading and hot-reloading configuration, mirroring the
// reference system's config manager shape: an RWMutex-guarded snapshot
// plus OnChange callback registration.
type Manager struct {
	mu        sync.RWMutex
	config    *Config
	callbacks []func(*Config)
}

// NewManager creates a new config manager and loads initial config from
// cfgFile (or the default resolution order if empty): --config flag,
// ./config.yaml, ~/.sitebookify/config.yaml.
func NewManager(cfgFile string) (*Manager, error) {
	cm := &Manager{callbacks: make([]func(*Config), 0)}

	if err := cm.initViper(cfgFile); err != nil {
		return nil, err
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg

	return cm, nil
}

func (cm *Manager) initViper(cfgFile string) error {
	defaults := DefaultConfig()
	viper.SetDefault("log_level", defaults.LogLevel)
	viper.SetDefault("server", defaults.Server)
	viper.SetDefault("execution", defaults.Exec)
	viper.SetDefault("crawl", defaults.Crawl)
	viper.SetDefault("rewrite", defaults.Rewrite)
	viper.SetDefault("llm", defaults.LLM)

	viper.SetEnvPrefix("SITEBOOKIFY")
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.sitebookify")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("config: read config file: %w", err)
		}
	}
	return nil
}

func (cm *Manager) load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return &cfg, nil
}

// Get returns the current configuration snapshot (thread-safe).
func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// OnChange registers a callback invoked with the new config after a
// hot-reload. Only knobs documented as mutable (log level, crawl
// defaults, LLM provider settings) are expected to be acted on by
// subscribers; execution mode changes require a process restart.
func (cm *Manager) OnChange(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, fn)
}

// WatchConfig enables fsnotify-backed hot-reloading of the config file.
func (cm *Manager) WatchConfig() {
	viper.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := cm.load()
		if err != nil {
			return
		}

		cm.mu.Lock()
		cm.config = cfg
		callbacks := make([]func(*Config), len(cm.callbacks))
		copy(callbacks, cm.callbacks)
		cm.mu.Unlock()

		for _, fn := range callbacks {
			fn(cfg)
		}
	})
	viper.WatchConfig()
}

// ResolveEnvVars expands ${ENV_VAR} references in a string, used for LLM
// provider API keys so they never need to be written in plaintext.
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	pattern := regexp.MustCompile(`\$\{([^}]+)\}`)
	return pattern.ReplaceAllStringFunc(value, func(match string) string {
		varName := match[2 : len(match)-1]
		return os.Getenv(varName)
	})
}

// WriteDefault writes the default configuration to path.
func WriteDefault(path string) error {
	cfg := DefaultConfig()
	data, err := marshalYAML(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal default: %w", err)
	}

	header := []byte(`# sitebookify configuration
# LLM API keys use ${ENV_VAR} syntax to reference environment variables.
# Set these in your shell, e.g.: export OPENAI_API_KEY=sk-... ANTHROPIC_API_KEY=sk-ant-...

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
