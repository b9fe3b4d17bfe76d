package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAPIBaseURL     = "http://localhost:8000/api"
	DefaultDomainSuffix   = "@ajobthing.com"
	DefaultRequestTimeout = 60 * time.Second
)

var DefaultAgents = []string{"sakinah", "dhamirah", "arfiah", "syahir", "melody"}

type Config struct {
	StateDir       string
	APIBaseURL     string
	DomainSuffix   string
	Agents         []string
	RequestTimeout time.Duration
	LogLevel       string
	LogFile        string
	IdentityPath   string
	DBPath         string
	ReportDir      string
}

// fileConfig mirrors the on-disk YAML layout.
type fileConfig struct {
	APIBaseURL     string   `yaml:"api_base_url"`
	DomainSuffix   string   `yaml:"domain_suffix"`
	Agents         []string `yaml:"agents"`
	RequestTimeout string   `yaml:"request_timeout"`
	LogLevel       string   `yaml:"log_level"`
	LogFile        string   `yaml:"log_file"`
}

// Options carries command-line overrides. Empty fields keep the loaded value.
type Options struct {
	StateDir   string
	ConfigPath string
	APIBaseURL string
	EnvFile    string
}

func New(opts Options) (Config, error) {
	stateDir := opts.StateDir
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve home dir: %w", err)
		}
		stateDir = filepath.Join(home, ".cxassist")
	}

	cfg := Config{
		StateDir:       stateDir,
		APIBaseURL:     DefaultAPIBaseURL,
		DomainSuffix:   DefaultDomainSuffix,
		Agents:         append([]string(nil), DefaultAgents...),
		RequestTimeout: DefaultRequestTimeout,
		LogLevel:       "info",
		LogFile:        filepath.Join(stateDir, "cxassist.log"),
		IdentityPath:   filepath.Join(stateDir, "identity.json"),
		DBPath:         filepath.Join(stateDir, "cxassist.db"),
		ReportDir:      filepath.Join(stateDir, "reports"),
	}

	configPath := opts.ConfigPath
	explicit := configPath != ""
	if !explicit {
		configPath = filepath.Join(stateDir, "config.yaml")
	}
	if err := cfg.applyFile(configPath, explicit); err != nil {
		return Config{}, err
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file %s: %w", envFile, err)
	}
	cfg.applyEnv()

	if opts.APIBaseURL != "" {
		cfg.APIBaseURL = opts.APIBaseURL
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyFile(path string, required bool) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	fc := fileConfig{}
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	if fc.APIBaseURL != "" {
		c.APIBaseURL = fc.APIBaseURL
	}
	if fc.DomainSuffix != "" {
		c.DomainSuffix = fc.DomainSuffix
	}
	if len(fc.Agents) > 0 {
		c.Agents = fc.Agents
	}
	if fc.RequestTimeout != "" {
		d, err := time.ParseDuration(fc.RequestTimeout)
		if err != nil {
			return fmt.Errorf("parse request_timeout: %w", err)
		}
		c.RequestTimeout = d
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	if fc.LogFile != "" {
		c.LogFile = fc.LogFile
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv("CXASSIST_API_URL")); v != "" {
		c.APIBaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("CXASSIST_DOMAIN_SUFFIX")); v != "" {
		c.DomainSuffix = v
	}
	if v := strings.TrimSpace(os.Getenv("CXASSIST_LOG_LEVEL")); v != "" {
		c.LogLevel = v
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIBaseURL) == "" {
		return fmt.Errorf("api base url is required")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}
	if len(c.Agents) == 0 {
		return fmt.Errorf("agent roster is empty")
	}
	if !strings.HasPrefix(c.DomainSuffix, "@") {
		return fmt.Errorf("domain suffix %q must start with @", c.DomainSuffix)
	}
	return nil
}
