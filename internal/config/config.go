package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Environments. Local diverts analytics to the log and targets the local
// analysis API, everything else is production.
const (
	EnvLocal      = "local"
	EnvProduction = "production"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Environment string `yaml:"environment"`

	Analyzer struct {
		LocalURL       string `yaml:"localURL"`
		ProductionURL  string `yaml:"productionURL"`
		TimeoutSeconds int    `yaml:"timeoutSeconds"`
	} `yaml:"analyzer"`

	Analytics struct {
		MeasurementID string `yaml:"measurementId"`
		APISecret     string `yaml:"apiSecret"`
	} `yaml:"analytics"`

	Sessions struct {
		Driver     string `yaml:"driver"` // memory | mysql | postgres
		DSN        string `yaml:"dsn"`
		TTLMinutes int    `yaml:"ttlMinutes"`
	} `yaml:"sessions"`

	Upload struct {
		StageDelaySeconds int `yaml:"stageDelaySeconds"`
		GraceDelayMS      int `yaml:"graceDelayMS"`
	} `yaml:"upload"`

	Metrics struct {
		APIKeys map[string]string `yaml:"apiKeys"`
	} `yaml:"metrics"`
}

// Default returns the configuration used when a field is absent from the
// yaml file. The defaults reproduce the hosted product.
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Port = 3000
	cfg.Environment = EnvProduction
	cfg.Analyzer.LocalURL = "http://localhost:8000"
	cfg.Analyzer.ProductionURL = "https://api.leaseboost.fr"
	cfg.Analyzer.TimeoutSeconds = 180
	cfg.Sessions.Driver = "memory"
	cfg.Sessions.TTLMinutes = 120
	cfg.Upload.StageDelaySeconds = 5
	cfg.Upload.GraceDelayMS = 800
	return cfg
}

// Load reads the config.yaml file over the defaults. APP_ENV, when set,
// overrides the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if env := os.Getenv("APP_ENV"); env != "" {
		cfg.Environment = env
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Sessions.Driver {
	case "memory":
	case "mysql", "postgres":
		if c.Sessions.DSN == "" {
			return fmt.Errorf("sessions: driver %q requires a dsn", c.Sessions.Driver)
		}
	default:
		return fmt.Errorf("sessions: unknown driver %q", c.Sessions.Driver)
	}
	if c.Analyzer.TimeoutSeconds <= 0 {
		return fmt.Errorf("analyzer: timeoutSeconds must be positive")
	}
	if c.Upload.StageDelaySeconds < 0 || c.Upload.GraceDelayMS < 0 {
		return fmt.Errorf("upload: delays cannot be negative")
	}
	return nil
}

// IsLocal reports whether this instance runs as a local-development host.
func (c *Config) IsLocal() bool { return c.Environment == EnvLocal }

// AnalyzerBaseURL resolves the analysis API endpoint for this environment.
// Resolved once at startup; no further environment-based switching.
func (c *Config) AnalyzerBaseURL() string {
	if c.IsLocal() {
		return c.Analyzer.LocalURL
	}
	return c.Analyzer.ProductionURL
}

func (c *Config) AnalyzerTimeout() time.Duration {
	return time.Duration(c.Analyzer.TimeoutSeconds) * time.Second
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Sessions.TTLMinutes) * time.Minute
}

func (c *Config) StageDelay() time.Duration {
	return time.Duration(c.Upload.StageDelaySeconds) * time.Second
}
