package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kevinmichaelchen/repo-audit/internal/github"
	"github.com/kevinmichaelchen/repo-audit/internal/llm"
	"github.com/kevinmichaelchen/repo-audit/internal/logging"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "REPO_AUDIT"
	fileName  = ".repo-audit"
)

var ErrMissingAPIKey = errors.New("missing LLM API key (set REPO_AUDIT_LLM_API_KEY or LLM_API_KEY)")

type Config struct {
	GitHub GitHubConfig `mapstructure:"github"`
	LLM    LLMConfig    `mapstructure:"llm"`
	Log    LogConfig    `mapstructure:"log"`
	Server ServerConfig `mapstructure:"server"`
}

type GitHubConfig struct {
	APIURL string `mapstructure:"api_url"`
	Host   string `mapstructure:"host"`
}

type LLMConfig struct {
	BaseURL     string  `mapstructure:"base_url"`
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Temperature float32 `mapstructure:"temperature"`
}

type LogConfig struct {
	Level  logging.Level  `mapstructure:"level"`
	Format logging.Format `mapstructure:"format"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

func defaults() map[string]any {
	return map[string]any{
		"github.api_url":  github.DefaultAPIURL,
		"github.host":     github.DefaultHost,
		"llm.base_url":    llm.DefaultBaseURL,
		"llm.api_key":     "",
		"llm.model":       llm.DefaultModel,
		"llm.temperature": llm.DefaultTemperature,
		"log.level":       string(logging.LevelInfo),
		"log.format":      string(logging.FormatConsole),
		"server.addr":     ":8080",
	}
}

// Load resolves configuration from, in increasing precedence: defaults, the
// YAML file, a .env file in the working directory, and the environment.
// An explicit configFile must exist; the default search path may be empty.
func Load(configFile string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults() {
		v.SetDefault(key, value)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(fileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	// The credential is commonly exported without our prefix.
	if err := v.BindEnv("llm.api_key", EnvPrefix+"_LLM_API_KEY", "LLM_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY", "API_KEY"); err != nil {
		return nil, fmt.Errorf("binding api key env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.GitHub.APIURL = strings.TrimSuffix(cfg.GitHub.APIURL, "/")
	cfg.LLM.BaseURL = strings.TrimSuffix(cfg.LLM.BaseURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks everything except the API key, which only the commands
// that call the model require.
func (c *Config) Validate() error {
	var errs []error
	if !isAbsoluteURL(c.GitHub.APIURL) {
		errs = append(errs, fmt.Errorf("github.api_url %q is not an absolute URL", c.GitHub.APIURL))
	}
	if c.GitHub.Host == "" {
		errs = append(errs, errors.New("github.host is empty"))
	}
	if !isAbsoluteURL(c.LLM.BaseURL) {
		errs = append(errs, fmt.Errorf("llm.base_url %q is not an absolute URL", c.LLM.BaseURL))
	}
	if c.LLM.Model == "" {
		errs = append(errs, errors.New("llm.model is empty"))
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errs = append(errs, fmt.Errorf("llm.temperature %.2f outside [0, 2]", c.LLM.Temperature))
	}
	if !logging.ValidLevel(c.Log.Level) {
		errs = append(errs, fmt.Errorf("unsupported log level: %s", c.Log.Level))
	}
	if !logging.ValidFormat(c.Log.Format) {
		errs = append(errs, fmt.Errorf("unsupported log format: %s", c.Log.Format))
	}
	return errors.Join(errs...)
}

func (c *Config) RequireAPIKey() error {
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		return ErrMissingAPIKey
	}
	return nil
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}
