package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

const (
	// DefaultBaseDir is the configuration directory under the home directory.
	DefaultBaseDir = ".geminipocket"
	// DefaultConfigFile is the configuration filename.
	DefaultConfigFile = "config.yaml"

	// EnvAPIURL overrides the relay address from the config file.
	EnvAPIURL = "GEMINI_API_URL"
)

// ErrUnknownKey is returned by Set and Get for keys outside Keys().
var ErrUnknownKey = errors.New("unknown config key")

// Config is the persisted client configuration. It is loaded once per
// process and handed to the commands that need it.
type Config struct {
	// APIURL is the relay base URL.
	APIURL string `yaml:"api_url,omitempty"`

	// OutputDir is where generated files land by default.
	OutputDir string `yaml:"output_dir,omitempty"`

	// APIKey is the relay API key issued at register/login.
	APIKey string `yaml:"api_key,omitempty"`

	// Email is the account the API key belongs to.
	Email string `yaml:"email,omitempty"`

	// ProviderAPIKey authenticates artifact downloads from the provider.
	ProviderAPIKey string `yaml:"provider_api_key,omitempty"`

	PollIntervalSeconds int `yaml:"poll_interval_seconds,omitempty"`
	PollTimeoutSeconds  int `yaml:"poll_timeout_seconds,omitempty"`
	PollMaxAttempts     int `yaml:"poll_max_attempts,omitempty"`

	configPath string
}

// Keys lists the settable configuration keys in display order.
func Keys() []string {
	return []string{
		"api_url",
		"output_dir",
		"api_key",
		"email",
		"provider_api_key",
		"poll_interval_seconds",
		"poll_timeout_seconds",
		"poll_max_attempts",
	}
}

// DefaultPath returns ~/.geminipocket/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, DefaultBaseDir, DefaultConfigFile), nil
}

// LoadConfig reads the config at path, or the default location when path is
// empty. A missing file yields an empty config bound to that path.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, err
		}
	}

	cfg := &Config{configPath: path}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.configPath = path
	return cfg, nil
}

// Save writes the configuration with owner-only permissions.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.New("config path not set")
	}
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(c.configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Path returns the config file path.
func (c *Config) Path() string {
	return c.configPath
}

// Set assigns a key from its string form.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "api_url":
		c.APIURL = strings.TrimRight(value, "/")
	case "output_dir":
		c.OutputDir = value
	case "api_key":
		c.APIKey = value
	case "email":
		c.Email = value
	case "provider_api_key":
		c.ProviderAPIKey = value
	case "poll_interval_seconds", "poll_timeout_seconds", "poll_max_attempts":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%s must be a non-negative integer", key)
		}
		switch key {
		case "poll_interval_seconds":
			c.PollIntervalSeconds = n
		case "poll_timeout_seconds":
			c.PollTimeoutSeconds = n
		default:
			c.PollMaxAttempts = n
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return nil
}

// Get returns the string form of key and whether it is set.
func (c *Config) Get(key string) (string, bool, error) {
	var v string
	switch key {
	case "api_url":
		v = c.APIURL
	case "output_dir":
		v = c.OutputDir
	case "api_key":
		v = c.APIKey
	case "email":
		v = c.Email
	case "provider_api_key":
		v = c.ProviderAPIKey
	case "poll_interval_seconds":
		v = intString(c.PollIntervalSeconds)
	case "poll_timeout_seconds":
		v = intString(c.PollTimeoutSeconds)
	case "poll_max_attempts":
		v = intString(c.PollMaxAttempts)
	default:
		return "", false, fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return v, v != "", nil
}

// IsSecret reports whether a key should be masked when displayed.
func IsSecret(key string) bool {
	return key == "api_key" || key == "provider_api_key"
}

// ClearCredentials forgets the stored relay account.
func (c *Config) ClearCredentials() {
	c.APIKey = ""
	c.Email = ""
}

// ResolveAPIURL picks the relay URL: flag, then GEMINI_API_URL, then the
// config file, then fallback.
func (c *Config) ResolveAPIURL(flag, fallback string) string {
	if v := strings.TrimSpace(flag); v != "" {
		return v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		return v
	}
	if c.APIURL != "" {
		return c.APIURL
	}
	return fallback
}

// PollInterval returns the configured poll interval, zero when unset.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// PollTimeout returns the configured poll budget, zero for unlimited.
func (c *Config) PollTimeout() time.Duration {
	return time.Duration(c.PollTimeoutSeconds) * time.Second
}

// ArtifactKind selects the fallback user directory for saved files.
type ArtifactKind int

const (
	ArtifactImage ArtifactKind = iota
	ArtifactVideo
)

// ResolveOutputDir decides where an artifact is written. save forces the current
// directory; otherwise the flag, the configured directory, the user's
// Pictures or Videos folder and finally the current directory are tried.
func (c *Config) ResolveOutputDir(kind ArtifactKind, save bool, flag string) string {
	if save {
		return "."
	}
	if v := strings.TrimSpace(flag); v != "" {
		return expandHome(v)
	}
	if c.OutputDir != "" {
		return expandHome(c.OutputDir)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	candidates := []string{"Pictures"}
	if kind == ArtifactVideo {
		candidates = []string{"Videos", "Movies", "Pictures"}
	}
	for _, name := range candidates {
		dir := filepath.Join(home, name)
		if fi, err := os.Stat(dir); err == nil && fi.IsDir() {
			return dir
		}
	}
	return "."
}

// MaskAPIKey masks the middle of an API key for display.
func MaskAPIKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

func intString(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}
