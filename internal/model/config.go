package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Search API identifiers accepted in jira.search_api.
const (
	SearchAPIV2  = "v2"
	SearchAPIJQL = "jql"
)

// Prompt modes accepted in prompt.mode.
const (
	PromptModeLine   = "line"
	PromptModeSelect = "select"
)

// JiraConfig holds the connection settings and the query for a run.
type JiraConfig struct {
	// Server is the root URL of the Jira instance.
	Server string `mapstructure:"server" yaml:"server"`

	// User is the account name used for basic authentication.
	User string `mapstructure:"user" yaml:"user"`

	// APIToken is the API token paired with User. It is never written
	// to the config file.
	APIToken string `mapstructure:"api_token" yaml:"-"`

	// JQLQuery selects the issues to categorize.
	JQLQuery string `mapstructure:"jql_query" yaml:"jql_query"`

	// MaxResults caps the number of issues fetched per run.
	MaxResults int `mapstructure:"max_results" yaml:"max_results"`

	// SearchAPI picks the search endpoint ("v2" or "jql").
	SearchAPI string `mapstructure:"search_api" yaml:"search_api"`

	// WorkCategoryField is the custom field id written on update.
	WorkCategoryField string `mapstructure:"work_category_field" yaml:"work_category_field"`

	// StoryPointsField is the custom field id holding story points.
	StoryPointsField string `mapstructure:"story_points_field" yaml:"story_points_field"`

	// TimeoutSec is the HTTP client timeout in seconds.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// DisplayConfig holds rendering preferences.
type DisplayConfig struct {
	DoneStatuses      []string `mapstructure:"done_statuses" yaml:"done_statuses"`
	CancelledStatuses []string `mapstructure:"cancelled_statuses" yaml:"cancelled_statuses"`
}

// PromptConfig selects how the category question is asked.
type PromptConfig struct {
	Mode string `mapstructure:"mode" yaml:"mode"`
}

// CredentialsConfig controls where the API token may come from.
type CredentialsConfig struct {
	// UseKeyring allows a missing API token to be read from the
	// system keyring.
	UseKeyring bool `mapstructure:"use_keyring" yaml:"use_keyring"`
}

// LoggingConfig holds diagnostic logging settings.
type LoggingConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Jira        JiraConfig        `mapstructure:"jira" yaml:"jira"`
	Display     DisplayConfig     `mapstructure:"display" yaml:"display"`
	Prompt      PromptConfig      `mapstructure:"prompt" yaml:"prompt"`
	Credentials CredentialsConfig `mapstructure:"credentials" yaml:"credentials"`
	Logging     LoggingConfig     `mapstructure:"logging" yaml:"logging"`
}

// LoadOptions tells LoadConfig where to look for settings.
type LoadOptions struct {
	// ConfigPath is an optional YAML config file. A missing file is
	// not an error.
	ConfigPath string

	// EnvFile is an optional dotenv file. Its values never override
	// variables already present in the process environment.
	EnvFile string
}

// Required settings and the environment variables that supply them.
const (
	EnvServer   = "JIRA_SERVER"
	EnvUser     = "JIRA_USER"
	EnvAPIToken = "JIRA_API_TOKEN"
	EnvJQLQuery = "JIRA_JQL_QUERY"
)

// configKeys lists every setting that may come from the environment or
// a dotenv file. The variable name is the key upper-cased with dots
// replaced by underscores (jira.max_results -> JIRA_MAX_RESULTS).
var configKeys = []string{
	"jira.server",
	"jira.user",
	"jira.api_token",
	"jira.jql_query",
	"jira.max_results",
	"jira.search_api",
	"jira.work_category_field",
	"jira.story_points_field",
	"jira.timeout_sec",
	"display.done_statuses",
	"display.cancelled_statuses",
	"prompt.mode",
	"credentials.use_keyring",
	"logging.level",
}

// envName returns the environment variable bound to a config key.
func envName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/jira-categorize/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "jira-categorize", "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Jira: JiraConfig{
			MaxResults:        100,
			SearchAPI:         SearchAPIV2,
			WorkCategoryField: "customfield_12088",
			StoryPointsField:  "customfield_10008",
			TimeoutSec:        30,
		},
		Display: DisplayConfig{
			DoneStatuses:      []string{"Done", "QA Verified"},
			CancelledStatuses: []string{"Cancelled"},
		},
		Prompt: PromptConfig{
			Mode: PromptModeLine,
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// LoadConfig resolves configuration from, lowest priority first:
// built-in defaults, the YAML config file, the dotenv file and the
// process environment.
func LoadConfig(opts LoadOptions) (*AppConfig, error) {
	v := viper.New()

	// Set defaults so missing keys resolve to sensible values.
	def := defaultAppConfig()
	v.SetDefault("jira.max_results", def.Jira.MaxResults)
	v.SetDefault("jira.search_api", def.Jira.SearchAPI)
	v.SetDefault("jira.work_category_field", def.Jira.WorkCategoryField)
	v.SetDefault("jira.story_points_field", def.Jira.StoryPointsField)
	v.SetDefault("jira.timeout_sec", def.Jira.TimeoutSec)
	v.SetDefault("display.done_statuses", def.Display.DoneStatuses)
	v.SetDefault("display.cancelled_statuses", def.Display.CancelledStatuses)
	v.SetDefault("prompt.mode", def.Prompt.Mode)
	v.SetDefault("credentials.use_keyring", false)
	v.SetDefault("logging.level", def.Logging.Level)

	if opts.ConfigPath != "" {
		v.SetConfigFile(opts.ConfigPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if !isNotExist(err) {
				return nil, fmt.Errorf("reading config %s: %w", opts.ConfigPath, err)
			}
		}
	}

	if err := mergeEnvFile(v, opts.EnvFile); err != nil {
		return nil, err
	}

	for _, key := range configKeys {
		if err := v.BindEnv(key, envName(key)); err != nil {
			return nil, fmt.Errorf("binding %s: %w", envName(key), err)
		}
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Jira.Server = strings.TrimRight(strings.TrimSpace(cfg.Jira.Server), "/")
	cfg.Prompt.Mode = strings.ToLower(cfg.Prompt.Mode)
	cfg.Jira.SearchAPI = strings.ToLower(cfg.Jira.SearchAPI)

	return cfg, nil
}

// mergeEnvFile reads a dotenv file and merges the recognised variables
// into v's config layer, above the YAML file and below the environment.
func mergeEnvFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}

	ev := viper.New()
	ev.SetConfigFile(path)
	ev.SetConfigType("env")
	if err := ev.ReadInConfig(); err != nil {
		if isNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading env file %s: %w", path, err)
	}

	byEnv := make(map[string]string, len(configKeys))
	for _, key := range configKeys {
		byEnv[envName(key)] = key
	}

	merged := make(map[string]interface{})
	for name, val := range ev.AllSettings() {
		key, ok := byEnv[strings.ToUpper(name)]
		if !ok {
			continue
		}
		section, field, _ := strings.Cut(key, ".")
		sub, ok := merged[section].(map[string]interface{})
		if !ok {
			sub = make(map[string]interface{})
			merged[section] = sub
		}
		sub[field] = val
	}

	if len(merged) == 0 {
		return nil
	}
	if err := v.MergeConfigMap(merged); err != nil {
		return fmt.Errorf("merging env file %s: %w", path, err)
	}
	return nil
}

func isNotExist(err error) bool {
	if errors.Is(err, os.ErrNotExist) {
		return true
	}
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound)
}

// MissingConfigError reports required settings that have no value.
// Missing holds environment variable names.
type MissingConfigError struct {
	Missing []string
}

func (e *MissingConfigError) Error() string {
	var creds []string
	queryMissing := false
	for _, name := range e.Missing {
		if name == EnvJQLQuery {
			queryMissing = true
			continue
		}
		creds = append(creds, name)
	}

	var parts []string
	if len(creds) > 0 {
		parts = append(parts, fmt.Sprintf(
			"missing Jira credentials: %s (set them in the environment or a .env file)",
			strings.Join(creds, ", "),
		))
	}
	if queryMissing {
		parts = append(parts, EnvJQLQuery+" is not set")
	}
	return strings.Join(parts, "; ")
}

// Validate checks that every required setting is present and that the
// enumerated settings hold known values. It never touches the network.
func (c *AppConfig) Validate() error {
	var missing []string
	if c.Jira.Server == "" {
		missing = append(missing, EnvServer)
	}
	if c.Jira.User == "" {
		missing = append(missing, EnvUser)
	}
	if c.Jira.APIToken == "" {
		missing = append(missing, EnvAPIToken)
	}
	if strings.TrimSpace(c.Jira.JQLQuery) == "" {
		missing = append(missing, EnvJQLQuery)
	}
	if len(missing) > 0 {
		return &MissingConfigError{Missing: missing}
	}

	if c.Jira.MaxResults < 1 {
		return fmt.Errorf("jira.max_results must be positive, got %d", c.Jira.MaxResults)
	}
	switch c.Jira.SearchAPI {
	case SearchAPIV2, SearchAPIJQL:
	default:
		return fmt.Errorf("jira.search_api must be %q or %q, got %q",
			SearchAPIV2, SearchAPIJQL, c.Jira.SearchAPI)
	}
	switch c.Prompt.Mode {
	case PromptModeLine, PromptModeSelect:
	default:
		return fmt.Errorf("prompt.mode must be %q or %q, got %q",
			PromptModeLine, PromptModeSelect, c.Prompt.Mode)
	}
	if c.Jira.WorkCategoryField == "" {
		return errors.New("jira.work_category_field must not be empty")
	}

	return nil
}
