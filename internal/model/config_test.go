package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every bound variable so the developer's shell does not
// leak into the test. Empty values count as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(envName(key), "")
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg, err := LoadConfig(LoadOptions{
		ConfigPath: filepath.Join(dir, "missing.yaml"),
		EnvFile:    filepath.Join(dir, ".env"),
	})
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.Jira.MaxResults)
	assert.Equal(t, SearchAPIV2, cfg.Jira.SearchAPI)
	assert.Equal(t, "customfield_12088", cfg.Jira.WorkCategoryField)
	assert.Equal(t, "customfield_10008", cfg.Jira.StoryPointsField)
	assert.Equal(t, []string{"Done", "QA Verified"}, cfg.Display.DoneStatuses)
	assert.Equal(t, []string{"Cancelled"}, cfg.Display.CancelledStatuses)
	assert.Equal(t, PromptModeLine, cfg.Prompt.Mode)
	assert.False(t, cfg.Credentials.UseKeyring)
}

func TestLoadConfig_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvServer, "https://jira.example.com/")
	t.Setenv(EnvUser, "me@example.com")
	t.Setenv(EnvAPIToken, "secret")
	t.Setenv(EnvJQLQuery, "project = ABC")
	t.Setenv("JIRA_MAX_RESULTS", "25")

	cfg, err := LoadConfig(LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, "https://jira.example.com", cfg.Jira.Server)
	assert.Equal(t, "me@example.com", cfg.Jira.User)
	assert.Equal(t, "secret", cfg.Jira.APIToken)
	assert.Equal(t, "project = ABC", cfg.Jira.JQLQuery)
	assert.Equal(t, 25, cfg.Jira.MaxResults)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_Precedence(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	configPath := writeFile(t, dir, "config.yaml", `
jira:
  server: https://yaml.example.com
  user: yaml-user
  jql_query: project = YAML
  search_api: jql
display:
  done_statuses: [Closed]
`)
	envPath := writeFile(t, dir, ".env", `
JIRA_USER=dotenv-user
JIRA_API_TOKEN=dotenv-token
JIRA_JQL_QUERY="project = DOTENV"
UNRELATED=ignored
`)
	t.Setenv(EnvJQLQuery, "project = ENV")

	cfg, err := LoadConfig(LoadOptions{ConfigPath: configPath, EnvFile: envPath})
	require.NoError(t, err)

	assert.Equal(t, "https://yaml.example.com", cfg.Jira.Server)
	assert.Equal(t, "dotenv-user", cfg.Jira.User)
	assert.Equal(t, "dotenv-token", cfg.Jira.APIToken)
	assert.Equal(t, "project = ENV", cfg.Jira.JQLQuery)
	assert.Equal(t, SearchAPIJQL, cfg.Jira.SearchAPI)
	assert.Equal(t, []string{"Closed"}, cfg.Display.DoneStatuses)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	configPath := writeFile(t, dir, "config.yaml", "jira: [unterminated")

	_, err := LoadConfig(LoadOptions{ConfigPath: configPath})
	assert.Error(t, err)
}

func validConfig() *AppConfig {
	cfg := defaultAppConfig()
	cfg.Jira.Server = "https://jira.example.com"
	cfg.Jira.User = "me"
	cfg.Jira.APIToken = "token"
	cfg.Jira.JQLQuery = "project = ABC"
	return cfg
}

func TestValidate_MissingCredentials(t *testing.T) {
	cfg := validConfig()
	cfg.Jira.Server = ""
	cfg.Jira.APIToken = ""

	err := cfg.Validate()
	require.Error(t, err)

	var missing *MissingConfigError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{EnvServer, EnvAPIToken}, missing.Missing)
	assert.Contains(t, err.Error(), "missing Jira credentials: JIRA_SERVER, JIRA_API_TOKEN")
	assert.NotContains(t, err.Error(), EnvJQLQuery)
}

func TestValidate_MissingQuery(t *testing.T) {
	cfg := validConfig()
	cfg.Jira.JQLQuery = "   "

	err := cfg.Validate()
	var missing *MissingConfigError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{EnvJQLQuery}, missing.Missing)
	assert.Equal(t, "JIRA_JQL_QUERY is not set", err.Error())
}

func TestValidate_Enumerations(t *testing.T) {
	cfg := validConfig()
	cfg.Jira.SearchAPI = "v9"
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Prompt.Mode = "fancy"
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Jira.MaxResults = 0
	assert.Error(t, cfg.Validate())

	assert.NoError(t, validConfig().Validate())
}
