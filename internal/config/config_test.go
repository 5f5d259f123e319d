package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the user config at an empty directory and moves the
// working directory to a fresh temp dir so host config cannot leak in.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "messages", cfg.MessagesDir)
	assert.Equal(t, "CHANGELOG.md", cfg.ChangelogPath)
	assert.Equal(t, 10, cfg.FetchTimeoutSeconds)
	assert.False(t, cfg.Plain)
}

func TestLoad_ProjectYAML(t *testing.T) {
	dir := isolate(t)
	content := "messages_dir: notes\nproject: GitSavvy\nrepo_url: https://github.com/timbrel/GitSavvy\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".relnote.yml"), []byte(content), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "notes", cfg.MessagesDir)
	assert.Equal(t, "GitSavvy", cfg.Project)
	assert.Equal(t, "https://github.com/timbrel/GitSavvy", cfg.RepoURL)
	// Unset keys keep their defaults.
	assert.Equal(t, "CHANGELOG.md", cfg.ChangelogPath)
}

func TestLoad_ProjectJSON(t *testing.T) {
	dir := isolate(t)
	content := `{"messages_dir": "notes", "fetch_timeout": 3}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".relnote.json"), []byte(content), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "notes", cfg.MessagesDir)
	assert.Equal(t, 3, cfg.FetchTimeoutSeconds)
}

func TestLoad_YAMLPreferredOverJSON(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".relnote.yml"), []byte("project: fromyaml\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".relnote.json"), []byte(`{"project": "fromjson"}`), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "fromyaml", cfg.Project)
}

func TestLoad_EnvOverridesProject(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".relnote.yml"), []byte("messages_dir: from_file\n"), 0o644))
	t.Setenv("RELNOTE_MESSAGES_DIR", "from_env")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from_env", cfg.MessagesDir)
}

func TestLoad_UserConfig(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Chdir(t.TempDir())

	userDir := filepath.Join(xdg, "relnote")
	require.NoError(t, os.MkdirAll(userDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(userDir, "config.yml"), []byte("plain: true\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.True(t, cfg.Plain)
}

func TestLoad_ExplicitPathMustExist(t *testing.T) {
	isolate(t)

	_, err := Load("does-not-exist.yml")
	require.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".relnote.yml"), []byte("messages_dir: [oops\n"), 0o644))

	_, err := Load("")
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := map[string]struct {
		mutate  func(*Configuration)
		wantErr bool
	}{
		"defaults are valid":   {mutate: func(c *Configuration) {}},
		"empty messages dir":   {mutate: func(c *Configuration) { c.MessagesDir = "" }, wantErr: true},
		"zero fetch timeout":   {mutate: func(c *Configuration) { c.FetchTimeoutSeconds = 0 }, wantErr: true},
		"negative timeout":     {mutate: func(c *Configuration) { c.FetchTimeoutSeconds = -1 }, wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}
