package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, path, cfg.Path())
	require.Empty(t, cfg.APIKey)

	_, statErr := os.Stat(path)
	require.True(t, os.IsNotExist(statErr), "loading must not create the file")
}

func TestConfigSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gp", "config.yaml")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	require.NoError(t, cfg.Set("api_url", "https://relay.example.com/"))
	require.NoError(t, cfg.Set("output_dir", "~/Videos/AI"))
	require.NoError(t, cfg.Set("api_key", "gp_1234567890"))
	require.NoError(t, cfg.Set("poll_max_attempts", "60"))
	require.NoError(t, cfg.Save())

	fi, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), fi.Mode().Perm())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(raw), "api_url:")
	require.Contains(t, string(raw), "relay.example.com")
	require.NotContains(t, string(raw), "email")

	again, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "https://relay.example.com", again.APIURL)
	require.Equal(t, "~/Videos/AI", again.OutputDir)
	require.Equal(t, 60, again.PollMaxAttempts)
}

func TestLoadConfigRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_url: [unterminated"), 0600))
	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestConfigSetGet(t *testing.T) {
	cfg := &Config{}
	for _, key := range Keys() {
		_, set, err := cfg.Get(key)
		require.NoError(t, err, key)
		require.False(t, set, key)
	}

	require.ErrorIs(t, cfg.Set("colour", "red"), ErrUnknownKey)
	_, _, err := cfg.Get("colour")
	require.ErrorIs(t, err, ErrUnknownKey)

	require.Error(t, cfg.Set("poll_timeout_seconds", "-1"))
	require.Error(t, cfg.Set("poll_interval_seconds", "soon"))

	require.NoError(t, cfg.Set("poll_timeout_seconds", "900"))
	v, set, err := cfg.Get("poll_timeout_seconds")
	require.NoError(t, err)
	require.True(t, set)
	require.Equal(t, "900", v)
	require.Equal(t, 900, int(cfg.PollTimeout().Seconds()))

	require.True(t, IsSecret("api_key"))
	require.False(t, IsSecret("email"))
}

func TestClearCredentials(t *testing.T) {
	cfg := &Config{APIKey: "k", Email: "a@example.com", APIURL: "https://relay"}
	cfg.ClearCredentials()
	require.Empty(t, cfg.APIKey)
	require.Empty(t, cfg.Email)
	require.Equal(t, "https://relay", cfg.APIURL)
}

func TestResolveAPIURL(t *testing.T) {
	cfg := &Config{APIURL: "https://from-file"}

	t.Setenv(EnvAPIURL, "")
	require.Equal(t, "https://from-flag", cfg.ResolveAPIURL("https://from-flag", "https://default"))
	require.Equal(t, "https://from-file", cfg.ResolveAPIURL("", "https://default"))

	t.Setenv(EnvAPIURL, "https://from-env")
	require.Equal(t, "https://from-env", cfg.ResolveAPIURL("", "https://default"))

	t.Setenv(EnvAPIURL, "")
	require.Equal(t, "https://default", (&Config{}).ResolveAPIURL("", "https://default"))
}

func TestResolveOutputDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := &Config{}
	require.Equal(t, ".", cfg.ResolveOutputDir(ArtifactVideo, true, "/ignored"))
	require.Equal(t, "/tmp/out", cfg.ResolveOutputDir(ArtifactVideo, false, "/tmp/out"))
	require.Equal(t, ".", cfg.ResolveOutputDir(ArtifactVideo, false, ""))

	require.NoError(t, os.Mkdir(filepath.Join(home, "Pictures"), 0755))
	require.Equal(t, filepath.Join(home, "Pictures"), cfg.ResolveOutputDir(ArtifactImage, false, ""))
	require.Equal(t, filepath.Join(home, "Pictures"), cfg.ResolveOutputDir(ArtifactVideo, false, ""))

	require.NoError(t, os.Mkdir(filepath.Join(home, "Videos"), 0755))
	require.Equal(t, filepath.Join(home, "Videos"), cfg.ResolveOutputDir(ArtifactVideo, false, ""))

	cfg.OutputDir = "~/AI"
	require.Equal(t, filepath.Join(home, "AI"), cfg.ResolveOutputDir(ArtifactImage, false, ""))
}

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"", ""},
		{"1234", "****"},
		{"12345678", "********"},
		{"123456789", "1234*6789"},
		{"gp_abcdefghijkl", "gp_a*******ijkl"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, MaskAPIKey(tt.key), tt.key)
	}
}
