package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
BotToken: "123:abc"
GroupChatID: -100123
HomeCountry: "Казахстан"
Debug: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "123:abc", cfg.BotToken)
	require.Equal(t, int64(-100123), cfg.GroupChatID)
	require.Equal(t, "Казахстан", cfg.HomeCountry)
	require.True(t, cfg.Debug)
	// Значения по умолчанию остаются.
	require.Equal(t, "club.db", cfg.DatabasePath)
	require.Equal(t, "media", cfg.MediaDir)
}

func TestLoadEnvOverridesToken(t *testing.T) {
	path := writeConfig(t, `
BotToken: "from-file"
GroupChatID: -1
`)
	t.Setenv("BOT_TOKEN", "from-env")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "from-env", cfg.BotToken)
}

func TestLoadRequiresToken(t *testing.T) {
	path := writeConfig(t, `GroupChatID: -1`)
	_, err := Load(path)
	require.Error(t, err)
}
