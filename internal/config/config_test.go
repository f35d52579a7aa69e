package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaultsAndEnv(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PORT=9090\nDEFAULT_LANGUAGE=TH\n"), 0o600))
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("GO_ENV", "test")

	LoadConfig()

	assert.Equal(t, "9090", AppConfig.Port)
	assert.Equal(t, "th", AppConfig.DefaultLanguage)
	assert.Equal(t, 2*time.Hour, AppConfig.SessionTTL)
	assert.Equal(t, 5*time.Minute, AppConfig.PageCacheTTL)
	assert.Equal(t, "uplift_session", AppConfig.SessionCookieName)
	assert.NotEmpty(t, AppConfig.JWTSecret)
}
