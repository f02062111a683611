package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.Dir)
	assert.Equal(t, BackendFile, cfg.LedgerBackend)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "default", cfg.Learner)
	assert.False(t, cfg.Debug)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SYLLABUS_DIR", "/srv/course")
	t.Setenv("SYLLABUS_LEDGER_BACKEND", "redis")
	t.Setenv("SYLLABUS_REDIS_DB", "3")
	t.Setenv("SYLLABUS_LEARNER", "ana")
	t.Setenv("SYLLABUS_DEBUG", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/srv/course", cfg.Dir)
	assert.Equal(t, BackendRedis, cfg.LedgerBackend)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, "ana", cfg.Learner)
	assert.True(t, cfg.Debug)
}

func TestLoadErrors(t *testing.T) {
	t.Run("Parse", func(t *testing.T) {
		t.Setenv("SYLLABUS_REDIS_DB", "not-an-int")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse env:")
	})

	t.Run("Backend", func(t *testing.T) {
		t.Setenv("SYLLABUS_LEDGER_BACKEND", "sqlite")
		_, err := Load()
		assert.ErrorContains(t, err, "unknown ledger backend")
	})
}

func TestResolve(t *testing.T) {
	cfg := Config{Dir: "course"}
	assert.Equal(t, "", cfg.Resolve(""))
	assert.Equal(t, filepath.Join("course", "lessons"), cfg.Resolve("lessons"))

	abs := filepath.Join(t.TempDir(), "ledger.jsonl")
	assert.Equal(t, abs, cfg.Resolve(abs))
}
