package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	t.Run("Defaults fill the gaps", func(t *testing.T) {
		// Given: a config with only the storage set
		path := writeConfig(t, "storage: memory\n")

		// When
		conf, err := Load(path)

		// Then
		require.NoError(t, err)
		assert.Equal(t, "info", conf.LogLevel)
		assert.Equal(t, "9090", conf.HTTPPort)
		assert.Equal(t, StorageMemory, conf.Storage)
		assert.Equal(t, 24*time.Hour, conf.SessionTTL)
		assert.Equal(t, "localhost:6379", conf.Redis.GetRedisAddr())
		assert.Empty(t, conf.Advisor.URL)
		assert.Equal(t, 3*time.Second, conf.Advisor.Timeout)
		assert.Equal(t, "hard", conf.Advisor.Difficulty)
		assert.Equal(t, ExporterNone, conf.Tracing.Exporter)
		assert.Equal(t, "localhost:4317", conf.Tracing.OTLPEndpoint)
		assert.Equal(t, "tictactoe-advisor", conf.Tracing.ServiceName)
	})

	t.Run("File values", func(t *testing.T) {
		path := writeConfig(t, `
log-level: debug
http-port: "8080"
storage: redis
session-ttl: 1h
redis:
  host: cache
  port: "6380"
advisor:
  url: http://advisor:9090/api/tictactoe-move
  timeout: 500ms
  difficulty: easy
tracing:
  exporter: otlp
  otlp-endpoint: collector:4317
`)

		conf, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, "8080", conf.HTTPPort)
		assert.Equal(t, time.Hour, conf.SessionTTL)
		assert.Equal(t, "cache:6380", conf.Redis.GetRedisAddr())
		assert.Equal(t, "http://advisor:9090/api/tictactoe-move", conf.Advisor.URL)
		assert.Equal(t, 500*time.Millisecond, conf.Advisor.Timeout)
		assert.Equal(t, "easy", conf.Advisor.Difficulty)
		assert.Equal(t, ExporterOTLP, conf.Tracing.Exporter)
		assert.Equal(t, "collector:4317", conf.Tracing.OTLPEndpoint)
	})

	t.Run("Environment overrides the file", func(t *testing.T) {
		path := writeConfig(t, "storage: redis\nhttp-port: \"8080\"\n")
		t.Setenv("HTTP_PORT", "7070")
		t.Setenv("ADVISOR_DIFFICULTY", "medium")

		conf, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, "7070", conf.HTTPPort)
		assert.Equal(t, "medium", conf.Advisor.Difficulty)
	})

	t.Run("Unknown storage", func(t *testing.T) {
		path := writeConfig(t, "storage: etcd\n")

		_, err := Load(path)

		require.Error(t, err)
	})

	t.Run("Unknown trace exporter", func(t *testing.T) {
		path := writeConfig(t, "storage: memory\ntracing:\n  exporter: zipkin\n")

		_, err := Load(path)

		require.Error(t, err)
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))

		require.Error(t, err)
	})

	t.Run("MustLoad panics on a bad file", func(t *testing.T) {
		assert.Panics(t, func() {
			MustLoad(filepath.Join(t.TempDir(), "absent.yml"))
		})
	})
}
