package spyglass

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	content := []byte(`
apiKey: "file-key"
deploymentId: "checkout-service"
exporter:
  type: "console"
`)
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "config.yaml")
	err := os.WriteFile(tmpFile, content, 0o644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "file-key", cfg.APIKey)
	assert.Equal(t, "checkout-service", cfg.DeploymentID)
	assert.Equal(t, "console", cfg.Exporter.Type)

	// Environment overrides file values
	t.Setenv("SPYGLASS_DEPLOYMENT_ID", "override-service")
	cfg, err = LoadConfig(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, "override-service", cfg.DeploymentID)
}

func TestParseConfig(t *testing.T) {
	yamlData := []byte(`
apiKey: "test-key"
deploymentId: "my-deployment"
version: "1.2.3"
exporter:
  endpoint: "localhost:4317"
  timeout: 5s
metrics:
  enabled: true
  interval: 30s
`)
	cfg, err := ParseConfig(yamlData)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "test-key", cfg.APIKey)
	assert.Equal(t, "my-deployment", cfg.DeploymentID)
	assert.Equal(t, "1.2.3", cfg.Version)
	assert.Equal(t, "localhost:4317", cfg.Exporter.Endpoint)
	assert.Equal(t, 5*time.Second, cfg.Exporter.Timeout)
	assert.True(t, cfg.Metrics.IsEnabled())
	assert.Equal(t, 30*time.Second, cfg.Metrics.Interval)
}

func TestParseConfigDefaults(t *testing.T) {
	// Load empty config to check defaults from struct tags
	cfg, err := ParseConfig([]byte("{}"))
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "otlp", cfg.Exporter.Type)
	assert.Equal(t, DefaultEndpoint, cfg.Exporter.Endpoint)
	assert.Equal(t, "grpc", cfg.Exporter.Protocol)
	assert.Equal(t, 10*time.Second, cfg.Exporter.Timeout)
	assert.Equal(t, "gzip", cfg.Exporter.Compression)
}

func TestParseConfig_InvalidExporterType(t *testing.T) {
	_, err := ParseConfig([]byte(`
exporter:
  type: "carrier-pigeon"
`))

	assert.Error(t, err)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("SPYGLASS_API_KEY", "env-key")
	t.Setenv("SPYGLASS_DEPLOYMENT_ID", "env-deployment")
	t.Setenv("SPYGLASS_OTEL_EXPORTER_OTLP_ENDPOINT", "collector.internal:4317")

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, "env-deployment", cfg.DeploymentID)
	assert.Equal(t, "collector.internal:4317", cfg.Exporter.Endpoint)
}

func TestConfigFromEnv_NoCredentials(t *testing.T) {
	// Loading without credentials succeeds; the mandatory checks happen at
	// provider construction so console mode stays usable.
	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.NotNil(t, cfg)
}
