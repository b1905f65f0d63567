package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingExplicitFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	// An explicitly named file must exist.
	require.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
logging:
  level: debug
classifier:
  provider: local
  model_path: /opt/models/landmarks.onnx
  image_size: 192
assets:
  bucket: siteseer-photos
prediction:
  limit: 5
collect:
  min_interval: 10s
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "local", cfg.Classifier.Provider)
	assert.Equal(t, "/opt/models/landmarks.onnx", cfg.Classifier.ModelPath)
	assert.Equal(t, 192, cfg.Classifier.ImageSize)
	assert.Equal(t, "siteseer-photos", cfg.Assets.Bucket)
	assert.Equal(t, 5, cfg.Prediction.Limit)
	assert.Equal(t, 10*time.Second, cfg.Collect.MinInterval)

	// Untouched values keep their defaults.
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, 100, cfg.Leaderboard.UserCap)
	assert.Equal(t, int64(1), cfg.Collect.Points)
	assert.NotEmpty(t, cfg.Classifier.ClassNames)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging: [unclosed"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}
