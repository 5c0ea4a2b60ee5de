package configwatcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"edu_exam_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseConfig = `
server:
  mode: debug
storage:
  type: s3
ai:
  model: %s
`

func writeModel(t *testing.T, dir, model string) {
	t.Helper()
	body := []byte(fmt.Sprintf(baseConfig, model))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), body, 0o644))
}

func TestWatchConfigReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	writeModel(t, dir, "gpt-4o-mini")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var latest atomic.Value
	require.NoError(t, WatchConfig(ctx, dir, "config.yaml", func(cfg *config.Config) {
		latest.Store(cfg.AI.Model)
	}))

	writeModel(t, dir, "qwen-plus")
	assert.Eventually(t, func() bool {
		v, _ := latest.Load().(string)
		return v == "qwen-plus"
	}, 5*time.Second, 50*time.Millisecond)
}

func TestWatchConfigMissingDir(t *testing.T) {
	err := WatchConfig(context.Background(), filepath.Join(t.TempDir(), "missing"), "config.yaml", func(*config.Config) {})
	assert.Error(t, err)
}
