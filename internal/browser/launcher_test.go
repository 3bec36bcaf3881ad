package browser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/themizzi/sitesearch/internal/config"
)

func TestLaunchOptions(t *testing.T) {
	t.Run("should carry headless mode and args", func(t *testing.T) {
		opts := LaunchOptions(config.BrowserConfig{Headless: true, Args: []string{"--disable-dev-shm-usage"}})

		require.NotNil(t, opts.Headless)
		assert.True(t, *opts.Headless)
		assert.Equal(t, []string{"--disable-dev-shm-usage"}, opts.Args)
		assert.Nil(t, opts.SlowMo)
	})

	t.Run("should convert slow motion to milliseconds", func(t *testing.T) {
		opts := LaunchOptions(config.BrowserConfig{SlowMo: 500 * time.Millisecond})

		require.NotNil(t, opts.SlowMo)
		assert.Equal(t, 500.0, *opts.SlowMo)
	})
}

func TestContextOptions(t *testing.T) {
	opts := ContextOptions(config.BrowserConfig{ViewportWidth: 1920, ViewportHeight: 1080, IgnoreHTTPSErrors: true})

	require.NotNil(t, opts.Viewport)
	assert.Equal(t, 1920, opts.Viewport.Width)
	assert.Equal(t, 1080, opts.Viewport.Height)
	require.NotNil(t, opts.IgnoreHttpsErrors)
	assert.True(t, *opts.IgnoreHttpsErrors)
}

func TestExisting(t *testing.T) {
	l := Existing(nil)

	b, err := l.Launch()
	assert.NoError(t, err)
	assert.Nil(t, b)
	assert.NoError(t, l.Shutdown())
}

func TestPlaywrightLauncher_ShutdownBeforeLaunch(t *testing.T) {
	assert.NoError(t, NewPlaywrightLauncher(config.BrowserConfig{}).Shutdown())
}
