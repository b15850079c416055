package compiler

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/clientgen/compiler/gen"
	"github.com/syssam/clientgen/compiler/load"
)

const weatherModel = "load/testdata/weather.yaml"

func TestGenerate(t *testing.T) {
	target := t.TempDir()
	cfg := gen.MustNewConfig(gen.WithTarget(target))
	ctx := context.Background()

	err := Generate(ctx, weatherModel, cfg, Extensions(&gen.Extension{
		Name:   "logger",
		Plugin: gen.Ref("getLoggerPlugin", "@aws-sdk/middleware-logger"),
	}))
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(target, "WeatherClient.ts"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "this.middlewareStack.use(getLoggerPlugin(this.config));")

	stale, err := Check(ctx, weatherModel, cfg, Extensions(&gen.Extension{
		Name:   "logger",
		Plugin: gen.Ref("getLoggerPlugin", "@aws-sdk/middleware-logger"),
	}))
	require.NoError(t, err)
	assert.Empty(t, stale)

	stale, err = Check(ctx, weatherModel, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"WeatherClient.ts"}, stale)
}

func TestGenerateProtocol(t *testing.T) {
	cfg := gen.MustNewConfig(gen.WithTarget(t.TempDir()))

	err := Generate(context.Background(), weatherModel, cfg, Protocol(gen.NewProtocol("mqtt")))
	require.Error(t, err)
	assert.True(t, gen.IsUnsupportedProtocol(err))
}

func TestGenerateErrors(t *testing.T) {
	cfg := gen.MustNewConfig(gen.WithTarget(t.TempDir()))
	ctx := context.Background()

	t.Run("missing model", func(t *testing.T) {
		err := Generate(ctx, "load/testdata/missing.yaml", cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "compiler/load")
	})

	t.Run("invalid model", func(t *testing.T) {
		err := Generate(ctx, "load/testdata/cycle.yaml", cfg)
		require.Error(t, err)
		assert.True(t, load.IsModelError(err))
	})

	t.Run("invalid options", func(t *testing.T) {
		assert.Error(t, Generate(ctx, weatherModel, cfg, Extensions(nil)))
		assert.Error(t, Generate(ctx, weatherModel, cfg, Extensions(&gen.Extension{})))
		assert.Error(t, Generate(ctx, weatherModel, cfg, Protocol(nil)))
	})
}
