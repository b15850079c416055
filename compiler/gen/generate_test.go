package gen

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/clientgen/compiler/load"
)

const twoServices = `
services:
  - id: example.b#Beta
    operations: example.b#Ping
  - id: example.a#Alpha
    operations: example.a#Echo
operations:
  - id: example.a#Echo
    input: example.a#EchoInput
    output: example.a#EchoOutput
  - id: example.b#Ping
plugins:
  - name: retry
    inputConfig: {name: RetryInputConfig, module: "@aws-sdk/middleware-retry"}
    resolvedConfig: {name: RetryResolvedConfig, module: "@aws-sdk/middleware-retry"}
    resolve: {name: resolveRetryConfig, module: "@aws-sdk/middleware-retry"}
    plugin: {name: getRetryPlugin, module: "@aws-sdk/middleware-retry"}
`

func TestGeneratorRender(t *testing.T) {
	m, err := load.Unmarshal([]byte(twoServices))
	require.NoError(t, err)

	files, err := NewGenerator(MustNewConfig(WithWorkers(1)), m).Render(context.Background())
	require.NoError(t, err)

	require.Len(t, files, 2)
	assert.Equal(t, "example.a#Alpha", files[0].Service)
	assert.Equal(t, "AlphaClient.ts", files[0].Name)
	assert.Equal(t, "BetaClient.ts", files[1].Name)
	assert.Contains(t, string(files[0].Content), "  | EchoCommandInput;")
	assert.Contains(t, string(files[1].Content), "export type ServiceInputTypes =\n  | {};")
	for _, f := range files {
		assert.False(t, f.Cached)
		assert.Contains(t, string(f.Content), "this.middlewareStack.use(getRetryPlugin(this.config));")
	}
}

func TestGeneratorGenerate(t *testing.T) {
	target := t.TempDir()
	m := loadWeather(t)

	files, err := NewGenerator(MustNewConfig(WithTarget(target)), m).Generate(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 1)

	content, err := os.ReadFile(filepath.Join(target, "WeatherClient.ts"))
	require.NoError(t, err)
	code := string(content)

	assert.Equal(t, files[0].Content, content)
	assertOrder(t, code,
		"// Code generated by clientgen. DO NOT EDIT.",
		"export type ServiceInputTypes =\n  | {}\n  | GetCityCommandInput\n  | GetForecastCommandInput\n  | ListCitiesCommandInput;",
		"export type ServiceOutputTypes =\n  | __MetadataBearer\n  | GetCityCommandOutput\n  | GetCurrentTimeCommandOutput\n  | GetForecastCommandOutput;",
		"  & RegionInputConfig\n  & RetryInputConfig\n  & AwsAuthInputConfig\n  & EndpointInputConfig<EndpointParameters>\n  & ClientInputEndpointParameters;",
		"/**\n * Provides weather forecasts for cities.\n */\nexport class WeatherClient extends __Client<",
		"let _config_1 = resolveClientEndpointParameters(_config_0);",
		`let _config_5 = resolveAwsAuthConfig(_config_4, { signingName: "weather" });`,
		"super(_config_5);",
		"destroySocketPool(this.config);",
		"super.destroy();",
	)
}

func TestGeneratorGenerateRequiresTarget(t *testing.T) {
	_, err := NewGenerator(&Config{}, loadWeather(t)).Generate(context.Background())
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
}

func TestGeneratorFailureWritesNothing(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out")
	m := loadWeather(t)

	g := NewGenerator(MustNewConfig(WithTarget(target)), m).WithProtocol(NewProtocol("mqtt"))
	_, err := g.Generate(context.Background())

	require.Error(t, err)
	assert.True(t, IsUnsupportedProtocol(err))
	_, statErr := os.Stat(target)
	assert.True(t, os.IsNotExist(statErr))
}

func TestGeneratorWriteFailureKeepsTarget(t *testing.T) {
	target := t.TempDir()
	m, err := load.Unmarshal([]byte(twoServices))
	require.NoError(t, err)
	alpha := filepath.Join(target, "AlphaClient.ts")
	require.NoError(t, os.WriteFile(alpha, []byte("// previous\n"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(target, "BetaClient.ts"), 0o755))

	_, err = NewGenerator(MustNewConfig(WithTarget(target)), m).Generate(context.Background())

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, "example.b#Beta", genErr.Service)
	content, err := os.ReadFile(alpha)
	require.NoError(t, err)
	assert.Equal(t, "// previous\n", string(content))
	entries, err := os.ReadDir(target)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "no temporary files are left behind")
}

func TestGeneratorRestore(t *testing.T) {
	target := t.TempDir()
	g := NewGenerator(MustNewConfig(WithTarget(target)), &load.Model{})
	existing := filepath.Join(target, "AlphaClient.ts")
	created := filepath.Join(target, "BetaClient.ts")
	skipped := filepath.Join(target, "GammaClient.ts")
	for _, path := range []string{existing, created, skipped} {
		require.NoError(t, os.WriteFile(path, []byte("// new\n"), 0o644))
	}

	g.restore([]*pendingWrite{
		{path: existing, previous: []byte("// previous\n"), existed: true, replaced: true},
		{path: created, replaced: true},
		{path: skipped},
	})

	content, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "// previous\n", string(content))
	assert.NoFileExists(t, created)
	assert.FileExists(t, skipped)
}

func TestGeneratorCheck(t *testing.T) {
	target := t.TempDir()
	m := loadWeather(t)
	g := NewGenerator(MustNewConfig(WithTarget(target)), m)
	ctx := context.Background()

	stale, err := g.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"WeatherClient.ts"}, stale)

	_, err = g.Generate(ctx)
	require.NoError(t, err)
	stale, err = g.Check(ctx)
	require.NoError(t, err)
	assert.Empty(t, stale)

	path := filepath.Join(target, "WeatherClient.ts")
	require.NoError(t, os.WriteFile(path, []byte("// edited\n"), 0o644))
	stale, err = g.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"WeatherClient.ts"}, stale)
}

func TestGeneratorCache(t *testing.T) {
	m := loadWeather(t)
	cache := NewMemoryCache()
	cfg := MustNewConfig(WithCache(cache))
	ctx := context.Background()

	first, err := NewGenerator(cfg, m).Render(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.False(t, first[0].Cached)
	assert.Equal(t, 1, cache.Len())

	second, err := NewGenerator(cfg, m).Render(ctx)
	require.NoError(t, err)
	assert.True(t, second[0].Cached)
	assert.Equal(t, first[0].Content, second[0].Content)

	t.Run("skipped with hooks", func(t *testing.T) {
		hooked := NewMemoryCache()
		cfg := MustNewConfig(
			WithCache(hooked),
			WithSectionHook(SectionBodyExtra, func(w *Writer, _ Section) { w.Write("static readonly hooked = true;") }),
		)

		files, err := NewGenerator(cfg, m).Render(ctx)
		require.NoError(t, err)
		assert.False(t, files[0].Cached)
		assert.Zero(t, hooked.Len())
	})

	t.Run("skipped when feature disabled", func(t *testing.T) {
		unused := NewMemoryCache()
		cfg := MustNewConfig(WithCache(unused), WithoutFeatures(FeatureCache.Name))

		_, err := NewGenerator(cfg, m).Render(ctx)
		require.NoError(t, err)
		assert.Zero(t, unused.Len())
	})
}

func TestGeneratorParallelMatchesSequential(t *testing.T) {
	var b strings.Builder
	b.WriteString("services:\n")
	for _, name := range []string{"A", "B", "C", "D", "E", "F"} {
		b.WriteString("  - id: example.many#" + name + "\n")
	}
	m, err := load.Unmarshal([]byte(b.String()))
	require.NoError(t, err)
	ctx := context.Background()

	seq, err := NewGenerator(MustNewConfig(WithWorkers(1)), m).Render(ctx)
	require.NoError(t, err)
	par, err := NewGenerator(MustNewConfig(WithWorkers(4)), m).Render(ctx)
	require.NoError(t, err)

	require.Len(t, par, 6)
	for i := range seq {
		assert.Equal(t, seq[i].Name, par[i].Name)
		assert.Equal(t, seq[i].Content, par[i].Content)
	}
}

func TestGeneratorWithExtensions(t *testing.T) {
	m := loadWeather(t)
	flexible := &Extension{Name: "flexible-checksums", Plugin: Ref("getFlexibleChecksumsPlugin", "@aws-sdk/middleware-flexible-checksums")}
	other := &Extension{
		Name:    "other-only",
		Plugin:  Ref("getOtherPlugin", "./other"),
		Matches: func(s *Service) bool { return s.ID == "example.other#Other" },
	}

	files, err := NewGenerator(nil, m).WithExtensions(flexible, other).Render(context.Background())
	require.NoError(t, err)
	code := string(files[0].Content)

	assertOrder(t, code,
		"this.middlewareStack.use(getAwsAuthPlugin(this.config));",
		"this.middlewareStack.use(getFlexibleChecksumsPlugin(this.config));",
	)
	assert.NotContains(t, code, "getOtherPlugin")
}

func TestGeneratorCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewGenerator(nil, loadWeather(t)).Render(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerate(t *testing.T) {
	target := t.TempDir()

	err := Generate(context.Background(), MustNewConfig(WithTarget(target)), loadWeather(t))
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(target, "WeatherClient.ts"))
}
