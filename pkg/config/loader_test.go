package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/rulesplit/pkg/errors"
	"github.com/arthur-debert/rulesplit/pkg/paths"
)

// isolate keeps the developer's own config and environment out of the test
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv(paths.EnvConfigDir, "")
	t.Setenv(EnvConfigPath, "")
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, "https://raw.githubusercontent.com/1-stream/1stream-public-utils/main/stream.adg.list", cfg.Source.URL)
	assert.Equal(t, 30*time.Second, cfg.Source.Timeout)
	assert.Equal(t, 5, cfg.Source.MaxRedirects)
	assert.False(t, cfg.Source.InsecureSkipVerify)
	assert.Equal(t, "<DNS>", cfg.Placeholder)

	require.Len(t, cfg.Targets, 2)
	assert.Equal(t, "/root/dnsproxy/elseunlock.conf", cfg.Targets[0].File)
	assert.Equal(t, []string{"Tiktok"}, cfg.Targets[0].Include)
	assert.Equal(t, "https://hkg2.edge.access.zznet.fun/dns-query/else", cfg.Targets[0].DNS)
	assert.Equal(t, "/root/dnsproxy/unlock.conf", cfg.Targets[1].File)
	assert.Equal(t, []string{"Tiktok", "Youtube", "Disney+"}, cfg.Targets[1].Exclude)
}

func TestLoad_UserTOMLReplacesTargets(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "rulesplit", "config.toml"), `
[source]
timeout = "5s"

[[targets]]
file = "/tmp/only.conf"
include = ["Netflix"]
dns = "127.0.0.1:5353"
`)

	cfg, err := Load(LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.Source.Timeout)
	// untouched keys keep their defaults
	assert.Equal(t, 5, cfg.Source.MaxRedirects)
	require.Len(t, cfg.Targets, 1)
	assert.Equal(t, "/tmp/only.conf", cfg.Targets[0].File)
	assert.Equal(t, []string{"Netflix"}, cfg.Targets[0].Include)
}

func TestLoad_UserFileWithoutTargetsKeepsDefaults(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "rulesplit", "config.toml"), `placeholder = "{{dns}}"`)

	cfg, err := Load(LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, "{{dns}}", cfg.Placeholder)
	assert.Len(t, cfg.Targets, 2)
}

func TestLoad_ExplicitYAML(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "split.yaml")
	writeFile(t, path, `
source:
  url: http://mirror.local/list.txt
  insecure_skip_verify: true
targets:
  - file: /tmp/out.conf
    exclude: [Youtube]
    dns: tls://1.1.1.1
`)

	cfg, err := Load(LoadOptions{Path: path})
	require.NoError(t, err)

	assert.Equal(t, "http://mirror.local/list.txt", cfg.Source.URL)
	assert.True(t, cfg.Source.InsecureSkipVerify)
	require.Len(t, cfg.Targets, 1)
	assert.Equal(t, ModeExclude, cfg.Targets[0].Mode())
	assert.Equal(t, "tls://1.1.1.1", cfg.Targets[0].DNS)
}

func TestLoad_ConfigPathFromEnvironment(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "env.toml")
	writeFile(t, path, `placeholder = "@@"`)
	t.Setenv(EnvConfigPath, path)

	cfg, err := Load(LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "@@", cfg.Placeholder)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolate(t)

	_, err := Load(LoadOptions{Path: "/nonexistent/rulesplit.toml"})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}

func TestLoad_MalformedFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "bad.toml")
	writeFile(t, path, "[source\nurl = ")

	_, err := Load(LoadOptions{Path: path})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("RULESPLIT_SOURCE__URL", "https://example.org/rules.list")
	t.Setenv("RULESPLIT_SOURCE__TIMEOUT", "12s")
	t.Setenv("RULESPLIT_SOURCE__MAX_REDIRECTS", "2")

	cfg, err := Load(LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, "https://example.org/rules.list", cfg.Source.URL)
	assert.Equal(t, 12*time.Second, cfg.Source.Timeout)
	assert.Equal(t, 2, cfg.Source.MaxRedirects)
}

func TestLoad_OverridesWinOverEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("RULESPLIT_SOURCE__URL", "https://example.org/rules.list")

	cfg, err := Load(LoadOptions{Overrides: map[string]interface{}{
		"source.url": "https://override.example/list",
	}})
	require.NoError(t, err)
	assert.Equal(t, "https://override.example/list", cfg.Source.URL)
}

func TestLoad_InvalidTargetRejected(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "bad-target.toml")
	writeFile(t, path, `
[[targets]]
file = "/tmp/x.conf"
dns = "X"
`)

	_, err := Load(LoadOptions{Path: path})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "source.max_redirects", envKey("RULESPLIT_SOURCE__MAX_REDIRECTS"))
	assert.Equal(t, "placeholder", envKey("RULESPLIT_PLACEHOLDER"))
	assert.Empty(t, envKey("RULESPLIT_CONFIG"))
	assert.Empty(t, envKey("RULESPLIT_STATE_DIR"))
}

func TestDefaultUserConfigPath(t *testing.T) {
	dir := isolate(t)
	assert.Equal(t, filepath.Join(dir, "rulesplit", "config.toml"), DefaultUserConfigPath())

	writeFile(t, filepath.Join(dir, "rulesplit", "config.yml"), "placeholder: x\n")
	assert.Equal(t, filepath.Join(dir, "rulesplit", "config.yml"), DefaultUserConfigPath())
}
