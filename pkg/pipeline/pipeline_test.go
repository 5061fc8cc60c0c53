package pipeline_test

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/rulesplit/pkg/config"
	"github.com/arthur-debert/rulesplit/pkg/errors"
	"github.com/arthur-debert/rulesplit/pkg/fetch"
	"github.com/arthur-debert/rulesplit/pkg/filesystem"
	"github.com/arthur-debert/rulesplit/pkg/pipeline"
	"github.com/arthur-debert/rulesplit/pkg/testutil"
)

const doc = "# > A\nfoo<DNS>\n# > B\nbar\n"

type stubFetcher struct {
	body  string
	err   error
	calls int
}

func (s *stubFetcher) Fetch(_ context.Context, rawURL string) (*fetch.Result, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &fetch.Result{URL: rawURL, FinalURL: rawURL, Body: s.body}, nil
}

func testConfig(url string, targets ...config.Target) *config.Config {
	return &config.Config{
		Source:      config.Source{URL: url, Timeout: 5 * time.Second, MaxRedirects: 5},
		Placeholder: "<DNS>",
		Targets:     targets,
	}
}

func TestRun_WritesEveryTarget(t *testing.T) {
	fs := filesystem.NewMemory()
	require.NoError(t, fs.MkdirAll("/out", 0755))
	stub := &stubFetcher{body: doc}

	cfg := testConfig("https://example.com/list",
		config.Target{File: "/out/include.conf", Include: []string{"A"}, DNS: "X"},
		config.Target{File: "/out/exclude.conf", Exclude: []string{"A"}, DNS: "X"},
	)

	res, err := pipeline.Run(context.Background(), pipeline.Options{Config: cfg, FS: fs, Fetcher: stub})
	require.NoError(t, err)

	include, _ := afero.ReadFile(fs, "/out/include.conf")
	exclude, _ := afero.ReadFile(fs, "/out/exclude.conf")
	assert.Equal(t, "fooX", string(include))
	assert.Equal(t, "bar", string(exclude))

	require.Len(t, res.Targets, 2)
	assert.True(t, res.Targets[0].Written)
	assert.Equal(t, []string{"A", "B"}, res.Groups.Names())
	assert.Equal(t, 1, stub.calls)
}

func TestRun_InvalidConfigFailsBeforeFetch(t *testing.T) {
	stub := &stubFetcher{body: doc}
	cfg := testConfig("https://example.com/list",
		config.Target{File: "/out/a.conf", DNS: "X"},
	)

	_, err := pipeline.Run(context.Background(), pipeline.Options{Config: cfg, FS: filesystem.NewMemory(), Fetcher: stub})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
	assert.Equal(t, 0, stub.calls)
}

func TestRun_NilConfig(t *testing.T) {
	_, err := pipeline.Run(context.Background(), pipeline.Options{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestRun_FetchErrorWritesNothing(t *testing.T) {
	fs := filesystem.NewMemory()
	require.NoError(t, fs.MkdirAll("/out", 0755))
	stub := &stubFetcher{err: errors.New(errors.ErrHTTPStatus, "request failed with status code 404")}
	cfg := testConfig("https://example.com/list",
		config.Target{File: "/out/a.conf", Include: []string{"A"}, DNS: "X"},
	)

	_, err := pipeline.Run(context.Background(), pipeline.Options{Config: cfg, FS: fs, Fetcher: stub})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrHTTPStatus))

	exists, _ := afero.Exists(fs, "/out/a.conf")
	assert.False(t, exists)
}

func TestRun_LaterFailureKeepsEarlierFiles(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.conf")
	second := filepath.Join(dir, "missing-dir", "second.conf")
	third := filepath.Join(dir, "third.conf")

	cfg := testConfig("https://example.com/list",
		config.Target{File: first, Include: []string{"A"}, DNS: "X"},
		config.Target{File: second, Include: []string{"B"}, DNS: "X"},
		config.Target{File: third, Exclude: []string{"B"}, DNS: "X"},
	)

	res, err := pipeline.Run(context.Background(), pipeline.Options{
		Config:  cfg,
		FS:      filesystem.NewOS(),
		Fetcher: &stubFetcher{body: doc},
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileWrite))

	assert.Equal(t, "fooX", testutil.ReadFile(t, first))
	testutil.AssertNoFile(t, third)

	require.NotNil(t, res)
	assert.Len(t, res.Targets, 1)
}

func TestRun_DryRun(t *testing.T) {
	fs := filesystem.NewMemory()
	require.NoError(t, fs.MkdirAll("/out", 0755))
	cfg := testConfig("https://example.com/list",
		config.Target{File: "/out/a.conf", Include: []string{"A"}, DNS: "X"},
	)

	res, err := pipeline.Run(context.Background(), pipeline.Options{Config: cfg, FS: fs, Fetcher: &stubFetcher{body: doc}, DryRun: true})
	require.NoError(t, err)

	assert.True(t, res.DryRun)
	assert.False(t, res.Targets[0].Written)
	exists, _ := afero.Exists(fs, "/out/a.conf")
	assert.False(t, exists)
}

func TestGroups_DoesNotWrite(t *testing.T) {
	cfg := testConfig("https://example.com/list",
		config.Target{File: "/out/a.conf", Include: []string{"A"}, DNS: "X"},
	)

	res, err := pipeline.Groups(context.Background(), pipeline.Options{Config: cfg, Fetcher: &stubFetcher{body: doc}})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Groups.Len())
	assert.Empty(t, res.Targets)
}

func TestRun_OverHTTPWithRedirect(t *testing.T) {
	srv := testutil.NewSourceServer(t, doc)

	dir := t.TempDir()
	out := filepath.Join(dir, "a.conf")
	cfg := testConfig(srv.URLFor(testutil.MovedPath), config.Target{File: out, Include: []string{"A"}, DNS: "X"})

	res, err := pipeline.Run(context.Background(), pipeline.Options{Config: cfg})
	require.NoError(t, err)

	assert.Equal(t, srv.URLFor(testutil.ListPath), res.FinalURL)
	assert.Equal(t, "fooX", testutil.ReadFile(t, out))
}

func TestRun_HTTP404(t *testing.T) {
	srv := testutil.NewSourceServer(t, doc)
	srv.FailWith(http.StatusNotFound)

	out := filepath.Join(t.TempDir(), "a.conf")
	cfg := testConfig(srv.URLFor(testutil.ListPath), config.Target{File: out, Include: []string{"A"}, DNS: "X"})

	_, err := pipeline.Run(context.Background(), pipeline.Options{Config: cfg})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrHTTPStatus))
	testutil.AssertNoFile(t, out)
}
