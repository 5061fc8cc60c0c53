package testutil_test

import (
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/rulesplit/pkg/testutil"
)

func get(t *testing.T, client *http.Client, url string) (int, string) {
	t.Helper()
	resp, err := client.Get(url)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestSourceServer(t *testing.T) {
	srv := testutil.NewSourceServer(t, "# > A\na\n")
	noFollow := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}

	status, body := get(t, srv.Client(), srv.URLFor(testutil.ListPath))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "# > A\na\n", body)

	srv.SetBody("# > B\nb\n")
	status, body = get(t, srv.Client(), srv.URLFor(testutil.MovedPath))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "# > B\nb\n", body)

	status, _ = get(t, noFollow, srv.URLFor(testutil.LoopPath))
	assert.Equal(t, http.StatusFound, status)

	srv.FailWith(http.StatusNotFound)
	status, _ = get(t, srv.Client(), srv.URLFor(testutil.ListPath))
	assert.Equal(t, http.StatusNotFound, status)

	assert.Equal(t, 5, srv.Hits())
}

func TestFileHelpers(t *testing.T) {
	dir := t.TempDir()

	path := testutil.CreateFile(t, dir, "nested/a.conf", "content")
	assert.Equal(t, "content", testutil.ReadFile(t, path))

	sub := testutil.CreateDir(t, dir, "out")
	assert.DirExists(t, sub)

	testutil.AssertNoFile(t, dir+"/missing")
}

func TestIsolate(t *testing.T) {
	t.Setenv("RULESPLIT_CONFIG", "/somewhere/else.toml")

	dir := testutil.Isolate(t)
	assert.NotEmpty(t, dir)
	assert.Empty(t, os.Getenv("RULESPLIT_CONFIG"))
	assert.Equal(t, "1", os.Getenv("NO_COLOR"))
}
