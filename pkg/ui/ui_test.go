package ui_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/rulesplit/pkg/config"
	"github.com/arthur-debert/rulesplit/pkg/emit"
	"github.com/arthur-debert/rulesplit/pkg/errors"
	"github.com/arthur-debert/rulesplit/pkg/ui"
	"github.com/arthur-debert/rulesplit/pkg/ui/display"
)

func runReport() *display.RunReport {
	return &display.RunReport{
		URL:      "http://example.test/list",
		FinalURL: "http://example.test/list",
		Groups:   2,
		Targets: []emit.TargetResult{
			{File: "/out/a.conf", Mode: config.ModeInclude, Matched: []string{"A"}, Lines: 1, Bytes: 4, Written: true},
		},
		Elapsed: "1ms",
	}
}

func TestNewRenderer(t *testing.T) {
	tests := []struct {
		name        string
		format      ui.Format
		expectError bool
	}{
		{"terminal", ui.FormatTerminal, false},
		{"text", ui.FormatText, false},
		{"json", ui.FormatJSON, false},
		{"yaml", ui.FormatYAML, false},
		{"markdown", ui.FormatMarkdown, false},
		{"auto with buffer", ui.FormatAuto, false},
		{"invalid format", ui.Format(999), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			renderer, err := ui.NewRenderer(tt.format, buf)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, renderer)
				assert.Contains(t, err.Error(), "unknown format")
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, renderer)
			}
		})
	}
}

func TestRendererInterface(t *testing.T) {
	formats := []ui.Format{
		ui.FormatTerminal,
		ui.FormatText,
		ui.FormatJSON,
		ui.FormatYAML,
		ui.FormatMarkdown,
	}

	for _, format := range formats {
		t.Run(format.String(), func(t *testing.T) {
			buf := &bytes.Buffer{}
			renderer, err := ui.NewRenderer(format, buf)
			require.NoError(t, err)

			assert.NoError(t, renderer.RenderMessage("test message"))
			assert.NoError(t, renderer.RenderError(assert.AnError))
			assert.NoError(t, renderer.RenderResult(runReport()))
			assert.NoError(t, renderer.RenderResult(&display.GroupsReport{}))
			assert.NotEmpty(t, buf.String())
		})
	}
}

func TestJSONRenderer(t *testing.T) {
	buf := &bytes.Buffer{}
	renderer, err := ui.NewRenderer(ui.FormatJSON, buf)
	require.NoError(t, err)

	t.Run("render message", func(t *testing.T) {
		buf.Reset()
		require.NoError(t, renderer.RenderMessage("hello world"))

		var result map[string]string
		require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
		assert.Equal(t, "hello world", result["message"])
	})

	t.Run("render coded error", func(t *testing.T) {
		buf.Reset()
		cause := errors.New(errors.ErrHTTPStatus, "request failed with status code 404").
			WithDetail("status", 404)
		require.NoError(t, renderer.RenderError(cause))

		var result map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
		assert.Equal(t, "HTTP_STATUS", result["code"])
		assert.Equal(t, map[string]interface{}{"status": float64(404)}, result["details"])
	})

	t.Run("render plain error", func(t *testing.T) {
		buf.Reset()
		require.NoError(t, renderer.RenderError(assert.AnError))

		var result map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
		assert.Equal(t, assert.AnError.Error(), result["error"])
		assert.Equal(t, "UNKNOWN", result["code"])
		assert.NotContains(t, result, "details")
	})

	t.Run("render run report", func(t *testing.T) {
		buf.Reset()
		require.NoError(t, renderer.RenderResult(runReport()))

		var result display.RunReport
		require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
		assert.Equal(t, 2, result.Groups)
		require.Len(t, result.Targets, 1)
		assert.Equal(t, config.ModeInclude, result.Targets[0].Mode)
		assert.True(t, result.Targets[0].Written)
	})

	t.Run("lines omitted unless requested", func(t *testing.T) {
		buf.Reset()
		require.NoError(t, renderer.RenderResult(&display.GroupsReport{
			Groups: []display.GroupSummary{{Name: "A", LineCount: 1}},
		}))
		assert.NotContains(t, buf.String(), `"lines"`)
		assert.Contains(t, buf.String(), `"line_count": 1`)
	})
}

func TestYAMLRenderer(t *testing.T) {
	buf := &bytes.Buffer{}
	renderer, err := ui.NewRenderer(ui.FormatYAML, buf)
	require.NoError(t, err)

	require.NoError(t, renderer.RenderResult(&display.GroupsReport{
		URL:        "http://example.test/list",
		Groups:     []display.GroupSummary{{Name: "A", LineCount: 2, Lines: []string{"a1", "a2"}}},
		TotalLines: 2,
	}))

	var result display.GroupsReport
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &result))
	assert.Equal(t, "http://example.test/list", result.URL)
	require.Len(t, result.Groups, 1)
	assert.Equal(t, []string{"a1", "a2"}, result.Groups[0].Lines)
	assert.Equal(t, 2, result.TotalLines)
}

func TestTextRenderer(t *testing.T) {
	buf := &bytes.Buffer{}
	renderer, err := ui.NewRenderer(ui.FormatText, buf)
	require.NoError(t, err)

	t.Run("render error", func(t *testing.T) {
		buf.Reset()
		require.NoError(t, renderer.RenderError(assert.AnError))
		assert.Equal(t, "Error: assert.AnError general error for testing\n", buf.String())
	})

	t.Run("render unknown result type", func(t *testing.T) {
		buf.Reset()
		require.NoError(t, renderer.RenderResult(map[string]string{"foo": "bar"}))
		assert.Contains(t, buf.String(), "map[foo:bar]")
	})
}
