package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/alexisbeaulieu97/conservancy/internal/bootstrap"
	"github.com/alexisbeaulieu97/conservancy/internal/cookie"
	"github.com/alexisbeaulieu97/conservancy/internal/domain/appearance"
)

func TestScriptCommand(t *testing.T) {
	t.Parallel()

	want := bootstrap.Script(appearance.State{Theme: "dark", ResolvedTheme: "dark", Palette: "green"})

	out, err := execute(t, "script", "--theme", "dark", "--palette", "green")
	require.NoError(t, err)
	assert.Equal(t, want+"\n", out)

	out, err = execute(t, "script", "--theme", "dark", "--palette", "green", "--hash")
	require.NoError(t, err)
	assert.Equal(t, bootstrap.Hash(want)+"\n", out)

	out, err = execute(t, "script", "--html")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "<script>"))
	assert.Contains(t, out, bootstrap.Script(appearance.DefaultState()))

	_, err = execute(t, "script", "--html", "--hash")
	require.Error(t, err)
}

func TestCookiesCommandText(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "cookies", "--theme", "broken", "--palette", "green-navy")
	require.NoError(t, err)

	assert.Contains(t, out, "theme:          system")
	assert.Contains(t, out, "palette:        green-navy")
	assert.Contains(t, out, cookie.ThemeName+" (invalid)")
	assert.Contains(t, out, cookie.ResolvedThemeName+" (missing)")
	assert.NotContains(t, out, cookie.PaletteName+" (")
	for _, header := range cookie.Headers(appearance.State{Theme: "system", ResolvedTheme: "light", Palette: "green-navy"}) {
		assert.Contains(t, out, "Set-Cookie: "+header)
	}
}

func TestCookiesCommandStructuredOutput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		format    string
		unmarshal func([]byte, any) error
	}{
		{name: "json", format: "json", unmarshal: json.Unmarshal},
		{name: "yaml", format: "yaml", unmarshal: yaml.Unmarshal},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := execute(t, "cookies", "--theme", "system", "--resolved-theme", "dark", "--palette", "olive", "-o", tt.format)
			require.NoError(t, err)

			var report cookieReport
			require.NoError(t, tt.unmarshal([]byte(out), &report))
			assert.Equal(t, appearance.State{Theme: "system", ResolvedTheme: "dark", Palette: "olive"}, report.State)
			assert.Empty(t, report.Fallbacks)
			assert.Len(t, report.SetCookies, 3)
		})
	}
}

func TestCookiesCommandRejectsUnknownOutput(t *testing.T) {
	t.Parallel()

	_, err := execute(t, "cookies", "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output")
}

func TestPalettesCommandPlainOutput(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "palettes")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, len(appearance.Palettes()))
	assert.True(t, strings.HasPrefix(lines[0], "olive (default)"))
	assert.Contains(t, lines[0], "primary=#")
	assert.True(t, strings.HasPrefix(lines[3], "green-navy "))
}

func TestPalettesCommandCSS(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "palettes", "--css")
	require.NoError(t, err)
	assert.Contains(t, out, ":root.dark")
	assert.Contains(t, out, `[data-palette="green-terra"]`)
}

func TestServeRejectsInvalidAddress(t *testing.T) {
	t.Parallel()

	_, err := execute(t, "serve", "--address", "not an address")
	require.Error(t, err)
}

func TestServeReportsMissingConfig(t *testing.T) {
	t.Parallel()

	_, err := execute(t, "serve", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLogFlagsAreValidated(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "conservancy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("site:\n  name: Test\n"), 0o600))

	_, err := execute(t, "serve", "--config", path, "--log-level", "chatty")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.level")
}
