package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/conservancy/internal/cookie"
)

func TestDocumentClassesStyleAttributes(t *testing.T) {
	t.Parallel()

	d := NewDocument()
	d.ToggleClass("dark", true)
	d.ToggleClass("js", true)
	d.ToggleClass("js", false)
	d.SetStyleProperty("color-scheme", "dark")
	d.SetAttribute("data-palette", "green")

	assert.True(t, d.HasClass("dark"))
	assert.Equal(t, []string{"dark"}, d.Classes())
	assert.Equal(t, "dark", d.StyleProperty("color-scheme"))

	v, ok := d.Attribute("data-palette")
	require.True(t, ok)
	assert.Equal(t, "green", v)

	d.RemoveAttribute("data-palette")
	_, ok = d.Attribute("data-palette")
	assert.False(t, ok)
}

func TestDocumentCookieJar(t *testing.T) {
	t.Parallel()

	d := NewDocument()
	d.SetCookie(cookie.Build(cookie.ThemeName, "dark"))
	d.SetCookie(cookie.Build(cookie.PaletteName, "green-terra"))
	d.SetCookie("not a cookie")

	assert.Equal(t, 2, d.CookieWrites())
	assert.Equal(t, map[string]string{cookie.ThemeName: "dark", cookie.PaletteName: "green-terra"}, d.Cookies())
	assert.Equal(t, "palette-preference=green-terra; theme-preference=dark", d.CookieHeader())
}

func TestMediaQueryNotifiesOnChangeOnly(t *testing.T) {
	t.Parallel()

	q := NewMediaQuery(false)
	var got []bool
	remove := q.OnChange(func(dark bool) { got = append(got, dark) })
	assert.Equal(t, 1, q.Listeners())

	q.Set(false)
	q.Set(true)
	q.Toggle()

	dark, ok := q.PrefersDark()
	assert.True(t, ok)
	assert.False(t, dark)
	assert.Equal(t, []bool{true, false}, got)

	remove()
	q.Set(true)
	assert.Len(t, got, 2)
	assert.Zero(t, q.Listeners())
}

func TestUnsupportedMediaQuery(t *testing.T) {
	t.Parallel()

	q := UnsupportedMediaQuery()
	_, ok := q.PrefersDark()
	assert.False(t, ok)

	called := false
	remove := q.OnChange(func(bool) { called = true })
	q.Set(true)
	remove()
	assert.False(t, called)
}
