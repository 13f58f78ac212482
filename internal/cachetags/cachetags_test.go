package cachetags

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		contentType ContentType
		slug        string
		want        []string
	}{
		{name: "type only", contentType: ContentEvent, want: []string{"event"}},
		{name: "with slug", contentType: ContentProject, slug: "wetlands", want: []string{"project", "project:wetlands"}},
		{name: "slug is trimmed", contentType: ContentUpdate, slug: "  spring ", want: []string{"update", "update:spring"}},
		{name: "site settings purge everything", contentType: ContentSiteSettings, want: []string{"all", "site-settings"}},
		{name: "site settings with slug", contentType: ContentSiteSettings, slug: "footer", want: []string{"all", "site-settings", "site-settings:footer"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Tags(tt.contentType, tt.slug))
		})
	}
}

func TestHeaderSortsAndDeduplicates(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "all,page,page:home", Header("page:home", "all", "page", " all ", ""))
	assert.Equal(t, "", Header())
}

func TestCacheControl(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "public, s-maxage=60, stale-while-revalidate=86400", CacheControl(Policy{SMaxAge: 60, StaleWhileRevalidate: 86400}))
	assert.Equal(t, "public, s-maxage=0, stale-while-revalidate=0", CacheControl(Policy{SMaxAge: -5, StaleWhileRevalidate: -1}))
}

func TestParseContentType(t *testing.T) {
	t.Parallel()

	for _, ct := range ContentTypes() {
		got, err := ParseContentType(string(ct))
		require.NoError(t, err)
		assert.Equal(t, ct, got)
	}

	_, err := ParseContentType("newsletter")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "newsletter")
}
