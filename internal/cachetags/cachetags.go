// Package cachetags maps site content to CDN cache tags and builds the cache
// headers for regenerated pages.
package cachetags

import (
	"fmt"
	"sort"
	"strings"
)

// ContentType identifies a kind of site content.
type ContentType string

const (
	ContentEvent        ContentType = "event"
	ContentProject      ContentType = "project"
	ContentUpdate       ContentType = "update"
	ContentMedia        ContentType = "media"
	ContentPage         ContentType = "page"
	ContentSiteSettings ContentType = "site-settings"
)

// TagAll is attached to every page, and purged whenever site settings change.
const TagAll = "all"

// HeaderName is the response header CDNs read tags from.
const HeaderName = "Cache-Tag"

var contentTypes = [...]ContentType{
	ContentEvent,
	ContentProject,
	ContentUpdate,
	ContentMedia,
	ContentPage,
	ContentSiteSettings,
}

// ContentTypes lists the known content types.
func ContentTypes() []ContentType {
	out := make([]ContentType, len(contentTypes))
	copy(out, contentTypes[:])
	return out
}

// Valid reports whether t is a known content type.
func (t ContentType) Valid() bool {
	for _, known := range contentTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ParseContentType validates raw.
func ParseContentType(raw string) (ContentType, error) {
	t := ContentType(strings.TrimSpace(raw))
	if !t.Valid() {
		return "", fmt.Errorf("unknown content type %q", raw)
	}
	return t, nil
}

// Tags returns the tags to purge when one item changes: the type tag, the
// item tag when slug is set, and TagAll for site settings. The result is
// sorted and free of duplicates.
func Tags(t ContentType, slug string) []string {
	tags := []string{string(t)}
	if slug = strings.TrimSpace(slug); slug != "" {
		tags = append(tags, string(t)+":"+slug)
	}
	if t == ContentSiteSettings {
		tags = append(tags, TagAll)
	}
	return normalize(tags)
}

// Header joins tags into a Cache-Tag value after normalising them.
func Header(tags ...string) string {
	return strings.Join(normalize(tags), ",")
}

// Policy is the shared-cache lifetime of a rendered page.
type Policy struct {
	SMaxAge              int
	StaleWhileRevalidate int
}

// CacheControl renders p as a Cache-Control value. Negative values are
// clamped to zero.
func CacheControl(p Policy) string {
	return fmt.Sprintf("public, s-maxage=%d, stale-while-revalidate=%d", max(p.SMaxAge, 0), max(p.StaleWhileRevalidate, 0))
}

func normalize(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}
