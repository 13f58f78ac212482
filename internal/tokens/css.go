package tokens

import (
	"fmt"
	"strings"

	"github.com/alexisbeaulieu97/conservancy/internal/domain/appearance"
)

// Stylesheet renders every palette as CSS custom properties keyed on the
// document root's dark class and data-palette attribute. The default palette
// is the bare :root rule, matching the absent attribute.
func Stylesheet() string {
	var b strings.Builder
	for _, mode := range appearance.Palettes() {
		p := For(mode)
		selector := ":root"
		if !mode.IsDefault() {
			selector = fmt.Sprintf(":root[data-palette=%q]", string(mode))
		}
		darkSelector := ":root.dark"
		if !mode.IsDefault() {
			darkSelector = fmt.Sprintf(":root.dark[data-palette=%q]", string(mode))
		}
		writeRule(&b, selector, "light", p.Roles(false))
		writeRule(&b, darkSelector, "dark", p.Roles(true))
	}
	return b.String()
}

func writeRule(b *strings.Builder, selector, scheme string, roles []Role) {
	b.WriteString(selector)
	b.WriteString(" {\n")
	fmt.Fprintf(b, "  color-scheme: %s;\n", scheme)
	for _, role := range roles {
		fmt.Fprintf(b, "  --%s: %s;\n", role.Name, role.Colour)
	}
	b.WriteString("}\n")
}
