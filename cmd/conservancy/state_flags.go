package main

import (
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/conservancy/internal/cookie"
)

// bindCookieFlags registers raw cookie value flags. Values are decoded the
// same way the server decodes request cookies, so garbage is allowed and
// falls back to defaults.
func bindCookieFlags(cmd *cobra.Command, v *cookie.Values) {
	cmd.Flags().StringVar(&v.Theme, "theme", "", "Value of the "+cookie.ThemeName+" cookie")
	cmd.Flags().StringVar(&v.ResolvedTheme, "resolved-theme", "", "Value of the "+cookie.ResolvedThemeName+" cookie")
	cmd.Flags().StringVar(&v.Palette, "palette", "", "Value of the "+cookie.PaletteName+" cookie")
}
