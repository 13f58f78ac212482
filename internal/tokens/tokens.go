// Package tokens holds the colour tokens for every palette in light and dark
// form, and renders them as CSS custom properties and terminal styles.
package tokens

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/conservancy/internal/domain/appearance"
)

// ColourSet represents a semantic colour slot with base, on-base, muted and
// contrast colours. Light and Dark on each colour are the two theme variants.
type ColourSet struct {
	Base     lipgloss.AdaptiveColor
	OnBase   lipgloss.AdaptiveColor
	Muted    lipgloss.AdaptiveColor
	Contrast lipgloss.AdaptiveColor
}

// Palette describes the semantic colour slots of one palette.
type Palette struct {
	Mode      appearance.PaletteMode
	Primary   ColourSet
	Secondary ColourSet
	Surface   ColourSet
	Neutral   ColourSet
}

// Slot names, in rendering order. They prefix the CSS custom properties.
const (
	SlotPrimary   = "primary"
	SlotSecondary = "secondary"
	SlotSurface   = "surface"
	SlotNeutral   = "neutral"
)

type slot struct {
	name string
	get  func(Palette) ColourSet
}

var slots = [...]slot{
	{name: SlotPrimary, get: func(p Palette) ColourSet { return p.Primary }},
	{name: SlotSecondary, get: func(p Palette) ColourSet { return p.Secondary }},
	{name: SlotSurface, get: func(p Palette) ColourSet { return p.Surface }},
	{name: SlotNeutral, get: func(p Palette) ColourSet { return p.Neutral }},
}

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	forestGreen = ColourSet{
		Base:     ac("#2f6b3a", "#7bc48a"),
		OnBase:   ac("#f4faf5", "#0d1f11"),
		Muted:    ac("#4d8a58", "#3a6b44"),
		Contrast: ac("#d9a441", "#e8c170"),
	}

	surface = ColourSet{
		Base:     ac("#fbfaf5", "#15170f"),
		OnBase:   ac("#1f2014", "#eceadf"),
		Muted:    ac("#ecebdf", "#24261a"),
		Contrast: ac("#5f6b2a", "#b5c26a"),
	}

	neutral = ColourSet{
		Base:     ac("#6b6b5c", "#a3a394"),
		OnBase:   ac("#f5f5f0", "#141410"),
		Muted:    ac("#d6d6cc", "#3b3b32"),
		Contrast: ac("#1f2014", "#f5f5f0"),
	}

	palettes = map[appearance.PaletteMode]Palette{
		appearance.PaletteOlive: {
			Mode: appearance.PaletteOlive,
			Primary: ColourSet{
				Base:     ac("#5f6b2a", "#b5c26a"),
				OnBase:   ac("#fafaf0", "#1b1d10"),
				Muted:    ac("#8a9450", "#4d5528"),
				Contrast: ac("#c2703d", "#e09a66"),
			},
			Secondary: ColourSet{
				Base:     ac("#8c7a4b", "#cdb98a"),
				OnBase:   ac("#fdfaf2", "#221d10"),
				Muted:    ac("#b3a27a", "#5c5034"),
				Contrast: ac("#3f5a2a", "#a9c98e"),
			},
			Surface: surface,
			Neutral: neutral,
		},
		appearance.PaletteGreen: {
			Mode:    appearance.PaletteGreen,
			Primary: forestGreen,
			Secondary: ColourSet{
				Base:     ac("#5b8c5a", "#9cc99b"),
				OnBase:   ac("#f4faf4", "#102010"),
				Muted:    ac("#86ad85", "#3f5e3e"),
				Contrast: ac("#2f6b3a", "#7bc48a"),
			},
			Surface: surface,
			Neutral: neutral,
		},
		appearance.PaletteGreenTerra: {
			Mode:    appearance.PaletteGreenTerra,
			Primary: forestGreen,
			Secondary: ColourSet{
				Base:     ac("#b5562f", "#e08a63"),
				OnBase:   ac("#fff6f1", "#2a1208"),
				Muted:    ac("#cf8463", "#6e3a24"),
				Contrast: ac("#2f6b3a", "#7bc48a"),
			},
			Surface: surface,
			Neutral: neutral,
		},
		appearance.PaletteGreenNavy: {
			Mode:    appearance.PaletteGreenNavy,
			Primary: forestGreen,
			Secondary: ColourSet{
				Base:     ac("#1f3a5f", "#7d9cc9"),
				OnBase:   ac("#f2f6fb", "#0b1626"),
				Muted:    ac("#4b6688", "#33496a"),
				Contrast: ac("#d9a441", "#e8c170"),
			},
			Surface: surface,
			Neutral: neutral,
		},
	}
)

// For returns the tokens for palette p. Unknown palettes get the default.
func For(p appearance.PaletteMode) Palette {
	return palettes[appearance.ValidatePalette(string(p))]
}

// Role is one concrete colour for an already resolved theme.
type Role struct {
	Name   string
	Colour string
}

// Swatch is the set of concrete colours for one appearance state.
type Swatch struct {
	Theme   appearance.ResolvedTheme
	Palette appearance.PaletteMode
	Roles   []Role
}

// ForState picks the light or dark variant of every token for state.
func ForState(state appearance.State) Swatch {
	state = appearance.NewState(state.Theme, state.ResolvedTheme, state.Palette)
	return Swatch{
		Theme:   state.ResolvedTheme,
		Palette: state.Palette,
		Roles:   For(state.Palette).Roles(state.IsDark()),
	}
}

// Colour looks a role up by name.
func (s Swatch) Colour(name string) (string, bool) {
	for _, role := range s.Roles {
		if role.Name == name {
			return role.Colour, true
		}
	}
	return "", false
}

// Roles flattens the palette into named concrete colours, four per slot.
func (p Palette) Roles(dark bool) []Role {
	pick := func(c lipgloss.AdaptiveColor) string {
		if dark {
			return c.Dark
		}
		return c.Light
	}

	roles := make([]Role, 0, len(slots)*4)
	for _, s := range slots {
		set := s.get(p)
		roles = append(roles,
			Role{Name: s.name, Colour: pick(set.Base)},
			Role{Name: "on-" + s.name, Colour: pick(set.OnBase)},
			Role{Name: s.name + "-muted", Colour: pick(set.Muted)},
			Role{Name: s.name + "-contrast", Colour: pick(set.Contrast)},
		)
	}
	return roles
}
