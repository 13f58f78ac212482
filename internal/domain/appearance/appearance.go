// Package appearance defines the theme and colour-palette state shared by the
// server render, the inline bootstrap script and the client runtime.
//
// Everything here is pure. Validators are total: any input maps to a member of
// the corresponding enumeration and nothing panics.
package appearance

// ThemeMode is the user's requested theme.
type ThemeMode string

const (
	ThemeLight  ThemeMode = "light"
	ThemeDark   ThemeMode = "dark"
	ThemeSystem ThemeMode = "system"
)

// ResolvedTheme is the theme actually applied to the document.
type ResolvedTheme string

const (
	ResolvedLight ResolvedTheme = "light"
	ResolvedDark  ResolvedTheme = "dark"
)

// PaletteMode identifies one of the fixed colour combinations.
type PaletteMode string

const (
	PaletteOlive      PaletteMode = "olive"
	PaletteGreen      PaletteMode = "green"
	PaletteGreenTerra PaletteMode = "green-terra"
	PaletteGreenNavy  PaletteMode = "green-navy"
)

// Defaults applied field by field whenever an input is missing or invalid.
const (
	DefaultTheme         = ThemeSystem
	DefaultResolvedTheme = ResolvedLight
	DefaultPalette       = PaletteOlive
)

var (
	themes   = [...]ThemeMode{ThemeLight, ThemeDark, ThemeSystem}
	palettes = [...]PaletteMode{PaletteOlive, PaletteGreen, PaletteGreenTerra, PaletteGreenNavy}
)

// State is the composite appearance value.
//
// ResolvedTheme is never "system", and equals Theme whenever Theme is explicit.
// Use NewState or DefaultState to build values that hold this invariant.
type State struct {
	Theme         ThemeMode     `json:"theme" yaml:"theme"`
	ResolvedTheme ResolvedTheme `json:"resolvedTheme" yaml:"resolved_theme"`
	Palette       PaletteMode   `json:"palette" yaml:"palette"`
}

// DefaultState returns {system, light, olive}.
func DefaultState() State {
	return State{
		Theme:         DefaultTheme,
		ResolvedTheme: DefaultResolvedTheme,
		Palette:       DefaultPalette,
	}
}

// NewState validates each field and enforces the resolved-theme invariant.
// The resolved argument only matters when theme is system.
func NewState(theme ThemeMode, resolved ResolvedTheme, palette PaletteMode) State {
	mode := ValidateTheme(string(theme))
	state := State{
		Theme:         mode,
		ResolvedTheme: DefaultResolvedTheme,
		Palette:       ValidatePalette(string(palette)),
	}
	if mode != ThemeSystem {
		state.ResolvedTheme = ResolvedTheme(mode)
		return state
	}
	if r, ok := ValidateResolvedTheme(string(resolved)); ok {
		state.ResolvedTheme = r
	}
	return state
}

// Valid reports whether every field is a member of its enumeration and the
// resolved-theme invariant holds.
func (s State) Valid() bool {
	if !s.Theme.Valid() || !s.Palette.Valid() || !s.ResolvedTheme.Valid() {
		return false
	}
	return s.Theme == ThemeSystem || string(s.Theme) == string(s.ResolvedTheme)
}

// IsDark reports whether the resolved theme is dark.
func (s State) IsDark() bool {
	return s.ResolvedTheme == ResolvedDark
}

// ValidateTheme returns raw when it is exactly one of the theme literals, and
// DefaultTheme otherwise.
func ValidateTheme(raw string) ThemeMode {
	for _, t := range themes {
		if raw == string(t) {
			return t
		}
	}
	return DefaultTheme
}

// ValidatePalette returns raw when it is exactly one of the palette literals,
// and DefaultPalette otherwise.
func ValidatePalette(raw string) PaletteMode {
	for _, p := range palettes {
		if raw == string(p) {
			return p
		}
	}
	return DefaultPalette
}

// ValidateResolvedTheme reports whether raw is exactly light or dark. It has
// no default: the right fallback depends on the caller.
func ValidateResolvedTheme(raw string) (ResolvedTheme, bool) {
	switch ResolvedTheme(raw) {
	case ResolvedLight, ResolvedDark:
		return ResolvedTheme(raw), true
	default:
		return "", false
	}
}

// Resolve maps a theme mode to the theme to apply. System mode follows
// prefersDark; explicit modes map to themselves. Invalid modes are treated as
// system.
func Resolve(mode ThemeMode, prefersDark bool) ResolvedTheme {
	switch ValidateTheme(string(mode)) {
	case ThemeDark:
		return ResolvedDark
	case ThemeLight:
		return ResolvedLight
	default:
		if prefersDark {
			return ResolvedDark
		}
		return ResolvedLight
	}
}

// Themes lists the theme modes in toggle order.
func Themes() []ThemeMode {
	out := make([]ThemeMode, len(themes))
	copy(out, themes[:])
	return out
}

// Palettes lists the palettes in display order, default first.
func Palettes() []PaletteMode {
	out := make([]PaletteMode, len(palettes))
	copy(out, palettes[:])
	return out
}

// Valid reports membership in the theme enumeration.
func (t ThemeMode) Valid() bool {
	return ValidateTheme(string(t)) == t
}

// Next returns the following theme in toggle order, wrapping around.
func (t ThemeMode) Next() ThemeMode {
	for i, candidate := range themes {
		if candidate == t {
			return themes[(i+1)%len(themes)]
		}
	}
	return DefaultTheme
}

func (t ThemeMode) String() string { return string(t) }

// Valid reports membership in the resolved-theme enumeration.
func (r ResolvedTheme) Valid() bool {
	_, ok := ValidateResolvedTheme(string(r))
	return ok
}

func (r ResolvedTheme) String() string { return string(r) }

// Valid reports membership in the palette enumeration.
func (p PaletteMode) Valid() bool {
	return ValidatePalette(string(p)) == p
}

// IsDefault reports whether p is the default palette, which is represented on
// the document by the absence of the palette attribute.
func (p PaletteMode) IsDefault() bool {
	return p == DefaultPalette
}

// Next returns the following palette in display order, wrapping around.
func (p PaletteMode) Next() PaletteMode {
	for i, candidate := range palettes {
		if candidate == p {
			return palettes[(i+1)%len(palettes)]
		}
	}
	return DefaultPalette
}

func (p PaletteMode) String() string { return string(p) }
