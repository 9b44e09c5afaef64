package configsvc

// Theme is a named overlay color scheme.
type Theme struct {
	Name   string `json:"name"`
	Label  string `json:"label"`
	Accent string `json:"accent"`
}

var themes = []Theme{
	{Name: "twilight", Label: "Twilight", Accent: "#9146FF"},
	{Name: "sunrise", Label: "Sunrise", Accent: "#F97316"},
	{Name: "forest", Label: "Forest", Accent: "#10B981"},
	{Name: "oceanic", Label: "Oceanic", Accent: "#0EA5E9"},
	{Name: "cyberpunk", Label: "Cyberpunk", Accent: "#EC4899"},
	{Name: "pastel", Label: "Pastel", Accent: "#A78BFA"},
	{Name: "arctic", Label: "Arctic", Accent: "#06B6D4"},
}

// Themes lists the built-in themes.
func Themes() []Theme {
	out := make([]Theme, len(themes))
	copy(out, themes)
	return out
}

// ThemeByName looks up a theme. Unknown names fall back to twilight.
func ThemeByName(name string) (Theme, bool) {
	for _, theme := range themes {
		if theme.Name == name {
			return theme, true
		}
	}
	return themes[0], false
}
