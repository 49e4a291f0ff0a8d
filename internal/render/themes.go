package render

import (
	"strings"

	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
)

// Markdown style names accepted in config and GLAMOUR_STYLE.
const (
	ThemeDark       = styles.DarkStyle
	ThemeLight      = styles.LightStyle
	ThemeTokyoNight = "tokyonight"
	ThemeCatppuccin = "catppuccin"
	ThemeDracula    = styles.DraculaStyle
	ThemePink       = styles.PinkStyle
	ThemeNoTTY      = styles.NoTTYStyle
	ThemeASCII      = styles.AsciiStyle
)

var styleAliases = map[string]string{
	ThemeTokyoNight: styles.TokyoNightStyle,
	"tokyo_night":   styles.TokyoNightStyle,
	"plain":         styles.NoTTYStyle,
}

// normalizeStyle lowercases built-in names and resolves aliases. Anything
// else (a JSON path) is returned untouched.
func normalizeStyle(style string) string {
	lower := strings.ToLower(strings.TrimSpace(style))
	if alias, ok := styleAliases[lower]; ok {
		return alias
	}
	if _, ok := styles.DefaultStyles[lower]; ok || lower == ThemeCatppuccin {
		return lower
	}
	return style
}

// GetBuiltinTheme returns the style config for a built-in style name.
// Returns false for unknown names and file paths.
func GetBuiltinTheme(name string) (ansi.StyleConfig, bool) {
	name = normalizeStyle(name)
	if name == ThemeCatppuccin {
		return catppuccinStyle(), true
	}
	cfg, ok := styles.DefaultStyles[name]
	if !ok || cfg == nil {
		return ansi.StyleConfig{}, false
	}
	if name == ThemeASCII || name == ThemeNoTTY {
		return *cfg, true
	}
	return withSeparators(*cfg), true
}

// IsBuiltinStyle returns true if the style names a built-in theme rather
// than a JSON file.
func IsBuiltinStyle(style string) bool {
	_, ok := GetBuiltinTheme(style)
	return ok
}

// withSeparators frames fenced code blocks with rules so long game lists
// and code stay readable inside the chat viewport.
func withSeparators(cfg ansi.StyleConfig) ansi.StyleConfig {
	if cfg.CodeBlock.Margin == nil {
		return cfg
	}
	cfg.CodeBlock.BlockPrefix = "───\n"
	cfg.CodeBlock.BlockSuffix = "───\n"
	return cfg
}

// catppuccinStyle is the dark style recolored with the Catppuccin Mocha
// palette used by the matching TUI theme.
func catppuccinStyle() ansi.StyleConfig {
	cfg := withSeparators(styles.DarkStyleConfig)
	cfg.Document.Color = stringPtr("#cdd6f4")
	cfg.Heading.Color = stringPtr("#89b4fa")
	cfg.H1.Color = stringPtr("#1e1e2e")
	cfg.H1.BackgroundColor = stringPtr("#cba6f7")
	cfg.Link.Color = stringPtr("#89dceb")
	cfg.LinkText.Color = stringPtr("#a6e3a1")
	cfg.Strong.Color = stringPtr("#f9e2af")
	cfg.Code.Color = stringPtr("#f38ba8")
	cfg.Item.Color = stringPtr("#cdd6f4")
	cfg.Enumeration.Color = stringPtr("#fab387")
	cfg.HorizontalRule.Color = stringPtr("#45475a")
	return cfg
}

func stringPtr(s string) *string { return &s }

// ThemeInfo contains information about a theme for display purposes.
type ThemeInfo struct {
	Name        string
	Description string
}

// AvailableThemes returns the built-in markdown styles.
func AvailableThemes() []ThemeInfo {
	return []ThemeInfo{
		{Name: ThemeDark, Description: "Dark theme (default)"},
		{Name: ThemeTokyoNight, Description: "Tokyo Night color scheme"},
		{Name: ThemeCatppuccin, Description: "Catppuccin Mocha color scheme"},
		{Name: ThemeLight, Description: "Light theme for bright terminals"},
		{Name: ThemeDracula, Description: "Dracula color scheme"},
		{Name: ThemePink, Description: "Pink accents"},
		{Name: ThemeNoTTY, Description: "Plain text (no styling)"},
		{Name: ThemeASCII, Description: "ASCII-only output"},
	}
}

// ThemeNames returns just the theme names for selection.
func ThemeNames() []string {
	themes := AvailableThemes()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
