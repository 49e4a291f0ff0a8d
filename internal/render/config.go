package render

import (
	"os"
	"strings"

	"github.com/diogo/gamechat/internal/config"
)

// StyleAuto makes replies follow the markdown style paired with the TUI theme.
const StyleAuto = "auto"

// OptionsFromConfig builds render options from a loaded configuration.
// GLAMOUR_STYLE takes precedence over the configured style.
func OptionsFromConfig(cfg config.Config) Options {
	opts := DefaultOptions()

	md := cfg.Markdown
	switch {
	case strings.EqualFold(md.Style, StyleAuto):
		if theme, ok := GetTUIThemeByName(cfg.TUITheme); ok {
			opts.Style = theme.MarkdownStyle
		}
	case md.Style != "":
		opts.Style = md.Style
	}
	opts.EnableEmoji = md.EnableEmoji
	opts.PreserveNewLines = md.PreserveNewLines
	opts.TableWrap = md.TableWrap
	opts.InlineTableLinks = md.InlineTableLinks

	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		opts.Style = style
	}

	return opts
}

// LoadOptionsFromConfig loads render options from the user's config file.
// A missing or unreadable file means defaults.
func LoadOptionsFromConfig() Options {
	cfg, err := config.LoadConfig()
	if err != nil {
		cfg = config.DefaultConfig()
	}
	return OptionsFromConfig(cfg)
}

// LoadOptionsFromConfigWithWidth loads options from config with a specific width.
func LoadOptionsFromConfigWithWidth(width int) Options {
	opts := LoadOptionsFromConfig()
	opts.Width = width
	return opts
}
