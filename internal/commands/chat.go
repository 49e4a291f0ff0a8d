package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/diogo/gamechat/internal/render"
	"github.com/diogo/gamechat/internal/tui"
)

// NewChatCmd creates the interactive chat command.
func NewChatCmd(deps *Dependencies, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session with the game assistant.

The conversation lives in memory for the length of the session and every
message is sent with the full history. Type /help for the slash commands,
press Ctrl+C (or Esc when idle) to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := deps.openSession(flags)
			if err != nil {
				return err
			}
			defer sess.close()

			if sess.cfg.TUITheme != "" && !render.SetTUITheme(sess.cfg.TUITheme) {
				sess.logger.Warn("unknown tui theme", zap.String("theme", sess.cfg.TUITheme))
				fmt.Fprintf(deps.Stderr, "Warning: unknown tui_theme %q, using default\n", sess.cfg.TUITheme)
			}
			tui.UpdateTheme()

			return deps.TUI.RunChat(sess.client, sess.cfg, sess.logger)
		},
	}
}
