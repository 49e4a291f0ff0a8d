package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/diogo/gamechat/internal/transcript"
)

// slashCommands lists the local commands. None of them reach the backend.
var slashCommands = []struct {
	name string
	help string
}{
	{"/help", "show this list"},
	{"/copy", "copy the last reply to the clipboard"},
	{"/export [path]", "save the conversation (.md or .json)"},
	{"/quit, /exit", "leave the chat"},
}

func copyToClipboard(text string) error {
	return clipboard.WriteAll(text)
}

// isSlashCommand reports whether input names a local command. Other text
// starting with "/" (a subreddit, a path) is an ordinary message.
func isSlashCommand(input string) bool {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return false
	}
	switch strings.ToLower(fields[0]) {
	case "/help", "/copy", "/export", "/quit", "/exit":
		return true
	}
	return false
}

func (m Model) runSlashCommand(input string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(input)
	name, args := strings.ToLower(fields[0]), fields[1:]
	m.err = nil
	m.notice = ""

	switch name {
	case "/quit", "/exit":
		return m, tea.Quit

	case "/help":
		var parts []string
		for _, c := range slashCommands {
			parts = append(parts, c.name+" "+c.help)
		}
		m.notice = strings.Join(parts, "  •  ")

	case "/copy":
		last, ok := m.flow.Conversation().LastAssistant()
		if !ok {
			m.notice = "Nothing to copy yet"
			break
		}
		if err := m.copyFn(last.Content); err != nil {
			m.err = fmt.Errorf("copy to clipboard: %w", err)
			break
		}
		m.notice = "Copied last reply to clipboard"

	case "/export":
		path := defaultExportPath(time.Now())
		if len(args) > 0 {
			path = strings.Join(args, " ")
		}
		t := transcript.New(m.flow.SessionID(), m.client.BaseURL(), m.flow.Conversation().Messages())
		if err := t.WriteFile(path); err != nil {
			m.err = err
			break
		}
		m.logger.Info("transcript exported", zap.String("path", path))
		m.notice = "Conversation saved to " + path
	}

	return m, nil
}

func defaultExportPath(now time.Time) string {
	return "gamechat-" + now.Format("20060102-150405") + ".md"
}
