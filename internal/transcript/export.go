// Package transcript renders an in-memory conversation for export.
package transcript

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/diogo/gamechat/internal/models"
)

// Format represents the output format of a transcript
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// Transcript is a snapshot of one session's conversation.
type Transcript struct {
	Title      string
	SessionID  string
	BaseURL    string
	ExportedAt time.Time
	Messages   []models.Message
}

// New snapshots msgs. The slice is copied.
func New(sessionID, baseURL string, msgs []models.Message) *Transcript {
	copied := make([]models.Message, len(msgs))
	copy(copied, msgs)
	return &Transcript{
		Title:      "Game Assistant conversation",
		SessionID:  sessionID,
		BaseURL:    baseURL,
		ExportedAt: time.Now(),
		Messages:   copied,
	}
}

// FormatForPath picks the format from the file extension.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatMarkdown
}

// Markdown renders the transcript as a Markdown document.
func (t *Transcript) Markdown() string {
	var sb strings.Builder

	sb.WriteString("# ")
	sb.WriteString(t.Title)
	sb.WriteString("\n\n")

	if t.SessionID != "" {
		sb.WriteString("**Session:** ")
		sb.WriteString(t.SessionID)
		sb.WriteString("\n")
	}
	if t.BaseURL != "" {
		sb.WriteString("**Backend:** ")
		sb.WriteString(t.BaseURL)
		sb.WriteString("\n")
	}
	sb.WriteString("**Exported:** ")
	sb.WriteString(t.ExportedAt.Format("2006-01-02 15:04:05"))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("**Messages:** %d", len(t.Messages)))
	sb.WriteString("\n\n---\n\n")

	for i, msg := range t.Messages {
		role := "User"
		if msg.Role == models.RoleAssistant {
			role = "Assistant"
		}

		sb.WriteString("## ")
		sb.WriteString(role)
		sb.WriteString("\n\n")
		sb.WriteString(msg.Content)
		sb.WriteString("\n")

		if i < len(t.Messages)-1 {
			sb.WriteString("\n---\n\n")
		}
	}

	return sb.String()
}

type jsonTranscript struct {
	Title      string           `json:"title"`
	SessionID  string           `json:"session_id,omitempty"`
	BaseURL    string           `json:"base_url,omitempty"`
	ExportedAt time.Time        `json:"exported_at"`
	Messages   []models.Message `json:"messages"`
}

// JSON renders the transcript as indented JSON.
func (t *Transcript) JSON() ([]byte, error) {
	msgs := t.Messages
	if msgs == nil {
		msgs = []models.Message{}
	}
	return json.MarshalIndent(jsonTranscript{
		Title:      t.Title,
		SessionID:  t.SessionID,
		BaseURL:    t.BaseURL,
		ExportedAt: t.ExportedAt,
		Messages:   msgs,
	}, "", "  ")
}

// Render returns the transcript in the given format.
func (t *Transcript) Render(format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return t.JSON()
	case FormatMarkdown, "":
		return []byte(t.Markdown()), nil
	default:
		return nil, fmt.Errorf("unknown transcript format %q", format)
	}
}

// WriteFile writes the transcript to path, choosing the format from its
// extension. Parent directories are created as needed.
func (t *Transcript) WriteFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("export path is empty")
	}

	data, err := t.Render(FormatForPath(path))
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write transcript: %w", err)
	}
	return nil
}
