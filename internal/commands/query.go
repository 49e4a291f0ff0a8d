package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/diogo/gamechat/internal/chat"
	"github.com/diogo/gamechat/internal/config"
	apierrors "github.com/diogo/gamechat/internal/errors"
	"github.com/diogo/gamechat/internal/render"
)

// Gradient colors for animation
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#ff6b6b"),
	lipgloss.Color("#feca57"),
	lipgloss.Color("#48dbfb"),
	lipgloss.Color("#ff9ff3"),
	lipgloss.Color("#54a0ff"),
	lipgloss.Color("#5f27cd"),
	lipgloss.Color("#00d2d3"),
	lipgloss.Color("#1dd1a1"),
}

var (
	colorText     = lipgloss.Color("#c0caf5")
	colorTextDim  = lipgloss.Color("#565f89")
	colorTextMute = lipgloss.Color("#3b4261")
	colorSuccess  = lipgloss.Color("#9ece6a")
	colorPrimary  = lipgloss.Color("#7aa2f7")
	colorError    = lipgloss.Color("#f7768e")
)

// Styles matching the chat TUI
var (
	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	assistantBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Foreground(colorText).
				Padding(0, 1).
				MarginTop(1).
				MarginBottom(1)
)

// spinner handles the animated loading indicator
type spinner struct {
	out     io.Writer
	message string
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool
}

// newSpinner creates a new animated spinner drawing to out
func newSpinner(out io.Writer, message string) *spinner {
	return &spinner{
		out:     out,
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// start begins the animation
func (s *spinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		// Hide cursor
		fmt.Fprint(s.out, "\033[?25l")

		for {
			select {
			case <-s.stop:
				// Clear line and show cursor
				fmt.Fprint(s.out, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

// render draws the current animation frame
func (s *spinner) render() {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	barChars := []string{"█", "█", "█", "█", "█", "█", "▓", "▒", "░"}

	spinColor := gradientColors[s.frame%len(gradientColors)]
	spinnerChar := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[s.frame%len(chars)])

	barWidth := 16
	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		colorIdx := (i + s.frame) % len(gradientColors)
		charIdx := (i + s.frame/2) % len(barChars)
		bar.WriteString(lipgloss.NewStyle().Foreground(gradientColors[colorIdx]).Render(barChars[charIdx]))
	}

	var dots strings.Builder
	numDots := (s.frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dotColor := gradientColors[(s.frame+i)%len(gradientColors)]
			dots.WriteString(lipgloss.NewStyle().Foreground(dotColor).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(colorTextMute).Render("○"))
		}
	}

	msg := lipgloss.NewStyle().Foreground(colorText).Render(s.message)

	fmt.Fprintf(s.out, "\r\033[K%s %s %s %s", spinnerChar, bar.String(), msg, dots.String())
}

// stopOnce safely closes the stop channel only once
func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
}

// stopWithSuccess stops the spinner and shows success message
func (s *spinner) stopWithSuccess(message string) {
	s.stopOnce()
	<-s.done

	checkmark := lipgloss.NewStyle().Foreground(colorSuccess).Bold(true).Render("✓")
	msg := lipgloss.NewStyle().Foreground(colorSuccess).Render(message)
	fmt.Fprintf(s.out, "%s %s\n", checkmark, msg)
}

// stopWithError stops the spinner without a message
func (s *spinner) stopWithError() {
	s.stopOnce()
	<-s.done
}

// runQuery sends one message with an empty history and prints the reply.
// When stdout is not a terminal only the raw reply text is written.
func runQuery(ctx context.Context, deps *Dependencies, sess *session, prompt, outputPath string) error {
	rawOutput := !deps.IsTTY()

	flow := chat.NewFlow(sess.client, chat.NewConversation(),
		chat.WithLogger(sess.logger),
		chat.WithTools(sess.cfg.UseTools),
	)

	sub, ok := flow.Begin(prompt)
	if !ok {
		return apierrors.ErrEmptyPrompt
	}

	var spin *spinner
	if !rawOutput {
		spin = newSpinner(deps.Stderr, "Asking the game assistant")
		spin.start()
	}

	result := flow.Send(ctx, sub)
	reply := flow.Settle(result)

	var failure error
	if flow.LastOutcome() == chat.OutcomeError {
		failure = result.Err
		if failure == nil {
			failure = fmt.Errorf("%w: backend returned no reply", apierrors.ErrInvalidResponse)
		}
	}

	if failure != nil {
		if !rawOutput {
			spin.stopWithError()
		}
		fmt.Fprintln(deps.Stderr, formatErrorMessage(failure, "Request failed"))
	} else if !rawOutput {
		spin.stopWithSuccess(fmt.Sprintf("Done in %s", result.Elapsed.Round(time.Millisecond)))
	}

	text := reply.Content

	if outputPath != "" {
		if err := os.WriteFile(outputPath, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if !rawOutput {
			fmt.Fprintln(deps.Stderr, lipgloss.NewStyle().Foreground(colorSuccess).Render(
				fmt.Sprintf("✓ Response saved to %s", outputPath),
			))
		}
	} else if rawOutput {
		fmt.Fprint(deps.Stdout, text)
	} else {
		printReply(deps.Stdout, sess, text)
	}

	if sess.cfg.CopyToClipboard && failure == nil && !rawOutput {
		if err := deps.Clipboard(text); err != nil {
			fmt.Fprintln(deps.Stderr, lipgloss.NewStyle().Foreground(colorError).Render(
				fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err),
			))
		} else {
			fmt.Fprintln(deps.Stderr, lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Copied to clipboard"))
		}
	}

	if failure != nil {
		return reportedError{failure}
	}
	return nil
}

// printReply renders text as markdown inside the assistant bubble.
func printReply(w io.Writer, sess *session, text string) {
	bubbleWidth := clampWidth(getTerminalWidth() - 4)
	contentWidth := bubbleWidth - 4

	opts := render.OptionsFromConfig(sess.cfg).WithWidth(contentWidth)
	rendered, err := render.Reply(text, opts)
	if err != nil {
		sess.logger.Debug("markdown render failed", zap.Error(err))
	}

	fmt.Fprintln(w, assistantLabelStyle.Render("✦ Assistant"))
	fmt.Fprintln(w, assistantBubbleStyle.Width(bubbleWidth).Render(rendered))
}

func clampWidth(w int) int {
	if w < 40 {
		return 40
	}
	if w > 120 {
		return 120
	}
	return w
}

func copyToClipboard(text string) error {
	return clipboard.WriteAll(text)
}

// formatErrorMessage formats an error with additional context from structured errors
func formatErrorMessage(err error, context string) string {
	if err == nil {
		return ""
	}

	errorStyle := lipgloss.NewStyle().Foreground(colorError)
	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim)

	var sb strings.Builder
	sb.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s: %v", context, err)))

	if status := apierrors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}

	if endpoint := apierrors.GetEndpoint(err); endpoint != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Endpoint: %s", endpoint)))
	}

	if body := apierrors.GetResponseBody(err); body != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n\n  %s", strings.ReplaceAll(body, "\n", "\n  "))))
	} else {
		switch {
		case apierrors.IsNotFound(err):
			sb.WriteString(dimStyle.Render("\n  Hint: Check the app_id with 'gamechat games search <name>'"))
		case apierrors.IsNetworkError(err):
			sb.WriteString(dimStyle.Render("\n  Hint: Is the backend running? Check --api-url or " + config.EnvAPIURL))
		case apierrors.IsParseError(err):
			sb.WriteString(dimStyle.Render("\n  Hint: The backend replied with an unexpected payload"))
		}
	}

	return sb.String()
}
