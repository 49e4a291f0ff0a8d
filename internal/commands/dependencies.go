package commands

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/diogo/gamechat/internal/api"
	"github.com/diogo/gamechat/internal/config"
	"github.com/diogo/gamechat/internal/logging"
	"github.com/diogo/gamechat/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(client api.ClientInterface, cfg config.Config, logger *zap.Logger) error
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(client api.ClientInterface, cfg config.Config, logger *zap.Logger) error {
	return tui.RunChat(client, cfg, logger)
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// NewClient builds the API client for a base URL. Tests swap in a mock.
	NewClient func(baseURL string, logger *zap.Logger) (api.ClientInterface, error)

	// NewLogger opens the session logger. The returned func flushes it.
	NewLogger func(cfg config.Config) (*zap.Logger, func(), error)

	// LoadConfig reads the config file and environment.
	LoadConfig func() (config.Config, error)

	TUI TUIInterface

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// IsTTY reports whether stdout is a terminal.
	IsTTY func() bool
	// HasStdin reports whether input is piped in.
	HasStdin func() bool
	// Clipboard copies text for copy_to_clipboard.
	Clipboard func(string) error
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		NewClient:  defaultClient,
		NewLogger:  defaultLogger,
		LoadConfig: loadConfig,
		TUI:        &DefaultTUI{},
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		IsTTY:      isStdoutTTY,
		HasStdin:   stdinIsPiped,
		Clipboard:  copyToClipboard,
	}
}

func defaultClient(baseURL string, logger *zap.Logger) (api.ClientInterface, error) {
	return api.NewClient(baseURL, api.WithLogger(logger))
}

func defaultLogger(cfg config.Config) (*zap.Logger, func(), error) {
	path, err := config.GetLogPath(cfg)
	if err != nil {
		return nil, nil, err
	}
	return logging.NewFile(path, cfg.Debug)
}

func loadConfig() (config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return config.DefaultConfig(), err
	}
	return config.Load()
}

// session is what a command needs to talk to the backend.
type session struct {
	cfg    config.Config
	client api.ClientInterface
	logger *zap.Logger
	close  func()
}

// openSession resolves config (file, env, then flags), opens the logger and
// builds the client.
func (d *Dependencies) openSession(flags *globalFlags) (*session, error) {
	cfg, err := d.LoadConfig()
	if err != nil {
		fmt.Fprintf(d.Stderr, "Warning: %v (using defaults)\n", err)
	}
	cfg = flags.apply(cfg)

	logger, closeLog, err := d.NewLogger(cfg)
	if err != nil {
		fmt.Fprintf(d.Stderr, "Warning: logging disabled: %v\n", err)
		logger, closeLog = zap.NewNop(), func() {}
	}

	client, err := d.NewClient(cfg.BaseURL(), logger)
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	logger.Debug("session opened",
		zap.String("base_url", cfg.BaseURL()),
		zap.Bool("use_tools", cfg.UseTools),
	)

	return &session{cfg: cfg, client: client, logger: logger, close: closeLog}, nil
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func stdinIsPiped() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}
