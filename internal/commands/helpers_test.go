package commands

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/diogo/gamechat/internal/api"
	"github.com/diogo/gamechat/internal/config"
)

// testEnv bundles the injected dependencies with their captured output.
type testEnv struct {
	deps      *Dependencies
	client    *api.MockClient
	stdout    *bytes.Buffer
	stderr    *bytes.Buffer
	copied    []string
	baseURL   string
	tuiCalled bool
}

type fakeTUI struct {
	env *testEnv
	err error
}

func (f *fakeTUI) RunChat(client api.ClientInterface, cfg config.Config, logger *zap.Logger) error {
	f.env.tuiCalled = true
	return f.err
}

func newTestEnv(t *testing.T, client *api.MockClient) *testEnv {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv(config.EnvAPIURL, "")
	t.Setenv(config.EnvLegacyAPIURL, "")
	t.Setenv("GLAMOUR_STYLE", "notty")

	env := &testEnv{
		client: client,
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	}
	env.deps = &Dependencies{
		NewClient: func(baseURL string, logger *zap.Logger) (api.ClientInterface, error) {
			env.baseURL = baseURL
			return client, nil
		},
		NewLogger: func(cfg config.Config) (*zap.Logger, func(), error) {
			return zap.NewNop(), func() {}, nil
		},
		LoadConfig: func() (config.Config, error) {
			return config.DefaultConfig(), nil
		},
		Stdin:    strings.NewReader(""),
		Stdout:   env.stdout,
		Stderr:   env.stderr,
		IsTTY:    func() bool { return false },
		HasStdin: func() bool { return false },
		Clipboard: func(s string) error {
			env.copied = append(env.copied, s)
			return nil
		},
	}
	env.deps.TUI = &fakeTUI{env: env}
	return env
}

func (e *testEnv) run(args ...string) error {
	root := NewRootCmd(e.deps)
	root.SetArgs(args)
	return root.Execute()
}
