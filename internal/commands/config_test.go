package commands

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/diogo/gamechat/internal/api"
	"github.com/diogo/gamechat/internal/config"
)

func TestConfigSetAndShow(t *testing.T) {
	env := newTestEnv(t, &api.MockClient{})
	env.deps.LoadConfig = config.Load

	if err := env.run("config", "set", "api_url", "http://steam-helper:8000"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := env.run("config", "set", "use_tools", "false"); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.APIURL != "http://steam-helper:8000" || cfg.UseTools {
		t.Errorf("config not saved: %+v", cfg)
	}

	env.stdout.Reset()
	if err := env.run("config", "show"); err != nil {
		t.Fatalf("show failed: %v", err)
	}
	out := env.stdout.String()
	if got := gjson.Get(out, "api_url").String(); got != "http://steam-helper:8000" {
		t.Errorf("unexpected api_url %q in %q", got, out)
	}
	if gjson.Get(out, "use_tools").Bool() {
		t.Errorf("expected use_tools false in %q", out)
	}
}

func TestConfigSet_Invalid(t *testing.T) {
	env := newTestEnv(t, &api.MockClient{})

	if err := env.run("config", "set", "nope", "1"); err == nil || !strings.Contains(err.Error(), "unknown config key") {
		t.Errorf("expected unknown key error, got %v", err)
	}
	if err := env.run("config", "set", "debug", "maybe"); err == nil {
		t.Error("expected invalid boolean error")
	}
	if err := env.run("config", "set", "api_url"); err == nil {
		t.Error("expected arg count error")
	}
}

func TestConfigPath(t *testing.T) {
	env := newTestEnv(t, &api.MockClient{})

	if err := env.run("config", "path"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want, _ := config.GetConfigPath()
	if strings.TrimSpace(env.stdout.String()) != want {
		t.Errorf("expected %q, got %q", want, env.stdout.String())
	}
	if filepath.Base(want) != "config.json" {
		t.Errorf("unexpected config file name %q", want)
	}
}
