package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadFromHome(t *testing.T) {
	home := t.TempDir()
	os.WriteFile(filepath.Join(home, FileName), []byte(`{"interval": 0.25, "align": false}`), 0644)

	res, err := Load(home, "")
	if err != nil {
		t.Fatal(err)
	}
	if res.Source != "found" {
		t.Errorf("Source = %q, want %q", res.Source, "found")
	}
	if res.Config.Interval == nil || *res.Config.Interval != 0.25 {
		t.Errorf("Interval = %v, want 0.25", res.Config.Interval)
	}
	if res.Config.Separator != nil {
		t.Error("absent key should stay nil")
	}
}

func TestLoadFlagMissing(t *testing.T) {
	_, err := Load(t.TempDir(), filepath.Join(t.TempDir(), "nope.json"))
	if err == nil || !strings.Contains(err.Error(), "config file not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestLoadSyntaxErrorPosition(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	os.WriteFile(path, []byte("{\n  \"interval\": 1,\n  oops\n}"), 0644)

	_, err := Load("", path)
	if err == nil {
		t.Fatal("expected syntax error")
	}
	if !strings.Contains(err.Error(), "line 3") {
		t.Errorf("error should carry the line: %v", err)
	}
}

func TestHome(t *testing.T) {
	t.Setenv("SYRUPY_HOME", "/tmp/test-syrupy")
	if got := Home(); got != "/tmp/test-syrupy" {
		t.Errorf("Home() = %q", got)
	}
}

func TestResolve(t *testing.T) {
	base := BuiltinDefaults("ps")
	got, err := Resolve(nil, base)
	if err != nil || got != base {
		t.Fatalf("nil config should keep defaults: %+v, %v", got, err)
	}

	iv, sep, src, lvl := 0.5, ",", "psutil", 2
	got, err = Resolve(&Config{Interval: &iv, Separator: &sep, Source: &src, DebugLevel: &lvl}, base)
	if err != nil {
		t.Fatal(err)
	}
	if got.Interval != 500*time.Millisecond {
		t.Errorf("Interval = %s", got.Interval)
	}
	if got.Separator != "," || got.Source != "psutil" || got.DebugLevel != 2 {
		t.Errorf("unexpected resolve: %+v", got)
	}
	if !got.Align || !got.Headers {
		t.Error("unset keys should keep defaults")
	}
}

func TestResolveValidation(t *testing.T) {
	zero, bad, lvl := 0.0, "top", 9
	for name, cfg := range map[string]*Config{
		"interval": {Interval: &zero},
		"source":   {Source: &bad},
		"level":    {DebugLevel: &lvl},
	} {
		if _, err := Resolve(cfg, BuiltinDefaults("ps")); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}
