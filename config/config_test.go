package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	tomlContent := `
[session]
echo = false
prompt = "tilde> "
continuation-prompt = "...> "
startup = ["init.tl", "/abs/prelude.tl"]

[log]
verbosity = 2
file = "tilde.log"

[random]
seed = 42
`
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(tomlContent), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if c.Echo() {
		t.Error("echo = true, want false")
	}
	if c.Session.Prompt != "tilde> " {
		t.Errorf("prompt = %q, want %q", c.Session.Prompt, "tilde> ")
	}
	if c.Session.ContinuationPrompt != "...> " {
		t.Errorf("continuation prompt = %q, want %q", c.Session.ContinuationPrompt, "...> ")
	}
	if c.Log.Verbosity != 2 {
		t.Errorf("log verbosity = %d, want 2", c.Log.Verbosity)
	}
	if seed, ok := c.Seed(); !ok || seed != 42 {
		t.Errorf("seed = %d, %v; want 42, true", seed, ok)
	}

	paths := c.StartupPaths()
	if len(paths) != 2 {
		t.Fatalf("expected 2 startup paths, got %d", len(paths))
	}
	if paths[0] != filepath.Join(c.Dir, "init.tl") {
		t.Errorf("paths[0] = %q, want %q", paths[0], filepath.Join(c.Dir, "init.tl"))
	}
	if paths[1] != "/abs/prelude.tl" {
		t.Errorf("paths[1] = %q, want /abs/prelude.tl", paths[1])
	}

	logFile := c.LogFile()
	if logFile == nil || *logFile != filepath.Join(c.Dir, "tilde.log") {
		t.Errorf("log file = %v, want %s", logFile, filepath.Join(c.Dir, "tilde.log"))
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("[log]\nverbosity = 1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !c.Echo() {
		t.Error("default echo = false, want true")
	}
	if c.Session.Prompt != DefaultPrompt {
		t.Errorf("default prompt = %q, want %q", c.Session.Prompt, DefaultPrompt)
	}
	if c.Session.ContinuationPrompt != DefaultContinuationPrompt {
		t.Errorf("default continuation prompt = %q, want %q", c.Session.ContinuationPrompt, DefaultContinuationPrompt)
	}
	if _, ok := c.Seed(); ok {
		t.Error("seed set without [random] section")
	}
	if c.LogFile() != nil {
		t.Errorf("log file = %v, want nil", *c.LogFile())
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("[session]\nechoo = true\n"))
	if err == nil {
		t.Fatal("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "echoo") {
		t.Errorf("error %q does not name the key", err)
	}
}

func TestParseValidatesValues(t *testing.T) {
	tests := []struct {
		input string
		key   string
	}{
		{"[log]\nverbosity = 9\n", "verbosity"},
		{"[log]\nverbosity = -1\n", "verbosity"},
		{"[session]\nprompt = \"\"\n", "prompt"},
	}
	for _, tc := range tests {
		_, err := Parse([]byte(tc.input))
		if err == nil {
			t.Errorf("Parse(%q): expected error", tc.input)
			continue
		}
		if !strings.Contains(err.Error(), tc.key) {
			t.Errorf("Parse(%q) error %q does not name %s", tc.input, err, tc.key)
		}
	}

	if _, err := Parse(nil); err != nil {
		t.Errorf("Parse(empty): %v", err)
	}
}

func TestParseSyntaxError(t *testing.T) {
	if _, err := Parse([]byte("[session\n")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestFindAndLoad(t *testing.T) {
	dir := t.TempDir()
	subDir := filepath.Join(dir, "a", "b", "c")
	if err := os.MkdirAll(subDir, 0755); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("[session]\nprompt = \"found> \"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := FindAndLoad(subDir)
	if err != nil {
		t.Fatalf("FindAndLoad failed: %v", err)
	}
	if c == nil {
		t.Fatal("FindAndLoad returned nil")
	}
	if c.Session.Prompt != "found> " {
		t.Errorf("prompt = %q, want found> ", c.Session.Prompt)
	}
}

func TestFindAndLoadNotFound(t *testing.T) {
	dir := t.TempDir()
	c, err := FindAndLoad(dir)
	if err != nil {
		t.Fatalf("FindAndLoad error: %v", err)
	}
	if c != nil {
		t.Error("expected nil config when no tilde.toml exists")
	}
}

func TestDefault(t *testing.T) {
	c := Default()
	if !c.Echo() || c.Session.Prompt != DefaultPrompt || c.Dir != "" {
		t.Errorf("Default() = %+v", c)
	}
}
