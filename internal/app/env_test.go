package app

import (
    "os"
    "path/filepath"
    "testing"
    "time"
)

// LoadEnvFiles reads KEY=VALUE pairs and populates the environment.
func TestLoadEnvFiles_LoadsKeyValues(t *testing.T) {
    t.Setenv("FOO", "")
    os.Unsetenv("FOO")
    t.Setenv("BAR", "")
    os.Unsetenv("BAR")

    dir := t.TempDir()
    envPath := filepath.Join(dir, ".env.test")
    content := "\n# sample dotenv file\nFOO=alpha\nexport BAR=\"beta\"\nnot a pair\n"
    if err := os.WriteFile(envPath, []byte(content), 0o600); err != nil {
        t.Fatalf("write dotenv: %v", err)
    }

    if err := LoadEnvFiles(envPath, filepath.Join(dir, "missing")); err != nil {
        t.Fatalf("LoadEnvFiles error: %v", err)
    }

    if got := os.Getenv("FOO"); got != "alpha" {
        t.Fatalf("FOO=%q, want alpha", got)
    }
    if got := os.Getenv("BAR"); got != "beta" {
        t.Fatalf("BAR=%q, want beta", got)
    }
}

// Later files override earlier ones; variables set beforehand win.
func TestLoadEnvFiles_OverrideOrder(t *testing.T) {
    t.Setenv("K", "")
    os.Unsetenv("K")
    t.Setenv("PRESET", "kept")
    dir := t.TempDir()
    a := filepath.Join(dir, ".env.a")
    b := filepath.Join(dir, ".env.b")
    if err := os.WriteFile(a, []byte("K=first\nPRESET=a\n"), 0o600); err != nil { t.Fatalf("write a: %v", err) }
    if err := os.WriteFile(b, []byte("K=second\n"), 0o600); err != nil { t.Fatalf("write b: %v", err) }

    if err := LoadEnvFiles(a, b); err != nil {
        t.Fatalf("LoadEnvFiles error: %v", err)
    }
    if got := os.Getenv("K"); got != "second" {
        t.Fatalf("override order failed: got %q, want second", got)
    }
    if got := os.Getenv("PRESET"); got != "kept" {
        t.Fatalf("PRESET=%q, want kept", got)
    }
}

func TestApplyEnvToConfig_FromEnv(t *testing.T) {
    t.Setenv("MDMODIFY_INPUT", "docs")
    t.Setenv("MDMODIFY_EXCLUDE_FILES", "docs/drafts/, docs/tmp/")
    t.Setenv("MDMODIFY_INCLUDE_EXTENSIONS", "TableOfContents")
    t.Setenv("MDMODIFY_CONCURRENCY", "3")
    t.Setenv("MDMODIFY_CACHE_MAX_AGE", "36h")
    t.Setenv("MDMODIFY_CHECK_ANCHORS", "yes")

    cfg := Config{InputPath: "explicit.md"}
    ApplyEnvToConfig(&cfg)
    if cfg.InputPath != "explicit.md" {
        t.Fatalf("InputPath=%q, explicit value should win", cfg.InputPath)
    }
    if len(cfg.ExcludeFiles) != 2 || cfg.ExcludeFiles[1] != "docs/tmp/" {
        t.Fatalf("ExcludeFiles=%q", cfg.ExcludeFiles)
    }
    if len(cfg.IncludeExtensions) != 1 || cfg.IncludeExtensions[0] != "TableOfContents" {
        t.Fatalf("IncludeExtensions=%q", cfg.IncludeExtensions)
    }
    if cfg.Concurrency != 3 || cfg.CacheMaxAge != 36*time.Hour || !cfg.CheckAnchors {
        t.Fatalf("unexpected cfg: %+v", cfg)
    }
}
