package app

import (
    "os"
    "strconv"
    "strings"
    "time"
)

// splitList parses a comma-separated environment value.
func splitList(v string) []string {
    var out []string
    for _, p := range strings.Split(v, ",") {
        if s := strings.TrimSpace(p); s != "" {
            out = append(out, s)
        }
    }
    return out
}

// ApplyEnvToConfig populates unset fields of cfg from MDMODIFY_* environment
// variables. Explicit cfg values take precedence over env.
func ApplyEnvToConfig(cfg *Config) {
    if cfg == nil { return }

    if cfg.InputPath == "" {
        cfg.InputPath = os.Getenv("MDMODIFY_INPUT")
    }
    if len(cfg.IncludeFiles) == 0 {
        cfg.IncludeFiles = splitList(os.Getenv("MDMODIFY_INCLUDE_FILES"))
    }
    if len(cfg.ExcludeFiles) == 0 {
        cfg.ExcludeFiles = splitList(os.Getenv("MDMODIFY_EXCLUDE_FILES"))
    }
    if len(cfg.IncludeExtensions) == 0 {
        cfg.IncludeExtensions = splitList(os.Getenv("MDMODIFY_INCLUDE_EXTENSIONS"))
    }
    if len(cfg.ExcludeExtensions) == 0 {
        cfg.ExcludeExtensions = splitList(os.Getenv("MDMODIFY_EXCLUDE_EXTENSIONS"))
    }
    if cfg.CacheDir == "" {
        cfg.CacheDir = os.Getenv("MDMODIFY_CACHE_DIR")
    }
    if cfg.Concurrency == 0 {
        if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv("MDMODIFY_CONCURRENCY"))); err == nil && n > 0 {
            cfg.Concurrency = n
        }
    }
    if cfg.CacheMaxAge == 0 {
        if s := os.Getenv("MDMODIFY_CACHE_MAX_AGE"); s != "" {
            if d, err := time.ParseDuration(s); err == nil {
                cfg.CacheMaxAge = d
            }
        }
    }

    // Booleans
    setBool := func(dst *bool, envKey string) {
        if *dst { return }
        if s := strings.ToLower(strings.TrimSpace(os.Getenv(envKey))); s != "" {
            if s == "1" || s == "true" || s == "yes" || s == "on" {
                *dst = true
            }
        }
    }
    setBool(&cfg.CheckAnchors, "MDMODIFY_CHECK_ANCHORS")
    setBool(&cfg.DryRun, "MDMODIFY_DRY_RUN")
    setBool(&cfg.Verbose, "MDMODIFY_VERBOSE")
    setBool(&cfg.CacheClear, "MDMODIFY_CACHE_CLEAR")
    setBool(&cfg.CacheStrictPerms, "MDMODIFY_CACHE_STRICT_PERMS")
}
