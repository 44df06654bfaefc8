package app

import (
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "regexp"
    "strings"
    "time"

    yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema.
type FileConfig struct {
    Input string `yaml:"input" json:"input"`

    Files struct {
        Include []string `yaml:"include" json:"include"`
        Exclude []string `yaml:"exclude" json:"exclude"`
    } `yaml:"files" json:"files"`

    Extensions struct {
        Include      []string `yaml:"include" json:"include"`
        Exclude      []string `yaml:"exclude" json:"exclude"`
        CheckAnchors bool     `yaml:"checkAnchors" json:"checkAnchors"`
    } `yaml:"extensions" json:"extensions"`

    Concurrency int  `yaml:"concurrency" json:"concurrency"`
    DryRun      bool `yaml:"dryRun" json:"dryRun"`
    Verbose     bool `yaml:"verbose" json:"verbose"`

    Cache struct {
        Dir         string        `yaml:"dir" json:"dir"`
        MaxAge      time.Duration `yaml:"maxAge" json:"maxAge"`
        Clear       bool          `yaml:"clear" json:"clear"`
        StrictPerms bool          `yaml:"strictPerms" json:"strictPerms"`
    } `yaml:"cache" json:"cache"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
    var fc FileConfig
    b, err := os.ReadFile(path)
    if err != nil {
        return fc, err
    }
    switch ext := filepath.Ext(path); ext {
    case ".yaml", ".yml":
        if err := yaml.Unmarshal(b, &fc); err != nil {
            return fc, fmt.Errorf("parse yaml: %w", err)
        }
    case ".json":
        if err := json.Unmarshal(b, &fc); err != nil {
            return fc, fmt.Errorf("parse json: %w", err)
        }
    default:
        // Try YAML then JSON
        if err := yaml.Unmarshal(b, &fc); err != nil {
            if jerr := json.Unmarshal(b, &fc); jerr != nil {
                return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
            }
        }
    }
    return fc, nil
}

// ApplyFileConfig overlays values from FileConfig into cfg for any fields that
// are currently unset/zero in cfg, so explicit flags keep precedence.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
    if cfg == nil { return }

    if cfg.InputPath == "" && fc.Input != "" { cfg.InputPath = fc.Input }

    if len(cfg.IncludeFiles) == 0 && len(fc.Files.Include) > 0 { cfg.IncludeFiles = append([]string{}, fc.Files.Include...) }
    if len(cfg.ExcludeFiles) == 0 && len(fc.Files.Exclude) > 0 { cfg.ExcludeFiles = append([]string{}, fc.Files.Exclude...) }
    if len(cfg.IncludeExtensions) == 0 && len(fc.Extensions.Include) > 0 { cfg.IncludeExtensions = append([]string{}, fc.Extensions.Include...) }
    if len(cfg.ExcludeExtensions) == 0 && len(fc.Extensions.Exclude) > 0 { cfg.ExcludeExtensions = append([]string{}, fc.Extensions.Exclude...) }
    if !cfg.CheckAnchors && fc.Extensions.CheckAnchors { cfg.CheckAnchors = true }

    if cfg.Concurrency == 0 && fc.Concurrency > 0 { cfg.Concurrency = fc.Concurrency }
    if !cfg.DryRun && fc.DryRun { cfg.DryRun = true }
    if !cfg.Verbose && fc.Verbose { cfg.Verbose = true }

    if cfg.CacheDir == "" && fc.Cache.Dir != "" { cfg.CacheDir = fc.Cache.Dir }
    if cfg.CacheMaxAge == 0 && fc.Cache.MaxAge > 0 { cfg.CacheMaxAge = fc.Cache.MaxAge }
    if !cfg.CacheClear && fc.Cache.Clear { cfg.CacheClear = true }
    if !cfg.CacheStrictPerms && fc.Cache.StrictPerms { cfg.CacheStrictPerms = true }
}

// ValidateConfig checks required settings, regular expressions, and extension
// names.
func ValidateConfig(cfg Config) error {
    if strings.TrimSpace(cfg.InputPath) == "" {
        return errors.New("config: input path is required")
    }
    if cfg.Concurrency < 0 {
        return errors.New("config: negative concurrency is not allowed")
    }
    if cfg.CacheMaxAge < 0 {
        return errors.New("config: negative cache max age is not allowed")
    }
    for _, list := range [][]string{cfg.IncludeFiles, cfg.ExcludeFiles} {
        if _, err := compileAll(list); err != nil {
            return fmt.Errorf("config: %w", err)
        }
    }
    reg, err := NewRegistry()
    if err != nil {
        return err
    }
    if err := reg.CheckNames(cfg.IncludeExtensions...); err != nil {
        return fmt.Errorf("config: %w", err)
    }
    if err := reg.CheckNames(cfg.ExcludeExtensions...); err != nil {
        return fmt.Errorf("config: %w", err)
    }
    return nil
}

// compileAll compiles filename expressions anchored at the start of the path.
func compileAll(exprs []string) ([]*regexp.Regexp, error) {
    out := make([]*regexp.Regexp, 0, len(exprs))
    for _, expr := range exprs {
        re, err := regexp.Compile(`^(?:` + expr + `)`)
        if err != nil {
            return nil, fmt.Errorf("'%s' is not a valid regular expression: %w", expr, err)
        }
        out = append(out, re)
    }
    return out, nil
}
