package app

import (
    "github.com/hyperifyio/mdmodify/internal/anchorcheck"
    "github.com/hyperifyio/mdmodify/internal/deflist"
    "github.com/hyperifyio/mdmodify/internal/plugin"
    "github.com/hyperifyio/mdmodify/internal/toc"
)

// NewExtensions returns a fresh set of the built-in extensions in
// registration order. Each document gets its own set.
func NewExtensions() ([]plugin.Extension, error) {
    return []plugin.Extension{toc.New(), deflist.New(), anchorcheck.New()}, nil
}

// NewRegistry returns a registry of the built-in extensions.
func NewRegistry() (*plugin.Registry, error) {
    exts, err := NewExtensions()
    if err != nil {
        return nil, err
    }
    return plugin.NewRegistry(exts...)
}

// ExtensionFilter derives the active extension filter from cfg. AnchorCheck
// is excluded unless CheckAnchors is set or it is included by name.
func ExtensionFilter(cfg Config) plugin.Filter {
    f := plugin.Filter{
        Include: append([]string{}, cfg.IncludeExtensions...),
        Exclude: append([]string{}, cfg.ExcludeExtensions...),
    }
    if cfg.CheckAnchors {
        if len(f.Include) > 0 {
            f.Include = append(f.Include, anchorcheck.Name)
        }
        return f
    }
    for _, name := range f.Include {
        if name == anchorcheck.Name {
            return f
        }
    }
    f.Exclude = append(f.Exclude, anchorcheck.Name)
    return f
}
