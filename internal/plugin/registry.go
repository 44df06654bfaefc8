package plugin

import (
    "fmt"
    "regexp"
    "strings"
)

// Registry holds extensions keyed by name in registration order. Order is
// significant: every pipeline stage visits extensions in this order.
type Registry struct {
    order     []string
    nameToExt map[string]Extension
}

// NewRegistry creates a registry holding the given extensions.
func NewRegistry(exts ...Extension) (*Registry, error) {
    r := &Registry{nameToExt: make(map[string]Extension)}
    for _, ext := range exts {
        if err := r.Register(ext); err != nil {
            return nil, err
        }
    }
    return r, nil
}

var nameRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// Register appends an extension. Names must be identifiers and unique.
func (r *Registry) Register(ext Extension) error {
    if ext == nil {
        return fmt.Errorf("nil extension")
    }
    name := ext.Name()
    if !nameRe.MatchString(name) {
        return fmt.Errorf("invalid extension name %q: must start with a letter and contain only letters, digits, or underscores", name)
    }
    if prev, ok := r.nameToExt[name]; ok {
        return fmt.Errorf("extension %q registered twice (%T and %T)", name, prev, ext)
    }
    r.nameToExt[name] = ext
    r.order = append(r.order, name)
    return nil
}

// Get returns the extension registered under name.
func (r *Registry) Get(name string) (Extension, bool) {
    ext, ok := r.nameToExt[name]
    return ext, ok
}

// Names returns extension names in registration order.
func (r *Registry) Names() []string {
    out := make([]string, len(r.order))
    copy(out, r.order)
    return out
}

// Extensions returns the extensions in registration order.
func (r *Registry) Extensions() []Extension {
    out := make([]Extension, 0, len(r.order))
    for _, name := range r.order {
        out = append(out, r.nameToExt[name])
    }
    return out
}

// Meta is a listing entry for an extension.
type Meta struct {
    Name        string   `json:"name"`
    Description string   `json:"description,omitempty"`
    Stages      []string `json:"stages"`
}

// Catalog describes the registered extensions in registration order.
func (r *Registry) Catalog() []Meta {
    out := make([]Meta, 0, len(r.order))
    for _, ext := range r.Extensions() {
        m := Meta{Name: ext.Name()}
        if d, ok := ext.(Describer); ok {
            m.Description = d.Description()
        }
        if _, ok := ext.(Preprocessor); ok {
            m.Stages = append(m.Stages, "preprocess")
        }
        m.Stages = append(m.Stages, "execute")
        if _, ok := ext.(Postprocessor); ok {
            m.Stages = append(m.Stages, "postprocess")
        }
        if _, ok := ext.(Finalizer); ok {
            m.Stages = append(m.Stages, "finalize")
        }
        out = append(out, m)
    }
    return out
}

// CheckNames fails on the first name that is not registered.
func (r *Registry) CheckNames(names ...string) error {
    for _, name := range names {
        if _, ok := r.nameToExt[name]; !ok {
            return fmt.Errorf("'%s' is not a valid extension name (valid names: %s)", name, strings.Join(r.order, ", "))
        }
    }
    return nil
}

// Filter selects the active extensions of a run. An extension is active
// unless it is excluded by name or an include list is set that omits it.
type Filter struct {
    Include []string
    Exclude []string
}

// Active reports whether the named extension takes part in a run.
func (f Filter) Active(name string) bool {
    for _, n := range f.Exclude {
        if n == name {
            return false
        }
    }
    if len(f.Include) == 0 {
        return true
    }
    for _, n := range f.Include {
        if n == name {
            return true
        }
    }
    return false
}
