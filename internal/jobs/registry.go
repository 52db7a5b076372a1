// internal/jobs/registry.go
package jobs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Function names the bridge dispatches to. These are stable identifiers; the
// registry maps them to concrete invocation paths.
const (
	FnPullProducts = "pull-products"
	FnPushProducts = "push-products"
)

// Function describes one externally deployed job function.
type Function struct {
	Name string `yaml:"name" json:"name"`
	Path string `yaml:"path" json:"path"`
}

// Registry resolves function names to invocation paths. Builtin defaults
// cover the two product-sync functions; a YAML (or JSON) file can override or
// extend them for non-standard deployments.
type Registry struct {
	byName map[string]Function
}

func DefaultRegistry() *Registry {
	return &Registry{byName: map[string]Function{
		FnPullProducts: {Name: FnPullProducts, Path: "/functions/v1/pull-products"},
		FnPushProducts: {Name: FnPushProducts, Path: "/functions/v1/push-products"},
	}}
}

// LoadRegistry merges function definitions from file on top of the defaults.
// An empty path returns the defaults unchanged.
func LoadRegistry(path string) (*Registry, error) {
	reg := DefaultRegistry()
	if path == "" {
		return reg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var fns []Function
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(b, &fns); err != nil {
			return nil, err
		}
	} else {
		if err := yaml.Unmarshal(b, &fns); err != nil {
			return nil, fmt.Errorf("yaml parse: %w", err)
		}
	}
	for _, f := range fns {
		if f.Name == "" || f.Path == "" {
			return nil, fmt.Errorf("registry entry needs name and path: %+v", f)
		}
		reg.byName[f.Name] = f
	}
	return reg, nil
}

func (r *Registry) Lookup(name string) (Function, bool) {
	f, ok := r.byName[name]
	return f, ok
}
