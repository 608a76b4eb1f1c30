// internal/schema/registry.go
package schema

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/metadatalab/revisor/internal/types"
)

/*
 * Registry of named schema documents.
 *
 * Schemas ship embedded with the binary, one document per collection name,
 * as JSON or YAML. Documents are parsed on first resolution and cached;
 * the cache is never invalidated because embedded content cannot change at
 * runtime.
 */

//go:embed schemas
var schemaFS embed.FS

// Registry resolves collection names to parsed schema trees.
type Registry struct {
	mu    sync.Mutex
	cache map[string]*Node
}

// NewRegistry returns a registry over the embedded schema documents.
func NewRegistry() *Registry {
	return &Registry{cache: make(map[string]*Node)}
}

// Resolve returns the schema tree for a collection name.
// Returns ErrUnknownSchema when no document is embedded under that name.
func (r *Registry) Resolve(name string) (*Node, error) {
	// Names map to embedded filenames; reject separators so a crafted name
	// cannot address files outside the schemas directory.
	if name == "" || strings.ContainsAny(name, "/\\.") {
		return nil, fmt.Errorf("schema name %q: %w", name, types.ErrUnknownSchema)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if node, ok := r.cache[name]; ok {
		return node, nil
	}

	node, err := load(name)
	if err != nil {
		return nil, err
	}
	r.cache[name] = node
	return node, nil
}

// Names lists the collection names of all embedded schema documents.
func (r *Registry) Names() []string {
	entries, err := fs.ReadDir(schemaFS, "schemas")
	if err != nil {
		return nil
	}
	var names []string
	for _, entry := range entries {
		base := entry.Name()
		if ext := extensionOf(base); ext != "" {
			names = append(names, strings.TrimSuffix(base, ext))
		}
	}
	sort.Strings(names)
	return names
}

// load reads and parses one schema document, trying JSON first, then YAML.
func load(name string) (*Node, error) {
	if data, err := schemaFS.ReadFile("schemas/" + name + ".json"); err == nil {
		var node Node
		if err := json.Unmarshal(data, &node); err != nil {
			return nil, fmt.Errorf("parsing schema %s: %w", name, err)
		}
		return &node, nil
	}
	if data, err := schemaFS.ReadFile("schemas/" + name + ".yaml"); err == nil {
		var node Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return nil, fmt.Errorf("parsing schema %s: %w", name, err)
		}
		return &node, nil
	}
	return nil, fmt.Errorf("schema name %q: %w", name, types.ErrUnknownSchema)
}

// extensionOf returns the recognized schema file extension, or "".
func extensionOf(filename string) string {
	for _, ext := range []string{".json", ".yaml"} {
		if strings.HasSuffix(filename, ext) {
			return ext
		}
	}
	return ""
}
