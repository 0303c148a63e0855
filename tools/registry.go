// Package tools provides tool management and registration.
//
// Information Hiding:
// - Tool storage and lookup implementation hidden
// - Alias resolution hidden behind Get
// - Registration and discovery mechanisms abstracted

package tools

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry manages available tools and their alias names.
type Registry struct {
	mu      sync.RWMutex
	tools   map[string]Tool
	aliases map[string]string
}

// NewRegistry creates a new empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools:   make(map[string]Tool),
		aliases: make(map[string]string),
	}
}

// Register adds a tool under its name and every alias in its metadata.
// Returns error if any of those names is already taken.
func (r *Registry) Register(tool Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	meta := tool.Metadata()
	if meta.Name == "" {
		return fmt.Errorf("tool has no name")
	}
	names := append([]string{meta.Name}, meta.Aliases...)
	for _, name := range names {
		if r.takenLocked(name) {
			return fmt.Errorf("tool '%s' already registered", name)
		}
	}

	r.tools[meta.Name] = tool
	for _, alias := range meta.Aliases {
		r.aliases[alias] = meta.Name
	}
	return nil
}

func (r *Registry) takenLocked(name string) bool {
	if _, exists := r.tools[name]; exists {
		return true
	}
	_, exists := r.aliases[name]
	return exists
}

// Get returns a tool by name or alias.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if canonical, ok := r.aliases[name]; ok {
		name = canonical
	}
	tool, exists := r.tools[name]
	return tool, exists
}

// Has checks if a name or alias resolves to a tool.
func (r *Registry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Names returns all registered tool names in sorted order. Aliases are not included.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns metadata for all registered tools, sorted by name.
func (r *Registry) List() []ToolMetadata {
	names := r.Names()

	r.mu.RLock()
	defer r.mu.RUnlock()

	metadata := make([]ToolMetadata, 0, len(names))
	for _, name := range names {
		metadata = append(metadata, r.tools[name].Metadata())
	}
	return metadata
}

// Description returns a formatted, human-readable listing of all tools.
func (r *Registry) Description() string {
	var descriptions []string
	for _, meta := range r.List() {
		var params []string
		for _, p := range meta.Parameters {
			required := "optional"
			if p.Required {
				required = "required"
			}
			params = append(params, fmt.Sprintf("  - %s (%s): %s [%s]",
				p.Name, p.ParamType, p.Description, required))
		}

		paramStr := "  (none)"
		if len(params) > 0 {
			paramStr = strings.Join(params, "\n")
		}
		entry := fmt.Sprintf("Tool: %s\nDescription: %s\nParameters:\n%s",
			meta.Name, meta.Description, paramStr)
		if len(meta.Aliases) > 0 {
			entry += "\nAliases: " + strings.Join(meta.Aliases, ", ")
		}
		descriptions = append(descriptions, entry)
	}

	return strings.Join(descriptions, "\n\n")
}

// Deps are the collaborators the default tools need.
type Deps struct {
	Upstream    Upstream
	Interpreter Interpreter
	Composer    Composer
	// Region is the trending region used when a call names none.
	Region     string
	HistoryMax int
	LikedMax   int
}

// WithDefaults creates a registry with the gateway's tools.
// Returns error if any tool registration fails.
func WithDefaults(deps Deps) (*Registry, error) {
	if deps.Upstream == nil {
		return nil, fmt.Errorf("upstream client is required")
	}
	registry := NewRegistry()

	tools := []Tool{
		NewSearchTool(deps.Upstream),
		NewNaturalSearchTool(deps.Upstream, deps.Interpreter),
		NewTrendingTool(deps.Upstream, deps.Region),
		NewLikeVideoTool(deps.Upstream),
		NewActivitySummaryTool(deps.Upstream, deps.Composer, deps.HistoryMax, deps.LikedMax),
	}

	for _, t := range tools {
		if err := registry.Register(t); err != nil {
			return nil, fmt.Errorf("failed to register default tools: %w", err)
		}
	}

	return registry, nil
}
