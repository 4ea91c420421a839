// Package roadmap models the ordered preparation modules a learner unlocks
// by passing each module's question set.
package roadmap

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"slices"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultRoadmap []byte

// Module is one step on the roadmap.
type Module struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`

	// SetID is the question set whose pass completes this module.
	SetID string `yaml:"set_id"`

	Prerequisites []string `yaml:"prerequisites,omitempty,flow"`
}

// SetLookup reports whether a question set exists.
type SetLookup func(setID string) bool

// Roadmap is a validated module DAG with precomputed indices.
type Roadmap struct {
	modules    []Module
	byID       map[string]int
	bySet      map[string]int
	dependents map[string][]string
	topoOrder  []string
}

type document struct {
	Modules []Module `yaml:"modules"`
}

// Default returns the embedded roadmap, checked against known sets.
func Default(known SetLookup) (*Roadmap, error) {
	r, err := Parse(defaultRoadmap, known)
	if err != nil {
		return nil, fmt.Errorf("embedded roadmap: %w", err)
	}
	return r, nil
}

// LoadFile reads a roadmap document from path.
func LoadFile(path string, known SetLookup) (*Roadmap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roadmap: %w", err)
	}
	return Parse(data, known)
}

// Parse decodes and validates a YAML roadmap. known may be nil to skip the
// set existence check.
func Parse(data []byte, known SetLookup) (*Roadmap, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode roadmap: %w", err)
	}
	return New(doc.Modules, known)
}

// New validates modules and builds a Roadmap.
func New(modules []Module, known SetLookup) (*Roadmap, error) {
	if err := validateModules(modules, known); err != nil {
		return nil, err
	}
	return build(modules), nil
}

func build(modules []Module) *Roadmap {
	r := &Roadmap{
		modules:    slices.Clone(modules),
		byID:       make(map[string]int, len(modules)),
		bySet:      make(map[string]int, len(modules)),
		dependents: make(map[string][]string),
	}
	for i, m := range r.modules {
		r.byID[m.ID] = i
		if _, dup := r.bySet[m.SetID]; !dup {
			r.bySet[m.SetID] = i
		}
		for _, p := range m.Prerequisites {
			r.dependents[p] = append(r.dependents[p], m.ID)
		}
	}

	// Kahn's algorithm, ties broken by document order.
	inDegree := make(map[string]int, len(r.modules))
	var queue []string
	for _, m := range r.modules {
		inDegree[m.ID] = len(m.Prerequisites)
		if len(m.Prerequisites) == 0 {
			queue = append(queue, m.ID)
		}
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		r.topoOrder = append(r.topoOrder, id)

		deps := slices.Clone(r.dependents[id])
		sort.SliceStable(deps, func(a, b int) bool { return r.byID[deps[a]] < r.byID[deps[b]] })
		for _, d := range deps {
			inDegree[d]--
			if inDegree[d] == 0 {
				queue = append(queue, d)
			}
		}
	}
	return r
}

// Modules returns every module in topological order.
func (r *Roadmap) Modules() []Module {
	out := make([]Module, 0, len(r.topoOrder))
	for _, id := range r.topoOrder {
		out = append(out, r.modules[r.byID[id]])
	}
	return out
}

// Module returns the module with the given ID.
func (r *Roadmap) Module(id string) (Module, bool) {
	i, ok := r.byID[id]
	if !ok {
		return Module{}, false
	}
	return r.modules[i], true
}

// ForSet returns the first module completed by passing setID.
func (r *Roadmap) ForSet(setID string) (Module, bool) {
	i, ok := r.bySet[setID]
	if !ok {
		return Module{}, false
	}
	return r.modules[i], true
}

// Roots returns modules with no prerequisites, in document order.
func (r *Roadmap) Roots() []Module {
	var out []Module
	for _, m := range r.modules {
		if len(m.Prerequisites) == 0 {
			out = append(out, m)
		}
	}
	return out
}

// Dependents returns the IDs of modules that list id as a prerequisite.
func (r *Roadmap) Dependents(id string) []string {
	return slices.Clone(r.dependents[id])
}
